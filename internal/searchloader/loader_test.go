package searchloader

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/codalotl/blobdiff/internal/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves pages of two items from a fixed list per query. A query named "bad" is rejected. When gate is non-nil, List blocks until it receives
// from gate or the context is canceled.
type fakeSource struct {
	mu       sync.Mutex
	data     map[string][]string
	calls    []string
	gate     chan struct{}
	started  chan struct{}
	countErr error
}

func (s *fakeSource) List(ctx context.Context, query, olderThan string) ([]blobstore.Blob, error) {
	s.mu.Lock()
	s.calls = append(s.calls, query+"|"+olderThan)
	gate, started := s.gate, s.started
	s.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if query == "bad" {
		return nil, blobstore.ErrInvalidQuery
	}

	ids := s.data[query]
	start := 0
	if olderThan != "" {
		for i, id := range ids {
			if id == olderThan {
				start = i + 1
			}
		}
	}
	end := min(start+2, len(ids))
	var page []blobstore.Blob
	for _, id := range ids[start:end] {
		page = append(page, blobstore.Blob{ID: id})
	}
	return page, nil
}

func (s *fakeSource) Count(_ context.Context, query string) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return len(s.data[query]), nil
}

func ids(items []blobstore.Blob) []string {
	out := []string{}
	for _, b := range items {
		out = append(out, b.ID)
	}
	return out
}

func newSource() *fakeSource {
	five := []string{}
	for i := 5; i >= 1; i-- {
		five = append(five, "n"+strconv.Itoa(i))
	}
	return &fakeSource{data: map[string][]string{
		"notes": five,
		"other": {"o1"},
	}}
}

func TestLoader_Paging(t *testing.T) {
	src := newSource()
	l := New(src, Options{CountPreflight: true})
	ctx := context.Background()

	// No active query yet:
	require.NoError(t, l.LoadMore(ctx))
	assert.Equal(t, -1, l.Snapshot().Count)

	require.NoError(t, l.Submit(ctx, "notes"))
	snap := l.Snapshot()
	assert.Equal(t, "notes", snap.Query)
	assert.Equal(t, []string{"n5", "n4"}, ids(snap.Items))
	assert.Equal(t, 5, snap.Count)
	assert.False(t, snap.Exhausted)

	require.NoError(t, l.LoadMore(ctx))
	require.NoError(t, l.LoadMore(ctx))
	assert.Equal(t, []string{"n5", "n4", "n3", "n2", "n1"}, ids(l.Snapshot().Items))
	assert.False(t, l.Snapshot().Exhausted)

	require.NoError(t, l.LoadMore(ctx))
	assert.True(t, l.Snapshot().Exhausted)

	// Exhausted lists do not hit the source again:
	calls := len(src.calls)
	require.NoError(t, l.LoadMore(ctx))
	assert.Len(t, src.calls, calls)
	assert.Equal(t, "notes|n1", src.calls[calls-1])
}

func TestLoader_RejectedQueryKeepsPrevious(t *testing.T) {
	l := New(newSource(), Options{})
	ctx := context.Background()

	require.NoError(t, l.Submit(ctx, "notes"))
	err := l.Submit(ctx, "bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, blobstore.ErrInvalidQuery)

	snap := l.Snapshot()
	assert.Equal(t, "notes", snap.Query)
	assert.Equal(t, []string{"n5", "n4"}, ids(snap.Items))
	assert.Equal(t, -1, snap.Count)
}

func TestLoader_CountPreflightRejects(t *testing.T) {
	src := newSource()
	src.countErr = errors.New("count unavailable")
	l := New(src, Options{CountPreflight: true})

	assert.Error(t, l.Submit(context.Background(), "notes"))
	assert.Equal(t, "", l.Snapshot().Query)
}

func TestLoader_EmptyFirstPage(t *testing.T) {
	l := New(newSource(), Options{})
	require.NoError(t, l.Submit(context.Background(), "nothing"))
	assert.True(t, l.Snapshot().Exhausted)
	assert.Empty(t, l.Snapshot().Items)
}

func TestLoader_SubmitSupersedesLoadMore(t *testing.T) {
	src := newSource()
	l := New(src, Options{})
	ctx := context.Background()
	require.NoError(t, l.Submit(ctx, "notes"))

	src.mu.Lock()
	src.gate = make(chan struct{})
	src.started = make(chan struct{}, 4)
	src.mu.Unlock()

	loadErr := make(chan error, 1)
	go func() { loadErr <- l.LoadMore(ctx) }()
	<-src.started

	assert.ErrorIs(t, l.LoadMore(ctx), ErrBusy)

	submitErr := make(chan error, 1)
	go func() { submitErr <- l.Submit(ctx, "other") }()
	<-src.started

	// Submit canceled the page load; the old query is still active until the new one validates:
	err := <-loadErr
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "notes", l.Snapshot().Query)

	close(src.gate)
	require.NoError(t, <-submitErr)

	snap := l.Snapshot()
	assert.Equal(t, "other", snap.Query)
	assert.Equal(t, []string{"o1"}, ids(snap.Items))
	assert.False(t, snap.Loading)
}

func TestLoader_SubmitSupersedesSubmit(t *testing.T) {
	src := newSource()
	src.gate = make(chan struct{})
	src.started = make(chan struct{}, 4)
	l := New(src, Options{})
	ctx := context.Background()

	first := make(chan error, 1)
	go func() { first <- l.Submit(ctx, "notes") }()
	<-src.started

	second := make(chan error, 1)
	go func() { second <- l.Submit(ctx, "other") }()
	<-src.started

	assert.ErrorIs(t, <-first, ErrStale)

	close(src.gate)
	require.NoError(t, <-second)
	assert.Equal(t, "other", l.Snapshot().Query)
}

func TestLoader_StaleLoadMoreDropped(t *testing.T) {
	src := newSource()
	l := New(src, Options{})
	ctx := context.Background()
	require.NoError(t, l.Submit(ctx, "notes"))

	// A LoadMore whose list is replaced while the request is in flight must not append:
	src.mu.Lock()
	src.started = make(chan struct{}, 1)
	src.gate = make(chan struct{})
	src.mu.Unlock()

	loadErr := make(chan error, 1)
	go func() { loadErr <- l.LoadMore(context.WithoutCancel(ctx)) }()
	<-src.started

	// Commit a new list directly, as a Submit that finished first would:
	l.mu.Lock()
	l.listGen++
	l.query = "other"
	l.items = []blobstore.Blob{{ID: "o1"}}
	l.loading = false
	l.mu.Unlock()

	close(src.gate)
	assert.ErrorIs(t, <-loadErr, ErrStale)
	assert.Equal(t, []string{"o1"}, ids(l.Snapshot().Items))
}
