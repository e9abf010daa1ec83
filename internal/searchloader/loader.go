// Package searchloader keeps a paged, newest-first list of blobs matching a search query.
//
// A new query is validated speculatively: its first page (and, optionally, its total count) is fetched before it replaces the active query, so a query the
// repository rejects leaves the previous results on screen. Later pages are fetched with LoadMore using the last item's id as the cursor. Results that arrive
// for a list that has since been replaced are dropped with ErrStale.
package searchloader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/codalotl/blobdiff/internal/blobstore"
	"github.com/codalotl/blobdiff/internal/logging"
	"golang.org/x/sync/errgroup"
)

var (
	ErrStale = errors.New("searchloader: result superseded by a newer query")
	ErrBusy  = errors.New("searchloader: a page load is already in flight")
)

// Source lists blobs. *blobstore.Client satisfies it.
type Source interface {
	List(ctx context.Context, query, olderThan string) ([]blobstore.Blob, error)
	Count(ctx context.Context, query string) (int, error)
}

// Options configures a Loader.
type Options struct {
	// CountPreflight fetches the total match count together with the first page. A failing count rejects the query.
	CountPreflight bool
}

// Snapshot is a consistent copy of the loader's state.
type Snapshot struct {
	Query     string
	Items     []blobstore.Blob
	Count     int // -1 when unknown
	Exhausted bool
	Loading   bool
}

// Loader is safe for concurrent use.
type Loader struct {
	src  Source
	opts Options

	mu        sync.Mutex
	submitGen uint64 // bumped by every Submit
	listGen   uint64 // bumped whenever the active list is replaced
	active    bool
	query     string
	items     []blobstore.Blob
	count     int
	exhausted bool
	loading   bool

	cancelSubmit context.CancelFunc // in-flight Submit, if any
	cancelLoad   context.CancelFunc // in-flight LoadMore, if any
}

// New returns a Loader with no active query.
func New(src Source, opts Options) *Loader {
	return &Loader{src: src, opts: opts, count: -1}
}

// Submit validates query by fetching its first page and makes it the active query. Any in-flight request is canceled. On error the previously active query
// and its items remain. If another Submit starts before this one finishes, this one returns ErrStale and changes nothing.
func (l *Loader) Submit(ctx context.Context, query string) error {
	l.mu.Lock()
	l.submitGen++
	gen := l.submitGen
	for _, c := range []context.CancelFunc{l.cancelSubmit, l.cancelLoad} {
		if c != nil {
			c()
		}
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancelSubmit = cancel
	l.cancelLoad = nil
	l.mu.Unlock()
	defer cancel()

	logger := logging.FromContext(ctx)

	var page []blobstore.Blob
	count := -1
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = l.src.List(gctx, query, "")
		return err
	})
	if l.opts.CountPreflight {
		g.Go(func() error {
			var err error
			count, err = l.src.Count(gctx, query)
			return err
		})
	}
	err := g.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.submitGen != gen {
		return ErrStale
	}
	l.cancelSubmit = nil
	if err != nil {
		logger.Debug("query rejected", logging.FieldQuery, query, logging.FieldError, err)
		return fmt.Errorf("search %q: %w", query, err)
	}

	l.listGen++
	l.active = true
	l.query = query
	l.items = page
	l.count = count
	l.exhausted = len(page) == 0
	l.loading = false
	logger.Debug("query accepted", logging.FieldQuery, query, logging.FieldItems, len(page))
	return nil
}

// LoadMore fetches the page after the last loaded item and appends it. It is a no-op when there is no active query or the list is exhausted, and returns ErrBusy
// while another LoadMore is in flight. An empty page marks the list exhausted.
func (l *Loader) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if !l.active || l.exhausted {
		l.mu.Unlock()
		return nil
	}
	if l.loading {
		l.mu.Unlock()
		return ErrBusy
	}
	gen := l.listGen
	query := l.query
	olderThan := ""
	if n := len(l.items); n > 0 {
		olderThan = l.items[n-1].ID
	}
	l.loading = true
	ctx, cancel := context.WithCancel(ctx)
	l.cancelLoad = cancel
	l.mu.Unlock()
	defer cancel()

	page, err := l.src.List(ctx, query, olderThan)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listGen != gen {
		return ErrStale
	}
	l.loading = false
	l.cancelLoad = nil
	if err != nil {
		return fmt.Errorf("search %q: load more: %w", query, err)
	}
	if len(page) == 0 {
		l.exhausted = true
		return nil
	}
	l.items = append(l.items, page...)
	return nil
}

// Snapshot returns a copy of the current state.
func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]blobstore.Blob, len(l.items))
	copy(items, l.items)
	return Snapshot{
		Query:     l.query,
		Items:     items,
		Count:     l.count,
		Exhausted: l.exhausted,
		Loading:   l.loading,
	}
}
