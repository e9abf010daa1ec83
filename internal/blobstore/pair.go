package blobstore

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FetchPair fetches the current and previous revisions concurrently. If either fetch fails, the other is canceled and the first error is returned.
func FetchPair(ctx context.Context, f Fetcher, currentID, previousID string) (current, previous Blob, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := f.Fetch(gctx, currentID)
		current = b
		return err
	})
	g.Go(func() error {
		b, err := f.Fetch(gctx, previousID)
		previous = b
		return err
	})
	if err := g.Wait(); err != nil {
		return Blob{}, Blob{}, err
	}
	return current, previous, nil
}
