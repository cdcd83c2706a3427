package solver

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// parallelFor runs fn over [0, n) split into at most workers chunks of at
// least minChunk items. The first error cancels the remaining chunks.
func parallelFor(ctx context.Context, n, minChunk, workers int, fn func(start, end int) error) error {
	if n <= minChunk || workers <= 1 {
		return fn(0, n)
	}

	chunks := workers
	if n/minChunk < chunks {
		chunks = n / minChunk
	}
	if chunks < 1 {
		chunks = 1
	}
	chunkSize := (n + chunks - 1) / chunks

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += chunkSize {
		start, end := start, min(start+chunkSize, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(start, end)
		})
	}
	return g.Wait()
}
