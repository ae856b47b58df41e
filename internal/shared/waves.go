package shared

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// InWaves runs fn for indices 0..n-1 in waves of at most limit concurrent
// calls. A wave is a barrier: every call in wave w settles before wave w+1
// starts, which bounds peak in-flight work (open sockets, spawned processes)
// to limit.
//
// fn is expected to capture its own failures and return nil; a non-nil return
// (normally context cancellation) stops the remaining waves.
func InWaves(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) error) error {
	if limit <= 0 {
		limit = 1
	}
	for start := 0; start < n; start += limit {
		end := min(start+limit, n)

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error { return fn(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}
