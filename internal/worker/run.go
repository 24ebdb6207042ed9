package worker

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Task is a long-running component that returns when ctx is done.
type Task func(ctx context.Context) error

// Run starts every task and waits for all of them. The first failure
// cancels the rest. Cancellation of the parent context is not an error.
func Run(ctx context.Context, tasks ...Task) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error {
			err := task(gctx)
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}
