// Package workerpool runs bounded fan-out over a slice of work items.
package workerpool

import (
	"context"
	"sync"
)

// Process calls process for every item on at most workerCount goroutines.
// The first error cancels the remaining work and is returned.
func Process[T any](
	ctx context.Context,
	workerCount int,
	items []T,
	process func(context.Context, T) error,
) error {
	if len(items) == 0 {
		return ctx.Err()
	}
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(items) {
		workerCount = len(items)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	tasks := make(chan T)
	var wg sync.WaitGroup
	for range workerCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range tasks {
				if ctx.Err() != nil {
					continue
				}
				if err := process(ctx, item); err != nil {
					cancel(err)
				}
			}
		}()
	}

feed:
	for _, item := range items {
		select {
		case <-ctx.Done():
			break feed
		case tasks <- item:
		}
	}
	close(tasks)
	wg.Wait()

	return context.Cause(ctx)
}

// Collect runs fetch for every item on at most workerCount workers and
// returns the results in item order. The first error cancels the rest.
func Collect[T, R any](
	ctx context.Context,
	workerCount int,
	items []T,
	fetch func(context.Context, T) (R, error),
) ([]R, error) {
	positions := make([]int, len(items))
	for i := range positions {
		positions[i] = i
	}

	results := make([]R, len(items))
	err := Process(ctx, workerCount, positions, func(ctx context.Context, pos int) error {
		r, err := fetch(ctx, items[pos])
		if err != nil {
			return err
		}
		results[pos] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
