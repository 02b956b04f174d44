// Package fanout runs a function over a slice with bounded concurrency and
// returns per-item results in input order.
package fanout

import (
	"context"
	"sync"
)

// Result is the outcome for one item: Value on success, Err otherwise.
type Result[R any] struct {
	Value R
	Err   error
}

// Run calls fn for every item using at most maxWorkers goroutines at a
// time (maxWorkers < 1 means one). An item that is still waiting for a
// worker when ctx is done records ctx.Err() without calling fn; a free
// worker is always used even if ctx is already done, leaving cancellation
// to fn. Run blocks until every item has a result.
func Run[T, R any](ctx context.Context, maxWorkers int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	if len(items) == 0 {
		return results
	}

	sem := make(chan struct{}, max(maxWorkers, 1))
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Go(func() {
			if !acquire(ctx, sem) {
				results[i] = Result[R]{Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			v, err := fn(ctx, item)
			results[i] = Result[R]{Value: v, Err: err}
		})
	}

	wg.Wait()
	return results
}

func acquire(ctx context.Context, sem chan struct{}) bool {
	select {
	case sem <- struct{}{}:
		return true
	default:
	}

	select {
	case sem <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}
