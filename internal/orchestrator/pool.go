// Package orchestrator drives the thirteen-phase search pipeline of spec
// §4.3: query analysis, adapter fan-out, deduplication, ranking,
// reliability scoring, citation expansion, full-text resolution, and
// multi-turn reasoning.
//
// Grounded on the teacher repository's internal/providers.Manager.searchMerge,
// which fans out to every configured provider on an unbounded goroutine
// per provider and merges with a sync.WaitGroup. pool.go generalizes that
// into the bounded worker pool spec §5 requires (default ~10 workers,
// cooperative backpressure via a buffered semaphore) while keeping the
// same "submit everything in the phase, wait for the phase" shape.
package orchestrator

import (
	"context"
	"sync"
)

// DefaultWorkerCount is spec §5's default pool size.
const DefaultWorkerCount = 10

// pool runs units of work with bounded concurrency and collects every
// result before returning, matching spec §5's "submitted together,
// awaited together" phase semantics.
type pool struct {
	sem chan struct{}
}

func newPool(workers int) *pool {
	if workers <= 0 {
		workers = DefaultWorkerCount
	}
	return &pool{sem: make(chan struct{}, workers)}
}

// run executes fn once per item with bounded concurrency, respecting ctx
// cancellation (a phase deadline firing mid-flight), and returns results
// in the same order as items — order doesn't carry fan-out semantics but
// makes the caller's per-adapter bookkeeping deterministic.
func runPool[T, R any](ctx context.Context, p *pool, items []T, fn func(context.Context, T) R) []R {
	results := make([]R, len(items))
	var wg sync.WaitGroup

	for i, item := range items {
		select {
		case <-ctx.Done():
			continue
		default:
		}

		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()

			select {
			case p.sem <- struct{}{}:
				defer func() { <-p.sem }()
			case <-ctx.Done():
				return
			}

			select {
			case <-ctx.Done():
				return
			default:
			}

			results[i] = fn(ctx, item)
		}(i, item)
	}

	wg.Wait()
	return results
}
