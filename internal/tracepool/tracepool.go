// Package tracepool bounds how many klve.Record invocations run at once.
// Grounded on server/vm_worker.go's "serialize access through a worker"
// shape, generalized from a single-owner goroutine (the Maggie interpreter
// is single-threaded, so vm_worker.go allows exactly one in flight) to an
// N-wide weighted semaphore, since klve.Record holds no state shared across
// calls and has no single-owner affinity to preserve.
package tracepool

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/klve/jstrace/pkg/klve"
)

// Pool admits at most n concurrent Record calls; further callers block in
// Submit until a slot frees up or ctx is canceled.
type Pool struct {
	sem *semaphore.Weighted
}

// New creates a Pool that allows up to n concurrent Record calls.
func New(n int64) *Pool {
	return &Pool{sem: semaphore.NewWeighted(n)}
}

// Submit acquires a slot, starts klve.Record, and holds the slot until
// Record's own goroutine actually delivers a result — releasing it the
// moment Record itself returns would defeat the pool, since Record hands
// execution off to a goroutine and returns almost immediately.
func (p *Pool) Submit(ctx context.Context, source string, cfg klve.Config) (<-chan klve.RecordResult, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	ch, err := klve.Record(ctx, source, cfg)
	if err != nil {
		p.sem.Release(1)
		return nil, err
	}

	out := make(chan klve.RecordResult, 1)
	go func() {
		defer p.sem.Release(1)
		defer close(out)
		out <- <-ch
	}()
	return out, nil
}
