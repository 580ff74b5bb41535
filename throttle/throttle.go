// Package throttle bounds concurrent in-flight operations per logical key.
package throttle

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultLimit is the per-key concurrency bound used when none is given.
const DefaultLimit = 3

// Throttle limits the number of concurrently outstanding operations per
// key. Each key gets its own semaphore, so keys do not contend with each
// other. Callers at the bound block until a slot frees; no timeout is
// imposed here, callers control cancellation through the context.
type Throttle struct {
	mu    sync.Mutex
	sems  map[string]*semaphore.Weighted
	limit int64
}

// New creates a Throttle with the given per-key bound.
// Bounds below 1 fall back to DefaultLimit.
func New(limit int) *Throttle {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Throttle{
		sems:  make(map[string]*semaphore.Weighted),
		limit: int64(limit),
	}
}

// Do runs op once a slot for key is available, propagating op's error
// unchanged. The slot is released when op returns, even on error, so one
// failing operation never starves others.
func (t *Throttle) Do(ctx context.Context, key string, op func(context.Context) error) error {
	sem := t.sem(key)
	if err := sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer sem.Release(1)
	return op(ctx)
}

func (t *Throttle) sem(key string) *semaphore.Weighted {
	t.mu.Lock()
	defer t.mu.Unlock()

	sem, ok := t.sems[key]
	if !ok {
		sem = semaphore.NewWeighted(t.limit)
		t.sems[key] = sem
	}
	return sem
}

// DoValue is like Throttle.Do for operations that return a value.
func DoValue[T any](ctx context.Context, t *Throttle, key string, op func(context.Context) (T, error)) (T, error) {
	var out T
	err := t.Do(ctx, key, func(ctx context.Context) error {
		var opErr error
		out, opErr = op(ctx)
		return opErr
	})
	return out, err
}
