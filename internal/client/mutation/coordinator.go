// Package mutation coordinates create/update/delete operations: in-flight
// state, success effects (cache invalidation/removal, navigation), and
// error retention for display. All mutations are pessimistic: the UI
// reflects server state only after the server confirms.
package mutation

import (
	"context"
	"sync"
)

// Effect is a side effect run after a successful mutation, typically cache
// invalidation for the list key, removal of the detail key, or navigation.
type Effect func(ctx context.Context)

// Coordinator executes one kind of mutation. It is single-flight by
// convention: preventing a second call while one is pending is the
// caller's job (disabled UI state); the coordinator neither queues nor
// rejects overlapping calls.
type Coordinator struct {
	mu      sync.Mutex
	pending bool
	err     error

	onSuccess []Effect
}

// NewCoordinator builds a coordinator with the given success effects. The
// effects run in order after every successful Mutate.
func NewCoordinator(onSuccess ...Effect) *Coordinator {
	return &Coordinator{onSuccess: onSuccess}
}

// Mutate runs op. On success the effect list runs and any previous error is
// cleared; on failure the error is retained on the coordinator for display
// and also returned. Errors are never swallowed.
func (c *Coordinator) Mutate(ctx context.Context, op func(ctx context.Context) error) error {
	c.mu.Lock()
	c.pending = true
	c.err = nil
	c.mu.Unlock()

	err := op(ctx)

	c.mu.Lock()
	c.pending = false
	c.err = err
	c.mu.Unlock()

	if err != nil {
		return err
	}
	for _, effect := range c.onSuccess {
		effect(ctx)
	}
	return nil
}

// Pending reports whether a mutation is currently in flight.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Err returns the error of the most recent mutation, or nil.
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
