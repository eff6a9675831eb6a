// Package concurrency bounds how many documents the service edits at once.
// Document editing holds a whole virtual DOM in memory for the request's
// duration, so the service caps concurrent edits the same way the teacher
// caps concurrent supervised processes: a fixed-capacity pool callers must
// acquire before starting work and release when done.
package concurrency

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// Gate is a FIFO-fair bounded semaphore over golang.org/x/sync/semaphore.
// Unlike a raw semaphore.Weighted, Gate remembers its configured limit so
// callers can report its capacity; it does not expose current usage.
type Gate struct {
	sem   *semaphore.Weighted
	limit int64
}

// New returns a Gate that admits at most limit concurrent holders. limit
// must be positive; config.Load already enforces this before a Gate is
// constructed.
func New(limit int64) *Gate {
	return &Gate{sem: semaphore.NewWeighted(limit), limit: limit}
}

// Acquire blocks until a slot is free or ctx is done, whichever comes
// first. On success the caller must call Release exactly once.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("concurrency: acquire slot: %w", err)
	}
	return nil
}

// TryAcquire attempts a non-blocking acquire, returning false immediately
// if the gate is at capacity.
func (g *Gate) TryAcquire() bool {
	return g.sem.TryAcquire(1)
}

// Release frees a slot previously obtained via Acquire or TryAcquire.
// Releasing without a matching acquire is a caller bug, same as the
// underlying semaphore.Weighted.
func (g *Gate) Release() {
	g.sem.Release(1)
}

// Limit returns the configured concurrency cap.
func (g *Gate) Limit() int64 {
	return g.limit
}
