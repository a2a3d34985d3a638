package concurrency

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter bounds the number of simultaneously active operations. Acquire blocks
// until a slot frees; waiters are woken in FIFO order. One shared abstraction
// for the migration pipeline and any other bounded-fan-out caller.
type Limiter struct {
	sem      *semaphore.Weighted
	capacity int64
}

func NewLimiter(capacity int) *Limiter {
	if capacity <= 0 {
		capacity = 1
	}
	return &Limiter{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: int64(capacity),
	}
}

func (l *Limiter) Acquire(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

func (l *Limiter) TryAcquire() bool {
	return l.sem.TryAcquire(1)
}

func (l *Limiter) Release() {
	l.sem.Release(1)
}

func (l *Limiter) Capacity() int {
	return int(l.capacity)
}
