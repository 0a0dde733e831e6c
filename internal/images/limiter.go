package images

// limiter.go bounds how many photos are decoded and resized at once.
//
// Decoding a large photo holds the full bitmap in memory, so a burst of
// page loads could otherwise exhaust the process. Callers wait up to maxWait
// for a slot before failing with ErrBusy.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBusy is returned when every resize slot stays occupied for maxWait.
var ErrBusy = errors.New("image processing busy")

// Limiter defaults.
const (
	DefaultMaxConcurrent = 4
	DefaultMaxWait       = 10 * time.Second
)

// Limiter is a semaphore over image processing work.
type Limiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.Mutex
	active int
}

// NewLimiter allows maxConcurrent resizes at a time; zero values use the defaults.
func NewLimiter(maxConcurrent int, maxWait time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	return &Limiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot. The caller must Release it.
func (l *Limiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrBusy
	}
}

// Release frees a slot taken by Acquire.
func (l *Limiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()
	<-l.slots
}

// Active returns the number of resizes in progress.
func (l *Limiter) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Capacity returns the maximum number of concurrent resizes.
func (l *Limiter) Capacity() int {
	return cap(l.slots)
}

// WaitForDrain blocks until no resize is running or ctx ends.
func (l *Limiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.Active() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
