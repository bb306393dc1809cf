package core

// parse_limiter.go bounds how many workbooks are decoded at once.
//
// Decoding an .xlsx file inflates the whole archive in memory, so parallel
// uploads are limited with a semaphore. When all slots are taken a request
// waits up to maxWait before failing with ErrTooManyParses.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyParses is returned when no parse slot frees up in time.
var ErrTooManyParses = errors.New("too many uploads in progress, please try again later")

// DefaultMaxConcurrentParses is the default limit for parallel workbook reads.
const DefaultMaxConcurrentParses = 4

// DefaultParseWait is how long to wait for a slot before rejecting.
const DefaultParseWait = 10 * time.Second

// ParseLimiter is a semaphore over workbook decoding.
type ParseLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewParseLimiter allows at most maxConcurrent simultaneous parses.
func NewParseLimiter(maxConcurrent int, maxWait time.Duration) *ParseLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentParses
	}
	if maxWait <= 0 {
		maxWait = DefaultParseWait
	}

	return &ParseLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire takes a slot, waiting up to the configured time.
// The caller MUST call Release when done.
func (l *ParseLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyParses
	}
}

// Release frees a slot taken by Acquire.
func (l *ParseLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of parses in progress.
func (l *ParseLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until no parse is in progress or ctx ends.
// Used during graceful shutdown.
func (l *ParseLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ParseLimiterStatus is a snapshot for monitoring.
type ParseLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *ParseLimiter) Status() ParseLimiterStatus {
	return ParseLimiterStatus{
		Active:        l.ActiveCount(),
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
