// Package ratelimit implements fixed-window request counting with pluggable
// storage: an in-process map for single instances and Redis when several
// instances share the budget.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Window is the state of a key's current window after a hit.
type Window struct {
	Count      int64
	ResetAfter time.Duration
}

// Store counts hits per key within a window.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration) (Window, error)
}

// Decision is the outcome of Limiter.Allow.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

type Limiter struct {
	store  Store
	window time.Duration
	limit  int
	prefix string
}

func New(store Store, window time.Duration, limit int) *Limiter {
	return &Limiter{store: store, window: window, limit: limit, prefix: "rl"}
}

func (l *Limiter) Window() time.Duration { return l.window }
func (l *Limiter) Limit() int            { return l.limit }

// Policy renders the limit in RateLimit-Policy form, e.g. "100;w=900".
func (l *Limiter) Policy() string {
	return fmt.Sprintf("%d;w=%d", l.limit, int64(l.window/time.Second))
}

// Allow records a hit for key and reports whether it fits in the window.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	w, err := l.store.Hit(ctx, l.prefix+":"+key, l.window)
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit store: %w", err)
	}

	remaining := int64(l.limit) - w.Count
	if remaining < 0 {
		remaining = 0
	}
	reset := w.ResetAfter
	if reset <= 0 || reset > l.window {
		reset = l.window
	}
	return Decision{
		Allowed:    w.Count <= int64(l.limit),
		Limit:      l.limit,
		Remaining:  int(remaining),
		ResetAfter: reset,
	}, nil
}
