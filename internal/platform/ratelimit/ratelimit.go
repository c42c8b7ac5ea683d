// Package ratelimit provides a fixed-window counter shared across processes.
// The email queue uses it to cap how many jobs begin processing per window.
package ratelimit

import (
	"context"
	"time"
)

// Window describes a fixed-window limit: at most Limit events per Duration.
type Window struct {
	// Name is a short identifier for the limited resource, used as part of
	// the counter key (e.g. "emailq").
	Name     string
	Limit    int
	Duration time.Duration
}

// Store abstracts a shared counter store (e.g. Redis) for fixed-window limiting.
type Store interface {
	// Allow increments the counter for the window and reports whether the
	// event is allowed. When not allowed, retryAfter indicates how long until
	// the window resets.
	Allow(ctx context.Context, w Window) (allowed bool, retryAfter time.Duration, err error)
}
