package ports

import (
	"context"
	"time"
)

// RateLimiter implements fixed-window request throttling keyed by caller.
// An infrastructure error is returned as-is; callers decide whether to fail
// open or closed. Release undoes one prior Allow so only outcomes the caller
// wants throttled stay counted against the window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
