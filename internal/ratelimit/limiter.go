package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of an admission check. RetryAfter is only
// meaningful when Allowed is false.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter gates requests per identity inside a fixed window. Implementations
// must not lose count increments under concurrent calls for the same identity.
type Limiter interface {
	CheckAndRecord(ctx context.Context, identity string) (Decision, error)
}

// RetryAfterSeconds rounds the cooldown up to whole seconds, never below 1
// for a denied request.
func RetryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
