// Package otp manages the short-lived one-time-code challenge bound to a
// phone number. At most one challenge is live per phone; issuing a new one
// overwrites the old, and a successful verify consumes it.
package otp

import (
	"context"
	"time"
)

// Store is the expiring key-value backing for challenges. Codes are stored
// as digests, never in the clear.
type Store interface {
	// Set creates or overwrites the challenge for key with the given TTL.
	Set(ctx context.Context, key, digest string, ttl time.Duration) error
	// CompareAndDelete atomically deletes the challenge and returns true
	// iff a live entry exists and its digest matches. A mismatch leaves
	// the challenge in place; an absent or expired entry returns false.
	CompareAndDelete(ctx context.Context, key, digest string) (bool, error)
}
