package cacheaside

import (
	"context"
	"time"
)

// Store is the key-value cache consumed by the Accessor.
// Implementations can be in-memory (default) or distributed (Valkey).
type Store interface {
	// Get returns the blob for key. A missing or expired key is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// SetWithTTL stores blob under key; it expires after ttl.
	SetWithTTL(ctx context.Context, key string, blob []byte, ttl time.Duration) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
