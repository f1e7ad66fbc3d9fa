// Package cache provides byte-level caching for fetched assets and
// tabular snapshots. Backends share a single interface so callers can
// swap the file store for Redis, or disable caching entirely, without
// touching the call sites.
package cache

import (
	"context"
	"time"
)

// Default TTLs per cached concern.
const (
	// AssetTTL bounds how long a downloaded image or font is reused.
	AssetTTL = 24 * time.Hour

	// TableTTL bounds how long a remote tabular snapshot is reused.
	TableTTL = 15 * time.Minute
)

// Cache stores opaque byte payloads under string keys.
type Cache interface {
	// Get returns the cached payload and whether the key was present.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores payload under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
