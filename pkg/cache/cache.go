package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte blobs under string keys.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default lifetimes per cached kind.
const (
	// TTLHTTP covers remote documents fetched over HTTP.
	TTLHTTP = time.Hour

	// TTLFrame covers laid-out frames. Frames depend only on the document
	// hash and layout options, so they can live as long as artifacts.
	TTLFrame = 24 * time.Hour

	// TTLArtifact covers rendered SVG, PNG, DOT and JSON output.
	TTLArtifact = 24 * time.Hour
)
