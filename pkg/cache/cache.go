// Package cache stores rendered artifacts between CLI invocations.
//
// Rendering a network to SVG through Graphviz dominates the run time of the
// graph command, and the output depends only on the DOT source. Entries are
// keyed by a hash of that source, so an unchanged model renders once.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
