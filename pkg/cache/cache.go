// Package cache stores derived artifacts keyed by content hash.
//
// Parsing, synthesis and layout are deterministic functions of a document
// and a few options, so their results can be cached by a hash of the inputs.
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared entries for the HTTP server
//   - [NullCache]: caching disabled
//
// [Keyer] builds the keys; [ScopedKeyer] prefixes them per namespace.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the entry for key and whether it was found and live.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Entry lifetimes per artifact kind.
const (
	TTLDocument = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLMesh     = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)
