// Package cache provides pluggable byte caches for rendered pipeline
// artifacts.
//
// Rendering a pipeline diagram to SVG or PNG spins up the embedded Graphviz
// engine, which dominates the cost of repeated renders of the same
// expression. The CLI and HTTP server cache artifacts keyed by expression and
// render options through the [Cache] interface.
//
// Three backends are provided: [FileCache] for local CLI use, [RedisCache]
// for shared deployments, and [NullCache] to disable caching. [Scoped] adds
// key prefixes when backends are shared between tools.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with optional expiry.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores it without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ArtifactKeyOpts identifies a render configuration for cache keying.
type ArtifactKeyOpts struct {
	Format        string // "dot", "svg" or "png"
	ComposeAsNode bool
}

// ArtifactKey builds the cache key for a rendered pipeline artifact.
// The pipeline expression is hashed so arbitrary expressions stay within
// backend key limits.
func ArtifactKey(expr string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", expr, opts)
}
