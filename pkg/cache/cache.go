// Package cache provides caching for decode results and parsed detector
// graphs, with interchangeable backends.
//
// Two backends are provided:
//   - FileCache: directory-based cache for CLI usage
//   - RedisCache: shared cache for service deployments
//
// plus NullCache for disabling caching entirely. Keys are generated
// through the Keyer interface so that CLI and API produce identical keys
// for identical work.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with TTL support.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Default TTLs per cached item kind. Graphs change only when the caller's
// circuit changes; matchings are pure functions of graph and syndrome and
// could live forever, but a TTL keeps unused entries from accumulating.
const (
	TTLGraph    = 24 * time.Hour
	TTLMatching = 7 * 24 * time.Hour
)

// MatchingKeyOpts captures every input that affects a decode result.
// Anything influencing the output must appear here, or stale entries will
// be served after an option change.
type MatchingKeyOpts struct {
	SyndromeHash string
	MaxGrowth    int64
}

// Keyer generates cache keys for the different cached item kinds.
type Keyer interface {
	// GraphKey generates a key for a parsed detector graph, identified by
	// the hash of its serialized form.
	GraphKey(name, contentHash string) string

	// MatchingKey generates a key for a decode result on the graph with
	// the given hash.
	MatchingKey(graphHash string, opts MatchingKeyOpts) string
}

// DefaultKeyer generates hierarchical, hash-based cache keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for a parsed detector graph.
func (k *DefaultKeyer) GraphKey(name, contentHash string) string {
	return hashKey("graph", name, contentHash)
}

// MatchingKey generates a key for a decode result.
func (k *DefaultKeyer) MatchingKey(graphHash string, opts MatchingKeyOpts) string {
	return hashKey("matching", graphHash, opts.SyndromeHash, opts.MaxGrowth)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
