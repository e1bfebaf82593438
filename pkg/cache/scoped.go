package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when one cache backend is shared between deployments or
// experiments that must not see each other's entries.
//
// Example usage:
//
//	// Keys for one experiment's decode runs
//	expKeyer := NewScopedKeyer(NewDefaultKeyer(), "exp:surface-d5:")
//
//	// Global keys
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// GraphKey generates a prefixed key for detector graph caching.
func (k *ScopedKeyer) GraphKey(name, contentHash string) string {
	return k.prefix + k.inner.GraphKey(name, contentHash)
}

// MatchingKey generates a prefixed key for decode result caching.
func (k *ScopedKeyer) MatchingKey(graphHash string, opts MatchingKeyOpts) string {
	return k.prefix + k.inner.MatchingKey(graphHash, opts)
}
