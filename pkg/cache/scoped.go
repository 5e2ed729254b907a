package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tenants or
// deployments can share one backend without sharing entries:
//
//	k := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key. A nil
// inner keyer uses the default.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// GraphKey returns the prefixed graph key.
func (k *ScopedKeyer) GraphKey(docHash string) string {
	return k.prefix + k.inner.GraphKey(docHash)
}

// LayoutKey returns the prefixed layout key.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
