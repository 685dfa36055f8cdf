package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several deployments or
// tenants can share one Redis or MongoDB backend without collisions.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// OutcomeKey returns the prefixed outcome key.
func (k *ScopedKeyer) OutcomeKey(code string, opts OutcomeKeyOpts) string {
	return k.prefix + k.inner.OutcomeKey(code, opts)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(outcomeHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(outcomeHash, opts)
}
