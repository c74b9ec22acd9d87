package cache

// Keyer names cache entries.
type Keyer interface {
	// HTTPKey names a cached HTTP response body.
	HTTPKey(namespace, key string) string
	// ExportKey names a rendered export of the notebook text with the given
	// content hash.
	ExportKey(sourceHash string, opts ExportKeyOpts) string
}

// ExportKeyOpts holds every option that changes rendered output.
type ExportKeyOpts struct {
	Format            string   `json:"format"`
	Ignore            []string `json:"ignore,omitempty"`
	TransitiveExports bool     `json:"transitive_exports,omitempty"`
	Manifest          bool     `json:"manifest,omitempty"`
	Detailed          bool     `json:"detailed,omitempty"`
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// ExportKey returns "export:<hash>" over the source hash and options.
func (DefaultKeyer) ExportKey(sourceHash string, opts ExportKeyOpts) string {
	return hashKey("export", sourceHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix. The server uses it to keep
// notebooks fetched with one API key out of reach of requests made with
// another.
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

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// ExportKey generates a prefixed key for rendered exports.
func (k *ScopedKeyer) ExportKey(sourceHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(sourceHash, opts)
}
