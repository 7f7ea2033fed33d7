// Package codec provides the serialization formats used for diagnostic
// records (trace output). Formats are looked up by short name through a
// small registry.
package codec

// Codec marshals and unmarshals typed values. Implementations should be
// deterministic so trace output is diffable across runs.
type Codec interface {
	Name() string
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Registry maps format names to codecs.
type Registry struct{ byName map[string]Codec }

// NewRegistry constructs a registry preloaded with the codecs that need no
// initialization; CBOR is added explicitly via Register because its mode
// construction can fail.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Codec)}
	r.Register(JSON())
	return r
}

// Register adds or replaces a codec under its name.
func (r *Registry) Register(c Codec) { r.byName[c.Name()] = c }

// Get returns a codec by name, or nil.
func (r *Registry) Get(name string) Codec { return r.byName[name] }
