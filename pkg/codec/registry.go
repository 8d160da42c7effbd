package codec

import (
	"fmt"
	"slices"
	"strings"
)

// Registry resolves codec names used in route table files.
//
// Besides registered names it understands the inline form "enum:a|b|c".
type Registry struct {
	codecs map[string]Codec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Codec)}
}

// DefaultRegistry returns a registry holding the built-in codecs.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.codecs["string"] = String
	r.codecs["int"] = Int
	r.codecs["positive-int"] = PositiveInt
	r.codecs["float"] = Float
	r.codecs["flag"] = Flag
	r.codecs["uuid"] = UUID
	r.codecs["strings"] = Strings
	return r
}

// Register adds a codec under name. Names are unique.
func (r *Registry) Register(name string, c Codec) error {
	if name == "" || strings.HasPrefix(name, "enum:") {
		return fmt.Errorf("codec: invalid codec name %q", name)
	}
	if c == nil {
		return fmt.Errorf("codec: nil codec for %q", name)
	}
	if _, exists := r.codecs[name]; exists {
		return fmt.Errorf("codec: %q already registered", name)
	}
	r.codecs[name] = c
	return nil
}

// Lookup returns the codec registered under name.
func (r *Registry) Lookup(name string) (Codec, error) {
	if words, ok := strings.CutPrefix(name, "enum:"); ok {
		values := strings.Split(words, "|")
		if slices.Contains(values, "") {
			return nil, fmt.Errorf("codec: empty word in %q", name)
		}
		return Enum(values...), nil
	}
	c, ok := r.codecs[name]
	if !ok {
		return nil, fmt.Errorf("codec: unknown codec %q", name)
	}
	return c, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.codecs))
	for name := range r.codecs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
