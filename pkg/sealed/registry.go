package sealed

import (
	"fmt"

	"github.com/gork-labs/sealed/pkg/serial"
)

// Entry is one registered variant.
type Entry[K comparable] struct {
	ID         K
	Name       string
	Descriptor *serial.Descriptor
}

// Registry maps type identities and discriminators to variant codecs.
// It is built once and never mutated, so it can be shared freely.
type Registry[T any, K comparable] struct {
	union    string
	identify func(T) K
	entries  []Entry[K]
	byType   map[K]serial.Codec[T]
	byName   map[string]serial.Codec[T]
}

// NewRegistry builds the lookup tables for union. ids[i] is the identity
// identify returns for values codecs[i] writes; each discriminator is the
// name of codecs[i]'s descriptor.
func NewRegistry[T any, K comparable](union string, identify func(T) K, ids []K, codecs []serial.Codec[T]) (*Registry[T, K], error) {
	if identify == nil {
		return nil, fmt.Errorf("%w: %s: no identity function", ErrInvalidRegistry, union)
	}
	if len(ids) != len(codecs) {
		return nil, fmt.Errorf("%w: %s: %d type identities but %d codecs", ErrInvalidRegistry, union, len(ids), len(codecs))
	}

	r := &Registry[T, K]{
		union:    union,
		identify: identify,
		entries:  make([]Entry[K], 0, len(ids)),
		byType:   make(map[K]serial.Codec[T], len(ids)),
		byName:   make(map[string]serial.Codec[T], len(ids)),
	}
	for i, id := range ids {
		c := codecs[i]
		if c == nil || c.Descriptor() == nil {
			return nil, fmt.Errorf("%w: %s: variant %d has no codec", ErrInvalidRegistry, union, i)
		}
		name := c.Descriptor().Name
		if name == "" {
			return nil, fmt.Errorf("%w: %s: variant %d has an empty discriminator", ErrInvalidRegistry, union, i)
		}
		if _, dup := r.byType[id]; dup {
			return nil, fmt.Errorf("%w: %s: type %v registered twice", ErrInvalidRegistry, union, id)
		}
		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("%w: %s: discriminator %q registered twice", ErrInvalidRegistry, union, name)
		}
		r.byType[id] = c
		r.byName[name] = c
		r.entries = append(r.entries, Entry[K]{ID: id, Name: name, Descriptor: c.Descriptor()})
	}
	return r, nil
}

// ResolveValue returns the codec registered for v's type identity.
func (r *Registry[T, K]) ResolveValue(v T) (serial.Codec[T], error) {
	if c, ok := r.byType[r.identify(v)]; ok {
		return c, nil
	}
	return nil, &VariantError{Union: r.union, Type: fmt.Sprintf("%T", v)}
}

// ResolveName returns the codec registered under discriminator name.
func (r *Registry[T, K]) ResolveName(name string) (serial.Codec[T], error) {
	if c, ok := r.byName[name]; ok {
		return c, nil
	}
	return nil, &VariantError{Union: r.union, Name: name}
}

// Union returns the union name the registry was built for.
func (r *Registry[T, K]) Union() string { return r.union }

// Len returns the number of variants.
func (r *Registry[T, K]) Len() int { return len(r.entries) }

// Entries returns the variants in registration order.
func (r *Registry[T, K]) Entries() []Entry[K] {
	out := make([]Entry[K], len(r.entries))
	copy(out, r.entries)
	return out
}

// Names returns the discriminators in registration order.
func (r *Registry[T, K]) Names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Name
	}
	return out
}

func (r *Registry[T, K]) descriptors() []*serial.Descriptor {
	out := make([]*serial.Descriptor, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Descriptor
	}
	return out
}
