// Package sealed serializes closed sum types. A value is written as a
// discriminator naming its concrete variant followed by the variant's own
// payload; decoding reads the discriminator first and uses it to choose the
// payload codec.
//
// The variant set is supplied explicitly and is fixed for the lifetime of a
// Codec. A Codec is immutable and safe for concurrent use.
package sealed

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/gork-labs/sealed/pkg/serial"
)

var _ serial.Codec[any] = (*Codec[any, string])(nil)

// Codec reads and writes values of the union type T. K is the type
// identity used to find the variant of a value being encoded.
type Codec[T any, K comparable] struct {
	registry    *Registry[T, K]
	descriptor  *serial.Descriptor
	fingerprint uint64
	opts        options
}

// New builds a codec for the union called name. ids and codecs are parallel:
// identify(v) == ids[i] means v is written with codecs[i].
func New[T any, K comparable](name string, identify func(T) K, ids []K, codecs []serial.Codec[T], opts ...Option) (*Codec[T, K], error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	registry, err := NewRegistry(name, identify, ids, codecs)
	if err != nil {
		return nil, err
	}
	desc := UnionDescriptor(name, registry.descriptors())
	o.logger.Debug("sealed: union registered",
		zap.String("union", name),
		zap.Strings("variants", registry.Names()))

	return &Codec[T, K]{
		registry:    registry,
		descriptor:  desc,
		fingerprint: Fingerprint(desc),
		opts:        o,
	}, nil
}

// Variant is one member of a union built with Of.
type Variant[T any] struct {
	id    reflect.Type
	codec serial.Codec[T]
	ok    bool
}

// Case registers the concrete type V as a variant of T, written with c.
// If V implements Discriminator its value replaces c's descriptor name.
func Case[T, V any](c serial.Codec[V]) Variant[T] {
	t := reflect.TypeFor[V]()
	var sample V
	if t.Kind() == reflect.Pointer {
		sample = reflect.New(t.Elem()).Interface().(V)
	}
	if d, ok := any(sample).(Discriminator); ok {
		c = serial.Renamed(c, d.DiscriminatorValue())
	}
	_, ok := any(sample).(T)
	return Variant[T]{id: t, codec: &caseCodec[T, V]{codec: c}, ok: ok}
}

// Of builds a codec for the union called name whose variants are identified
// by their dynamic Go type.
func Of[T any](name string, variants []Variant[T], opts ...Option) (*Codec[T, reflect.Type], error) {
	ids := make([]reflect.Type, len(variants))
	codecs := make([]serial.Codec[T], len(variants))
	for i, v := range variants {
		if !v.ok {
			return nil, fmt.Errorf("%w: %s: %v does not implement the union type", ErrInvalidRegistry, name, v.id)
		}
		ids[i] = v.id
		codecs[i] = v.codec
	}
	identify := func(v T) reflect.Type { return reflect.TypeOf(v) }
	return New(name, identify, ids, codecs, opts...)
}

// Descriptor returns the union descriptor.
func (c *Codec[T, K]) Descriptor() *serial.Descriptor { return c.descriptor }

// Registry returns the variant registry backing c.
func (c *Codec[T, K]) Registry() *Registry[T, K] { return c.registry }

// Fingerprint returns the shape hash of the union descriptor.
func (c *Codec[T, K]) Fingerprint() uint64 { return c.fingerprint }

// Encode writes v as {type: discriminator, value: payload}. Nothing is
// written when v's type is not a registered variant.
func (c *Codec[T, K]) Encode(enc serial.Encoder, v T) error {
	vc, err := c.registry.ResolveValue(v)
	if err != nil {
		c.opts.logger.Debug("sealed: cannot encode value", zap.String("union", c.descriptor.Name), zap.Error(err))
		return err
	}
	ce, err := enc.BeginStructure(c.descriptor)
	if err != nil {
		return err
	}
	if err := ce.EncodeStringElement(c.descriptor, typeIndex, vc.Descriptor().Name); err != nil {
		return err
	}
	if err := serial.EncodeElement(ce, c.descriptor, valueIndex, vc, v); err != nil {
		return err
	}
	return ce.EndStructure(c.descriptor)
}

// cursor is the per-call decode state.
type cursor[T any] struct {
	name    string
	named   bool
	value   T
	decoded bool
}

// Decode reads a union value. Elements may arrive in any order the decoder
// chooses, but the payload can only be read once the discriminator is known.
func (c *Codec[T, K]) Decode(dec serial.Decoder) (T, error) {
	var zero T
	cd, err := dec.BeginStructure(c.descriptor)
	if err != nil {
		return zero, err
	}

	var cur cursor[T]
loop:
	for {
		index, err := cd.DecodeElementIndex(c.descriptor)
		if err != nil {
			return zero, err
		}
		switch index {
		case serial.ReadAll:
			if err := c.readName(cd, &cur); err != nil {
				return zero, err
			}
			if err := c.readValue(cd, &cur); err != nil {
				return zero, err
			}
			break loop
		case serial.ReadDone:
			break loop
		case typeIndex:
			if err := c.readName(cd, &cur); err != nil {
				return zero, err
			}
		case valueIndex:
			if !cur.named {
				return zero, c.fieldError(ErrDiscriminatorNotYetKnown, index, &cur)
			}
			if err := c.readValue(cd, &cur); err != nil {
				return zero, err
			}
		default:
			return zero, c.fieldError(ErrMalformedField, index, &cur)
		}
	}

	if err := cd.EndStructure(c.descriptor); err != nil {
		return zero, err
	}
	if !cur.decoded {
		return zero, c.fieldError(ErrMissingPayload, -1, &cur)
	}
	return cur.value, nil
}

func (c *Codec[T, K]) readName(cd serial.CompositeDecoder, cur *cursor[T]) error {
	name, err := cd.DecodeStringElement(c.descriptor, typeIndex)
	if err != nil {
		return err
	}
	if c.opts.strict && cur.named && name != cur.name {
		return c.fieldError(ErrMalformedField, typeIndex, cur)
	}
	cur.name, cur.named = name, true
	return nil
}

func (c *Codec[T, K]) readValue(cd serial.CompositeDecoder, cur *cursor[T]) error {
	vc, err := c.registry.ResolveName(cur.name)
	if err != nil {
		c.opts.logger.Debug("sealed: cannot decode value", zap.String("union", c.descriptor.Name), zap.Error(err))
		return err
	}
	v, err := serial.DecodeElement(cd, c.descriptor, valueIndex, vc)
	if err != nil {
		return err
	}
	if err := checkPayload(c.opts.validate, cur.name, v); err != nil {
		return err
	}
	cur.value, cur.decoded = v, true
	return nil
}

func (c *Codec[T, K]) fieldError(err error, index int, cur *cursor[T]) error {
	return &FieldError{Union: c.descriptor.Name, Index: index, Discriminator: cur.name, Err: err}
}

// caseCodec adapts a codec for the concrete type V to the union type T.
type caseCodec[T, V any] struct {
	codec serial.Codec[V]
}

func (c *caseCodec[T, V]) Descriptor() *serial.Descriptor { return c.codec.Descriptor() }

func (c *caseCodec[T, V]) Encode(enc serial.Encoder, v T) error {
	concrete, ok := any(v).(V)
	if !ok {
		return &VariantError{Union: c.codec.Descriptor().Name, Type: fmt.Sprintf("%T", v)}
	}
	return c.codec.Encode(enc, concrete)
}

func (c *caseCodec[T, V]) Decode(dec serial.Decoder) (T, error) {
	v, err := c.codec.Decode(dec)
	if err != nil {
		var zero T
		return zero, err
	}
	return any(v).(T), nil
}
