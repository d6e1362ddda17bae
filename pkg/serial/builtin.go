package serial

import "fmt"

var (
	stringDescriptor  = &Descriptor{Name: "string", Kind: KindString}
	int64Descriptor   = &Descriptor{Name: "int64", Kind: KindInt}
	float64Descriptor = &Descriptor{Name: "float64", Kind: KindFloat}
	boolDescriptor    = &Descriptor{Name: "bool", Kind: KindBool}
)

type stringCodec struct{}

// String returns the codec for string values.
func String() Codec[string] { return stringCodec{} }

func (stringCodec) Descriptor() *Descriptor            { return stringDescriptor }
func (stringCodec) Encode(enc Encoder, v string) error { return enc.EncodeString(v) }
func (stringCodec) Decode(dec Decoder) (string, error) { return dec.DecodeString() }

type int64Codec struct{}

// Int64 returns the codec for int64 values.
func Int64() Codec[int64] { return int64Codec{} }

func (int64Codec) Descriptor() *Descriptor           { return int64Descriptor }
func (int64Codec) Encode(enc Encoder, v int64) error { return enc.EncodeInt64(v) }
func (int64Codec) Decode(dec Decoder) (int64, error) { return dec.DecodeInt64() }

type float64Codec struct{}

// Float64 returns the codec for float64 values.
func Float64() Codec[float64] { return float64Codec{} }

func (float64Codec) Descriptor() *Descriptor             { return float64Descriptor }
func (float64Codec) Encode(enc Encoder, v float64) error { return enc.EncodeFloat64(v) }
func (float64Codec) Decode(dec Decoder) (float64, error) { return dec.DecodeFloat64() }

type boolCodec struct{}

// Bool returns the codec for bool values.
func Bool() Codec[bool] { return boolCodec{} }

func (boolCodec) Descriptor() *Descriptor          { return boolDescriptor }
func (boolCodec) Encode(enc Encoder, v bool) error { return enc.EncodeBool(v) }
func (boolCodec) Decode(dec Decoder) (bool, error) { return dec.DecodeBool() }

type listCodec[T any] struct {
	elem Codec[T]
	desc *Descriptor
}

// List returns a codec for slices whose items are written with elem.
func List[T any](elem Codec[T]) Codec[[]T] {
	ed := elem.Descriptor()
	return &listCodec[T]{
		elem: elem,
		desc: &Descriptor{Name: "[]" + ed.Name, Kind: KindList, Elements: []Element{{Name: "item", Descriptor: ed}}},
	}
}

func (c *listCodec[T]) Descriptor() *Descriptor { return c.desc }

func (c *listCodec[T]) Encode(enc Encoder, v []T) error {
	return EncodeStructure(enc, c.desc, func(ce CompositeEncoder) error {
		for i, item := range v {
			if err := EncodeElement(ce, c.desc, i, c.elem, item); err != nil {
				return fmt.Errorf("%s[%d]: %w", c.desc.Name, i, err)
			}
		}
		return nil
	})
}

func (c *listCodec[T]) Decode(dec Decoder) ([]T, error) {
	cd, err := dec.BeginStructure(c.desc)
	if err != nil {
		return nil, err
	}
	out := []T{}
	for {
		index, err := cd.DecodeElementIndex(c.desc)
		if err != nil {
			return nil, err
		}
		if index == ReadDone {
			break
		}
		if index != len(out) {
			return nil, fmt.Errorf("%w: %d in %s, want %d", ErrUnexpectedIndex, index, c.desc.Name, len(out))
		}
		item, err := DecodeElement(cd, c.desc, index, c.elem)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", c.desc.Name, index, err)
		}
		out = append(out, item)
	}
	if err := cd.EndStructure(c.desc); err != nil {
		return nil, err
	}
	return out, nil
}

type objectCodec[T any] struct {
	value T
	desc  *Descriptor
}

// Object returns a codec for a singleton value. It is written as an empty
// aggregate and always decodes to value.
func Object[T any](name string, value T) Codec[T] {
	return &objectCodec[T]{value: value, desc: &Descriptor{Name: name, Kind: KindObject}}
}

func (c *objectCodec[T]) Descriptor() *Descriptor { return c.desc }

func (c *objectCodec[T]) Encode(enc Encoder, _ T) error {
	return EncodeStructure(enc, c.desc, func(CompositeEncoder) error { return nil })
}

func (c *objectCodec[T]) Decode(dec Decoder) (T, error) {
	if err := DecodeStructure(dec, c.desc, func(_ CompositeDecoder, index int) error {
		return fmt.Errorf("%w: %d in %s", ErrUnexpectedIndex, index, c.desc.Name)
	}); err != nil {
		var zero T
		return zero, err
	}
	return c.value, nil
}

type renamedCodec[T any] struct {
	Codec[T]
	desc *Descriptor
}

// Renamed reports c under a different descriptor name. Sealed unions use the
// descriptor name as the wire discriminator, so this is how a variant
// overrides its discriminator.
func Renamed[T any](c Codec[T], name string) Codec[T] {
	return &renamedCodec[T]{Codec: c, desc: c.Descriptor().Renamed(name)}
}

func (c *renamedCodec[T]) Descriptor() *Descriptor { return c.desc }
