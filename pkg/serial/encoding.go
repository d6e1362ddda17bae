package serial

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedIndex = errors.New("serial: unexpected element index")
	ErrMissingElement  = errors.New("serial: missing required element")
)

// Encoder writes one value. Structured values are opened with BeginStructure
// and written element by element through the returned CompositeEncoder.
type Encoder interface {
	EncodeNull() error
	EncodeString(v string) error
	EncodeInt64(v int64) error
	EncodeFloat64(v float64) error
	EncodeBool(v bool) error
	BeginStructure(desc *Descriptor) (CompositeEncoder, error)
}

// CompositeEncoder writes the elements of one aggregate.
type CompositeEncoder interface {
	EncodeStringElement(desc *Descriptor, index int, v string) error
	EncodeInt64Element(desc *Descriptor, index int, v int64) error
	EncodeFloat64Element(desc *Descriptor, index int, v float64) error
	EncodeBoolElement(desc *Descriptor, index int, v bool) error
	// EncodeElement hands write an Encoder scoped to element index.
	// write must encode exactly one value.
	EncodeElement(desc *Descriptor, index int, write func(Encoder) error) error
	EndStructure(desc *Descriptor) error
}

// Decoder reads one value.
type Decoder interface {
	// DecodeNotNull reports whether the next value is present and not null.
	DecodeNotNull() bool
	DecodeNull() error
	DecodeString() (string, error)
	DecodeInt64() (int64, error)
	DecodeFloat64() (float64, error)
	DecodeBool() (bool, error)
	BeginStructure(desc *Descriptor) (CompositeDecoder, error)
}

// CompositeDecoder reads the elements of one aggregate in whatever order the
// underlying format presents them.
type CompositeDecoder interface {
	// DecodeElementIndex returns the index of the next element, ReadDone
	// when the aggregate is exhausted, or ReadAll when every element can be
	// read in declaration order.
	DecodeElementIndex(desc *Descriptor) (int, error)
	DecodeStringElement(desc *Descriptor, index int) (string, error)
	DecodeInt64Element(desc *Descriptor, index int) (int64, error)
	DecodeFloat64Element(desc *Descriptor, index int) (float64, error)
	DecodeBoolElement(desc *Descriptor, index int) (bool, error)
	DecodeElement(desc *Descriptor, index int, read func(Decoder) error) error
	EndStructure(desc *Descriptor) error
}

// Codec reads and writes values of exactly one type.
type Codec[T any] interface {
	Descriptor() *Descriptor
	Encode(enc Encoder, v T) error
	Decode(dec Decoder) (T, error)
}

// EncodeElement writes v as element index using c.
func EncodeElement[T any](ce CompositeEncoder, desc *Descriptor, index int, c Codec[T], v T) error {
	return ce.EncodeElement(desc, index, func(e Encoder) error {
		return c.Encode(e, v)
	})
}

// DecodeElement reads element index using c.
func DecodeElement[T any](cd CompositeDecoder, desc *Descriptor, index int, c Codec[T]) (T, error) {
	var out T
	err := cd.DecodeElement(desc, index, func(d Decoder) error {
		v, err := c.Decode(d)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// EncodeStructure opens desc, lets write fill in the elements and closes it.
func EncodeStructure(enc Encoder, desc *Descriptor, write func(CompositeEncoder) error) error {
	ce, err := enc.BeginStructure(desc)
	if err != nil {
		return err
	}
	if err := write(ce); err != nil {
		return err
	}
	return ce.EndStructure(desc)
}

// DecodeStructure drives the element loop for a fixed-shape aggregate.
// read is called once per element the format presents; under ReadAll it is
// called for every declared element in order. Required elements that never
// show up fail with ErrMissingElement.
func DecodeStructure(dec Decoder, desc *Descriptor, read func(cd CompositeDecoder, index int) error) error {
	cd, err := dec.BeginStructure(desc)
	if err != nil {
		return err
	}
	seen := make([]bool, desc.ElementsCount())
	for {
		index, err := cd.DecodeElementIndex(desc)
		if err != nil {
			return err
		}
		if index == ReadDone {
			break
		}
		if index == ReadAll {
			for i := range seen {
				if err := read(cd, i); err != nil {
					return err
				}
				seen[i] = true
			}
			break
		}
		if index < 0 || index >= len(seen) {
			return fmt.Errorf("%w: %d in %s", ErrUnexpectedIndex, index, desc.Name)
		}
		if err := read(cd, index); err != nil {
			return err
		}
		seen[index] = true
	}
	if err := cd.EndStructure(desc); err != nil {
		return err
	}
	for i, ok := range seen {
		if !ok && !desc.Elements[i].Optional {
			return fmt.Errorf("%w: %s.%s", ErrMissingElement, desc.Name, desc.Elements[i].Name)
		}
	}
	return nil
}
