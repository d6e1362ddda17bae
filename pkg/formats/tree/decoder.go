package tree

import (
	"fmt"
	"math"

	"github.com/gork-labs/sealed/pkg/serial"
)

// Decode reads a value of c's type from n.
func Decode[T any](c serial.Codec[T], n *Node, cfg Config) (T, error) {
	return c.Decode(&decoder{cfg: cfg, node: n})
}

type decoder struct {
	cfg  Config
	node *Node
}

func (d *decoder) DecodeNotNull() bool {
	return d.node != nil && d.node.Kind != KindNull
}

func (d *decoder) DecodeNull() error {
	if d.DecodeNotNull() {
		return unexpected(KindNull, d.node)
	}
	return nil
}

func (d *decoder) DecodeString() (string, error) {
	if d.node == nil || d.node.Kind != KindString {
		return "", unexpected(KindString, d.node)
	}
	return d.node.Str, nil
}

func (d *decoder) DecodeInt64() (int64, error) {
	if d.node != nil {
		switch d.node.Kind {
		case KindInt:
			return d.node.Int, nil
		case KindFloat:
			// Some formats carry every number as a float.
			f := d.node.Float
			if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
				return int64(f), nil
			}
		}
	}
	return 0, unexpected(KindInt, d.node)
}

func (d *decoder) DecodeFloat64() (float64, error) {
	if d.node != nil {
		switch d.node.Kind {
		case KindFloat:
			return d.node.Float, nil
		case KindInt:
			return float64(d.node.Int), nil
		}
	}
	return 0, unexpected(KindFloat, d.node)
}

func (d *decoder) DecodeBool() (bool, error) {
	if d.node == nil || d.node.Kind != KindBool {
		return false, unexpected(KindBool, d.node)
	}
	return d.node.Bool, nil
}

func (d *decoder) BeginStructure(desc *serial.Descriptor) (serial.CompositeDecoder, error) {
	switch {
	case desc.Kind == serial.KindList:
		if d.node == nil || d.node.Kind != KindList {
			return nil, unexpected(KindList, d.node)
		}
		return reader{&listReader{cfg: d.cfg, node: d.node, pos: -1}}, nil
	case positional(desc, d.cfg):
		if d.node == nil || d.node.Kind != KindList {
			return nil, unexpected(KindList, d.node)
		}
		if d.node.Len() != desc.ElementsCount() {
			return nil, fmt.Errorf("%w: %s wants %d items, got %d", ErrUnexpectedNode, desc.Name, desc.ElementsCount(), d.node.Len())
		}
		return reader{&positionalReader{listReader: listReader{cfg: d.cfg, node: d.node, pos: -1}}}, nil
	default:
		if d.node == nil || d.node.Kind != KindMap {
			return nil, unexpected(KindMap, d.node)
		}
		return reader{&mapReader{cfg: d.cfg, node: d.node, pos: -1}}, nil
	}
}

// indexer is implemented by the three aggregate readers; reader adds the
// typed element accessors on top of it.
type indexer interface {
	DecodeElementIndex(desc *serial.Descriptor) (int, error)
	element(desc *serial.Descriptor, index int) (*decoder, error)
}

type reader struct {
	indexer
}

func (r reader) DecodeStringElement(desc *serial.Descriptor, index int) (string, error) {
	d, err := r.element(desc, index)
	if err != nil {
		return "", err
	}
	return d.DecodeString()
}

func (r reader) DecodeInt64Element(desc *serial.Descriptor, index int) (int64, error) {
	d, err := r.element(desc, index)
	if err != nil {
		return 0, err
	}
	return d.DecodeInt64()
}

func (r reader) DecodeFloat64Element(desc *serial.Descriptor, index int) (float64, error) {
	d, err := r.element(desc, index)
	if err != nil {
		return 0, err
	}
	return d.DecodeFloat64()
}

func (r reader) DecodeBoolElement(desc *serial.Descriptor, index int) (bool, error) {
	d, err := r.element(desc, index)
	if err != nil {
		return false, err
	}
	return d.DecodeBool()
}

func (r reader) DecodeElement(desc *serial.Descriptor, index int, read func(serial.Decoder) error) error {
	d, err := r.element(desc, index)
	if err != nil {
		return err
	}
	return read(d)
}

func (r reader) EndStructure(*serial.Descriptor) error { return nil }

// mapReader presents map entries in wire order.
type mapReader struct {
	cfg  Config
	node *Node
	pos  int
}

func (r *mapReader) DecodeElementIndex(desc *serial.Descriptor) (int, error) {
	for r.pos+1 < len(r.node.Keys) {
		r.pos++
		key := r.node.Keys[r.pos]
		index := desc.ElementIndex(key)
		if index != serial.UnknownName {
			return index, nil
		}
		if !r.cfg.IgnoreUnknownKeys {
			return 0, fmt.Errorf("%w: %q in %s", ErrUnknownKey, key, desc.Name)
		}
	}
	return serial.ReadDone, nil
}

func (r *mapReader) element(desc *serial.Descriptor, index int) (*decoder, error) {
	name := desc.ElementName(index)
	if r.pos >= 0 && r.pos < len(r.node.Keys) && r.node.Keys[r.pos] == name {
		return &decoder{cfg: r.cfg, node: r.node.Items[r.pos]}, nil
	}
	if n, ok := r.node.Get(name); ok {
		return &decoder{cfg: r.cfg, node: n}, nil
	}
	return nil, fmt.Errorf("%w: %s.%s", serial.ErrMissingElement, desc.Name, name)
}

// listReader presents list items as consecutive indices.
type listReader struct {
	cfg  Config
	node *Node
	pos  int
}

func (r *listReader) DecodeElementIndex(*serial.Descriptor) (int, error) {
	if r.pos+1 >= r.node.Len() {
		return serial.ReadDone, nil
	}
	r.pos++
	return r.pos, nil
}

func (r *listReader) element(desc *serial.Descriptor, index int) (*decoder, error) {
	if index < 0 || index >= r.node.Len() {
		return nil, fmt.Errorf("%w: %d in %s", serial.ErrUnexpectedIndex, index, desc.Name)
	}
	return &decoder{cfg: r.cfg, node: r.node.Items[index]}, nil
}

// positionalReader answers ReadAll once: every element sits at its declared position.
type positionalReader struct {
	listReader
	done bool
}

func (r *positionalReader) DecodeElementIndex(*serial.Descriptor) (int, error) {
	if r.done {
		return serial.ReadDone, nil
	}
	r.done = true
	return serial.ReadAll, nil
}
