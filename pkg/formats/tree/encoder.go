package tree

import (
	"github.com/gork-labs/sealed/pkg/serial"
)

// Encode writes v with c and returns the resulting tree.
func Encode[T any](c serial.Codec[T], v T, cfg Config) (*Node, error) {
	var out *Node
	if err := encodeOne(cfg, func(e serial.Encoder) error { return c.Encode(e, v) }, func(n *Node) { out = n }); err != nil {
		return nil, err
	}
	return out, nil
}

// encodeOne runs write against a fresh encoder and insists it writes exactly one value.
func encodeOne(cfg Config, write func(serial.Encoder) error, put func(*Node)) error {
	e := &encoder{cfg: cfg}
	if err := write(e); err != nil {
		return err
	}
	switch {
	case e.written == 0:
		return ErrNothingEncoded
	case e.written > 1:
		return ErrTooManyValues
	}
	put(e.out)
	return nil
}

type encoder struct {
	cfg     Config
	out     *Node
	written int
}

func (e *encoder) put(n *Node) error {
	e.written++
	e.out = n
	return nil
}

func (e *encoder) EncodeNull() error             { return e.put(Null()) }
func (e *encoder) EncodeString(v string) error   { return e.put(String(v)) }
func (e *encoder) EncodeInt64(v int64) error     { return e.put(Int(v)) }
func (e *encoder) EncodeFloat64(v float64) error { return e.put(Float(v)) }
func (e *encoder) EncodeBool(v bool) error       { return e.put(Bool(v)) }

func (e *encoder) BeginStructure(desc *serial.Descriptor) (serial.CompositeEncoder, error) {
	var n *Node
	if positional(desc, e.cfg) {
		n = List()
	} else {
		n = Map()
	}
	if err := e.put(n); err != nil {
		return nil, err
	}
	return &composite{cfg: e.cfg, node: n}, nil
}

// positional reports whether desc is written as a list rather than a map.
func positional(desc *serial.Descriptor, cfg Config) bool {
	return desc.Kind == serial.KindList || (desc.Kind == serial.KindSealed && cfg.ArrayPolymorphism)
}

type composite struct {
	cfg  Config
	node *Node
}

func (c *composite) add(desc *serial.Descriptor, index int, v *Node) {
	if c.node.Kind == KindList {
		c.node.Items = append(c.node.Items, v)
		return
	}
	c.node.Set(desc.ElementName(index), v)
}

func (c *composite) EncodeStringElement(desc *serial.Descriptor, index int, v string) error {
	c.add(desc, index, String(v))
	return nil
}

func (c *composite) EncodeInt64Element(desc *serial.Descriptor, index int, v int64) error {
	c.add(desc, index, Int(v))
	return nil
}

func (c *composite) EncodeFloat64Element(desc *serial.Descriptor, index int, v float64) error {
	c.add(desc, index, Float(v))
	return nil
}

func (c *composite) EncodeBoolElement(desc *serial.Descriptor, index int, v bool) error {
	c.add(desc, index, Bool(v))
	return nil
}

func (c *composite) EncodeElement(desc *serial.Descriptor, index int, write func(serial.Encoder) error) error {
	return encodeOne(c.cfg, write, func(n *Node) { c.add(desc, index, n) })
}

func (c *composite) EndStructure(*serial.Descriptor) error { return nil }
