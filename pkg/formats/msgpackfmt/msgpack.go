// Package msgpackfmt reads and writes sealed values as MessagePack. Maps are
// streamed key by key, so their order survives a round trip.
package msgpackfmt

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/gork-labs/sealed/pkg/formats/tree"
	"github.com/gork-labs/sealed/pkg/serial"
)

// ContentType is the media type of this format.
const ContentType = "application/msgpack"

var (
	ErrTrailingData    = errors.New("msgpackfmt: trailing data after value")
	ErrUnsupportedCode = errors.New("msgpackfmt: unsupported type code")
	ErrIntOverflow     = errors.New("msgpackfmt: unsigned integer overflows int64")
)

// Marshal encodes v with c as MessagePack.
func Marshal[T any](c serial.Codec[T], v T, opts ...tree.Option) ([]byte, error) {
	n, err := tree.Encode(c, v, tree.NewConfig(opts...))
	if err != nil {
		return nil, err
	}
	return Render(n)
}

// Unmarshal decodes MessagePack data with c.
func Unmarshal[T any](c serial.Codec[T], data []byte, opts ...tree.Option) (T, error) {
	n, err := Parse(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return tree.Decode(c, n, tree.NewConfig(opts...))
}

// Render writes n as MessagePack.
func Render(n *tree.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := write(enc, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func write(enc *msgpack.Encoder, n *tree.Node) error {
	if n == nil {
		return enc.EncodeNil()
	}
	switch n.Kind {
	case tree.KindNull:
		return enc.EncodeNil()
	case tree.KindString:
		return enc.EncodeString(n.Str)
	case tree.KindInt:
		return enc.EncodeInt(n.Int)
	case tree.KindFloat:
		return enc.EncodeFloat64(n.Float)
	case tree.KindBool:
		return enc.EncodeBool(n.Bool)
	case tree.KindList:
		if err := enc.EncodeArrayLen(len(n.Items)); err != nil {
			return err
		}
		for _, item := range n.Items {
			if err := write(enc, item); err != nil {
				return err
			}
		}
		return nil
	case tree.KindMap:
		if err := enc.EncodeMapLen(len(n.Keys)); err != nil {
			return err
		}
		for i, key := range n.Keys {
			if err := enc.EncodeString(key); err != nil {
				return err
			}
			if err := write(enc, n.Items[i]); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("msgpackfmt: cannot render %s", n.Kind)
	}
}

// Parse reads one MessagePack value into a tree.
func Parse(data []byte) (*tree.Node, error) {
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)
	n, err := read(dec)
	if err != nil {
		return nil, err
	}
	if r.Len() > 0 {
		return nil, ErrTrailingData
	}
	return n, nil
}

func read(dec *msgpack.Decoder) (*tree.Node, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return nil, fmt.Errorf("msgpackfmt: %w", err)
	}
	switch {
	case c == msgpcode.Nil:
		if err := dec.DecodeNil(); err != nil {
			return nil, err
		}
		return tree.Null(), nil
	case c == msgpcode.True || c == msgpcode.False:
		b, err := dec.DecodeBool()
		if err != nil {
			return nil, err
		}
		return tree.Bool(b), nil
	case c == msgpcode.Float || c == msgpcode.Double:
		f, err := dec.DecodeFloat64()
		if err != nil {
			return nil, err
		}
		return tree.Float(f), nil
	case c == msgpcode.Uint64:
		u, err := dec.DecodeUint64()
		if err != nil {
			return nil, err
		}
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d", ErrIntOverflow, u)
		}
		return tree.Int(int64(u)), nil
	case msgpcode.IsFixedNum(c), isInt(c):
		i, err := dec.DecodeInt64()
		if err != nil {
			return nil, err
		}
		return tree.Int(i), nil
	case msgpcode.IsString(c), msgpcode.IsBin(c):
		s, err := dec.DecodeString()
		if err != nil {
			return nil, err
		}
		return tree.String(s), nil
	case msgpcode.IsFixedArray(c), c == msgpcode.Array16, c == msgpcode.Array32:
		size, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		n := tree.List()
		for i := 0; i < size; i++ {
			item, err := read(dec)
			if err != nil {
				return nil, err
			}
			n.Items = append(n.Items, item)
		}
		return n, nil
	case msgpcode.IsFixedMap(c), c == msgpcode.Map16, c == msgpcode.Map32:
		size, err := dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		n := tree.Map()
		for i := 0; i < size; i++ {
			key, err := dec.DecodeString()
			if err != nil {
				return nil, fmt.Errorf("msgpackfmt: map key: %w", err)
			}
			v, err := read(dec)
			if err != nil {
				return nil, err
			}
			n.Set(key, v)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnsupportedCode, c)
	}
}

func isInt(c byte) bool {
	switch c {
	case msgpcode.Int8, msgpcode.Int16, msgpcode.Int32, msgpcode.Int64,
		msgpcode.Uint8, msgpcode.Uint16, msgpcode.Uint32:
		return true
	}
	return false
}
