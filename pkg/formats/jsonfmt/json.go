// Package jsonfmt reads and writes sealed values as JSON. Object keys keep
// their wire order so the decoder sees fields exactly as they were sent.
package jsonfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gork-labs/sealed/pkg/formats/tree"
	"github.com/gork-labs/sealed/pkg/serial"
)

// ContentType is the media type of this format.
const ContentType = "application/json"

// ErrTrailingData is returned when input continues after the first value.
var ErrTrailingData = errors.New("jsonfmt: trailing data after value")

// Marshal encodes v with c as JSON.
func Marshal[T any](c serial.Codec[T], v T, opts ...tree.Option) ([]byte, error) {
	n, err := tree.Encode(c, v, tree.NewConfig(opts...))
	if err != nil {
		return nil, err
	}
	return Render(n)
}

// MarshalIndent is Marshal with indented output.
func MarshalIndent[T any](c serial.Codec[T], v T, indent string, opts ...tree.Option) ([]byte, error) {
	data, err := Marshal(c, v, opts...)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Unmarshal decodes a JSON document with c.
func Unmarshal[T any](c serial.Codec[T], data []byte, opts ...tree.Option) (T, error) {
	n, err := Parse(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return tree.Decode(c, n, tree.NewConfig(opts...))
}

// Render writes n as compact JSON.
func Render(n *tree.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func render(buf *bytes.Buffer, n *tree.Node) error {
	if n == nil {
		buf.WriteString("null")
		return nil
	}
	switch n.Kind {
	case tree.KindNull:
		buf.WriteString("null")
	case tree.KindString:
		return writeString(buf, n.Str)
	case tree.KindInt:
		buf.WriteString(strconv.FormatInt(n.Int, 10))
	case tree.KindFloat:
		b, err := json.Marshal(n.Float)
		if err != nil {
			return err
		}
		buf.Write(b)
	case tree.KindBool:
		buf.WriteString(strconv.FormatBool(n.Bool))
	case tree.KindList:
		buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := render(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case tree.KindMap:
		buf.WriteByte('{')
		for i, key := range n.Keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := render(buf, n.Items[i]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("jsonfmt: cannot render %s", n.Kind)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// Parse reads one JSON value into a tree.
func Parse(data []byte) (*tree.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}
	return n, nil
}

func parseValue(dec *json.Decoder) (*tree.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("jsonfmt: %w", err)
	}
	switch t := tok.(type) {
	case nil:
		return tree.Null(), nil
	case string:
		return tree.String(t), nil
	case bool:
		return tree.Bool(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return tree.Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("jsonfmt: %w", err)
		}
		return tree.Float(f), nil
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
	}
	return nil, fmt.Errorf("jsonfmt: unexpected token %v", tok)
}

func parseObject(dec *json.Decoder) (*tree.Node, error) {
	n := tree.Map()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("jsonfmt: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("jsonfmt: object key %v is not a string", tok)
		}
		v, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		n.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("jsonfmt: %w", err)
	}
	return n, nil
}

func parseArray(dec *json.Decoder) (*tree.Node, error) {
	n := tree.List()
	for dec.More() {
		v, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		n.Items = append(n.Items, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("jsonfmt: %w", err)
	}
	return n, nil
}
