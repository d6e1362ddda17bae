// Package yamlfmt reads and writes sealed values as YAML through yaml.v3
// nodes, which keep mapping keys in document order.
package yamlfmt

import (
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gork-labs/sealed/pkg/formats/tree"
	"github.com/gork-labs/sealed/pkg/serial"
)

// ContentType is the media type of this format.
const ContentType = "application/yaml"

var (
	// ErrEmptyDocument is returned when the input holds no YAML value.
	ErrEmptyDocument = errors.New("yamlfmt: empty document")
	// ErrAliasExpansion is returned when aliases expand a document far
	// beyond the size of its input.
	ErrAliasExpansion = errors.New("yamlfmt: alias expansion exceeds node budget")
)

// Expansion budget: a document may produce at most minNodes or
// nodesPerByte nodes per input byte, whichever is larger.
const (
	minNodes     = 1024
	nodesPerByte = 4
)

// Marshal encodes v with c as YAML.
func Marshal[T any](c serial.Codec[T], v T, opts ...tree.Option) ([]byte, error) {
	n, err := tree.Encode(c, v, tree.NewConfig(opts...))
	if err != nil {
		return nil, err
	}
	return Render(n)
}

// Unmarshal decodes a YAML document with c.
func Unmarshal[T any](c serial.Codec[T], data []byte, opts ...tree.Option) (T, error) {
	n, err := Parse(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return tree.Decode(c, n, tree.NewConfig(opts...))
}

// Render writes n as a YAML document.
func Render(n *tree.Node) ([]byte, error) {
	y, err := toYAML(n)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(y)
}

func toYAML(n *tree.Node) (*yaml.Node, error) {
	if n == nil {
		return scalar("!!null", "null"), nil
	}
	switch n.Kind {
	case tree.KindNull:
		return scalar("!!null", "null"), nil
	case tree.KindString:
		return scalar("!!str", n.Str), nil
	case tree.KindInt:
		return scalar("!!int", strconv.FormatInt(n.Int, 10)), nil
	case tree.KindFloat:
		return scalar("!!float", strconv.FormatFloat(n.Float, 'g', -1, 64)), nil
	case tree.KindBool:
		return scalar("!!bool", strconv.FormatBool(n.Bool)), nil
	case tree.KindList:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.Items {
			y, err := toYAML(item)
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, y)
		}
		return out, nil
	case tree.KindMap:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i, key := range n.Keys {
			y, err := toYAML(n.Items[i])
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, scalar("!!str", key), y)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("yamlfmt: cannot render %s", n.Kind)
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// Parse reads the first YAML document into a tree.
func Parse(data []byte) (*tree.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yamlfmt: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrEmptyDocument
	}
	p := &parser{budget: max(minNodes, nodesPerByte*len(data))}
	return p.fromYAML(doc.Content[0])
}

// parser converts yaml nodes into a tree, counting every node it produces
// so that aliases cannot multiply a small input into a huge tree.
type parser struct {
	budget int
}

func (p *parser) fromYAML(y *yaml.Node) (*tree.Node, error) {
	if p.budget--; p.budget < 0 {
		return nil, ErrAliasExpansion
	}
	switch y.Kind {
	case yaml.AliasNode:
		p.budget++
		return p.fromYAML(y.Alias)
	case yaml.SequenceNode:
		n := tree.List()
		for _, c := range y.Content {
			item, err := p.fromYAML(c)
			if err != nil {
				return nil, err
			}
			n.Items = append(n.Items, item)
		}
		return n, nil
	case yaml.MappingNode:
		n := tree.Map()
		for i := 0; i+1 < len(y.Content); i += 2 {
			k := y.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("yamlfmt: line %d: mapping key is not a scalar", k.Line)
			}
			v, err := p.fromYAML(y.Content[i+1])
			if err != nil {
				return nil, err
			}
			n.Set(k.Value, v)
		}
		return n, nil
	case yaml.ScalarNode:
		return fromScalar(y)
	default:
		return nil, fmt.Errorf("yamlfmt: line %d: unsupported node", y.Line)
	}
}

func fromScalar(y *yaml.Node) (*tree.Node, error) {
	switch y.ShortTag() {
	case "!!null":
		return tree.Null(), nil
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err != nil {
			return nil, fmt.Errorf("yamlfmt: %w", err)
		}
		return tree.Bool(b), nil
	case "!!int":
		var i int64
		if err := y.Decode(&i); err != nil {
			return nil, fmt.Errorf("yamlfmt: %w", err)
		}
		return tree.Int(i), nil
	case "!!float":
		var f float64
		if err := y.Decode(&f); err != nil {
			return nil, fmt.Errorf("yamlfmt: %w", err)
		}
		return tree.Float(f), nil
	default:
		return tree.String(y.Value), nil
	}
}
