// Package formats looks up the wire formats by name so tools can pick one at
// run time. Every format parses into and renders from a tree.Node.
package formats

import (
	"fmt"
	"sort"

	"github.com/gork-labs/sealed/pkg/formats/jsonfmt"
	"github.com/gork-labs/sealed/pkg/formats/msgpackfmt"
	"github.com/gork-labs/sealed/pkg/formats/tree"
	"github.com/gork-labs/sealed/pkg/formats/yamlfmt"
	"github.com/gork-labs/sealed/pkg/serial"
)

// Format converts between bytes and value trees.
type Format interface {
	Name() string
	ContentType() string
	Parse(data []byte) (*tree.Node, error)
	Render(n *tree.Node) ([]byte, error)
}

type format struct {
	name        string
	contentType string
	parse       func([]byte) (*tree.Node, error)
	render      func(*tree.Node) ([]byte, error)
}

func (f format) Name() string                          { return f.name }
func (f format) ContentType() string                   { return f.contentType }
func (f format) Parse(data []byte) (*tree.Node, error) { return f.parse(data) }
func (f format) Render(n *tree.Node) ([]byte, error)   { return f.render(n) }

var byName = map[string]Format{
	"json":    format{name: "json", contentType: jsonfmt.ContentType, parse: jsonfmt.Parse, render: jsonfmt.Render},
	"yaml":    format{name: "yaml", contentType: yamlfmt.ContentType, parse: yamlfmt.Parse, render: yamlfmt.Render},
	"msgpack": format{name: "msgpack", contentType: msgpackfmt.ContentType, parse: msgpackfmt.Parse, render: msgpackfmt.Render},
}

var aliases = map[string]string{
	"yml":                  "yaml",
	"mp":                   "msgpack",
	jsonfmt.ContentType:    "json",
	yamlfmt.ContentType:    "yaml",
	msgpackfmt.ContentType: "msgpack",
}

// Lookup returns the format called name. Content types and common file
// extensions are accepted too.
func Lookup(name string) (Format, error) {
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	if f, ok := byName[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("unsupported format: %s", name)
}

// Names returns the canonical format names, sorted.
func Names() []string {
	out := make([]string, 0, len(byName))
	for name := range byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Marshal encodes v with c in format f.
func Marshal[T any](f Format, c serial.Codec[T], v T, opts ...tree.Option) ([]byte, error) {
	n, err := tree.Encode(c, v, tree.NewConfig(opts...))
	if err != nil {
		return nil, err
	}
	return f.Render(n)
}

// Unmarshal decodes data in format f with c.
func Unmarshal[T any](f Format, c serial.Codec[T], data []byte, opts ...tree.Option) (T, error) {
	n, err := f.Parse(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return tree.Decode(c, n, tree.NewConfig(opts...))
}
