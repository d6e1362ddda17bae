package schema

import (
	"fmt"
	"strings"

	"github.com/gork-labs/sealed/pkg/serial"
)

const componentsPrefix = "#/components/schemas/"

// Generator accumulates component schemas for one or more descriptors.
type Generator struct {
	arrayPolymorphism bool
	schemas           map[string]*Schema
}

// Option configures a Generator.
type Option func(*Generator)

// WithArrayPolymorphism describes sealed unions in their [type, value] list form.
func WithArrayPolymorphism() Option {
	return func(g *Generator) { g.arrayPolymorphism = true }
}

// NewGenerator returns an empty Generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{schemas: make(map[string]*Schema)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Components returns every schema generated so far, keyed by component name.
func (g *Generator) Components() map[string]*Schema {
	return g.schemas
}

// Add generates the schemas for desc and returns the schema to use where a
// value of desc appears: a $ref for named aggregates, inline otherwise.
func (g *Generator) Add(desc *serial.Descriptor) *Schema {
	switch desc.Kind {
	case serial.KindString:
		return &Schema{Type: "string"}
	case serial.KindInt:
		return &Schema{Type: "integer", Format: "int64"}
	case serial.KindFloat:
		return &Schema{Type: "number", Format: "double"}
	case serial.KindBool:
		return &Schema{Type: "boolean"}
	case serial.KindList:
		return &Schema{Type: "array", Items: g.Add(desc.ElementDescriptor(0))}
	case serial.KindVariants:
		return g.variants(desc)
	case serial.KindClass, serial.KindObject, serial.KindSealed:
		return g.component(desc)
	default:
		return &Schema{Description: fmt.Sprintf("unsupported kind %s", desc.Kind)}
	}
}

func (g *Generator) component(desc *serial.Descriptor) *Schema {
	name := ComponentName(desc.Name)
	ref := &Schema{Ref: componentsPrefix + name}
	if _, exists := g.schemas[name]; exists {
		return ref
	}
	// Reserve the name first so recursive shapes terminate.
	placeholder := &Schema{}
	g.schemas[name] = placeholder

	var s *Schema
	switch desc.Kind {
	case serial.KindSealed:
		s = g.union(desc)
	case serial.KindObject:
		s = &Schema{Type: "object"}
	default:
		s = g.class(desc)
	}
	*placeholder = *s
	return ref
}

func (g *Generator) class(desc *serial.Descriptor) *Schema {
	s := &Schema{Type: "object", Properties: make(map[string]*Schema, len(desc.Elements))}
	for _, e := range desc.Elements {
		s.Properties[e.Name] = g.Add(e.Descriptor)
		if !e.Optional {
			s.Required = append(s.Required, e.Name)
		}
	}
	return s
}

func (g *Generator) variants(desc *serial.Descriptor) *Schema {
	s := &Schema{OneOf: make([]*Schema, 0, len(desc.Elements))}
	for _, e := range desc.Elements {
		s.OneOf = append(s.OneOf, g.Add(e.Descriptor))
	}
	return s
}

func (g *Generator) union(desc *serial.Descriptor) *Schema {
	typeDesc, valueDesc := desc.Elements[0], desc.Elements[1]

	names := make([]interface{}, 0, len(valueDesc.Descriptor.Elements))
	mapping := make(map[string]string, len(valueDesc.Descriptor.Elements))
	value := g.variants(valueDesc.Descriptor)
	for i, e := range valueDesc.Descriptor.Elements {
		names = append(names, e.Name)
		if value.OneOf[i].Ref != "" {
			mapping[e.Name] = value.OneOf[i].Ref
		}
	}
	tag := &Schema{Type: "string", Enum: names}

	if g.arrayPolymorphism {
		two := 2
		return &Schema{
			Type:        "array",
			Description: fmt.Sprintf("%s as [%s, %s]", desc.Name, typeDesc.Name, valueDesc.Name),
			PrefixItems: []*Schema{tag, value},
			MinItems:    &two,
			MaxItems:    &two,
		}
	}
	return &Schema{
		Type:       "object",
		Properties: map[string]*Schema{typeDesc.Name: tag, valueDesc.Name: value},
		Required:   []string{typeDesc.Name, valueDesc.Name},
		Discriminator: &Discriminator{
			PropertyName: typeDesc.Name,
			Mapping:      mapping,
		},
	}
}

// ComponentName turns a descriptor name into a component key: characters
// outside [A-Za-z0-9._-] become underscores.
func ComponentName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}

// NewDocument builds a document holding the components of every descriptor.
func NewDocument(title, version string, descs []*serial.Descriptor, opts ...Option) *Document {
	g := NewGenerator(opts...)
	for _, d := range descs {
		g.Add(d)
	}
	return &Document{
		OpenAPI:    "3.1.0",
		Info:       Info{Title: title, Version: version},
		Components: &Components{Schemas: g.Components()},
	}
}
