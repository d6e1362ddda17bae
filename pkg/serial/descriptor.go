// Package serial defines the structured encoder/decoder capability that
// codecs are written against, together with the descriptors that describe
// the shape of encoded values.
package serial

import "fmt"

// Kind classifies the shape a Descriptor describes.
type Kind uint8

// Descriptor kinds.
const (
	KindString Kind = iota + 1
	KindInt
	KindFloat
	KindBool
	KindClass
	KindObject
	KindList
	KindSealed
	KindVariants
)

// Sentinel results of CompositeDecoder.DecodeElementIndex and Descriptor.ElementIndex.
const (
	// ReadDone means the aggregate has no more elements.
	ReadDone = -1
	// ReadAll means every element is available in declaration order and
	// may be read without further index negotiation.
	ReadAll = -2
	// UnknownName is returned by ElementIndex for a name the descriptor does not declare.
	UnknownName = -3
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindClass:
		return "class"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	case KindSealed:
		return "sealed"
	case KindVariants:
		return "variants"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Primitive reports whether values of this kind are written without BeginStructure.
func (k Kind) Primitive() bool {
	return k == KindString || k == KindInt || k == KindFloat || k == KindBool
}

// Element is one named, ordered member of a Descriptor.
type Element struct {
	Name       string
	Descriptor *Descriptor
	Optional   bool
}

// Descriptor is pure metadata about the shape of an encoded value.
// Descriptors are built once and must not be mutated afterwards.
type Descriptor struct {
	Name     string
	Kind     Kind
	Elements []Element
}

// Class builds a descriptor for a fixed set of named fields.
func Class(name string, elements ...Element) *Descriptor {
	return &Descriptor{Name: name, Kind: KindClass, Elements: elements}
}

// Field is shorthand for a required Element.
func Field(name string, d *Descriptor) Element {
	return Element{Name: name, Descriptor: d}
}

// OptionalField is shorthand for an Element that may be absent on the wire.
func OptionalField(name string, d *Descriptor) Element {
	return Element{Name: name, Descriptor: d, Optional: true}
}

// ElementsCount returns the number of declared elements.
func (d *Descriptor) ElementsCount() int {
	return len(d.Elements)
}

// ElementName returns the name of element i. Lists name every item after
// their single declared element.
func (d *Descriptor) ElementName(i int) string {
	if e, ok := d.element(i); ok {
		return e.Name
	}
	return ""
}

// ElementDescriptor returns the descriptor of element i, or nil.
func (d *Descriptor) ElementDescriptor(i int) *Descriptor {
	if e, ok := d.element(i); ok {
		return e.Descriptor
	}
	return nil
}

// ElementIndex returns the index of the element called name, or UnknownName.
func (d *Descriptor) ElementIndex(name string) int {
	for i, e := range d.Elements {
		if e.Name == name {
			return i
		}
	}
	return UnknownName
}

func (d *Descriptor) element(i int) (Element, bool) {
	if d.Kind == KindList && len(d.Elements) == 1 && i >= 0 {
		return d.Elements[0], true
	}
	if i < 0 || i >= len(d.Elements) {
		return Element{}, false
	}
	return d.Elements[i], true
}

// Renamed returns a shallow copy of d carrying a different name.
func (d *Descriptor) Renamed(name string) *Descriptor {
	cp := *d
	cp.Name = name
	return &cp
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s(%s)", d.Name, d.Kind)
}
