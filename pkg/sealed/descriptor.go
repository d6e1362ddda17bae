package sealed

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/gork-labs/sealed/pkg/serial"
)

// Element positions inside the union aggregate.
const (
	typeIndex  = 0
	valueIndex = 1
)

// Element names inside the union aggregate.
const (
	TypeElement  = "type"
	ValueElement = "value"
)

// UnionDescriptor describes a union called name over the given variant
// descriptors: a sealed aggregate of a string "type" element and a "value"
// element listing every variant under its own name. It is metadata for
// tooling only; encode and decode resolve variants through the Registry.
func UnionDescriptor(name string, variants []*serial.Descriptor) *serial.Descriptor {
	elems := make([]serial.Element, len(variants))
	for i, v := range variants {
		elems[i] = serial.Field(v.Name, v)
	}
	return &serial.Descriptor{
		Name: name,
		Kind: serial.KindSealed,
		Elements: []serial.Element{
			serial.Field(TypeElement, serial.String().Descriptor()),
			serial.Field(ValueElement, &serial.Descriptor{
				Name:     "sealed<" + name + ">",
				Kind:     serial.KindVariants,
				Elements: elems,
			}),
		},
	}
}

// Fingerprint hashes the shape of desc: kinds, names and element order,
// recursively. Two peers with equal fingerprints agree on the wire layout.
func Fingerprint(desc *serial.Descriptor) uint64 {
	d := xxhash.New()
	writeShape(d, desc, map[*serial.Descriptor]int{})
	return d.Sum64()
}

func writeShape(d *xxhash.Digest, desc *serial.Descriptor, seen map[*serial.Descriptor]int) {
	var buf [binary.MaxVarintLen64]byte
	if depth, ok := seen[desc]; ok {
		// recursive shape: refer back to the enclosing level
		_, _ = d.Write([]byte{0xff})
		_, _ = d.Write(buf[:binary.PutUvarint(buf[:], uint64(depth))])
		return
	}
	seen[desc] = len(seen)
	defer delete(seen, desc)

	_, _ = d.Write([]byte{byte(desc.Kind)})
	_, _ = d.Write(buf[:binary.PutUvarint(buf[:], uint64(len(desc.Name)))])
	_, _ = d.WriteString(desc.Name)
	_, _ = d.Write(buf[:binary.PutUvarint(buf[:], uint64(len(desc.Elements)))])
	for _, e := range desc.Elements {
		_, _ = d.Write(buf[:binary.PutUvarint(buf[:], uint64(len(e.Name)))])
		_, _ = d.WriteString(e.Name)
		if e.Optional {
			_, _ = d.Write([]byte{1})
		} else {
			_, _ = d.Write([]byte{0})
		}
		writeShape(d, e.Descriptor, seen)
	}
}
