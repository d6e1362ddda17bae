package schema

import (
	"fmt"
	"io"
	"strings"

	"github.com/gork-labs/sealed/pkg/serial"
)

// WriteTree prints desc as an indented tree, one element per line:
//
//	Message (sealed)
//	  type: string (string)
//	  value: sealed<Message> (variants)
//	    StringMessage: StringMessage (class)
//	      description: string (string)
func WriteTree(w io.Writer, desc *serial.Descriptor) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\n", desc.Name, desc.Kind); err != nil {
		return err
	}
	return writeElements(w, desc, 1, map[*serial.Descriptor]bool{desc: true})
}

func writeElements(w io.Writer, desc *serial.Descriptor, depth int, open map[*serial.Descriptor]bool) error {
	indent := strings.Repeat("  ", depth)
	for _, e := range desc.Elements {
		suffix := ""
		if e.Optional {
			suffix = " optional"
		}
		if open[e.Descriptor] {
			suffix += " recursive"
		}
		if _, err := fmt.Fprintf(w, "%s%s: %s (%s)%s\n", indent, e.Name, e.Descriptor.Name, e.Descriptor.Kind, suffix); err != nil {
			return err
		}
		if open[e.Descriptor] {
			continue
		}
		open[e.Descriptor] = true
		if err := writeElements(w, e.Descriptor, depth+1, open); err != nil {
			return err
		}
		delete(open, e.Descriptor)
	}
	return nil
}
