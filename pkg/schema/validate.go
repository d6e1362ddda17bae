package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Validate checks the structure of doc: the OpenAPI version, the info
// object, that every $ref resolves to a component and that every
// discriminator mapping targets a member of the union's oneOf.
func Validate(doc *Document) error {
	if doc == nil {
		return errors.New("missing document")
	}
	switch doc.OpenAPI {
	case "3.0.0", "3.0.1", "3.0.2", "3.0.3", "3.1.0":
	default:
		return fmt.Errorf("unsupported OpenAPI version: %q", doc.OpenAPI)
	}
	if doc.Info.Title == "" || doc.Info.Version == "" {
		return errors.New("missing or invalid 'info' field")
	}
	if doc.Components == nil {
		return nil
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if err := validateSchema(doc.Components.Schemas, doc.Components.Schemas[name]); err != nil {
			errs = append(errs, fmt.Errorf("schema %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func validateSchema(components map[string]*Schema, s *Schema) error {
	if s == nil {
		return errors.New("nil schema")
	}
	if s.Ref != "" {
		if !strings.HasPrefix(s.Ref, componentsPrefix) {
			return fmt.Errorf("unsupported $ref %q", s.Ref)
		}
		if _, ok := components[strings.TrimPrefix(s.Ref, componentsPrefix)]; !ok {
			return fmt.Errorf("unresolved $ref %q", s.Ref)
		}
		return nil
	}

	var errs []error
	for _, name := range sortedKeys(s.Properties) {
		if err := validateSchema(components, s.Properties[name]); err != nil {
			errs = append(errs, fmt.Errorf("property %s: %w", name, err))
		}
	}
	for _, r := range s.Required {
		if _, ok := s.Properties[r]; !ok && s.Properties != nil {
			errs = append(errs, fmt.Errorf("required property %s is not declared", r))
		}
	}
	if s.Items != nil {
		if err := validateSchema(components, s.Items); err != nil {
			errs = append(errs, fmt.Errorf("items: %w", err))
		}
	}
	for i, item := range s.PrefixItems {
		if err := validateSchema(components, item); err != nil {
			errs = append(errs, fmt.Errorf("prefixItems[%d]: %w", i, err))
		}
	}
	for i, member := range s.OneOf {
		if err := validateSchema(components, member); err != nil {
			errs = append(errs, fmt.Errorf("oneOf[%d]: %w", i, err))
		}
	}
	if s.Discriminator != nil {
		errs = append(errs, validateDiscriminator(s))
	}
	return errors.Join(errs...)
}

func validateDiscriminator(s *Schema) error {
	d := s.Discriminator
	if d.PropertyName == "" {
		return errors.New("discriminator without propertyName")
	}
	if _, ok := s.Properties[d.PropertyName]; !ok {
		return fmt.Errorf("discriminator property %s is not declared", d.PropertyName)
	}

	members := map[string]bool{}
	for _, p := range s.Properties {
		for _, m := range p.OneOf {
			members[m.Ref] = true
		}
	}
	for _, name := range sortedKeys(d.Mapping) {
		if !members[d.Mapping[name]] {
			return fmt.Errorf("discriminator mapping %s -> %s is not a oneOf member", name, d.Mapping[name])
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
