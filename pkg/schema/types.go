// Package schema exports descriptors as OpenAPI 3.1 component schemas and
// renders them as indented trees. It only reads descriptors; it never
// touches encoded values.
package schema

// Document is a minimal OpenAPI 3.1 document holding component schemas.
type Document struct {
	OpenAPI    string      `json:"openapi" yaml:"openapi"`
	Info       Info        `json:"info" yaml:"info"`
	Components *Components `json:"components,omitempty" yaml:"components,omitempty"`
}

// Info is the document metadata.
type Info struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Components holds the named schemas.
type Components struct {
	Schemas map[string]*Schema `json:"schemas,omitempty" yaml:"schemas,omitempty"`
}

// Schema is the subset of JSON Schema used for descriptors.
type Schema struct {
	Ref           string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type          string             `json:"type,omitempty" yaml:"type,omitempty"`
	Format        string             `json:"format,omitempty" yaml:"format,omitempty"`
	Description   string             `json:"description,omitempty" yaml:"description,omitempty"`
	Properties    map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items         *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
	PrefixItems   []*Schema          `json:"prefixItems,omitempty" yaml:"prefixItems,omitempty"`
	Required      []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Enum          []interface{}      `json:"enum,omitempty" yaml:"enum,omitempty"`
	MinItems      *int               `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems      *int               `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	OneOf         []*Schema          `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`
	Discriminator *Discriminator     `json:"discriminator,omitempty" yaml:"discriminator,omitempty"`
}

// Discriminator names the property holding the variant name and maps each
// name to the schema of its payload.
type Discriminator struct {
	PropertyName string            `json:"propertyName" yaml:"propertyName"`
	Mapping      map[string]string `json:"mapping,omitempty" yaml:"mapping,omitempty"`
}
