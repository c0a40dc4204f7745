package webform

import (
	"context"
	"slices"
	"strings"
)

// Type identifies the JSON type a field's raw value is coerced into.
type Type string

// Supported descriptor types.
const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeNull    Type = "null"
)

// Types lists every type accepted in a descriptor, in declaration order.
var Types = []Type{TypeString, TypeNumber, TypeBoolean, TypeObject, TypeArray, TypeNull}

// Valid reports whether t is one of the supported types.
func (t Type) Valid() bool {
	return slices.Contains(Types, t)
}

// TypeDescriptor describes how a field's raw value is interpreted and coerced.
// Descriptors nest through Items (arrays) and Properties (objects).
type TypeDescriptor struct {
	Type        Type                       `json:"type,omitempty"`
	Nullable    *bool                      `json:"nullable,omitempty"`
	Description string                     `json:"description,omitempty"`
	Format      string                     `json:"format,omitempty"`
	Required    []string                   `json:"required,omitempty"`
	MaxItems    *int                       `json:"maxItems,omitempty"`
	MinItems    *int                       `json:"minItems,omitempty"`
	Items       *TypeDescriptor            `json:"items,omitempty"`
	Properties  map[string]*TypeDescriptor `json:"properties,omitempty"`

	// Selector is set on descriptors nested below the top level of a
	// property-style schema. Top-level selectors are moved into
	// Schema.Selectors during normalization.
	Selector string `json:"selector,omitempty"`
}

// IsNullable reports whether a null raw value is kept as null.
// Descriptors are nullable unless they say otherwise.
func (d *TypeDescriptor) IsNullable() bool {
	return d == nil || d.Nullable == nil || *d.Nullable
}

// Requires reports whether name appears in the descriptor's required list.
func (d *TypeDescriptor) Requires(name string) bool {
	return d != nil && slices.Contains(d.Required, name)
}

// Strategy selects how a field's matched nodes become a raw value.
type Strategy string

// Extraction strategies.
const (
	// StrategyText reads trimmed text content.
	StrategyText Strategy = "text"

	// StrategyURL reads the href attribute instead of text.
	StrategyURL Strategy = "url"

	// StrategyCommentCount reads text and keeps the leading
	// "<digits> comment(s)" count when present.
	StrategyCommentCount Strategy = "comment_count"
)

// StrategyFor resolves the extraction strategy for a field from its name.
// Names containing "url" (case-insensitive) read href attributes; otherwise
// names containing "comment" extract comment counts; everything else reads text.
func StrategyFor(field string) Strategy {
	name := strings.ToLower(field)
	switch {
	case strings.Contains(name, "url"):
		return StrategyURL
	case strings.Contains(name, "comment"):
		return StrategyCommentCount
	default:
		return StrategyText
	}
}

// Shape identifies which input shape a schema was normalized from.
type Shape string

// Recognized schema input shapes, in detection order.
const (
	ShapeCanonical  Shape = "canonical"
	ShapeProperties Shape = "properties"
	ShapeFields     Shape = "fields"
	ShapeFlat       Shape = "flat"
)

// Schema is the canonical schema consumed by extraction and coercion.
// A Schema is built once per invocation and not modified afterwards.
type Schema struct {
	// Selectors maps field names to CSS selectors.
	Selectors map[string]string `json:"selectors"`

	// Structure maps field names to type descriptors. A field may appear
	// here without a selector; a selector without a descriptor is untyped.
	Structure map[string]*TypeDescriptor `json:"structure"`

	// Strategies holds the extraction strategy for every selector field.
	Strategies map[string]Strategy `json:"-"`

	// Shape records the input shape the schema was normalized from.
	Shape Shape `json:"-"`
}

// Strategy returns the extraction strategy for a field, resolving it from
// the field name when the schema was not built by Normalize.
func (s *Schema) Strategy(field string) Strategy {
	if st, ok := s.Strategies[field]; ok {
		return st
	}
	return StrategyFor(field)
}

// Fields returns the sorted union of selector and structure field names.
func (s *Schema) Fields() []string {
	names := make([]string, 0, len(s.Selectors)+len(s.Structure))
	for name := range s.Selectors {
		names = append(names, name)
	}
	for name := range s.Structure {
		if _, ok := s.Selectors[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Diagnostic is a single schema validation problem.
type Diagnostic struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// ValidationReport is the advisory result of validating a schema.
// Errors is nil when the schema is valid.
type ValidationReport struct {
	Valid  bool         `json:"valid"`
	Errors []Diagnostic `json:"errors"`
}

// SchemaValidator checks canonical schemas against the structural contract.
// Validation never fails; problems are reported as diagnostics.
type SchemaValidator interface {
	// Validate checks a normalized schema.
	Validate(s *Schema) *ValidationReport

	// ValidateJSON parses and normalizes raw schema JSON, then validates it.
	// A parse failure is reported as a single diagnostic.
	ValidateJSON(data []byte) *ValidationReport
}

// SchemaStore reads named schema definitions.
type SchemaStore interface {
	// ReadSchema returns the raw JSON of the named schema.
	// Returns ENOTFOUND if the schema does not exist.
	ReadSchema(ctx context.Context, name string) ([]byte, error)

	// ListSchemas returns the names of all available schemas, sorted.
	ListSchemas(ctx context.Context) ([]string, error)
}

// LoadSchema reads the named schema from the store and normalizes it.
// Returns ENOTFOUND if the schema does not exist and EINVALID if it is not
// valid JSON.
func LoadSchema(ctx context.Context, store SchemaStore, name string) (*Schema, error) {
	data, err := store.ReadSchema(ctx, name)
	if err != nil {
		return nil, err
	}
	s, err := ParseSchema(data)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid schema %q: %s", name, ErrorMessage(err))
	}
	return s, nil
}
