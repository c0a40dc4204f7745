package mock

import (
	"context"

	"github.com/Traves-Theberge/webform-cli"
)

// Compile-time interface verification.
var (
	_ webform.SchemaStore     = (*SchemaStore)(nil)
	_ webform.SchemaValidator = (*SchemaValidator)(nil)
)

// SchemaStore is a mock implementation of webform.SchemaStore.
type SchemaStore struct {
	ReadSchemaFn  func(ctx context.Context, name string) ([]byte, error)
	ListSchemasFn func(ctx context.Context) ([]string, error)
}

func (s *SchemaStore) ReadSchema(ctx context.Context, name string) ([]byte, error) {
	return s.ReadSchemaFn(ctx, name)
}

func (s *SchemaStore) ListSchemas(ctx context.Context) ([]string, error) {
	return s.ListSchemasFn(ctx)
}

// SchemaValidator is a mock implementation of webform.SchemaValidator.
type SchemaValidator struct {
	ValidateFn     func(s *webform.Schema) *webform.ValidationReport
	ValidateJSONFn func(data []byte) *webform.ValidationReport
}

func (v *SchemaValidator) Validate(s *webform.Schema) *webform.ValidationReport {
	return v.ValidateFn(s)
}

func (v *SchemaValidator) ValidateJSON(data []byte) *webform.ValidationReport {
	return v.ValidateJSONFn(data)
}
