package mock

import "github.com/Traves-Theberge/webform-cli"

// Compile-time interface verification.
var (
	_ webform.FieldExtractor   = (*FieldExtractor)(nil)
	_ webform.ContentExtractor = (*ContentExtractor)(nil)
)

// FieldExtractor is a mock implementation of webform.FieldExtractor.
type FieldExtractor struct {
	ExtractFieldsFn func(html string, s *webform.Schema) (*webform.Extraction, error)
}

func (e *FieldExtractor) ExtractFields(html string, s *webform.Schema) (*webform.Extraction, error) {
	return e.ExtractFieldsFn(html, s)
}

// ContentExtractor is a mock implementation of webform.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*webform.ContentResult, error)
}

func (e *ContentExtractor) Extract(html string) (*webform.ContentResult, error) {
	return e.ExtractFn(html)
}
