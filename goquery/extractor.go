package goquery

import "github.com/Traves-Theberge/webform-cli"

// Ensure Extractor implements webform.FieldExtractor at compile time.
var _ webform.FieldExtractor = (*Extractor)(nil)

// Extractor parses HTML with goquery and extracts schema fields.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractFields parses html and extracts the raw value of every selector in s.
func (e *Extractor) ExtractFields(html string, s *webform.Schema) (*webform.Extraction, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}
	return webform.Extract(doc, s), nil
}
