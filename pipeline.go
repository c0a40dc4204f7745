package webform

import "time"

// Result is everything produced by running the pipeline on one document.
type Result struct {
	// Output is the assembled structured output.
	Output Output

	// Raw holds the values extracted before coercion.
	Raw RawResult

	// FieldErrors lists fields whose selectors could not be evaluated.
	FieldErrors []*FieldError

	// Issues lists values replaced by defaults during coercion.
	Issues []CoerceIssue

	// Validation is the advisory schema report, nil when no validator is set.
	Validation *ValidationReport
}

// Pipeline runs extraction, coercion and assembly for one document at a time.
// It holds no per-invocation state and may be reused.
type Pipeline struct {
	Extractor FieldExtractor

	// Validator is optional. Its report never stops extraction.
	Validator SchemaValidator

	// Now returns the extraction timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Run extracts s from html and returns the assembled result.
// Only a document that cannot be parsed returns an error.
func (p *Pipeline) Run(html string, s *Schema) (*Result, error) {
	res := &Result{}
	if p.Validator != nil {
		res.Validation = p.Validator.Validate(s)
	}

	ex, err := p.Extractor.ExtractFields(html, s)
	if err != nil {
		return nil, err
	}
	res.Raw = ex.Fields
	res.FieldErrors = ex.Errors

	fields, issues := CoerceFieldsReport(ex.Fields, s)
	res.Issues = issues

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	res.Output = AssembleAt(fields, now())

	return res, nil
}
