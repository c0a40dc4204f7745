package webform

import (
	"fmt"
	"regexp"
	"slices"
)

// RawResult maps field names to raw extracted values. A value is a string, a
// []string when a selector matched several nodes, or nil when nothing matched.
type RawResult map[string]any

// FieldError records a field whose selector could not be evaluated.
type FieldError struct {
	Field    string
	Selector string
	Err      error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: selector %q: %v", e.Field, e.Selector, e.Err)
}

// Unwrap returns the underlying selector error.
func (e *FieldError) Unwrap() error { return e.Err }

// Extraction holds the raw values extracted from one document together with
// any per-field selector failures.
type Extraction struct {
	Fields RawResult
	Errors []*FieldError
}

// FieldExtractor parses HTML and extracts the raw value of every selector in
// a schema.
type FieldExtractor interface {
	// ExtractFields parses html and extracts raw field values.
	// Per-field failures are reported in Extraction.Errors, not as an error.
	ExtractFields(html string, s *Schema) (*Extraction, error)
}

// commentCountRe matches a leading comment count such as "42 comments".
var commentCountRe = regexp.MustCompile(`(?i)^(\d+)[\s\x{00a0}]*comments?`)

// Extract queries doc with every selector in s and returns the raw values.
// A selector that cannot be evaluated yields nil for its field and is
// recorded in Extraction.Errors; the remaining fields are still extracted.
// Fields that only appear in s.Structure are not present in the result.
func Extract(doc Document, s *Schema) *Extraction {
	ex := &Extraction{Fields: make(RawResult, len(s.Selectors))}

	names := make([]string, 0, len(s.Selectors))
	for name := range s.Selectors {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		selector := s.Selectors[name]
		sel, err := doc.Select(selector)
		if err != nil {
			ex.Errors = append(ex.Errors, &FieldError{Field: name, Selector: selector, Err: err})
			ex.Fields[name] = nil
			continue
		}

		switch s.Strategy(name) {
		case StrategyURL:
			ex.Fields[name] = hrefValue(sel)
		case StrategyCommentCount:
			ex.Fields[name] = commentCountValue(sel)
		default:
			ex.Fields[name] = textValue(sel)
		}
	}

	return ex
}

// textValue returns nil, the single node's text, or every node's text.
func textValue(sel Selection) any {
	switch n := sel.Len(); n {
	case 0:
		return nil
	case 1:
		return sel.Text(0)
	default:
		texts := make([]string, n)
		for i := range n {
			texts[i] = sel.Text(i)
		}
		return texts
	}
}

// hrefValue returns the href of a single node, the hrefs of several nodes,
// or nil when no matched node carries one.
func hrefValue(sel Selection) any {
	n := sel.Len()
	if n == 1 {
		if href, ok := sel.Attr(0, "href"); ok {
			return href
		}
		return nil
	}

	var hrefs []string
	for i := range n {
		if href, ok := sel.Attr(i, "href"); ok {
			hrefs = append(hrefs, href)
		}
	}
	if len(hrefs) == 0 {
		return nil
	}
	return hrefs
}

// commentCountValue returns the comment count digits from the first node's
// text, or the full text when it does not start with a count.
func commentCountValue(sel Selection) any {
	if sel.Len() == 0 {
		return nil
	}
	text := sel.Text(0)
	if m := commentCountRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}
