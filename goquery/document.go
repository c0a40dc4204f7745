// Package goquery implements the webform document model on top of
// PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/Traves-Theberge/webform-cli"
	"github.com/andybalholm/cascadia"
)

// Ensure Document implements webform.Document at compile time.
var _ webform.Document = (*Document)(nil)

// Document is a parsed HTML document.
type Document struct {
	doc *goquery.Document
}

// Parse parses an HTML string into a Document.
func Parse(html string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, webform.Errorf(webform.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Document{doc: doc}, nil
}

// Select returns the nodes matching selector in document order.
//
// goquery silently matches nothing for a selector it cannot compile, so the
// selector is compiled here first to report the failure.
func (d *Document) Select(selector string) (webform.Selection, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, webform.Errorf(webform.EINVALID, "invalid selector %q: %v", selector, err)
	}
	return &Selection{sel: d.doc.FindMatcher(m)}, nil
}

// Ensure Selection implements webform.Selection at compile time.
var _ webform.Selection = (*Selection)(nil)

// Selection wraps a goquery selection.
type Selection struct {
	sel *goquery.Selection
}

// Len returns the number of matched nodes.
func (s *Selection) Len() int {
	return s.sel.Length()
}

// Text returns the trimmed text content of the i-th node.
func (s *Selection) Text(i int) string {
	return strings.TrimSpace(s.sel.Eq(i).Text())
}

// Attr returns the named attribute of the i-th node.
func (s *Selection) Attr(i int, name string) (string, bool) {
	return s.sel.Eq(i).Attr(name)
}
