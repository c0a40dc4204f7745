package mock

import "github.com/Traves-Theberge/webform-cli"

// Compile-time interface verification.
var (
	_ webform.Document  = (*Document)(nil)
	_ webform.Selection = (*Selection)(nil)
)

// Document is a mock implementation of webform.Document.
type Document struct {
	SelectFn func(selector string) (webform.Selection, error)
}

func (d *Document) Select(selector string) (webform.Selection, error) {
	return d.SelectFn(selector)
}

// Node is one matched element of a Selection.
type Node struct {
	Text  string
	Attrs map[string]string
}

// Selection is an in-memory webform.Selection over fixed nodes.
type Selection struct {
	Nodes []Node
}

func (s *Selection) Len() int {
	return len(s.Nodes)
}

func (s *Selection) Text(i int) string {
	if i < 0 || i >= len(s.Nodes) {
		return ""
	}
	return s.Nodes[i].Text
}

func (s *Selection) Attr(i int, name string) (string, bool) {
	if i < 0 || i >= len(s.Nodes) {
		return "", false
	}
	v, ok := s.Nodes[i].Attrs[name]
	return v, ok
}
