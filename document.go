package webform

// Document is a parsed HTML document that can be queried with CSS selectors.
type Document interface {
	// Select returns the nodes matching selector in document order.
	// Returns an error if the selector cannot be evaluated.
	Select(selector string) (Selection, error)
}

// Selection is an ordered set of matched document nodes.
type Selection interface {
	// Len returns the number of matched nodes.
	Len() int

	// Text returns the trimmed text content of the i-th node.
	Text(i int) string

	// Attr returns the named attribute of the i-th node and whether it exists.
	Attr(i int, name string) (string, bool)
}
