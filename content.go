package webform

import "unicode/utf8"

// ContentResult holds the main content of an HTML page.
type ContentResult struct {
	// Title is the page title from metadata.
	Title string

	// ContentHTML is the main content with boilerplate removed.
	ContentHTML string
}

// ContentExtractor extracts the main content of a page, removing navigation,
// footers and other boilerplate.
type ContentExtractor interface {
	Extract(html string) (*ContentResult, error)
}

// DefaultContentLimit caps page context handed to a language model, in bytes.
const DefaultContentLimit = 32 * 1024

// PageContent returns the main content of html as Markdown, prefixed with the
// page title when there is one, and cut to at most limit bytes on a rune
// boundary. A limit of zero or less means no limit. A page without main
// content yields "".
func PageContent(html string, ex ContentExtractor, conv Converter, limit int) (string, error) {
	res, err := ex.Extract(html)
	if err != nil {
		return "", err
	}
	if res.ContentHTML == "" {
		return "", nil
	}

	md, err := conv.Convert(res.ContentHTML)
	if err != nil {
		return "", err
	}
	if res.Title != "" {
		md = "# " + res.Title + "\n\n" + md
	}

	if limit > 0 && len(md) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(md[cut]) {
			cut--
		}
		md = md[:cut]
	}
	return md, nil
}
