// Package trafilatura implements webform.ContentExtractor with go-trafilatura.
// The extracted main content is given to the language model as page context.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/Traves-Theberge/webform-cli"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements webform.ContentExtractor at compile time.
var _ webform.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor. Comments sections are dropped and
// links are kept so the model can see product and listing URLs.
func NewExtractor() *Extractor {
	return &Extractor{opts: trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		IncludeLinks:    true,
	}}
}

// Extract returns the page title and main content HTML.
// Returns EINVALID for blank input.
func (e *Extractor) Extract(rawHTML string) (*webform.ContentResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, webform.Errorf(webform.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, err
	}

	res := &webform.ContentResult{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		res.ContentHTML = buf.String()
	}
	return res, nil
}
