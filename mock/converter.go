package mock

import "github.com/Traves-Theberge/webform-cli"

var _ webform.Converter = (*Converter)(nil)

// Converter is a mock implementation of webform.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
