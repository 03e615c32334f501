package mock

import "github.com/fwojciec/jobcore"

var _ jobcore.Converter = (*Converter)(nil)

// Converter is a mock implementation of jobcore.Converter. A nil
// ConvertFn returns the posting HTML unchanged.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	if c.ConvertFn == nil {
		return html, nil
	}
	return c.ConvertFn(html)
}
