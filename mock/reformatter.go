package mock

import (
	"context"

	"github.com/Traves-Theberge/webform-cli"
)

var _ webform.Reformatter = (*Reformatter)(nil)

// Reformatter is a mock implementation of webform.Reformatter.
type Reformatter struct {
	ReformatFn func(ctx context.Context, req *webform.ReformatRequest) (*webform.ReformatResult, error)
}

func (r *Reformatter) Reformat(ctx context.Context, req *webform.ReformatRequest) (*webform.ReformatResult, error) {
	return r.ReformatFn(ctx, req)
}
