package mock

import (
	"context"

	"github.com/Traves-Theberge/webform-cli"
)

var _ webform.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of webform.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return tc.CountTokensFn(ctx, text)
}
