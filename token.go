package webform

import "context"

// TokenCounter measures a prompt in model tokens.
type TokenCounter interface {
	CountTokens(ctx context.Context, prompt string) (int, error)
}
