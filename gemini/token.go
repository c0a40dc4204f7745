package gemini

import (
	"context"

	"github.com/Traves-Theberge/webform-cli"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ webform.TokenCounter = (*TokenCounter)(nil)

// TokenCounter sizes reformat prompts offline with the local Gemini
// tokenizer, so an oversized page can be trimmed before the API is called.
type TokenCounter struct {
	local *tokenizer.LocalTokenizer
}

// NewTokenCounter loads the local tokenizer for model.
// Returns EINVALID when no local tokenizer exists for model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	local, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, webform.Errorf(webform.EINVALID, "no local tokenizer for model %q: %v", model, err)
	}
	return &TokenCounter{local: local}, nil
}

// CountTokens returns the size of prompt when sent as a single user turn.
func (tc *TokenCounter) CountTokens(_ context.Context, prompt string) (int, error) {
	if prompt == "" {
		return 0, nil
	}

	turn := genai.NewContentFromText(prompt, genai.RoleUser)
	res, err := tc.local.CountTokens([]*genai.Content{turn}, nil)
	if err != nil {
		return 0, err
	}
	return int(res.TotalTokens), nil
}
