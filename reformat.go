package webform

import "context"

// ReformatRequest is the input to a language-model reformatting pass.
type ReformatRequest struct {
	// Data is the coerced extraction result, without metadata.
	Data map[string]any

	// Schema describes the structure the reply should follow.
	Schema *Schema

	// Instructions are free-text directions from the user.
	Instructions string

	// Content is optional page content in Markdown, given as context.
	Content string
}

// ReformatResult is the outcome of a reformatting pass.
type ReformatResult struct {
	// Text is the model's raw reply.
	Text string

	// Data is the structured result. When the reply could not be parsed as a
	// JSON object it holds the request data coerced locally instead.
	Data map[string]any

	// Structured reports whether Data came from the model's reply.
	Structured bool
}

// Reformatter sends extracted data to a language model for reformatting.
type Reformatter interface {
	// Reformat asks the model to restructure req.Data.
	// Returns EINVALID if the request has no data.
	Reformat(ctx context.Context, req *ReformatRequest) (*ReformatResult, error)
}
