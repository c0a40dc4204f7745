// Package gemini implements webform.Reformatter and webform.TokenCounter with
// Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Traves-Theberge/webform-cli"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

const systemInstruction = "You restructure data extracted from a web page. " +
	"Reply with a single JSON object that follows the given structure. " +
	"Use only information from the data and page content provided. " +
	"Use null for values that are not available. Do not add commentary."

// Ensure Reformatter implements webform.Reformatter at compile time.
var _ webform.Reformatter = (*Reformatter)(nil)

// Reformatter implements webform.Reformatter using Google Gemini.
type Reformatter struct {
	client *genai.Client
	model  string

	counter   webform.TokenCounter
	maxTokens int
}

// Option configures a Reformatter.
type Option func(*Reformatter)

// WithTokenLimit bounds the prompt size. When a prompt exceeds limit tokens the
// page content is left out; if it still exceeds limit the request fails with
// EINVALID.
func WithTokenLimit(counter webform.TokenCounter, limit int) Option {
	return func(r *Reformatter) {
		r.counter = counter
		r.maxTokens = limit
	}
}

// NewReformatter creates a new Reformatter. An empty model selects DefaultModel.
func NewReformatter(client *genai.Client, model string, opts ...Option) *Reformatter {
	if model == "" {
		model = DefaultModel
	}
	r := &Reformatter{client: client, model: model}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reformat asks the model to restructure req.Data following req.Schema.
func (r *Reformatter) Reformat(ctx context.Context, req *webform.ReformatRequest) (*webform.ReformatResult, error) {
	if req == nil || len(req.Data) == 0 {
		return nil, webform.Errorf(webform.EINVALID, "no data to reformat")
	}
	if req.Schema == nil {
		return nil, webform.Errorf(webform.EINVALID, "schema required")
	}

	prompt, err := r.prompt(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := r.client.Models.GenerateContent(ctx, r.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(req.Schema),
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, webform.Errorf(webform.EINTERNAL, "gemini returned nil result")
	}

	return ResultFromText(result.Text(), req), nil
}

// prompt builds the user prompt, dropping page content when it would push
// the prompt past the token limit.
func (r *Reformatter) prompt(ctx context.Context, req *webform.ReformatRequest) (string, error) {
	prompt := BuildUserPrompt(req)
	if r.counter == nil || r.maxTokens <= 0 {
		return prompt, nil
	}

	n, err := r.counter.CountTokens(ctx, prompt)
	if err != nil {
		return "", err
	}
	if n <= r.maxTokens {
		return prompt, nil
	}

	if req.Content != "" {
		trimmed := *req
		trimmed.Content = ""
		prompt = BuildUserPrompt(&trimmed)
		if n, err = r.counter.CountTokens(ctx, prompt); err != nil {
			return "", err
		}
		if n <= r.maxTokens {
			return prompt, nil
		}
	}
	return "", webform.Errorf(webform.EINVALID, "prompt has %d tokens, limit is %d", n, r.maxTokens)
}

// ResultFromText interprets a model reply. A reply holding a JSON object is
// coerced through the schema; anything else falls back to coercing the
// request data locally, keeping the reply text.
func ResultFromText(text string, req *webform.ReformatRequest) *webform.ReformatResult {
	if obj, ok := ParseObject(text); ok {
		return &webform.ReformatResult{
			Text:       text,
			Data:       webform.CoerceFields(obj, req.Schema),
			Structured: true,
		}
	}
	return &webform.ReformatResult{
		Text: text,
		Data: webform.CoerceFields(req.Data, req.Schema),
	}
}

// BuildConfig returns the GenerateContentConfig for a reformat call. The
// response is requested as JSON, constrained by a response schema when the
// structure can be expressed as one.
func BuildConfig(s *webform.Schema) *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   ResponseSchema(s),
	}
}

// ResponseSchema converts the schema structure into a Gemini response schema.
// Returns nil when the structure is empty or contains an object without
// declared properties, which Gemini cannot express.
func ResponseSchema(s *webform.Schema) *genai.Schema {
	if s == nil || len(s.Structure) == 0 {
		return nil
	}
	root := &webform.TypeDescriptor{Type: webform.TypeObject, Properties: s.Structure}
	out, ok := toGenai(root)
	if !ok {
		return nil
	}
	return out
}

func toGenai(d *webform.TypeDescriptor) (*genai.Schema, bool) {
	out := &genai.Schema{
		Description: d.Description,
		Format:      d.Format,
		Nullable:    d.Nullable,
	}

	switch d.Type {
	case webform.TypeString, "":
		out.Type = genai.TypeString
	case webform.TypeNumber:
		out.Type = genai.TypeNumber
	case webform.TypeBoolean:
		out.Type = genai.TypeBoolean
	case webform.TypeNull:
		out.Type = genai.TypeString
		out.Nullable = genai.Ptr(true)
	case webform.TypeArray:
		out.Type = genai.TypeArray
		items := d.Items
		if items == nil {
			items = &webform.TypeDescriptor{Type: webform.TypeString}
		}
		child, ok := toGenai(items)
		if !ok {
			return nil, false
		}
		out.Items = child
		if d.MaxItems != nil {
			out.MaxItems = genai.Ptr(int64(*d.MaxItems))
		}
		if d.MinItems != nil {
			out.MinItems = genai.Ptr(int64(*d.MinItems))
		}
	case webform.TypeObject:
		if len(d.Properties) == 0 {
			return nil, false
		}
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(d.Properties))
		for _, name := range slices.Sorted(maps.Keys(d.Properties)) {
			child, ok := toGenai(d.Properties[name])
			if !ok {
				return nil, false
			}
			out.Properties[name] = child
			out.PropertyOrdering = append(out.PropertyOrdering, name)
		}
		for _, name := range d.Required {
			if _, ok := d.Properties[name]; ok {
				out.Required = append(out.Required, name)
			}
		}
	default:
		return nil, false
	}
	return out, true
}

// BuildUserPrompt builds the user prompt from the structure, the extracted
// data, optional page content and the user's instructions.
func BuildUserPrompt(req *webform.ReformatRequest) string {
	var sb strings.Builder

	sb.WriteString("<structure>\n")
	if req.Schema != nil {
		writeJSON(&sb, req.Schema.Structure)
	}
	sb.WriteString("</structure>\n\n")

	sb.WriteString("<data>\n")
	writeJSON(&sb, req.Data)
	sb.WriteString("</data>\n")

	if req.Content != "" {
		fmt.Fprintf(&sb, "\n<content>\n%s\n</content>\n", req.Content)
	}

	instructions := strings.TrimSpace(req.Instructions)
	if instructions == "" {
		instructions = "Clean up and normalize the data so it matches the structure."
	}
	fmt.Fprintf(&sb, "\nInstructions: %s", instructions)
	return sb.String()
}

func writeJSON(sb *strings.Builder, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(sb, "%v\n", v)
		return
	}
	sb.Write(b)
	sb.WriteByte('\n')
}
