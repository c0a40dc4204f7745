package webform_test

import (
	"encoding/json"
	"testing"

	"github.com/Traves-Theberge/webform-cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *webform.Schema {
	t.Helper()
	s, err := webform.ParseSchema([]byte(src))
	require.NoError(t, err)
	return s
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func TestParseSchema_Canonical(t *testing.T) {
	t.Parallel()

	s := parse(t, `{
		"selectors": {"title": ".t", "link": "a.story"},
		"structure": {"title": {"type": "string", "nullable": false}}
	}`)

	assert.Equal(t, webform.ShapeCanonical, s.Shape)
	assert.Equal(t, map[string]string{"title": ".t", "link": "a.story"}, s.Selectors)
	require.Contains(t, s.Structure, "title")
	assert.Equal(t, webform.TypeString, s.Structure["title"].Type)
	assert.Equal(t, boolPtr(false), s.Structure["title"].Nullable)
	assert.NotContains(t, s.Structure, "link")
}

func TestParseSchema_PropertyStyle(t *testing.T) {
	t.Parallel()

	t.Run("moves property selectors into selector map", func(t *testing.T) {
		t.Parallel()

		s := parse(t, `{
			"type": "object",
			"properties": {
				"price": {"type": "number", "selector": ".price"},
				"tags": {"type": "array", "maxItems": 3, "items": {"type": "string"}}
			}
		}`)

		assert.Equal(t, webform.ShapeProperties, s.Shape)
		assert.Equal(t, map[string]string{"price": ".price"}, s.Selectors)
		assert.Equal(t, &webform.TypeDescriptor{Type: webform.TypeNumber}, s.Structure["price"])
		assert.Equal(t, &webform.TypeDescriptor{
			Type:     webform.TypeArray,
			MaxItems: intPtr(3),
			Items:    &webform.TypeDescriptor{Type: webform.TypeString},
		}, s.Structure["tags"])
	})

	t.Run("describes root value without properties", func(t *testing.T) {
		t.Parallel()

		s := parse(t, `{"type": "string", "description": "whole page"}`)

		assert.Empty(t, s.Selectors)
		assert.Equal(t, &webform.TypeDescriptor{
			Type:        webform.TypeString,
			Description: "whole page",
		}, s.Structure["root"])
	})

	t.Run("keeps nested selectors on nested descriptors", func(t *testing.T) {
		t.Parallel()

		s := parse(t, `{
			"properties": {
				"author": {
					"type": "object",
					"properties": {"name": {"type": "string", "selector": ".name"}}
				}
			}
		}`)

		require.Contains(t, s.Structure, "author")
		assert.Equal(t, ".name", s.Structure["author"].Properties["name"].Selector)
		assert.Empty(t, s.Selectors)
	})
}

func TestParseSchema_PropertyTypeName(t *testing.T) {
	t.Parallel()

	s := parse(t, `{"properties": {"title": "string", "score": {"type": "number", "selector": ".score"}}}`)

	assert.Equal(t, map[string]string{"score": ".score"}, s.Selectors)
	assert.Equal(t, &webform.TypeDescriptor{Type: webform.TypeString}, s.Structure["title"])
	assert.Equal(t, &webform.TypeDescriptor{Type: webform.TypeNumber}, s.Structure["score"])
}

func TestParseSchema_FieldsStyle(t *testing.T) {
	t.Parallel()

	s := parse(t, `{
		"fields": {
			"title": ".t",
			"price": {"selector": ".p", "type": "number", "nullable": false},
			"broken": {"type": "string"}
		}
	}`)

	assert.Equal(t, webform.ShapeFields, s.Shape)
	assert.Equal(t, map[string]string{"title": ".t", "price": ".p"}, s.Selectors)
	assert.Equal(t, &webform.TypeDescriptor{
		Type:        webform.TypeString,
		Description: "Extracted from .t",
		Nullable:    boolPtr(true),
	}, s.Structure["title"])
	assert.Equal(t, &webform.TypeDescriptor{
		Type:        webform.TypeNumber,
		Description: "Extracted from .p",
		Nullable:    boolPtr(false),
	}, s.Structure["price"])
	assert.NotContains(t, s.Structure, "broken")
}

func TestParseSchema_Flat(t *testing.T) {
	t.Parallel()

	s := parse(t, `{
		"title": ".titleline > a",
		"id": "#main",
		"attr": "[data-x]",
		"count": "number",
		"heading": "h1",
		"ignored": 5
	}`)

	assert.Equal(t, webform.ShapeFlat, s.Shape)
	assert.Equal(t, map[string]string{
		"title": ".titleline > a",
		"id":    "#main",
		"attr":  "[data-x]",
	}, s.Selectors)
	assert.Equal(t, &webform.TypeDescriptor{
		Type:        webform.TypeString,
		Description: "Extracted from .titleline > a",
		Nullable:    boolPtr(true),
	}, s.Structure["title"])
	assert.Equal(t, &webform.TypeDescriptor{
		Type:     webform.TypeNumber,
		Nullable: boolPtr(true),
	}, s.Structure["count"])
	assert.NotContains(t, s.Structure, "heading")
	assert.NotContains(t, s.Structure, "ignored")
}

func TestParseSchema_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := webform.ParseSchema([]byte(`{"title":`))

	require.Error(t, err)
	assert.Equal(t, webform.EINVALID, webform.ErrorCode(err))
}

func TestNormalize_NonObject(t *testing.T) {
	t.Parallel()

	for _, raw := range []any{"just a string", []any{".a"}, nil, 42.0} {
		s := webform.Normalize(raw)

		assert.Empty(t, s.Selectors)
		assert.Empty(t, s.Structure)
	}
}

func TestNormalize_Strategies(t *testing.T) {
	t.Parallel()

	s := webform.Normalize(map[string]any{
		"title":       ".t",
		"storyUrl":    "a.s",
		"numComments": ".c",
	})

	assert.Equal(t, map[string]webform.Strategy{
		"title":       webform.StrategyText,
		"storyUrl":    webform.StrategyURL,
		"numComments": webform.StrategyCommentCount,
	}, s.Strategies)
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := map[string]string{
		"canonical": `{"selectors":{"t":".t"},"structure":{"t":{"type":"number","nullable":false}}}`,
		"properties": `{"properties":{"tags":{"type":"array","selector":".tag","maxItems":2,
			"items":{"type":"string"}},"meta":{"type":"object","required":["id"],
			"properties":{"id":{"type":"number"}}}}}`,
		"fields": `{"fields":{"title":".t","score":{"selector":".s","type":"number"}}}`,
		"flat":   `{"title":".t","points":"number","ok":"boolean"}`,
	}

	for name, src := range inputs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			first := parse(t, src)
			data, err := json.Marshal(first)
			require.NoError(t, err)
			second := parse(t, string(data))

			assert.Equal(t, webform.ShapeCanonical, second.Shape)
			assert.Equal(t, first.Selectors, second.Selectors)
			assert.Equal(t, first.Structure, second.Structure)
			assert.Equal(t, first.Strategies, second.Strategies)
		})
	}
}

func TestNormalizeReport(t *testing.T) {
	t.Parallel()

	decode := func(t *testing.T, src string) any {
		t.Helper()
		var raw any
		require.NoError(t, json.Unmarshal([]byte(src), &raw))
		return raw
	}

	paths := func(issues []webform.Diagnostic) []string {
		var out []string
		for _, d := range issues {
			out = append(out, d.Path)
		}
		return out
	}

	t.Run("well-formed schemas have no issues", func(t *testing.T) {
		t.Parallel()

		_, issues := webform.NormalizeReport(decode(t, `{"title": ".t", "points": "number"}`))

		assert.Empty(t, issues)
	})

	t.Run("canonical keys of the wrong type", func(t *testing.T) {
		t.Parallel()

		s, issues := webform.NormalizeReport(decode(t, `{
			"selectors": {"title": 5, "link": "a"},
			"structure": {"title": "string", "link": {"type": "string", "nullable": "false"}}
		}`))

		assert.ElementsMatch(t, []string{"/selectors/title", "/structure/title", "/structure/link"}, paths(issues))
		assert.Equal(t, map[string]string{"link": "a"}, s.Selectors)
		require.Contains(t, s.Structure, "link")
		assert.Nil(t, s.Structure["link"].Nullable)
	})

	t.Run("legacy fields without selector", func(t *testing.T) {
		t.Parallel()

		_, issues := webform.NormalizeReport(decode(t, `{"fields": {"a": {"type": "string"}, "b": 3, "c": {"selector": ".c", "nullable": "no"}}}`))

		assert.ElementsMatch(t, []string{"/fields/a", "/fields/b", "/fields/c/nullable"}, paths(issues))
	})

	t.Run("flat values that are neither selector nor type", func(t *testing.T) {
		t.Parallel()

		_, issues := webform.NormalizeReport(decode(t, `{"a/b": "h1", "c": {"type": "string"}}`))

		assert.ElementsMatch(t, []string{"/a~1b", "/c"}, paths(issues))
	})

	t.Run("non-object schema", func(t *testing.T) {
		t.Parallel()

		s, issues := webform.NormalizeReport([]any{".a"})

		assert.Empty(t, s.Structure)
		require.Len(t, issues, 1)
		assert.Empty(t, issues[0].Path)
	})
}
