package webform

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// RenderJSON writes the output as indented JSON. Metadata is omitted unless
// includeMetadata is set.
func RenderJSON(w io.Writer, out Output, includeMetadata bool) error {
	if !includeMetadata {
		out = out.WithoutMetadata()
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// RenderText writes the output as indented "key: value" lines with keys
// sorted. Nested objects and lists are indented by two spaces. Metadata, when
// included, is written last.
func RenderText(w io.Writer, out Output, includeMetadata bool) error {
	var b strings.Builder
	writeMap(&b, 0, out.WithoutMetadata())
	if md, ok := out.Metadata(); includeMetadata && ok {
		writeMap(&b, 0, map[string]any{
			MetadataKey: map[string]any{
				"schemaVersion": md.SchemaVersion,
				"extractedAt":   md.ExtractedAt,
			},
		})
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeMap(b *strings.Builder, depth int, m map[string]any) {
	for _, key := range slices.Sorted(maps.Keys(m)) {
		writeEntry(b, depth, key+":", m[key])
	}
}

func writeEntry(b *strings.Builder, depth int, label string, v any) {
	pad := strings.Repeat("  ", depth)
	switch v := v.(type) {
	case map[string]any:
		if len(v) == 0 {
			fmt.Fprintf(b, "%s%s {}\n", pad, label)
			return
		}
		fmt.Fprintf(b, "%s%s\n", pad, label)
		writeMap(b, depth+1, v)
	case Output:
		writeEntry(b, depth, label, map[string]any(v))
	case []any:
		if len(v) == 0 {
			fmt.Fprintf(b, "%s%s []\n", pad, label)
			return
		}
		fmt.Fprintf(b, "%s%s\n", pad, label)
		for _, item := range v {
			writeEntry(b, depth+1, "-", item)
		}
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		writeEntry(b, depth, label, items)
	case nil:
		fmt.Fprintf(b, "%s%s null\n", pad, label)
	default:
		fmt.Fprintf(b, "%s%s %s\n", pad, label, stringify(v))
	}
}
