package webform

import (
	"maps"
	"time"
)

// MetadataKey is the reserved output key holding provenance metadata.
const MetadataKey = "_metadata"

// SchemaVersion is the version stamped into every output's metadata.
const SchemaVersion = "1.0"

// timestampLayout is ISO-8601 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Metadata describes where an output came from.
type Metadata struct {
	SchemaVersion string `json:"schemaVersion"`
	ExtractedAt   string `json:"extractedAt"`
}

// Output is the structured result of one extraction: coerced fields plus
// metadata under MetadataKey.
type Output map[string]any

// Assemble merges coerced fields with metadata stamped at the current instant.
func Assemble(fields map[string]any) Output {
	return AssembleAt(fields, time.Now())
}

// AssembleAt merges coerced fields with metadata stamped at t.
// The fields map is copied, not modified.
func AssembleAt(fields map[string]any, t time.Time) Output {
	out := make(Output, len(fields)+1)
	maps.Copy(out, fields)
	out[MetadataKey] = Metadata{
		SchemaVersion: SchemaVersion,
		ExtractedAt:   t.UTC().Format(timestampLayout),
	}
	return out
}

// Metadata returns the output's metadata, if present.
func (o Output) Metadata() (Metadata, bool) {
	md, ok := o[MetadataKey].(Metadata)
	return md, ok
}

// WithoutMetadata returns a shallow copy of the output without MetadataKey.
// The receiver is not modified.
func (o Output) WithoutMetadata() Output {
	out := maps.Clone(o)
	if out == nil {
		out = Output{}
	}
	delete(out, MetadataKey)
	return out
}

// Fields returns the output's user fields as a plain map.
func (o Output) Fields() map[string]any {
	return map[string]any(o.WithoutMetadata())
}
