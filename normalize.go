package webform

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ParseSchema decodes raw schema JSON and normalizes it into a canonical Schema.
// Returns EINVALID if data is not valid JSON.
func ParseSchema(data []byte) (*Schema, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, Errorf(EINVALID, "%v", err)
	}
	return Normalize(raw), nil
}

// shapeParser attempts to read one schema input shape. It returns false when
// raw is not in that shape so the next parser can try.
type shapeParser func(n *normalizer, raw map[string]any) (*Schema, bool)

// shapeParsers are tried in priority order. The flat parser accepts anything.
var shapeParsers = []shapeParser{
	(*normalizer).canonical,
	(*normalizer).propertyStyle,
	(*normalizer).fieldsStyle,
	(*normalizer).flat,
}

// Normalize converts a decoded schema definition in any supported shape into
// a canonical Schema. It never fails: unrecognized shapes and malformed
// entries degrade to empty or partial mappings.
//
// Shapes are detected in this order:
//   - canonical: both "selectors" and "structure" keys present
//   - property-style: a "type" or "properties" key (JSON-Schema-like)
//   - legacy fields: a "fields" object
//   - flat: field name to selector (or bare type name) map
func Normalize(raw any) *Schema {
	s, _ := NormalizeReport(raw)
	return s
}

// NormalizeReport is like Normalize but also returns a diagnostic for every
// entry that was dropped or only partially decoded. Paths point into raw.
func NormalizeReport(raw any) (*Schema, []Diagnostic) {
	n := &normalizer{}
	obj, ok := raw.(map[string]any)
	if !ok {
		n.report("", "schema must be a JSON object")
	}

	var s *Schema
	for _, parse := range shapeParsers {
		if parsed, ok := parse(n, obj); ok {
			s = parsed
			break
		}
	}

	for name := range s.Selectors {
		s.Strategies[name] = StrategyFor(name)
	}
	return s, n.issues
}

// normalizer collects the problems found while reading a schema.
type normalizer struct {
	issues []Diagnostic
}

func (n *normalizer) report(path, format string, args ...any) {
	n.issues = append(n.issues, Diagnostic{Path: path, Message: fmt.Sprintf(format, args...)})
}

func newSchema(shape Shape) *Schema {
	return &Schema{
		Selectors:  make(map[string]string),
		Structure:  make(map[string]*TypeDescriptor),
		Strategies: make(map[string]Strategy),
		Shape:      shape,
	}
}

func (n *normalizer) canonical(raw map[string]any) (*Schema, bool) {
	selectors, hasSelectors := raw["selectors"]
	structure, hasStructure := raw["structure"]
	if !hasSelectors || !hasStructure {
		return nil, false
	}

	s := newSchema(ShapeCanonical)
	if m, ok := selectors.(map[string]any); ok {
		for name, v := range m {
			if sel, ok := v.(string); ok {
				s.Selectors[name] = sel
			} else {
				n.report(pointer("selectors", name), "selector must be a string, got %s", jsonKind(v))
			}
		}
	} else {
		n.report("/selectors", "selectors must be an object, got %s", jsonKind(selectors))
	}
	if m, ok := structure.(map[string]any); ok {
		for name, v := range m {
			if d, ok := n.descriptor(pointer("structure", name), v); ok {
				s.Structure[name] = d
			}
		}
	} else {
		n.report("/structure", "structure must be an object, got %s", jsonKind(structure))
	}
	return s, true
}

func (n *normalizer) propertyStyle(raw map[string]any) (*Schema, bool) {
	_, hasType := raw["type"]
	props, hasProps := raw["properties"]
	if !hasType && !hasProps {
		return nil, false
	}

	s := newSchema(ShapeProperties)
	if !hasProps {
		// The whole schema describes a single value.
		if d, ok := n.descriptor("", raw); ok {
			s.Structure["root"] = d
		}
		return s, true
	}

	m, ok := props.(map[string]any)
	if !ok {
		n.report("/properties", "properties must be an object, got %s", jsonKind(props))
	}
	for name, v := range m {
		// A bare type name stands for a descriptor of that type.
		if t, ok := v.(string); ok {
			s.Structure[name] = &TypeDescriptor{Type: Type(t)}
			continue
		}
		d, ok := n.descriptor(pointer("properties", name), v)
		if !ok {
			continue
		}
		if pm, _ := v.(map[string]any); pm != nil {
			if sel, ok := pm["selector"].(string); ok {
				s.Selectors[name] = sel
				d.Selector = ""
			}
		}
		s.Structure[name] = d
	}
	return s, true
}

func (n *normalizer) fieldsStyle(raw map[string]any) (*Schema, bool) {
	fields, ok := raw["fields"].(map[string]any)
	if !ok {
		return nil, false
	}

	s := newSchema(ShapeFields)
	for name, v := range fields {
		path := pointer("fields", name)
		switch v := v.(type) {
		case string:
			s.Selectors[name] = v
			s.Structure[name] = extractedFrom(v)
		case map[string]any:
			sel, ok := v["selector"].(string)
			if !ok {
				n.report(path, "field has no string selector")
				continue
			}
			d := extractedFrom(sel)
			if t, ok := v["type"].(string); ok {
				d.Type = Type(t)
			}
			if desc, ok := v["description"].(string); ok {
				d.Description = desc
			}
			if nullable, ok := v["nullable"]; ok {
				if b, ok := nullable.(bool); ok {
					d.Nullable = &b
				} else {
					n.report(path+"/nullable", "nullable must be a boolean, got %s", jsonKind(nullable))
				}
			}
			s.Selectors[name] = sel
			s.Structure[name] = d
		default:
			n.report(path, "field must be a selector string or an object, got %s", jsonKind(v))
		}
	}
	return s, true
}

func (n *normalizer) flat(raw map[string]any) (*Schema, bool) {
	s := newSchema(ShapeFlat)
	for name, v := range raw {
		str, ok := v.(string)
		if !ok {
			n.report(pointer(name), "field must be a selector or type name, got %s", jsonKind(v))
			continue
		}
		switch {
		case looksLikeSelector(str):
			s.Selectors[name] = str
			s.Structure[name] = extractedFrom(str)
		case isFlatTypeName(str):
			s.Structure[name] = &TypeDescriptor{Type: Type(str), Nullable: boolPtr(true)}
		default:
			n.report(pointer(name), "%q is neither a selector nor a type name", str)
		}
	}
	return s, true
}

// looksLikeSelector reports whether a flat-map value is a CSS selector rather
// than a type name. Only class, id and attribute selectors are recognized.
func looksLikeSelector(s string) bool {
	return strings.ContainsAny(s, ".#[")
}

// isFlatTypeName reports whether s names a type usable as a flat-map value.
func isFlatTypeName(s string) bool {
	t := Type(s)
	return t.Valid() && t != TypeNull
}

// extractedFrom returns the descriptor synthesized for a bare selector.
func extractedFrom(selector string) *TypeDescriptor {
	return &TypeDescriptor{
		Type:        TypeString,
		Description: "Extracted from " + selector,
		Nullable:    boolPtr(true),
	}
}

// descriptor decodes a JSON object into a TypeDescriptor. Keys that fail to
// decode are left at their zero value and reported; non-objects are rejected.
func (n *normalizer) descriptor(path string, v any) (*TypeDescriptor, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		n.report(path, "descriptor must be an object, got %s", jsonKind(v))
		return nil, false
	}

	var d TypeDescriptor
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &d,
	})
	if err != nil {
		n.report(path, "%v", err)
		return nil, false
	}
	if err := dec.Decode(m); err != nil {
		for _, msg := range decodeMessages(err) {
			n.report(path, "%s", msg)
		}
	}

	tidyDescriptor(&d)
	return &d, true
}

// decodeMessages splits a mapstructure error into one message per key.
func decodeMessages(err error) []string {
	var msgs []string
	for _, line := range strings.Split(err.Error(), "\n") {
		line = strings.TrimSpace(line)
		// Skip the summary header.
		if line == "" || strings.HasSuffix(line, ":") {
			continue
		}
		msgs = append(msgs, strings.TrimPrefix(line, "* "))
	}
	return msgs
}

// pointer builds a JSON pointer from unescaped reference tokens.
func pointer(tokens ...string) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteByte('/')
		tok = strings.ReplaceAll(tok, "~", "~0")
		b.WriteString(strings.ReplaceAll(tok, "/", "~1"))
	}
	return b.String()
}

// jsonKind names the JSON type of a decoded value.
func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// tidyDescriptor drops empty collections so a descriptor compares equal
// after a JSON round trip.
func tidyDescriptor(d *TypeDescriptor) {
	if d == nil {
		return
	}
	if len(d.Required) == 0 {
		d.Required = nil
	}
	if len(d.Properties) == 0 {
		d.Properties = nil
	}
	for _, p := range d.Properties {
		tidyDescriptor(p)
	}
	tidyDescriptor(d.Items)
}

func boolPtr(b bool) *bool { return &b }
