package webform

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// CoerceIssue records a value that was replaced by a default because it could
// not be converted to its declared type, or a null field that was dropped
// because its descriptor is not nullable. Issues never change the coerced
// output; they only explain it.
type CoerceIssue struct {
	Path   string `json:"path"`
	Type   Type   `json:"type"`
	Reason string `json:"reason"`
}

// Coerce converts a raw value to the type declared by d, recursing into array
// items and object properties. It never fails: values that cannot be
// converted are replaced by the type's default (0, false, [], {}).
//
// A nil or untyped descriptor coerces to string. Unknown types pass the raw
// value through unchanged.
func Coerce(raw any, d *TypeDescriptor) any {
	var c coercer
	return c.coerce(raw, d, "")
}

// CoerceFields coerces every field of raw according to the schema structure.
//
// A structured field missing from raw is skipped unless its descriptor lists
// the field's own name in Required. A structured field whose raw value is nil
// is kept as nil when nullable and dropped otherwise. Fields in raw without a
// descriptor are untyped and coerce to string exactly as Coerce(v, nil) does,
// so nil stays nil and multi-value matches are joined with commas.
func CoerceFields(raw map[string]any, s *Schema) map[string]any {
	out, _ := CoerceFieldsReport(raw, s)
	return out
}

// CoerceFieldsReport is like CoerceFields but also returns the issues found
// while coercing. The returned fields are identical to CoerceFields.
func CoerceFieldsReport(raw map[string]any, s *Schema) (map[string]any, []CoerceIssue) {
	var c coercer
	out := make(map[string]any, len(raw))

	for _, name := range slices.Sorted(maps.Keys(s.Structure)) {
		d := s.Structure[name]
		v, ok := raw[name]
		switch {
		case !ok:
			if !d.Requires(name) {
				continue
			}
			out[name] = c.coerce(nil, d, name)
		case v == nil:
			if d.IsNullable() {
				out[name] = nil
				continue
			}
			c.issue(name, typeOf(d), "null value for non-nullable field omitted")
		default:
			out[name] = c.coerce(v, d, name)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(raw)) {
		if _, typed := s.Structure[name]; !typed {
			out[name] = c.coerce(raw[name], nil, name)
		}
	}

	return out, c.issues
}

// coercer accumulates issues during one recursive coercion.
type coercer struct {
	issues []CoerceIssue
}

func (c *coercer) issue(path string, t Type, reason string) {
	c.issues = append(c.issues, CoerceIssue{Path: path, Type: t, Reason: reason})
}

func (c *coercer) coerce(raw any, d *TypeDescriptor, path string) any {
	switch typeOf(d) {
	case TypeString:
		if raw == nil {
			return nil
		}
		return stringify(raw)
	case TypeNumber:
		n, ok := toNumber(raw)
		if !ok {
			c.issue(path, TypeNumber, "cannot convert "+describe(raw)+" to number")
		}
		return n
	case TypeBoolean:
		return toBoolean(raw)
	case TypeArray:
		return c.coerceArray(raw, d, path)
	case TypeObject:
		return c.coerceObject(raw, d, path)
	case TypeNull:
		return nil
	default:
		return raw
	}
}

func (c *coercer) coerceArray(raw any, d *TypeDescriptor, path string) []any {
	var items []any
	switch v := raw.(type) {
	case []any:
		items = append([]any{}, v...)
	case []string:
		items = make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
	default:
		if truthy(raw) {
			items = []any{raw}
		} else {
			items = []any{}
		}
	}

	if d.MaxItems != nil && *d.MaxItems >= 0 && len(items) > *d.MaxItems {
		items = items[:*d.MaxItems]
	}

	if d.Items != nil {
		for i, item := range items {
			items[i] = c.coerce(item, d.Items, fmt.Sprintf("%s[%d]", path, i))
		}
	}
	return items
}

func (c *coercer) coerceObject(raw any, d *TypeDescriptor, path string) map[string]any {
	obj, ok := raw.(map[string]any)
	if !ok {
		if raw != nil {
			c.issue(path, TypeObject, "cannot convert "+describe(raw)+" to object")
		}
		obj = map[string]any{}
	}

	if d.Properties == nil {
		return obj
	}

	out := make(map[string]any, len(d.Properties))
	for _, key := range slices.Sorted(maps.Keys(d.Properties)) {
		v, present := obj[key]
		if !present && !d.Requires(key) {
			continue
		}
		out[key] = c.coerce(v, d.Properties[key], joinPath(path, key))
	}
	return out
}

// typeOf returns the descriptor's type, defaulting to string.
func typeOf(d *TypeDescriptor) Type {
	if d == nil || d.Type == "" {
		return TypeString
	}
	return d.Type
}

// stringify renders a non-nil value as text. Arrays join their elements with
// commas; objects render as JSON.
func stringify(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			if item != nil {
				parts[i] = stringify(item)
			}
		}
		return strings.Join(parts, ",")
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}

// toNumber converts v to a finite number. It returns 0 and false when v has
// no numeric reading. Blank strings and nil read as 0.
func toNumber(v any) (float64, bool) {
	switch v := v.(type) {
	case nil:
		return 0, true
	case float64:
		return finite(v)
	case int:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	case []string:
		switch len(v) {
		case 0:
			return 0, true
		case 1:
			return toNumber(v[0])
		}
	case []any:
		switch len(v) {
		case 0:
			return 0, true
		case 1:
			return toNumber(v[0])
		}
	}
	return 0, false
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toBoolean reads text as true only for "true", "yes" or "1" (any case).
// Other values use truthiness.
func toBoolean(v any) bool {
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "1":
			return true
		}
		return false
	}
	return truthy(v)
}

// truthy reports whether v is anything other than nil, false, zero or "".
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	case int:
		return v != 0
	default:
		return true
	}
}

func describe(v any) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprintf("%T", v)
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
