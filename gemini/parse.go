package gemini

import (
	"encoding/json"
	"strings"
)

// ParseObject reads a JSON object from model output. It tolerates markdown
// code fences and prose around the object. Arrays and scalars are rejected.
func ParseObject(text string) (map[string]any, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	for _, candidate := range []string{text, stripCodeFence(text), outermostObject(text)} {
		if candidate == "" {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(candidate), &obj); err == nil && obj != nil {
			return obj, true
		}
	}
	return nil, false
}

// stripCodeFence returns the body of a ```-fenced block, or "" when text is
// not fenced.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return ""
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// outermostObject returns the text from the first "{" to the last "}".
func outermostObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}
