package modelapi

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject recovers a JSON object from free-form model output. The
// raw text is tried as-is first; otherwise the slice from the first '{' to the
// last '}' is attempted. Anything that is not a JSON object reports false.
func ExtractJSONObject(raw string) (map[string]any, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	if obj, ok := tryObject(raw); ok {
		return obj, true
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}
	return tryObject(raw[start : end+1])
}

func tryObject(s string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}
