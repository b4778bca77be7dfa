package phabricator

import (
	"encoding/json"
	"strconv"
)

// flexInt decodes Conduit numeric fields that arrive as numbers, numeric
// strings, or null. Anything unparseable decodes to zero so that a malformed
// hunk degrades instead of failing the whole fetch.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*f = 0
		return nil
	}
	s = unquote(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// stringField walks a decoded JSON object and returns the first non-empty
// string found under any of the given keys.
func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// intField returns the first value under the given keys that parses as an
// integer. Conduit mixes float64 (JSON numbers) and numeric strings.
func intField(m map[string]any, keys ...string) int {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return int(n)
			}
		}
	}
	return 0
}

// mapField returns the object stored under key, or nil.
func mapField(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

// listField returns the array stored under key, or nil.
func listField(m map[string]any, key string) []any {
	v, _ := m[key].([]any)
	return v
}
