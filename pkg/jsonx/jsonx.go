// Package jsonx provides safe field access into dynamically decoded JSON.
// Third-party payloads may omit any key or change its type without notice;
// every platform fetcher goes through these accessors instead of ad hoc type
// assertions, so a shape change degrades to a zero value rather than a panic.
package jsonx

// Obj returns v[key] as an object, or an empty map when v is not an object
// or the key is absent or mistyped.
func Obj(v any, key string) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	child, ok := m[key].(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return child
}

// Arr returns v[key] as an array, or nil.
func Arr(v any, key string) []any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	arr, _ := m[key].([]any)
	return arr
}

// Str returns v[key] as a string, or "".
func Str(v any, key string) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// Num returns v[key] as a float64 (the decoded type of every JSON number),
// or 0.
func Num(v any, key string) float64 {
	m, ok := v.(map[string]any)
	if !ok {
		return 0
	}
	n, _ := m[key].(float64)
	return n
}

// Bool returns v[key] as a bool, or false.
func Bool(v any, key string) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	b, _ := m[key].(bool)
	return b
}
