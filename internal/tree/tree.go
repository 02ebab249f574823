// Package tree navigates untyped JSON trees by candidate paths.
//
// Upstream responses place the same logical field at different nested
// locations depending on the response variant. Callers declare an ordered
// list of candidate paths per field; the first path yielding a defined,
// non-empty value wins.
package tree

import (
	"strconv"
	"strings"
)

// Path is an ordered sequence of steps into a decoded JSON tree. A string
// step indexes an object, an int step indexes an array.
type Path []any

// P is shorthand for building a Path literal.
func P(steps ...any) Path { return Path(steps) }

// Get walks path from node and returns the value found, or nil if any step
// is missing or of the wrong shape.
func Get(node any, path Path) any {
	current := node
	for _, step := range path {
		switch s := step.(type) {
		case string:
			m, ok := current.(map[string]any)
			if !ok {
				return nil
			}
			current = m[s]
		case int:
			a, ok := current.([]any)
			if !ok || s < 0 || s >= len(a) {
				return nil
			}
			current = a[s]
		default:
			return nil
		}
	}
	return current
}

// First returns the value at the first path that resolves to a non-nil
// value, or nil if none do.
func First(node any, paths ...Path) any {
	for _, p := range paths {
		if v := Get(node, p); v != nil {
			return v
		}
	}
	return nil
}

// Text probes paths in order and returns the first non-empty string found,
// or def if none resolves. Non-string values never match.
func Text(node any, def string, paths ...Path) string {
	for _, p := range paths {
		if s, ok := Get(node, p).(string); ok && s != "" {
			return s
		}
	}
	return def
}

// Int probes paths in order and returns the first numeric value found as an
// int, or 0 if none resolves. JSON numbers decode as float64; digit-only
// strings are also accepted since upstreams report counts both ways.
func Int(node any, paths ...Path) int {
	for _, p := range paths {
		switch v := Get(node, p).(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n
			}
		}
	}
	return 0
}

// Slice returns the array at path, or nil if the path does not resolve to
// an array.
func Slice(node any, path Path) []any {
	a, _ := Get(node, path).([]any)
	return a
}

// Map returns node as an object, or nil if it is not one.
func Map(node any) map[string]any {
	m, _ := node.(map[string]any)
	return m
}
