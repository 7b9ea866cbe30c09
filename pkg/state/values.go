// Package state holds the value object a form instance reads and writes.
// Values are addressed by dotted paths ("settings.model", "params.0.top_p");
// numeric segments index into slices.
package state

import (
	"fmt"
	"strconv"
	"strings"
)

// Values is a mutable map-backed value object. The zero value is ready to use.
type Values struct {
	root map[string]any
}

// New seeds a value object with a deep copy of prefill.
func New(prefill map[string]any) *Values {
	return &Values{root: Clone(prefill)}
}

// Map returns the backing map. Callers that need an independent copy should
// use Snapshot.
func (v *Values) Map() map[string]any {
	if v == nil {
		return nil
	}
	if v.root == nil {
		v.root = make(map[string]any)
	}
	return v.root
}

// Snapshot returns a deep copy of the current values.
func (v *Values) Snapshot() map[string]any {
	if v == nil {
		return map[string]any{}
	}
	return Clone(v.root)
}

// Get resolves a dotted path.
func (v *Values) Get(path string) (any, bool) {
	if v == nil {
		return nil, false
	}
	return getPath(v.root, path)
}

// Has reports whether a value exists at path.
func (v *Values) Has(path string) bool {
	_, ok := v.Get(path)
	return ok
}

// Set writes value at path, creating intermediate maps and slices.
func (v *Values) Set(path string, value any) error {
	if v == nil {
		return fmt.Errorf("state: values is nil")
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("state: path is required")
	}
	if v.root == nil {
		v.root = make(map[string]any)
	}
	return setPath(v.root, path, value)
}

// Delete removes the value at path. Missing paths are ignored.
func (v *Values) Delete(path string) {
	if v == nil || v.root == nil || path == "" {
		return
	}
	segments := strings.Split(path, ".")
	parentPath := strings.Join(segments[:len(segments)-1], ".")
	last := segments[len(segments)-1]

	var parent any = v.root
	if parentPath != "" {
		var ok bool
		parent, ok = getPath(v.root, parentPath)
		if !ok {
			return
		}
	}
	if node, ok := parent.(map[string]any); ok {
		delete(node, last)
	}
}

// Clone deep-copies a value map. Nil input yields an empty map.
func Clone(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = CloneValue(value)
	}
	return out
}

// CloneValue deep-copies maps and slices; other values are returned as is.
func CloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return Clone(typed)
	case []any:
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = CloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = Clone(item)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}

// JoinPath joins non-empty dotted path segments.
func JoinPath(parts ...string) string {
	keep := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.Trim(strings.TrimSpace(part), "."); trimmed != "" {
			keep = append(keep, trimmed)
		}
	}
	return strings.Join(keep, ".")
}

func getPath(root map[string]any, path string) (any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	var current any = root
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// setPath walks segments, replacing non-container intermediates. Slices are
// grown in place and written back into their parent so appends are visible.
func setPath(root map[string]any, path string, value any) error {
	segments := strings.Split(path, ".")
	return setIn(root, segments, value, path)
}

func setIn(node map[string]any, segments []string, value any, path string) error {
	key := segments[0]
	if len(segments) == 1 {
		node[key] = value
		return nil
	}

	rest := segments[1:]
	if idx, err := strconv.Atoi(rest[0]); err == nil {
		if idx < 0 {
			return fmt.Errorf("state: negative index in path %q", path)
		}
		list, _ := node[key].([]any)
		updated, err := setInSlice(list, idx, rest[1:], value, path)
		if err != nil {
			return err
		}
		node[key] = updated
		return nil
	}

	child, ok := node[key].(map[string]any)
	if !ok || child == nil {
		child = make(map[string]any)
		node[key] = child
	}
	return setIn(child, rest, value, path)
}

func setInSlice(list []any, idx int, rest []string, value any, path string) ([]any, error) {
	if len(list) <= idx {
		list = append(list, make([]any, idx+1-len(list))...)
	}
	if len(rest) == 0 {
		list[idx] = value
		return list, nil
	}

	if next, err := strconv.Atoi(rest[0]); err == nil {
		if next < 0 {
			return nil, fmt.Errorf("state: negative index in path %q", path)
		}
		child, _ := list[idx].([]any)
		updated, err := setInSlice(child, next, rest[1:], value, path)
		if err != nil {
			return nil, err
		}
		list[idx] = updated
		return list, nil
	}

	child, ok := list[idx].(map[string]any)
	if !ok || child == nil {
		child = make(map[string]any)
		list[idx] = child
	}
	if err := setIn(child, rest, value, path); err != nil {
		return nil, err
	}
	return list, nil
}
