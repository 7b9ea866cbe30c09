package render

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/model"
)

// ToggleField is the name of the submit buttons that flip an optional field.
// Their value is the field name.
const ToggleField = "_toggle"

// HiddenField is a hidden input emitted alongside the visible fields.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying the provided token. Callers
// supply the input name to match their backend expectations (for example,
// "_csrf" or "csrf_token").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// VersionField constructs a hidden field used for optimistic locking.
func VersionField(name string, version any) HiddenField {
	return Hidden(name, version)
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields normalises and sorts hidden fields for deterministic
// rendering. Empty names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}

	clean := make(map[string]string, len(fields))
	for name, value := range fields {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		clean[key] = value
	}
	if len(clean) == 0 {
		return nil
	}

	names := make([]string, 0, len(clean))
	for name := range clean {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{
			Name:  name,
			Value: clean[name],
		})
	}
	return result
}

// Submission reports what ApplySubmission changed.
type Submission struct {
	Updated []string
	Toggled []string
}

// ApplySubmission writes a posted HTML form back into the bound form. Inputs
// are matched by value path. Checkboxes that are missing from the post are
// unchecked. Optional fields are updated only while active, and toggle
// buttons are applied after the value updates.
func ApplySubmission(form *engine.Form, posted url.Values) Submission {
	var out Submission
	if form == nil {
		return out
	}

	for _, binding := range form.Required().Bindings() {
		value, ok := postedValue(binding, posted)
		if !ok {
			continue
		}
		if form.Required().Set(binding.Descriptor.Name, value) {
			out.Updated = append(out.Updated, binding.Descriptor.Name)
		}
	}

	for _, binding := range form.Optional().Ordered() {
		if !binding.Active {
			continue
		}
		value, ok := postedValue(binding.Binding, posted)
		if !ok {
			continue
		}
		if form.Optional().Update(binding.Descriptor.Name, value) {
			out.Updated = append(out.Updated, binding.Descriptor.Name)
		}
	}

	for _, name := range posted[ToggleField] {
		name = strings.TrimSpace(name)
		if _, ok := form.Optional().Toggle(name); ok {
			out.Toggled = append(out.Toggled, name)
		}
	}
	return out
}

func postedValue(binding engine.Binding, posted url.Values) (any, bool) {
	raw, present := posted[binding.Path]
	switch binding.Descriptor.Type {
	case model.FieldTypeCheckbox:
		if !present || len(raw) == 0 {
			return false, true
		}
		return raw[len(raw)-1], true
	case model.FieldTypeMultiselect:
		if !present {
			return nil, false
		}
		items := make([]any, 0, len(raw))
		for _, item := range raw {
			if item != "" {
				items = append(items, item)
			}
		}
		return items, true
	default:
		if !present || len(raw) == 0 {
			return nil, false
		}
		return raw[0], true
	}
}
