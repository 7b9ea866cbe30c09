package widgets

import (
	"strings"

	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/model"
)

// Choices normalises a descriptor's options into value/label pairs. The second
// result is false when options are not a list at all. Entries lacking both a
// value and a label are dropped; an entry with only one of them reuses it for
// the other.
func Choices(field model.FieldDescriptor) ([]model.Choice, bool) {
	var items []any
	switch raw := field.Options.(type) {
	case []any:
		items = raw
	case []string:
		items = make([]any, len(raw))
		for idx, value := range raw {
			items[idx] = value
		}
	case []map[string]any:
		items = make([]any, len(raw))
		for idx, value := range raw {
			items[idx] = value
		}
	case []model.Choice:
		items = make([]any, len(raw))
		for idx, value := range raw {
			items[idx] = map[string]any{"value": value.Value, "label": value.Label}
		}
	default:
		return nil, false
	}

	out := make([]model.Choice, 0, len(items))
	for _, item := range items {
		choice, ok := normaliseChoice(item)
		if !ok {
			continue
		}
		out = append(out, choice)
	}
	return out, true
}

func normaliseChoice(item any) (model.Choice, bool) {
	var value, label string
	switch entry := item.(type) {
	case nil:
		return model.Choice{}, false
	case map[string]any:
		if raw, ok := entry["value"]; ok && raw != nil {
			value = coerce.String(raw)
		}
		if raw, ok := entry["label"]; ok && raw != nil {
			label = coerce.String(raw)
		}
	case map[any]any:
		if raw, ok := entry["value"]; ok && raw != nil {
			value = coerce.String(raw)
		}
		if raw, ok := entry["label"]; ok && raw != nil {
			label = coerce.String(raw)
		}
	case []any:
		return model.Choice{}, false
	default:
		value = coerce.String(entry)
	}

	value = strings.TrimSpace(value)
	label = strings.TrimSpace(label)
	switch {
	case value == "" && label == "":
		return model.Choice{}, false
	case value == "":
		value = label
	case label == "":
		label = value
	}
	return model.Choice{Value: value, Label: label}, true
}
