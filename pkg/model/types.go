package model

import (
	"strings"

	"github.com/goliatone/go-formengine/internal/coerce"
)

// FieldType is the closed enumeration of controls the engine knows how to bind.
type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeEmail       FieldType = "email"
	FieldTypeDate        FieldType = "date"
	FieldTypeNumber      FieldType = "number"
	FieldTypeTextarea    FieldType = "textarea"
	FieldTypeSelect      FieldType = "select"
	FieldTypeMultiselect FieldType = "multiselect"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeRadio       FieldType = "radio"
	FieldTypeSlider      FieldType = "slider"
	FieldTypeJSON        FieldType = "json"
)

// FieldTypes lists every known type in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeEmail,
		FieldTypeDate,
		FieldTypeNumber,
		FieldTypeTextarea,
		FieldTypeSelect,
		FieldTypeMultiselect,
		FieldTypeCheckbox,
		FieldTypeRadio,
		FieldTypeSlider,
		FieldTypeJSON,
	}
}

// Known reports whether t is part of the enumeration.
func (t FieldType) Known() bool {
	for _, candidate := range FieldTypes() {
		if candidate == t {
			return true
		}
	}
	return false
}

// HasChoices reports whether the type expects a list of choices in Options.
func (t FieldType) HasChoices() bool {
	switch t {
	case FieldTypeSelect, FieldTypeMultiselect, FieldTypeRadio:
		return true
	default:
		return false
	}
}

// FieldDescriptor describes one form field. It is supplied by the caller and
// never persisted by the engine.
type FieldDescriptor struct {
	ID           any       `json:"id,omitempty" yaml:"id,omitempty"`
	Type         FieldType `json:"type" yaml:"type"`
	Name         string    `json:"name" yaml:"name"`
	Label        string    `json:"label,omitempty" yaml:"label,omitempty"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	Required     bool      `json:"required,omitempty" yaml:"required,omitempty"`
	DefaultValue any       `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Options      any       `json:"options,omitempty" yaml:"options,omitempty"`
	Toggle       bool      `json:"toggle,omitempty" yaml:"toggle,omitempty"`
}

// Optional reports whether the descriptor is a toggleable field.
func (d FieldDescriptor) Optional() bool {
	return d.Toggle
}

// NumberRange carries the control constraints of number and slider fields.
// Nil members were not supplied.
type NumberRange struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step *float64 `json:"step,omitempty"`
}

// Range decodes {min,max,step} from Options. Non-object options yield an empty
// range.
func (d FieldDescriptor) Range() NumberRange {
	opts, ok := d.Options.(map[string]any)
	if !ok {
		return NumberRange{}
	}
	var out NumberRange
	if v, ok := coerce.Number(opts["min"]); ok {
		out.Min = &v
	}
	if v, ok := coerce.Number(opts["max"]); ok {
		out.Max = &v
	}
	if v, ok := coerce.Number(opts["step"]); ok {
		out.Step = &v
	}
	return out
}

// Schema returns the JSON schema text attached to a json field through
// options.schema, if any. Object schemas are re-encoded as JSON.
func (d FieldDescriptor) Schema() string {
	opts, ok := d.Options.(map[string]any)
	if !ok {
		return ""
	}
	raw, ok := opts["schema"]
	if !ok || raw == nil {
		return ""
	}
	return strings.TrimSpace(coerce.String(raw))
}

// Choice is a normalised select/multiselect/radio option.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldSet groups the descriptors of one form together with the key of the
// value object that stores optional-field state.
type FieldSet struct {
	Name              string            `json:"name,omitempty" yaml:"name,omitempty"`
	OptionalListField string            `json:"optionalListField,omitempty" yaml:"optionalListField,omitempty"`
	Fields            []FieldDescriptor `json:"fields" yaml:"fields"`
}

// Partition splits descriptors by Toggle, preserving their relative order.
func Partition(fields []FieldDescriptor) (required, optional []FieldDescriptor) {
	for _, field := range fields {
		if field.Toggle {
			optional = append(optional, field)
			continue
		}
		required = append(required, field)
	}
	return required, optional
}
