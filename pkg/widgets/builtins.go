package widgets

import (
	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/model"
)

func builtinHandlers() []Handler {
	return []Handler{
		{Type: model.FieldTypeText, Control: ControlInput, InputType: "text", Coerce: coerceString},
		{Type: model.FieldTypeEmail, Control: ControlInput, InputType: "email", Coerce: coerceString},
		{Type: model.FieldTypeDate, Control: ControlInput, InputType: "date", Coerce: coerceString},
		{Type: model.FieldTypeNumber, Control: ControlInput, InputType: "number", Coerce: coerceNumber},
		{Type: model.FieldTypeTextarea, Control: ControlTextareaOverlay, Coerce: coerceString},
		{Type: model.FieldTypeSelect, Control: ControlSelect, Coerce: coerceString, Accept: acceptChoices},
		{Type: model.FieldTypeMultiselect, Control: ControlMultiselect, Coerce: coerceStrings, Accept: acceptChoices},
		{Type: model.FieldTypeCheckbox, Control: ControlCheckbox, InputType: "checkbox", Coerce: coerceBool},
		{Type: model.FieldTypeRadio, Control: ControlRadioGroup, Coerce: coerceString, Accept: acceptChoices},
		{Type: model.FieldTypeSlider, Control: ControlRange, InputType: "range", Coerce: coerceNumber},
		{Type: model.FieldTypeJSON, Control: ControlJSONEditor, Coerce: coerceString},
	}
}

func coerceString(_ model.FieldDescriptor, raw any) any {
	return coerce.String(raw)
}

func coerceBool(_ model.FieldDescriptor, raw any) any {
	return coerce.Bool(raw)
}

// coerceNumber stores float64. Range bounds are passed to controls, not
// enforced here.
func coerceNumber(_ model.FieldDescriptor, raw any) any {
	return coerce.NumberOrZero(raw)
}

func coerceStrings(_ model.FieldDescriptor, raw any) any {
	items := coerce.StringSlice(raw)
	out := make([]any, len(items))
	for idx, item := range items {
		out[idx] = item
	}
	return out
}

func acceptChoices(field model.FieldDescriptor) bool {
	_, ok := Choices(field)
	return ok
}
