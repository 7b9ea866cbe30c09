package engine

import (
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/widgets"
)

// Binding is the headless form of a rendered control: the descriptor, the
// control a renderer should draw, and the value path it writes to.
type Binding struct {
	Descriptor model.FieldDescriptor
	Path       string
	Control    string
	InputType  string
	Choices    []model.Choice
	Range      model.NumberRange
}

type boundField struct {
	field   model.FieldDescriptor
	handler widgets.Handler
	binding Binding
}

func (b boundField) coerce(raw any) any {
	return b.handler.Coerce(b.field, raw)
}

func bind(field model.FieldDescriptor, handler widgets.Handler, path string) boundField {
	binding := Binding{
		Descriptor: field,
		Path:       path,
		Control:    handler.Control,
		InputType:  handler.InputType,
	}
	if field.Type.HasChoices() {
		binding.Choices, _ = widgets.Choices(field)
	}
	if field.Type == model.FieldTypeNumber || field.Type == model.FieldTypeSlider {
		binding.Range = field.Range()
	}
	return boundField{field: field, handler: handler, binding: binding}
}
