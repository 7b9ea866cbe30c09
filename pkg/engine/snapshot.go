package engine

import (
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/state"
)

// FieldView is the serialisable state of one bound control.
type FieldView struct {
	Name        string             `json:"name"`
	Type        model.FieldType    `json:"type"`
	Label       string             `json:"label,omitempty"`
	Description string             `json:"description,omitempty"`
	Required    bool               `json:"required,omitempty"`
	Path        string             `json:"path,omitempty"`
	Control     string             `json:"control"`
	InputType   string             `json:"inputType,omitempty"`
	Choices     []model.Choice     `json:"choices,omitempty"`
	Range       *model.NumberRange `json:"range,omitempty"`
	Schema      string             `json:"schema,omitempty"`
	Value       any                `json:"value"`
	Optional    bool               `json:"optional,omitempty"`
	Active      bool               `json:"active,omitempty"`
	Index       int                `json:"index"`
}

// Snapshot is the headless rendering of a form: the two bound-field
// collections and a copy of the merged value object.
type Snapshot struct {
	Prefix    string         `json:"prefix,omitempty"`
	ListField string         `json:"optionalListField,omitempty"`
	Required  []FieldView    `json:"required"`
	Optional  []FieldView    `json:"optional"`
	Values    map[string]any `json:"values"`
	Skipped   []SkippedField `json:"skipped,omitempty"`
}

// Snapshot captures the form in render order.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := Snapshot{
		Prefix:    f.cfg.prefix,
		ListField: f.cfg.listField,
		Required:  make([]FieldView, 0, len(f.required.fields)),
		Optional:  make([]FieldView, 0, len(f.optional.fields)),
		Values:    f.values.Snapshot(),
		Skipped:   append([]SkippedField(nil), f.skipped...),
	}
	for _, field := range f.required.fields {
		value, _ := f.required.value(f.values, field.field.Name)
		view := newFieldView(field.binding, value)
		view.Index = -1
		out.Required = append(out.Required, view)
	}
	for _, binding := range f.optional.ordered(f.values) {
		view := newFieldView(binding.Binding, binding.Value)
		view.Optional = true
		view.Active = binding.Active
		view.Index = binding.Index
		out.Optional = append(out.Optional, view)
	}
	return out
}

func newFieldView(binding Binding, value any) FieldView {
	desc := binding.Descriptor
	view := FieldView{
		Name:        desc.Name,
		Type:        desc.Type,
		Label:       desc.Label,
		Description: desc.Description,
		Required:    desc.Required,
		Path:        binding.Path,
		Control:     binding.Control,
		InputType:   binding.InputType,
		Choices:     binding.Choices,
		Schema:      desc.Schema(),
		Value:       state.CloneValue(value),
	}
	if binding.Range.Min != nil || binding.Range.Max != nil || binding.Range.Step != nil {
		rng := binding.Range
		view.Range = &rng
	}
	return view
}
