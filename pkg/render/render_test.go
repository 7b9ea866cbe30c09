package render_test

import (
	"testing"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/model"
)

func agentForm(t *testing.T, opts ...engine.Option) *engine.Form {
	t.Helper()
	fields := []model.FieldDescriptor{
		{Type: model.FieldTypeText, Name: "name", Label: "Name", DefaultValue: "helper"},
		{Type: model.FieldTypeEmail, Name: "owner", Label: "Owner"},
		{Type: model.FieldTypeCheckbox, Name: "stream", DefaultValue: true},
		{Type: model.FieldTypeMultiselect, Name: "tags", Options: []any{"ops", "dev"}},
		{Type: model.FieldTypeSlider, Name: "temperature", Toggle: true, DefaultValue: 0.5},
		{Type: model.FieldTypeText, Name: "stop", Toggle: true, DefaultValue: "END", Description: "Stop sequence"},
	}
	opts = append([]engine.Option{engine.WithOptionalListField("params")}, opts...)
	form, err := engine.New(fields, opts...)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return form
}
