package model

import "testing"

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"":              "",
		"max_tokens":    "Max Tokens",
		"systemPrompt":  "System Prompt",
		"top-p":         "Top P",
		"apiURL":        "Api URL",
		"HTTPServer":    "HTTP Server",
		"retries3times": "Retries 3 Times",
	}
	for input, want := range cases {
		if got := DefaultLabeler(input); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestLabelDecorator_FillsEmptyLabels(t *testing.T) {
	set := &FieldSet{Fields: []FieldDescriptor{
		{Name: "temperature", Type: FieldTypeSlider},
		{Name: "model", Type: FieldTypeSelect, Label: "Model name"},
	}}
	if err := LabelDecorator(nil).Decorate(set); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if set.Fields[0].Label != "Temperature" {
		t.Fatalf("expected derived label, got %q", set.Fields[0].Label)
	}
	if set.Fields[1].Label != "Model name" {
		t.Fatalf("existing label overwritten: %q", set.Fields[1].Label)
	}
}
