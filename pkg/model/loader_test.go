package model

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

const agentSettingsYAML = `
name: agent-settings
optionalListField: optional_params
fields:
  - id: 1
    type: select
    name: model
    label: Model
    required: true
    defaultValue: gpt-4o
    options:
      - value: gpt-4o
        label: GPT-4o
      - value: claude
        label: Claude
  - id: 2
    type: slider
    name: temperature
    toggle: true
    defaultValue: 0.7
    options:
      min: 0
      max: 2
      step: 0.1
`

func TestLoadFieldSet_YAML(t *testing.T) {
	set, err := LoadFieldSet([]byte(agentSettingsYAML), "agent.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if set.Name != "agent-settings" || set.OptionalListField != "optional_params" {
		t.Fatalf("unexpected header: %+v", set)
	}
	if len(set.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(set.Fields))
	}

	temp := set.Fields[1]
	if !temp.Toggle || temp.Type != FieldTypeSlider {
		t.Fatalf("unexpected temperature descriptor: %+v", temp)
	}
	rng := temp.Range()
	if rng.Min == nil || *rng.Min != 0 || rng.Max == nil || *rng.Max != 2 || rng.Step == nil || *rng.Step != 0.1 {
		t.Fatalf("unexpected range: %+v", rng)
	}
}

func TestLoadFieldSet_JSONList(t *testing.T) {
	raw := `[{"type":"Text","name":" title "},{"type":"checkbox","name":"stream","toggle":true}]`
	set, err := LoadFieldSet([]byte(raw), "list.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []FieldDescriptor{
		{Type: FieldTypeText, Name: "title"},
		{Type: FieldTypeCheckbox, Name: "stream", Toggle: true},
	}
	if diff := cmp.Diff(want, set.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFieldSet_Empty(t *testing.T) {
	if _, err := LoadFieldSet([]byte("  "), "empty.json"); err == nil {
		t.Fatalf("expected error for empty document")
	}
}

func TestLoadFS_DuplicateNames(t *testing.T) {
	fsys := fstest.MapFS{
		"a.json": {Data: []byte(`{"name":"dup","fields":[{"type":"text","name":"a"}]}`)},
		"b.yaml": {Data: []byte("name: dup\nfields:\n  - type: text\n    name: b\n")},
	}
	if _, err := LoadFS(fsys); err == nil {
		t.Fatalf("expected duplicate name error")
	}
}

func TestLoadFS_NamesFromFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/tool.yaml": {Data: []byte("fields:\n  - type: text\n    name: endpoint\n")},
		"README.md":       {Data: []byte("ignored")},
	}
	sets, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if _, ok := sets["tool"]; !ok {
		t.Fatalf("expected set keyed by file name, got %v", sets)
	}
}
