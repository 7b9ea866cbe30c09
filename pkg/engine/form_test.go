package engine

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/model"
)

func agentFields() []model.FieldDescriptor {
	return []model.FieldDescriptor{
		{ID: 1, Type: model.FieldTypeText, Name: "name", Label: "Name", DefaultValue: "assistant"},
		{ID: 2, Type: model.FieldTypeSelect, Name: "model", DefaultValue: "small", Options: []any{
			map[string]any{"value": "small", "label": "Small"},
			map[string]any{"value": "large", "label": "Large"},
		}},
		{ID: 3, Type: model.FieldTypeCheckbox, Name: "stream", DefaultValue: "yes"},
		{ID: 4, Type: model.FieldTypeNumber, Name: "max_tokens", DefaultValue: "512", Options: map[string]any{"min": 1, "max": 4096}},
		{ID: 5, Type: model.FieldTypeSlider, Name: "temperature", DefaultValue: 0.7, Toggle: true, Options: map[string]any{"min": 0, "max": 2, "step": 0.1}},
		{ID: 6, Type: model.FieldTypeCheckbox, Name: "memory", DefaultValue: 1, Toggle: true},
		{ID: 7, Type: model.FieldTypeTextarea, Name: "system_prompt", DefaultValue: "Be brief.", Toggle: true},
	}
}

func newAgentForm(t *testing.T, opts ...Option) *Form {
	t.Helper()
	opts = append([]Option{WithOptionalListField("params")}, opts...)
	form, err := New(agentFields(), opts...)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return form
}

func TestNew_SeedsRequiredDefaults(t *testing.T) {
	form := newAgentForm(t)

	want := map[string]any{
		"name":       "assistant",
		"model":      "small",
		"stream":     true,
		"max_tokens": float64(512),
		"params":     []any{},
	}
	if diff := cmp.Diff(want, form.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if got := form.Phase(); got != PhaseReady {
		t.Fatalf("expected ready phase, got %s", got)
	}
}

func TestNew_OptionalFieldsStartInactiveWithDefaults(t *testing.T) {
	form := newAgentForm(t)
	optional := form.Optional()

	cases := map[string]any{
		"temperature":   0.7,
		"memory":        true,
		"system_prompt": "Be brief.",
	}
	for name, want := range cases {
		if optional.IsActive(name) {
			t.Fatalf("%s should be inactive", name)
		}
		got, ok := optional.CurrentValue(name)
		if !ok {
			t.Fatalf("%s not bound", name)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s current value mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestNew_SkipsMalformedDescriptors(t *testing.T) {
	fields := []model.FieldDescriptor{
		{Type: model.FieldTypeText, Name: "title"},
		{Type: "unknown-type", Name: "mystery"},
		{Type: model.FieldTypeSelect, Name: "broken", Options: map[string]any{"value": "x"}},
		{Type: model.FieldTypeText, Name: "title"},
		{Type: model.FieldTypeText, Name: "params"},
		{Type: model.FieldTypeNumber, Name: "count", DefaultValue: 2},
	}

	form, err := New(fields, WithOptionalListField("params"))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	var names []string
	for _, binding := range form.Required().Bindings() {
		names = append(names, binding.Descriptor.Name)
	}
	if diff := cmp.Diff([]string{"title", "count"}, names); diff != "" {
		t.Fatalf("bound fields mismatch (-want +got):\n%s", diff)
	}

	wantSkipped := []SkippedField{
		{Name: "mystery", Type: "unknown-type", Reason: SkipUnknownType},
		{Name: "broken", Type: model.FieldTypeSelect, Reason: SkipRejected},
		{Name: "title", Type: model.FieldTypeText, Reason: SkipDuplicateName},
		{Name: "params", Type: model.FieldTypeText, Reason: SkipListCollision},
	}
	if diff := cmp.Diff(wantSkipped, form.Skipped()); diff != "" {
		t.Fatalf("skipped mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_RequiresListFieldForOptionalDescriptors(t *testing.T) {
	_, err := New([]model.FieldDescriptor{
		{Type: model.FieldTypeText, Name: "note", Toggle: true},
	})
	if !errors.Is(err, ErrListFieldRequired) {
		t.Fatalf("expected ErrListFieldRequired, got %v", err)
	}
}

func TestNew_PrefixNestsPaths(t *testing.T) {
	form := newAgentForm(t, WithPrefix("agent.settings"))
	form.Optional().Activate("memory")

	values := form.Values()
	agent, _ := values["agent"].(map[string]any)
	settings, _ := agent["settings"].(map[string]any)
	if settings == nil {
		t.Fatalf("expected nested settings map, got %#v", values)
	}
	if settings["name"] != "assistant" {
		t.Fatalf("expected nested required value, got %#v", settings["name"])
	}
	want := []any{map[string]any{"memory": true}}
	if diff := cmp.Diff(want, settings["params"]); diff != "" {
		t.Fatalf("nested list mismatch (-want +got):\n%s", diff)
	}

	binding := form.Required().Bindings()[0]
	if binding.Path != "agent.settings.name" {
		t.Fatalf("unexpected binding path %q", binding.Path)
	}
	if form.Optional().ListPath() != "agent.settings.params" {
		t.Fatalf("unexpected list path %q", form.Optional().ListPath())
	}
}

func TestForm_SetRoutesByName(t *testing.T) {
	form := newAgentForm(t)

	if !form.Set("max_tokens", "1024") {
		t.Fatalf("expected required write to succeed")
	}
	if got, _ := form.Value("max_tokens"); got != float64(1024) {
		t.Fatalf("expected coerced number, got %#v", got)
	}
	if form.Set("temperature", 1.2) {
		t.Fatalf("expected write to inactive optional field to be ignored")
	}
	if form.Set("missing", "x") {
		t.Fatalf("expected unknown field write to report false")
	}

	form.Optional().Activate("temperature")
	if !form.Set("temperature", "1.2") {
		t.Fatalf("expected write to active optional field to succeed")
	}
	if got, _ := form.Value("temperature"); got != 1.2 {
		t.Fatalf("expected 1.2, got %#v", got)
	}
}

func TestForm_ValuesIsACopy(t *testing.T) {
	form := newAgentForm(t)
	form.Optional().Activate("memory")

	values := form.Values()
	values["name"] = "changed"
	values["params"].([]any)[0].(map[string]any)["memory"] = false

	if got, _ := form.Value("name"); got != "assistant" {
		t.Fatalf("copy leaked into form: %#v", got)
	}
	if got, _ := form.Optional().CurrentValue("memory"); got != true {
		t.Fatalf("copy leaked into list: %#v", got)
	}
}

func TestForm_RoundTripThroughJSON(t *testing.T) {
	form := newAgentForm(t)
	form.Optional().Activate("system_prompt")
	form.Optional().Activate("temperature")
	form.Optional().Update("temperature", 1.5)
	form.Set("name", "planner")

	payload, err := json.Marshal(form.Values())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var saved map[string]any
	if err := json.Unmarshal(payload, &saved); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	reloaded := newAgentForm(t, WithValues(saved))
	for _, field := range agentFields() {
		if !field.Toggle {
			want, _ := form.Value(field.Name)
			got, _ := reloaded.Value(field.Name)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("%s value mismatch (-want +got):\n%s", field.Name, diff)
			}
			continue
		}
		if form.Optional().IsActive(field.Name) != reloaded.Optional().IsActive(field.Name) {
			t.Fatalf("%s activation differs after reload", field.Name)
		}
		want, _ := form.Optional().CurrentValue(field.Name)
		got, _ := reloaded.Optional().CurrentValue(field.Name)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s current value mismatch (-want +got):\n%s", field.Name, diff)
		}
	}
	if diff := cmp.Diff(form.Values(), reloaded.Values()); diff != "" {
		t.Fatalf("value object mismatch (-want +got):\n%s", diff)
	}
}

func TestForm_NonFiniteNumbersStayEncodable(t *testing.T) {
	form := newAgentForm(t)
	form.Optional().Activate("temperature")

	form.Set("temperature", "NaN")
	form.Set("max_tokens", "+Inf")

	if got, _ := form.Value("temperature"); got != float64(0) {
		t.Fatalf("expected NaN to coerce to 0, got %#v", got)
	}
	if got, _ := form.Value("max_tokens"); got != float64(0) {
		t.Fatalf("expected +Inf to coerce to 0, got %#v", got)
	}
	if _, err := json.Marshal(form.Values()); err != nil {
		t.Fatalf("value object no longer encodes: %v", err)
	}
}

func TestForm_SnapshotOrdersFields(t *testing.T) {
	form := newAgentForm(t)
	form.Optional().Activate("system_prompt")

	snap := form.Snapshot()
	var required []string
	for _, view := range snap.Required {
		required = append(required, view.Name)
	}
	if diff := cmp.Diff([]string{"name", "model", "stream", "max_tokens"}, required); diff != "" {
		t.Fatalf("required order mismatch (-want +got):\n%s", diff)
	}

	first := snap.Optional[0]
	if first.Name != "system_prompt" || !first.Active || first.Index != 0 || first.Path != "params.0.system_prompt" {
		t.Fatalf("unexpected first optional view %#v", first)
	}
	for _, view := range snap.Optional[1:] {
		if view.Active || view.Index != -1 || view.Path != "" {
			t.Fatalf("expected inactive view, got %#v", view)
		}
	}
	if snap.Required[1].Choices[1].Label != "Large" {
		t.Fatalf("expected normalised choices, got %#v", snap.Required[1].Choices)
	}
	if snap.Required[3].Range == nil || *snap.Required[3].Range.Max != 4096 {
		t.Fatalf("expected range on number field, got %#v", snap.Required[3].Range)
	}
}
