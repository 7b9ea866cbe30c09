package orchestrator_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/orchestrator"
	"github.com/goliatone/go-formengine/pkg/render"
)

type captureRenderer struct {
	form    *engine.Form
	options render.RenderOptions
}

func (r *captureRenderer) Name() string {
	return "capture"
}

func (r *captureRenderer) ContentType() string {
	return "text/plain"
}

func (r *captureRenderer) Render(_ context.Context, form *engine.Form, opts render.RenderOptions) ([]byte, error) {
	r.form = form
	r.options = opts
	return []byte("ok"), nil
}

func captureRegistry() (*render.Registry, *captureRenderer) {
	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	return registry, renderer
}

func agentSet() *model.FieldSet {
	return &model.FieldSet{
		Name:              "agent",
		OptionalListField: "optional_params",
		Fields: []model.FieldDescriptor{
			{Type: model.FieldTypeText, Name: "display_name", Required: true, DefaultValue: "helper"},
			{Type: model.FieldTypeSlider, Name: "temperature", Toggle: true, DefaultValue: 0.7},
		},
	}
}

func TestOrchestrator_GenerateBindsValues(t *testing.T) {
	registry, renderer := captureRegistry()
	orch := orchestrator.New(orchestrator.WithRegistry(registry))

	output, err := orch.Generate(context.Background(), orchestrator.Request{
		FieldSet: agentSet(),
		Values: map[string]any{
			"display_name":    "ops bot",
			"optional_params": []any{map[string]any{"temperature": 0.1}},
		},
		RenderOptions: render.RenderOptions{Title: "Agent"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(output) != "ok" {
		t.Fatalf("unexpected output %q", output)
	}

	want := map[string]any{
		"display_name":    "ops bot",
		"optional_params": []any{map[string]any{"temperature": 0.1}},
	}
	if diff := cmp.Diff(want, renderer.form.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if renderer.options.Title != "Agent" {
		t.Fatalf("render options not forwarded")
	}
	if renderer.options.Theme != nil {
		t.Fatalf("theme must stay nil without a selector")
	}
}

func TestOrchestrator_DefaultLabelDecorator(t *testing.T) {
	registry, _ := captureRegistry()
	orch := orchestrator.New(orchestrator.WithRegistry(registry))

	form, set, err := orch.Bind(context.Background(), orchestrator.Request{FieldSet: agentSet()})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if set.Fields[0].Label != "Display Name" {
		t.Fatalf("expected derived label, got %q", set.Fields[0].Label)
	}
	descriptor, ok := form.Descriptor("display_name")
	if !ok || descriptor.Label != "Display Name" {
		t.Fatalf("bound descriptor missing label: %+v", descriptor)
	}
}

func TestOrchestrator_DecoratorsAndTransformerOrder(t *testing.T) {
	registry, _ := captureRegistry()
	var calls []string

	orch := orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithTransformer(orchestrator.TransformerFunc(func(_ context.Context, set *model.FieldSet) error {
			calls = append(calls, "transform")
			set.Fields[0].Label = "Agent name"
			return nil
		})),
		orchestrator.WithDecorators(model.DecoratorFunc(func(set *model.FieldSet) error {
			calls = append(calls, "decorate:"+set.Fields[0].Label)
			return nil
		})),
	)

	if _, _, err := orch.Bind(context.Background(), orchestrator.Request{FieldSet: agentSet()}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if diff := cmp.Diff([]string{"transform", "decorate:Agent name"}, calls); diff != "" {
		t.Fatalf("call order mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_DecoratorErrorStops(t *testing.T) {
	registry, renderer := captureRegistry()
	boom := errors.New("boom")
	orch := orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithDecorators(model.DecoratorFunc(func(*model.FieldSet) error { return boom })),
	)

	_, err := orch.Generate(context.Background(), orchestrator.Request{FieldSet: agentSet()})
	if !errors.Is(err, boom) {
		t.Fatalf("expected decorator error, got %v", err)
	}
	if renderer.form != nil {
		t.Fatalf("renderer must not run after a decorator error")
	}
}

func TestOrchestrator_SourceDocument(t *testing.T) {
	registry, renderer := captureRegistry()
	orch := orchestrator.New(orchestrator.WithRegistry(registry))

	source := []byte(`
optionalListField: extras
fields:
  - type: checkbox
    name: stream
  - type: text
    name: stop
    toggle: true
`)
	_, err := orch.Generate(context.Background(), orchestrator.Request{
		Source:     source,
		SourceName: "agent.yaml",
		Prefix:     "settings",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	want := map[string]any{
		"settings": map[string]any{
			"stream": false,
			"extras": []any{},
		},
	}
	if diff := cmp.Diff(want, renderer.form.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_OptionalListFieldOverride(t *testing.T) {
	registry, _ := captureRegistry()
	orch := orchestrator.New(orchestrator.WithRegistry(registry))

	form, _, err := orch.Bind(context.Background(), orchestrator.Request{
		FieldSet:          agentSet(),
		OptionalListField: "params",
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if form.ListField() != "params" {
		t.Fatalf("expected list field override, got %q", form.ListField())
	}
}

func TestOrchestrator_RequestErrors(t *testing.T) {
	registry, _ := captureRegistry()
	orch := orchestrator.New(orchestrator.WithRegistry(registry))

	if _, err := orch.Generate(context.Background(), orchestrator.Request{}); err == nil {
		t.Fatalf("expected error without a field set")
	}
	if _, err := orch.Generate(context.Background(), orchestrator.Request{FieldSet: agentSet(), Renderer: "missing"}); err == nil {
		t.Fatalf("expected unknown renderer error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := orch.Generate(ctx, orchestrator.Request{FieldSet: agentSet()}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestOrchestrator_DefaultRendererFallsBackToRegistered(t *testing.T) {
	registry, renderer := captureRegistry()
	orch := orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer("vanilla"),
	)
	if _, err := orch.Generate(context.Background(), orchestrator.Request{FieldSet: agentSet()}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if renderer.form == nil {
		t.Fatalf("expected the only registered renderer to run")
	}
}

func TestOrchestrator_DefaultRegistryHeadless(t *testing.T) {
	orch := orchestrator.New()

	output, err := orch.Generate(context.Background(), orchestrator.Request{
		FieldSet: agentSet(),
		Renderer: "headless",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var doc struct {
		ListField string `json:"optionalListField"`
		Optional  []struct {
			Name string `json:"name"`
		} `json:"optional"`
	}
	if err := json.Unmarshal(output, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.ListField != "optional_params" || len(doc.Optional) != 1 || doc.Optional[0].Name != "temperature" {
		t.Fatalf("unexpected headless document: %s", output)
	}
}

func TestJSONPresetTransformer(t *testing.T) {
	transformer, err := orchestrator.NewJSONPresetTransformer([]byte(`{
		"optionalListField": "extras",
		"fields": {
			"temperature": {"label": "Creativity", "defaultValue": 0.2},
			"display_name": {"rename": "name", "required": false}
		}
	}`))
	if err != nil {
		t.Fatalf("new transformer: %v", err)
	}

	set := agentSet()
	if err := transformer.Transform(context.Background(), set); err != nil {
		t.Fatalf("transform: %v", err)
	}

	if set.OptionalListField != "extras" {
		t.Fatalf("list field not patched: %q", set.OptionalListField)
	}
	if set.Fields[0].Name != "name" || set.Fields[0].Required {
		t.Fatalf("display_name patch not applied: %+v", set.Fields[0])
	}
	if set.Fields[1].Label != "Creativity" || set.Fields[1].DefaultValue != 0.2 {
		t.Fatalf("temperature patch not applied: %+v", set.Fields[1])
	}
}

func TestJSONPresetTransformer_UnknownField(t *testing.T) {
	transformer, err := orchestrator.NewJSONPresetTransformer([]byte(`{"fields": {"missing": {"label": "x"}}}`))
	if err != nil {
		t.Fatalf("new transformer: %v", err)
	}
	if err := transformer.Transform(context.Background(), agentSet()); err == nil {
		t.Fatalf("expected unknown field error")
	}
	if _, err := orchestrator.NewJSONPresetTransformer([]byte("  ")); err == nil {
		t.Fatalf("expected empty document error")
	}
}
