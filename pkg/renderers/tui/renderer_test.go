package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/widgets"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	editors      []string
	infoMessages []string
	multiPrompts []Prompt
}

// next pops the first scripted answer of queue.
func next[T any](queue *[]T, kind string) (T, error) {
	var zero T
	if len(*queue) == 0 {
		return zero, errors.New("no " + kind + " scripted")
	}
	val := (*queue)[0]
	*queue = (*queue)[1:]
	return val, nil
}

func (s *stubDriver) Ask(_ context.Context, _ Prompt) (string, error) {
	return next(&s.inputs, "input")
}

func (s *stubDriver) Confirm(_ context.Context, _ Prompt) (bool, error) {
	return next(&s.confirm, "confirm")
}

func (s *stubDriver) Choose(_ context.Context, _ Prompt) (int, error) {
	idx, err := next(&s.selectIdx, "select")
	if err != nil {
		return -1, err
	}
	return idx, nil
}

func (s *stubDriver) ChooseMany(_ context.Context, p Prompt) ([]int, error) {
	s.multiPrompts = append(s.multiPrompts, p)
	return next(&s.multiIdx, "multiselect")
}

func (s *stubDriver) Compose(_ context.Context, p Prompt) (string, error) {
	if p.Field.Control == widgets.ControlTextareaOverlay {
		return next(&s.editors, "editor")
	}
	return next(&s.textAreas, "textarea")
}

func (s *stubDriver) Notify(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func agentForm(t *testing.T, values map[string]any) *engine.Form {
	t.Helper()
	fields := []model.FieldDescriptor{
		{Type: model.FieldTypeText, Name: "name", Label: "Name", Required: true},
		{Type: model.FieldTypeSelect, Name: "model", Options: []any{"gpt-4o", "claude"}, DefaultValue: "gpt-4o"},
		{Type: model.FieldTypeCheckbox, Name: "stream"},
		{Type: model.FieldTypeTextarea, Name: "instructions"},
		{Type: model.FieldTypeSlider, Name: "temperature", Toggle: true, DefaultValue: 0.7,
			Options: map[string]any{"min": 0, "max": 2}},
		{Type: model.FieldTypeText, Name: "stop", Toggle: true, DefaultValue: "END"},
		{Type: model.FieldTypeJSON, Name: "metadata", Toggle: true, DefaultValue: "{}"},
	}
	form, err := engine.New(fields,
		engine.WithOptionalListField("optional_params"),
		engine.WithValues(values),
	)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return form
}

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return out
}

func TestRender_RequiredAndOptionalFlow(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"helper", "1.2", "STOP"},
		selectIdx: []int{1},
		confirm:   []bool{true},
		editors:   []string{"Be brief."},
		// temperature and stop selected, metadata left out
		multiIdx: [][]int{{0, 1}},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	form := agentForm(t, nil)
	out, err := r.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := map[string]any{
		"name":         "helper",
		"model":        "claude",
		"stream":       true,
		"instructions": "Be brief.",
		"optional_params": []any{
			map[string]any{"temperature": 1.2},
			map[string]any{"stop": "STOP"},
		},
	}
	if diff := cmp.Diff(want, decode(t, out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, form.Values()); diff != "" {
		t.Fatalf("form state mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_OptionalSelectionPreselectsActive(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"helper"},
		selectIdx: []int{0},
		confirm:   []bool{false},
		editors:   []string{""},
		textAreas: []string{`{"team":"ops"}`},
		// keep only metadata; stop is deactivated
		multiIdx: [][]int{{1}},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	form := agentForm(t, map[string]any{
		"optional_params": []any{
			map[string]any{"stop": "###"},
			map[string]any{"metadata": "{}"},
		},
	})
	out, err := r.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	picker := driver.multiPrompts[0]
	if diff := cmp.Diff([]string{"Stop", "Metadata", "Temperature"}, picker.Options); diff != "" {
		t.Fatalf("optional options mismatch (-want +got):\n%s", diff)
	}
	if picker.Field.Name != "" {
		t.Fatalf("optional picker must not carry a field, got %q", picker.Field.Name)
	}
	if diff := cmp.Diff([]int{0, 1}, picker.Selected); diff != "" {
		t.Fatalf("preselected mismatch (-want +got):\n%s", diff)
	}

	got := decode(t, out)
	wantList := []any{map[string]any{"metadata": `{"team":"ops"}`}}
	if diff := cmp.Diff(wantList, got["optional_params"]); diff != "" {
		t.Fatalf("optional list mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_RepromptsInvalidAnswers(t *testing.T) {
	driver := &stubDriver{
		// empty required name, then a valid one; temperature out of range, then valid
		inputs:    []string{"", "helper", "5", "abc", "0.3"},
		selectIdx: []int{0},
		confirm:   []bool{false},
		editors:   []string{""},
		multiIdx:  [][]int{{0}},
	}
	r, err := New(WithPromptDriver(driver), WithStyles(Styles{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	form := agentForm(t, nil)
	if _, err := r.Render(context.Background(), form, render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}

	wantMessages := []string{
		"Invalid Name: " + engine.MsgRequired,
		"Invalid Temperature: must be at most 2",
		"Invalid Temperature: not a number",
	}
	if diff := cmp.Diff(wantMessages, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if value, _ := form.Optional().CurrentValue("temperature"); value != 0.3 {
		t.Fatalf("expected temperature 0.3, got %v", value)
	}
}

func TestRender_InvalidJSONReprompts(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"helper"},
		selectIdx: []int{0},
		confirm:   []bool{false},
		editors:   []string{""},
		textAreas: []string{"{oops", `{"ok":true}`},
		multiIdx:  [][]int{{2}},
	}
	r, err := New(WithPromptDriver(driver), WithStyles(Styles{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	form := agentForm(t, nil)
	if _, err := r.Render(context.Background(), form, render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(driver.infoMessages) != 1 || !strings.Contains(driver.infoMessages[0], engine.MsgInvalidJSON) {
		t.Fatalf("expected one json message, got %v", driver.infoMessages)
	}
}

func TestRender_OutputFormats(t *testing.T) {
	script := func() *stubDriver {
		return &stubDriver{
			inputs:    []string{"helper", "END"},
			selectIdx: []int{0},
			confirm:   []bool{true},
			editors:   []string{""},
			multiIdx:  [][]int{{1}},
		}
	}

	r, err := New(WithPromptDriver(script()), WithOutputFormat(OutputFormatFormURLEncoded))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), agentForm(t, nil), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "optional_params.0.stop=END") {
		t.Fatalf("expected indexed optional entry, got %s", out)
	}
	if r.ContentType() != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}

	r, err = New(WithPromptDriver(script()), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err = r.Render(context.Background(), agentForm(t, nil), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "instructions=\nmodel=gpt-4o\nname=helper\noptional_params[0].stop=END\nstream=true\n"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("pretty output mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_SkipOptional(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"helper"},
		selectIdx: []int{0},
		confirm:   []bool{false},
		editors:   []string{""},
	}
	r, err := New(WithPromptDriver(driver), WithSkipOptional())
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(context.Background(), agentForm(t, nil), render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(driver.multiPrompts) != 0 {
		t.Fatalf("optional selection should be skipped")
	}
}

func TestRender_PropagatesDriverErrors(t *testing.T) {
	r, err := New(WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(context.Background(), agentForm(t, nil), render.RenderOptions{}); err == nil {
		t.Fatalf("expected driver error")
	}
}

func TestRender_SubmitTransformer(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"helper"},
		selectIdx: []int{0},
		confirm:   []bool{false},
		editors:   []string{""},
	}
	r, err := New(
		WithPromptDriver(driver),
		WithSkipOptional(),
		WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
			return map[string]any{"agent": values["name"]}, nil
		}),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), agentForm(t, nil), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"agent": "helper"}, decode(t, out)); diff != "" {
		t.Fatalf("transformed output mismatch (-want +got):\n%s", diff)
	}
}
