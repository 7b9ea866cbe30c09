package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/jsonfmt"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/widgets"
)

// Renderer implements render.Renderer for terminal-driven sessions. It walks
// the required fields, lets the user pick the optional fields to keep, then
// prompts the active ones. Every answer is written to the form as it is
// given, so the form holds the session state when Render returns.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	styles            Styles
	skipOptional      bool
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (render.Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
		styles:       DefaultStyles(),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = newSurveyDriver()
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render runs the prompt session and serializes the resulting value object.
func (r *Renderer) Render(ctx context.Context, form *engine.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	if form == nil {
		return nil, errors.New("tui: form is nil")
	}

	if title := strings.TrimSpace(opts.Title); title != "" {
		_ = r.driver.Notify(ctx, r.styles.Title.Render(title))
	}
	for _, message := range opts.FormErrors {
		_ = r.driver.Notify(ctx, r.styles.Error.Render(message))
	}

	snapshot := r.snapshot(form, opts)
	for _, view := range snapshot.Required {
		value, err := r.promptView(ctx, view, opts)
		if err != nil {
			return nil, err
		}
		form.Required().Set(view.Name, value)
	}

	if !r.skipOptional && len(snapshot.Optional) > 0 {
		if err := r.selectOptional(ctx, form, snapshot.Optional, opts); err != nil {
			return nil, err
		}
		for _, view := range r.snapshot(form, opts).Optional {
			if !view.Active {
				continue
			}
			value, err := r.promptView(ctx, view, opts)
			if err != nil {
				return nil, err
			}
			form.Optional().Update(view.Name, value)
		}
	}

	values := form.Values()
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	return r.serialize(values)
}

func (r *Renderer) snapshot(form *engine.Form, opts render.RenderOptions) engine.Snapshot {
	snapshot := form.Snapshot()
	render.LocalizeSnapshot(&snapshot, opts)
	return snapshot
}

// selectOptional offers every optional field with the active ones
// preselected and toggles the fields whose selection changed.
func (r *Renderer) selectOptional(ctx context.Context, form *engine.Form, views []engine.FieldView, opts render.RenderOptions) error {
	options := make([]string, 0, len(views))
	var defaults []int
	for idx, view := range views {
		options = append(options, displayLabel(view))
		if view.Active {
			defaults = append(defaults, idx)
		}
	}

	selected, err := r.driver.ChooseMany(ctx, Prompt{
		Message:  render.Translate(opts, "sections.optional", "Optional fields"),
		Options:  options,
		Selected: defaults,
	})
	if err != nil {
		return err
	}

	for idx, view := range views {
		if slices.Contains(selected, idx) == view.Active {
			continue
		}
		form.Optional().Toggle(view.Name)
	}
	return nil
}

// promptView asks for one value until it passes field validation.
func (r *Renderer) promptView(ctx context.Context, view engine.FieldView, opts render.RenderOptions) (any, error) {
	for _, message := range opts.Errors[view.Path] {
		_ = r.driver.Notify(ctx, r.styles.Error.Render(fmt.Sprintf("%s: %s", displayLabel(view), message)))
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		value, err := r.promptControl(ctx, view)
		if err != nil {
			var invalid invalidInput
			if errors.As(err, &invalid) {
				r.reportInvalid(ctx, view, string(invalid))
				continue
			}
			return nil, err
		}

		candidate := view
		candidate.Value = value
		if messages := engine.ValidateField(candidate); len(messages) > 0 {
			r.reportInvalid(ctx, view, strings.Join(messages, "; "))
			continue
		}
		return value, nil
	}
}

// invalidInput is returned by prompts whose answer could not be parsed.
type invalidInput string

func (e invalidInput) Error() string {
	return string(e)
}

func (r *Renderer) reportInvalid(ctx context.Context, view engine.FieldView, message string) {
	_ = r.driver.Notify(ctx, r.styles.Error.Render(fmt.Sprintf("Invalid %s: %s", displayLabel(view), message)))
}

func (r *Renderer) promptControl(ctx context.Context, view engine.FieldView) (any, error) {
	p := fieldPrompt(view)

	switch view.Control {
	case widgets.ControlCheckbox:
		p.Default = strconv.FormatBool(coerce.Bool(view.Value))
		return r.driver.Confirm(ctx, p)
	case widgets.ControlSelect, widgets.ControlRadioGroup:
		return r.promptChoice(ctx, p)
	case widgets.ControlMultiselect:
		return r.promptMulti(ctx, p)
	case widgets.ControlTextareaOverlay:
		p.Default = coerce.String(view.Value)
		return r.driver.Compose(ctx, p)
	case widgets.ControlJSONEditor:
		p.Default, _ = jsonfmt.Format(coerce.String(view.Value))
		return r.driver.Compose(ctx, p)
	case widgets.ControlRange:
		return r.promptNumber(ctx, p)
	default:
		if view.Type == model.FieldTypeNumber {
			return r.promptNumber(ctx, p)
		}
		p.Default = coerce.String(view.Value)
		return r.driver.Ask(ctx, p)
	}
}

func (r *Renderer) promptChoice(ctx context.Context, p Prompt) (any, error) {
	choices := p.Field.Choices
	if len(choices) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoChoices, p.Field.Name)
	}
	p.Options = choiceLabels(choices)
	if idx := choiceIndex(choices, coerce.String(p.Field.Value)); idx >= 0 {
		p.Selected = []int{idx}
	}
	idx, err := r.driver.Choose(ctx, p)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(choices) {
		return nil, invalidInput("selection out of range")
	}
	return choices[idx].Value, nil
}

func (r *Renderer) promptMulti(ctx context.Context, p Prompt) (any, error) {
	choices := p.Field.Choices
	if len(choices) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoChoices, p.Field.Name)
	}
	p.Options = choiceLabels(choices)
	for _, value := range coerce.StringSlice(p.Field.Value) {
		if idx := choiceIndex(choices, value); idx >= 0 {
			p.Selected = append(p.Selected, idx)
		}
	}
	indices, err := r.driver.ChooseMany(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(choices) {
			out = append(out, choices[idx].Value)
		}
	}
	return out, nil
}

func (r *Renderer) promptNumber(ctx context.Context, p Prompt) (any, error) {
	current, hasCurrent := coerce.Number(p.Field.Value)
	if hasCurrent {
		p.Default = strconv.FormatFloat(current, 'f', -1, 64)
	}

	input, err := r.driver.Ask(ctx, p)
	if err != nil {
		return nil, err
	}

	input = strings.TrimSpace(input)
	if input == "" {
		if hasCurrent {
			return current, nil
		}
		return nil, invalidInput("a number is required")
	}
	parsed, ok := coerce.Number(input)
	if !ok {
		return nil, invalidInput("not a number")
	}
	if bounds := p.Field.Range; bounds != nil {
		if bounds.Min != nil && parsed < *bounds.Min {
			return nil, invalidInput(fmt.Sprintf("must be at least %s", strconv.FormatFloat(*bounds.Min, 'f', -1, 64)))
		}
		if bounds.Max != nil && parsed > *bounds.Max {
			return nil, invalidInput(fmt.Sprintf("must be at most %s", strconv.FormatFloat(*bounds.Max, 'f', -1, 64)))
		}
	}
	return parsed, nil
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return jsonBytes(values)
	}
}

func displayLabel(view engine.FieldView) string {
	if view.Label != "" {
		return view.Label
	}
	return model.DefaultLabeler(view.Name)
}

func displayHelp(view engine.FieldView) string {
	return strings.TrimSpace(view.Description)
}

func choiceLabels(choices []model.Choice) []string {
	out := make([]string, 0, len(choices))
	for _, choice := range choices {
		out = append(out, choice.Label)
	}
	return out
}

func choiceIndex(choices []model.Choice, value string) int {
	for idx, choice := range choices {
		if choice.Value == value {
			return idx
		}
	}
	return -1
}

// flattenForm encodes values with dotted keys. List entries use their index
// as a path segment so optional entries keep their list position.
func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			flatten(joinKey(prefix, key), val, out)
		}
	case []any:
		for idx, val := range v {
			switch val.(type) {
			case map[string]any, []any:
				flatten(joinKey(prefix, strconv.Itoa(idx)), val, out)
			default:
				out.Add(prefix, fmt.Sprint(val))
			}
		}
	case nil:
		out.Set(prefix, "")
	default:
		out.Set(prefix, fmt.Sprint(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			writePretty(b, joinKey(prefix, key), v[key])
		}
	case []any:
		for idx, val := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%v\n", prefix, v)
		}
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func jsonBytes(values map[string]any) ([]byte, error) {
	return json.Marshal(values)
}
