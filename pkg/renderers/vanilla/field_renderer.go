package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/jsonfmt"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/render/template"
	"github.com/goliatone/go-formengine/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-formengine/pkg/widgets"
)

// fieldRenderer turns snapshot views into field markup. It remembers which
// controls were used so their assets are emitted once.
type fieldRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	policy    *bluemonday.Policy
	classes   map[ChromeClass]string
	partials  map[string]string
	options   render.RenderOptions
	listPath  string

	usedComponents map[string]struct{}
}

func (r *fieldRenderer) render(view engine.FieldView) (string, error) {
	field := r.buildField(view)

	var control bytes.Buffer
	if !view.Optional || view.Active {
		descriptor, ok := r.registry.Descriptor(view.Control)
		if !ok {
			return "", fmt.Errorf("component %q not registered for field %q", view.Control, view.Name)
		}
		err := descriptor.Renderer(&control, field, components.ComponentData{
			Template: r.templates,
			Partials: r.partials,
		})
		if err != nil {
			return "", fmt.Errorf("render component %q for field %q: %w", view.Control, view.Name, err)
		}
		r.usedComponents[descriptor.Name] = struct{}{}
	}

	return r.wrap(field, control.String()), nil
}

func (r *fieldRenderer) buildField(view engine.FieldView) components.Field {
	path := view.Path
	if path == "" {
		path = r.listPath + ".inactive." + view.Name
	}
	label := view.Label
	if strings.TrimSpace(label) == "" {
		label = model.DefaultLabeler(view.Name)
	}

	field := components.Field{
		ID:          controlID(path),
		Name:        view.Path,
		FieldName:   view.Name,
		Label:       label,
		Description: sanitizeDescription(r.policy, view.Description),
		Control:     view.Control,
		InputType:   view.InputType,
		Required:    view.Required,
		Optional:    view.Optional,
		Active:      view.Active,
		Errors:      r.options.Errors[view.Path],
	}
	if view.Path == "" {
		field.Errors = nil
	}

	switch view.Control {
	case widgets.ControlCheckbox:
		field.Checked = coerce.Bool(view.Value)
	case widgets.ControlMultiselect:
		selected := coerce.StringSlice(view.Value)
		field.Choices = buildChoices(view.Choices, func(value string) bool {
			return slices.Contains(selected, value)
		})
	case widgets.ControlSelect, widgets.ControlRadioGroup:
		current := coerce.String(view.Value)
		field.Value = current
		field.Choices = buildChoices(view.Choices, func(value string) bool {
			return value == current
		})
	case widgets.ControlJSONEditor:
		formatted, ok := jsonfmt.Format(coerce.String(view.Value))
		field.Value = formatted
		field.JSONValid = ok
	case widgets.ControlTextareaOverlay:
		field.Value = coerce.String(view.Value)
		field.Summary = summarize(field.Value)
	default:
		field.Value = coerce.String(view.Value)
	}

	if view.Range != nil {
		field.Min = formatBound(view.Range.Min)
		field.Max = formatBound(view.Range.Max)
		field.Step = formatBound(view.Range.Step)
	}
	return field
}

// wrap adds label, description, errors and the optional toggle around the
// control markup.
func (r *fieldRenderer) wrap(field components.Field, control string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 384)

	builder.WriteString(`    <div class="`)
	builder.WriteString(html.EscapeString(r.classes[ClassField]))
	builder.WriteString(`" data-field="`)
	builder.WriteString(html.EscapeString(field.FieldName))
	builder.WriteString(`" data-control="`)
	builder.WriteString(html.EscapeString(field.Control))
	builder.WriteString(`"`)
	if field.Optional {
		builder.WriteString(` data-optional data-active="`)
		builder.WriteString(strconv.FormatBool(field.Active))
		builder.WriteString(`"`)
	}
	builder.WriteString(">\n")

	builder.WriteString(`      <label id="`)
	builder.WriteString(html.EscapeString(field.ID))
	builder.WriteString(`-label"`)
	if control != "" && labelSupportsFor(field.Control) {
		builder.WriteString(` for="`)
		builder.WriteString(html.EscapeString(field.ID))
		builder.WriteString(`"`)
	}
	builder.WriteString(">")
	builder.WriteString(html.EscapeString(field.Label))
	if field.Required {
		builder.WriteString(` *`)
	}
	builder.WriteString("</label>\n")

	// Control markup is written verbatim; textarea content is whitespace
	// sensitive.
	if control = strings.TrimRight(control, "\n"); control != "" {
		builder.WriteString(control)
		builder.WriteByte('\n')
	}

	if field.Description != "" {
		builder.WriteString("      <small>")
		builder.WriteString(field.Description)
		builder.WriteString("</small>\n")
	}

	if len(field.Errors) > 0 {
		builder.WriteString(`      <ul class="`)
		builder.WriteString(html.EscapeString(r.classes[ClassFieldErrors]))
		builder.WriteString(`" role="alert">`)
		builder.WriteByte('\n')
		for _, message := range field.Errors {
			builder.WriteString("        <li>")
			builder.WriteString(html.EscapeString(message))
			builder.WriteString("</li>\n")
		}
		builder.WriteString("      </ul>\n")
	}

	if field.Optional {
		label := render.Translate(r.options, "actions.add", "Add")
		if field.Active {
			label = render.Translate(r.options, "actions.remove", "Remove")
		}
		builder.WriteString(`      <button type="submit" class="`)
		builder.WriteString(html.EscapeString(r.classes[ClassToggle]))
		builder.WriteString(`" name="`)
		builder.WriteString(render.ToggleField)
		builder.WriteString(`" value="`)
		builder.WriteString(html.EscapeString(field.FieldName))
		builder.WriteString(`" aria-pressed="`)
		builder.WriteString(strconv.FormatBool(field.Active))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(label))
		builder.WriteString("</button>\n")
	}

	builder.WriteString("    </div>\n")
	return builder.String()
}

func (r *fieldRenderer) assets() (stylesheets []string, scripts []components.Script) {
	if len(r.usedComponents) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Assets(names)
}

func buildChoices(choices []model.Choice, selected func(string) bool) []components.Choice {
	out := make([]components.Choice, 0, len(choices))
	for _, choice := range choices {
		out = append(out, components.Choice{
			Value:    choice.Value,
			Label:    choice.Label,
			Selected: selected(choice.Value),
		})
	}
	return out
}

func formatBound(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

// labelSupportsFor reports whether the control has a single focusable element
// matching the field id.
func labelSupportsFor(control string) bool {
	switch control {
	case widgets.ControlRadioGroup:
		return false
	default:
		return true
	}
}
