package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-formengine/pkg/widgets"
)

const templatePrefix = "templates/components/"

// Theme partial keys that may replace a built-in control template.
const (
	PartialInput       = "forms.input"
	PartialTextarea    = "forms.textarea-overlay"
	PartialSelect      = "forms.select"
	PartialMultiselect = "forms.multiselect"
	PartialCheckbox    = "forms.checkbox"
	PartialRadioGroup  = "forms.radio-group"
	PartialRange       = "forms.range"
	PartialJSONEditor  = "forms.json-editor"
)

// NewDefaultRegistry returns a registry covering every built-in widget
// control.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(widgets.ControlInput, Descriptor{
		Renderer: templateComponentRenderer(PartialInput, templatePrefix+"input.tmpl"),
	})
	registry.MustRegister(widgets.ControlTextareaOverlay, Descriptor{
		Renderer: templateComponentRenderer(PartialTextarea, templatePrefix+"textarea_overlay.tmpl"),
		Scripts:  []Script{{Inline: overlayScript, Defer: true}},
	})
	registry.MustRegister(widgets.ControlSelect, Descriptor{
		Renderer: templateComponentRenderer(PartialSelect, templatePrefix+"select.tmpl"),
	})
	registry.MustRegister(widgets.ControlMultiselect, Descriptor{
		Renderer: templateComponentRenderer(PartialMultiselect, templatePrefix+"multiselect.tmpl"),
	})
	registry.MustRegister(widgets.ControlCheckbox, Descriptor{
		Renderer: templateComponentRenderer(PartialCheckbox, templatePrefix+"checkbox.tmpl"),
	})
	registry.MustRegister(widgets.ControlRadioGroup, Descriptor{
		Renderer: templateComponentRenderer(PartialRadioGroup, templatePrefix+"radio_group.tmpl"),
	})
	registry.MustRegister(widgets.ControlRange, Descriptor{
		Renderer: templateComponentRenderer(PartialRange, templatePrefix+"range.tmpl"),
		Scripts:  []Script{{Inline: rangeScript, Defer: true}},
	})
	registry.MustRegister(widgets.ControlJSONEditor, Descriptor{
		Renderer: templateComponentRenderer(PartialJSONEditor, templatePrefix+"json_editor.tmpl"),
		Scripts:  []Script{{Inline: jsonEditorScript, Defer: true}},
	})

	return registry
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolved := templateName
		if data.Partials != nil {
			if candidate := strings.TrimSpace(data.Partials[partialKey]); candidate != "" {
				resolved = candidate
			}
		}

		rendered, err := data.Template.RenderTemplate(resolved, map[string]any{"field": field})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolved, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

// overlayScript opens and closes the full-size textarea editor. Saving copies
// the editor text into the summary; dismissing restores the previous text.
const overlayScript = `document.querySelectorAll("[data-formengine-overlay]").forEach(function (root) {
  var dialog = root.querySelector("dialog");
  var editor = root.querySelector("textarea");
  var summary = root.querySelector("[data-overlay-summary]");
  var previous = editor.value;
  root.querySelector("[data-overlay-open]").addEventListener("click", function () {
    previous = editor.value;
    dialog.showModal();
  });
  root.querySelector("[data-overlay-save]").addEventListener("click", function () {
    summary.textContent = editor.value.split("\n")[0] || summary.dataset.empty;
    dialog.close();
  });
  root.querySelector("[data-overlay-cancel]").addEventListener("click", function () {
    editor.value = previous;
    dialog.close();
  });
});`

const rangeScript = `document.querySelectorAll("[data-formengine-range]").forEach(function (input) {
  var output = document.getElementById(input.id + "-output");
  input.addEventListener("input", function () { if (output) { output.value = input.value; } });
});`

// jsonEditorScript flags unparsable JSON and pretty prints it on blur. It
// never blocks submission.
const jsonEditorScript = `document.querySelectorAll("[data-formengine-json]").forEach(function (area) {
  area.addEventListener("blur", function () {
    try {
      area.value = JSON.stringify(JSON.parse(area.value || "{}"), null, 2);
      area.removeAttribute("aria-invalid");
    } catch (err) {
      area.setAttribute("aria-invalid", "true");
    }
  });
});`
