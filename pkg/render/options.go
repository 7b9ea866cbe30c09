package render

import (
	"strings"

	theme "github.com/goliatone/go-theme"
)

// RenderOptions carry per-request data. They never change the bound form;
// renderers read values from the form itself.
type RenderOptions struct {
	// Action and Method describe where an HTML form posts. Method defaults to
	// POST.
	Action string
	Method string
	// Title is shown above the form when set.
	Title string
	// SubmitLabel overrides the submit button text.
	SubmitLabel string
	// Errors holds field-level feedback keyed by value path, typically the
	// Fields of a MapErrorPayload result or the output of engine.Validate.
	Errors map[string][]string
	// FormErrors are shown above the fields.
	FormErrors []string
	// HiddenFields are emitted as hidden inputs (CSRF tokens, versions).
	HiddenFields map[string]string
	// Theme is the resolved go-theme configuration, when a selector was used.
	Theme *theme.RendererConfig
	// Locale, Translator and OnMissing drive label translation.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}

// MethodOrDefault returns the upper-cased method, POST when unset.
func (o RenderOptions) MethodOrDefault() string {
	if strings.TrimSpace(o.Method) == "" {
		return "POST"
	}
	return strings.ToUpper(strings.TrimSpace(o.Method))
}
