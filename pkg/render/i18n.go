package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formengine/pkg/engine"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when a key is
// looked up without a Translator configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate implements Translator.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides what to show when a key cannot be
// translated. args carries {"default": fallback} as its first element.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	if len(args) > 0 {
		if params, ok := args[0].(map[string]any); ok {
			if fallback, ok := params["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// LabelKey is the translation key of a field label.
func LabelKey(name string) string {
	return "fields." + name + ".label"
}

// DescriptionKey is the translation key of a field description.
func DescriptionKey(name string) string {
	return "fields." + name + ".description"
}

// LocalizeSnapshot translates field labels and descriptions in place. Fields
// are untouched when no Translator is configured.
func LocalizeSnapshot(snapshot *engine.Snapshot, opts RenderOptions) {
	if snapshot == nil || opts.Translator == nil {
		return
	}
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	localize := func(views []engine.FieldView) {
		for i := range views {
			view := &views[i]
			view.Label = translate(opts.Locale, LabelKey(view.Name), view.Label, opts.Translator, onMissing)
			if view.Description != "" {
				view.Description = translate(opts.Locale, DescriptionKey(view.Name), view.Description, opts.Translator, onMissing)
			}
		}
	}
	localize(snapshot.Required)
	localize(snapshot.Optional)
}

// Translate resolves a single key with the options' translator, returning
// fallback when the key is unknown.
func Translate(opts RenderOptions, key, fallback string) string {
	if opts.Translator == nil {
		return fallback
	}
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return translate(opts.Locale, key, fallback, opts.Translator, onMissing)
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	if t == nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
	}
	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
}
