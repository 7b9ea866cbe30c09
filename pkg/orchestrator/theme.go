package orchestrator

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formengine/pkg/renderers/vanilla/components"
)

// defaultThemeFallbacks maps partial keys to the built-in vanilla templates.
func defaultThemeFallbacks() map[string]string {
	return map[string]string{
		components.PartialInput:       "templates/components/input.tmpl",
		components.PartialTextarea:    "templates/components/textarea_overlay.tmpl",
		components.PartialSelect:      "templates/components/select.tmpl",
		components.PartialMultiselect: "templates/components/multiselect.tmpl",
		components.PartialCheckbox:    "templates/components/checkbox.tmpl",
		components.PartialRadioGroup:  "templates/components/radio_group.tmpl",
		components.PartialRange:       "templates/components/range.tmpl",
		components.PartialJSONEditor:  "templates/components/json_editor.tmpl",
	}
}

func (o *Orchestrator) resolveTheme(name, variant string) (*theme.RendererConfig, error) {
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	if selection == nil {
		return nil, errors.New("orchestrator: theme selector returned no selection")
	}
	return rendererConfig(selection, o.themeFallbacks), nil
}

// rendererConfig flattens a selection into renderer configuration. Variant
// templates, tokens and assets override the base manifest; tokens double as
// CSS custom properties.
func rendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	partials := cloneStrings(fallbacks)
	tokens := map[string]string{}
	files := map[string]string{}
	prefix := ""

	if manifest := selection.Manifest; manifest != nil {
		maps.Copy(partials, manifest.Templates)
		maps.Copy(tokens, manifest.Tokens)
		maps.Copy(files, manifest.Assets.Files)
		prefix = manifest.Assets.Prefix

		if v, ok := manifest.Variants[selection.Variant]; ok {
			maps.Copy(partials, v.Templates)
			maps.Copy(tokens, v.Tokens)
			maps.Copy(files, v.Assets.Files)
			if v.Assets.Prefix != "" {
				prefix = v.Assets.Prefix
			}
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetResolver(prefix, files),
	}
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	return func(key string) string {
		file := strings.TrimSpace(files[key])
		if file == "" {
			return ""
		}
		if strings.HasPrefix(file, "/") || strings.Contains(file, "://") || prefix == "" {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
	}
}

func cloneStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	maps.Copy(out, in)
	return out
}
