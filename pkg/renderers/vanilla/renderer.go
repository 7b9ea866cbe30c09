package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/render"
	rendertemplate "github.com/goliatone/go-formengine/pkg/render/template"
	gotemplate "github.com/goliatone/go-formengine/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formengine/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-formengine/pkg/state"
)

const (
	rendererName    = "vanilla"
	formTemplate    = "templates/form.tmpl"
	defaultSubmit   = "Save"
	defaultOptional = "Optional fields"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	stylesheets      []string
	inlineStyles     bool
	policy           *bluemonday.Policy
	classes          map[ChromeClass]string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the control registry. Clone the default
// registry to override single controls.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithStylesheet links an external stylesheet ahead of component assets.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(href); trimmed != "" {
			cfg.stylesheets = append(cfg.stylesheets, trimmed)
		}
	}
}

// WithDefaultStyles inlines the embedded stylesheet into the form.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// WithDescriptionPolicy overrides the bluemonday policy applied to field
// descriptions.
func WithDescriptionPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithChromeClasses overrides chrome CSS classes. Empty values are ignored.
func WithChromeClasses(classes map[ChromeClass]string) Option {
	return func(cfg *config) {
		for key, value := range classes {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				cfg.classes[key] = trimmed
			}
		}
	}
}

// Renderer draws a form as a server-rendered HTML document fragment.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	registry     *components.Registry
	stylesheets  []string
	inlineStyles string
	policy       *bluemonday.Policy
	classes      map[ChromeClass]string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		classes:    defaultChromeClasses(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}
	if cfg.policy == nil {
		cfg.policy = descriptionSanitizer()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	out := &Renderer{
		templates:   renderer,
		registry:    cfg.registry,
		stylesheets: cfg.stylesheets,
		policy:      cfg.policy,
		classes:     cfg.classes,
	}
	if cfg.inlineStyles {
		out.inlineStyles = defaultStylesheet()
	}
	return out, nil
}

func (r *Renderer) Name() string {
	return rendererName
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, form *engine.Form, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if form == nil {
		return nil, fmt.Errorf("vanilla renderer: form is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot := form.Snapshot()
	render.LocalizeSnapshot(&snapshot, options)

	themeData, partials := buildThemeData(options)
	fields := &fieldRenderer{
		templates:      r.templates,
		registry:       r.registry,
		policy:         r.policy,
		classes:        r.classes,
		partials:       partials,
		options:        options,
		listPath:       state.JoinPath(snapshot.Prefix, snapshot.ListField),
		usedComponents: make(map[string]struct{}),
	}

	required, err := renderViews(fields, snapshot.Required)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}
	optional, err := renderViews(fields, snapshot.Optional)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}

	componentStyles, scripts := fields.assets()
	stylesheets := append(append([]string(nil), r.stylesheets...), componentStyles...)

	submitLabel := strings.TrimSpace(options.SubmitLabel)
	if submitLabel == "" {
		submitLabel = render.Translate(options, "actions.submit", defaultSubmit)
	}

	data := map[string]any{
		"classes":        chromeClassData(r.classes),
		"method":         options.MethodOrDefault(),
		"action":         options.Action,
		"prefix":         snapshot.Prefix,
		"theme":          themeData,
		"stylesheets":    stylesheets,
		"inline_styles":  r.inlineStyles,
		"title":          options.Title,
		"hidden_fields":  hiddenFieldData(options.HiddenFields),
		"form_errors":    options.FormErrors,
		"required":       required,
		"optional":       optional,
		"optional_title": render.Translate(options, "sections.optional", defaultOptional),
		"submit_label":   submitLabel,
		"scripts":        scriptData(scripts),
	}

	result, err := r.templates.RenderTemplate(formTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func renderViews(fields *fieldRenderer, views []engine.FieldView) ([]string, error) {
	out := make([]string, 0, len(views))
	for _, view := range views {
		markup, err := fields.render(view)
		if err != nil {
			return nil, err
		}
		out = append(out, markup)
	}
	return out, nil
}

func buildThemeData(options render.RenderOptions) (map[string]any, map[string]string) {
	data := map[string]any{}
	if options.Theme == nil {
		return data, nil
	}
	cfg := options.Theme
	data["name"] = cfg.Theme
	data["variant"] = cfg.Variant
	data["css_vars_style"] = cssVarsStyle(cfg.CSSVars)
	return data, cfg.Partials
}

func chromeClassData(classes map[ChromeClass]string) map[string]any {
	return map[string]any{
		"form":     classes[ClassForm],
		"header":   classes[ClassHeader],
		"section":  classes[ClassSection],
		"optional": classes[ClassOptional],
		"actions":  classes[ClassActions],
		"errors":   classes[ClassErrors],
	}
}

func hiddenFieldData(fields map[string]string) []map[string]any {
	sorted := render.SortedHiddenFields(fields)
	out := make([]map[string]any, 0, len(sorted))
	for _, field := range sorted {
		out = append(out, map[string]any{
			"name":  field.Name,
			"value": field.Value,
		})
	}
	return out
}

func scriptData(scripts []components.Script) []map[string]any {
	out := make([]map[string]any, 0, len(scripts))
	for _, script := range scripts {
		out = append(out, map[string]any{
			"src":    script.Src,
			"inline": script.Inline,
			"defer":  script.Defer,
			"module": script.Module,
		})
	}
	return out
}
