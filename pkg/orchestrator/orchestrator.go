package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/openapi"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/renderers/headless"
	"github.com/goliatone/go-formengine/pkg/renderers/vanilla"
	"github.com/goliatone/go-formengine/pkg/widgets"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that can mutate field sets after
// loading but before decorators run.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithDecorators registers decorators that run against the loaded field set
// before the engine binds it.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		if len(decorators) == 0 {
			return
		}
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithWidgetRegistry replaces the per-type handler table passed to the
// engine.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(o *Orchestrator) {
		o.widgets = registry
	}
}

// WithThemeSelector resolves theme and variant names into renderer
// configuration ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeFallbacks overrides the partials used when a theme does not
// supply its own template for a control.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = cloneStrings(fallbacks)
	}
}

// WithLogger sets the logger shared with the engine.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the full pipeline from descriptors to rendered
// output. It applies sensible defaults (vanilla and headless renderers,
// embedded templates, label decoration) while remaining open to dependency
// injection for advanced callers.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	decorators      []model.Decorator
	widgets         *widgets.Registry
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	logger          *zap.Logger
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs of one generation run. Exactly one of
// FieldSet, OpenAPI or Source is used, checked in that order.
type Request struct {
	// FieldSet supplies descriptors directly.
	FieldSet *model.FieldSet

	// OpenAPI holds an OpenAPI document; Component names the schema under
	// components.schemas that describes the form.
	OpenAPI   []byte
	Component string

	// Source holds a JSON or YAML field set document. SourceName is used in
	// error messages.
	Source     []byte
	SourceName string

	// OptionalListField overrides the list key declared by the field set.
	OptionalListField string

	// Values is the prior value object, typically loaded from storage.
	Values map[string]any

	// Prefix nests the value object under a dotted path.
	Prefix string

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string

	// RenderOptions carries per-request instructions such as hidden fields or
	// server-side errors that renderers can surface.
	RenderOptions render.RenderOptions

	// ThemeName and ThemeVariant are passed to the theme selector.
	ThemeName    string
	ThemeVariant string
}

// Generate executes the load → decorate → bind → render sequence and returns
// the rendered bytes (HTML for the default vanilla renderer).
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	form, _, err := o.Bind(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	options := req.RenderOptions
	if options.Theme == nil && o.themeSelector != nil {
		cfg, err := o.resolveTheme(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, err
		}
		options.Theme = cfg
	}

	output, err := renderer.Render(ctx, form, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}

	o.logger.Info("form rendered",
		zap.String("renderer", renderer.Name()),
		zap.Int("required", form.Required().Len()),
		zap.Int("optional", form.Optional().Len()),
		zap.Int("skipped", len(form.Skipped())),
	)
	return output, nil
}

// Bind resolves and decorates the request's field set and binds it to a new
// form seeded with the request values. Callers that mutate the form
// themselves (toggle, validate) use Bind instead of Generate.
func (o *Orchestrator) Bind(ctx context.Context, req Request) (*engine.Form, model.FieldSet, error) {
	if ctx == nil {
		return nil, model.FieldSet{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, model.FieldSet{}, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, model.FieldSet{}, err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
		if err := o.initialiseErr; err != nil {
			return nil, model.FieldSet{}, err
		}
	}

	set, err := o.resolveFieldSet(ctx, req)
	if err != nil {
		return nil, model.FieldSet{}, err
	}
	if err := o.applyTransformer(ctx, &set); err != nil {
		return nil, model.FieldSet{}, err
	}
	if err := o.applyDecorators(&set); err != nil {
		return nil, model.FieldSet{}, err
	}

	listField := set.OptionalListField
	if req.OptionalListField != "" {
		listField = req.OptionalListField
	}

	form, err := engine.New(set.Fields,
		engine.WithOptionalListField(listField),
		engine.WithPrefix(req.Prefix),
		engine.WithValues(req.Values),
		engine.WithRegistry(o.widgets),
		engine.WithLogger(o.logger),
	)
	if err != nil {
		return nil, model.FieldSet{}, fmt.Errorf("orchestrator: bind form: %w", err)
	}
	return form, set, nil
}

func (o *Orchestrator) resolveFieldSet(ctx context.Context, req Request) (model.FieldSet, error) {
	switch {
	case req.FieldSet != nil:
		set := *req.FieldSet
		set.Fields = append([]model.FieldDescriptor(nil), req.FieldSet.Fields...)
		return set, nil
	case len(req.OpenAPI) > 0:
		set, err := openapi.BuildFieldSet(ctx, req.OpenAPI, req.Component)
		if err != nil {
			return model.FieldSet{}, fmt.Errorf("orchestrator: build field set: %w", err)
		}
		return set, nil
	case len(req.Source) > 0:
		set, err := model.LoadFieldSet(req.Source, req.SourceName)
		if err != nil {
			return model.FieldSet{}, fmt.Errorf("orchestrator: load field set: %w", err)
		}
		return set, nil
	default:
		return model.FieldSet{}, errors.New("orchestrator: field set, openapi document or source is required")
	}
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	if name != "" {
		renderer, err := o.registry.Get(target)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
		return renderer, nil
	}

	if o.registry.Has(target) {
		return o.registry.Get(target)
	}
	renderer, err := o.registry.Resolve("")
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDecorators(set *model.FieldSet) error {
	for _, decorator := range o.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(set); err != nil {
			return fmt.Errorf("orchestrator: decorate field set: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, set *model.FieldSet) error {
	if o.transformer == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, set); err != nil {
		return fmt.Errorf("orchestrator: transform field set: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
		o.registry.MustRegister(headless.New())
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = defaultThemeFallbacks()
	}
	o.decorators = append(o.decorators, model.LabelDecorator(nil))

	o.defaultsApplied = true
}
