// Package formengine binds agent attribute descriptors to a value object and
// renders them. Required descriptors are stored flat under their name;
// toggleable descriptors live as single-key entries in the optional list
// field. The root package re-exports the pieces most callers need.
package formengine

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/orchestrator"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/renderers/vanilla"
)

// FieldDescriptor aliases model.FieldDescriptor.
type FieldDescriptor = model.FieldDescriptor

// FieldSet aliases model.FieldSet.
type FieldSet = model.FieldSet

// Form aliases engine.Form.
type Form = engine.Form

// RenderOptions describes per-request overrides that renderers can use to
// surface server-side validation errors or hidden fields.
type RenderOptions = render.RenderOptions

// NewForm binds descriptors to a value object. See engine.New.
func NewForm(fields []FieldDescriptor, options ...engine.Option) (*Form, error) {
	return engine.New(fields, options...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders a field set seeded with values using the named
// renderer (vanilla when empty).
func GenerateHTML(ctx context.Context, set FieldSet, values map[string]any, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		FieldSet: &set,
		Values:   values,
		Renderer: rendererName,
	})
}

// GenerateFromOpenAPI renders the form described by an OpenAPI component
// schema.
func GenerateFromOpenAPI(ctx context.Context, document []byte, component string, values map[string]any, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		OpenAPI:   document,
		Component: component,
		Values:    values,
		Renderer:  rendererName,
	})
}

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// StylesheetFS exposes the default vanilla stylesheet for serving over HTTP.
//
//	mux.Handle("/formengine/",
//	  http.StripPrefix("/formengine/",
//	    http.FileServerFS(formengine.StylesheetFS()),
//	  ),
//	)
func StylesheetFS() fs.FS {
	return vanilla.AssetsFS()
}
