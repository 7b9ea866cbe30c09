// Package headless renders a form as JSON: both bound-field collections in
// render order plus the merged value object. Client applications draw their
// own controls from it.
package headless

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/render"
)

// Document is the JSON payload written by the renderer.
type Document struct {
	engine.Snapshot
	Errors     map[string][]string `json:"errors,omitempty"`
	FormErrors []string            `json:"formErrors,omitempty"`
	Hidden     map[string]string   `json:"hidden,omitempty"`
}

type Option func(*Renderer)

// WithIndent pretty prints the output using the given indent.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *Renderer) Name() string {
	return "headless"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

func (r *Renderer) Render(ctx context.Context, form *engine.Form, options render.RenderOptions) ([]byte, error) {
	if form == nil {
		return nil, fmt.Errorf("headless renderer: form is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot := form.Snapshot()
	render.LocalizeSnapshot(&snapshot, options)

	doc := Document{
		Snapshot:   snapshot,
		Errors:     options.Errors,
		FormErrors: options.FormErrors,
		Hidden:     options.HiddenFields,
	}

	var (
		data []byte
		err  error
	)
	if r.indent != "" {
		data, err = json.MarshalIndent(doc, "", r.indent)
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("headless renderer: encode: %w", err)
	}
	return data, nil
}
