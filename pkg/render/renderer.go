// Package render defines the renderer contract shared by every output format
// along with the per-request options, hidden fields, error mapping and
// submission helpers renderers build on.
package render

import (
	"context"

	"github.com/goliatone/go-formengine/pkg/engine"
)

// Renderer converts a bound form into a byte representation (HTML, JSON,
// terminal transcript).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form *engine.Form, options RenderOptions) ([]byte, error)
}
