package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/render"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, *engine.Form, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	registry := render.NewRegistry()
	if _, err := registry.Resolve(""); !errors.Is(err, render.ErrNoRenderers) {
		t.Fatalf("expected ErrNoRenderers, got %v", err)
	}

	registry.MustRegister(namedRenderer("vanilla"))
	registry.MustRegister(namedRenderer("headless"))
	if err := registry.Register(namedRenderer("vanilla")); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}

	got, err := registry.Resolve("")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Name() != "vanilla" {
		t.Fatalf("expected first registered renderer, got %q", got.Name())
	}
	if got, _ := registry.Resolve("headless"); got == nil || got.Name() != "headless" {
		t.Fatalf("expected named renderer")
	}
	if _, err := registry.Resolve("tui"); !errors.Is(err, render.ErrUnknownRenderer) {
		t.Fatalf("expected ErrUnknownRenderer, got %v", err)
	}
	if diff := cmp.Diff([]string{"headless", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("vanilla") || registry.Has("tui") {
		t.Fatalf("unexpected Has results")
	}
}

func TestRegistry_RejectsUnnamedRenderers(t *testing.T) {
	registry := render.NewRegistry()
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil renderer to fail")
	}
	if err := registry.Register(namedRenderer("")); err == nil {
		t.Fatalf("expected empty name to fail")
	}
	if _, err := registry.Resolve(""); !errors.Is(err, render.ErrNoRenderers) {
		t.Fatalf("rejected renderers must not become the fallback")
	}
}
