package components

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/goliatone/go-formengine/pkg/widgets"
)

type stubTemplates struct {
	calls []string
}

func (s *stubTemplates) Render(name string, data any, out ...io.Writer) (string, error) {
	return s.RenderTemplate(name, data, out...)
}

func (s *stubTemplates) RenderTemplate(name string, data any, _ ...io.Writer) (string, error) {
	s.calls = append(s.calls, name)
	field := data.(map[string]any)["field"].(Field)
	return "<" + field.Name + ">", nil
}

func (s *stubTemplates) RenderString(string, any, ...io.Writer) (string, error) { return "", nil }

func (s *stubTemplates) RegisterFilter(string, func(any, any) (any, error)) error { return nil }

func (s *stubTemplates) GlobalContext(any) error { return nil }

func TestRegistryDescriptorClone(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, field Field, data ComponentData) error { return nil }

	if err := reg.Register("test", Descriptor{Renderer: renderer, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, ok := reg.Descriptor("TEST")
	if !ok {
		t.Fatalf("descriptor not found")
	}

	desc.Stylesheets = append(desc.Stylesheets, "/mutated.css")

	original, _ := reg.Descriptor("test")
	if len(original.Stylesheets) != 1 || original.Stylesheets[0] != "/a.css" {
		t.Fatalf("registry descriptor mutated: %#v", original.Stylesheets)
	}
}

func TestRegistryAssetsDeduplicates(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, field Field, data ComponentData) error { return nil }

	reg.MustRegister("input", Descriptor{
		Renderer:    renderer,
		Stylesheets: []string{"/shared.css", "/input.css"},
		Scripts:     []Script{{Src: "/shared.js"}},
	})
	reg.MustRegister("select", Descriptor{
		Renderer:    renderer,
		Stylesheets: []string{"/shared.css", "/select.css"},
		Scripts:     []Script{{Src: "/shared.js"}, {Src: "/select.js"}},
	})

	styles, scripts := reg.Assets([]string{"input", "select", "missing"})
	if strings.Join(styles, ",") != "/shared.css,/input.css,/select.css" {
		t.Fatalf("unexpected stylesheets: %v", styles)
	}
	if len(scripts) != 2 {
		t.Fatalf("expected 2 unique scripts, got %d: %v", len(scripts), scripts)
	}
}

func TestDefaultRegistryCoversWidgetControls(t *testing.T) {
	reg := NewDefaultRegistry()
	controls := []string{
		widgets.ControlInput,
		widgets.ControlTextareaOverlay,
		widgets.ControlSelect,
		widgets.ControlMultiselect,
		widgets.ControlCheckbox,
		widgets.ControlRadioGroup,
		widgets.ControlRange,
		widgets.ControlJSONEditor,
	}
	for _, control := range controls {
		if _, ok := reg.Descriptor(control); !ok {
			t.Fatalf("control %q not registered", control)
		}
	}
	if err := reg.Register("", Descriptor{}); err == nil {
		t.Fatalf("expected empty name to fail")
	}
}

func TestTemplateComponentRenderer_UsesThemePartial(t *testing.T) {
	reg := NewDefaultRegistry()
	desc, _ := reg.Descriptor(widgets.ControlSelect)
	templates := &stubTemplates{}

	var buf bytes.Buffer
	err := desc.Renderer(&buf, Field{Name: "model"}, ComponentData{
		Template: templates,
		Partials: map[string]string{PartialSelect: "themes/acme/select.tmpl"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "<model>" {
		t.Fatalf("unexpected markup %q", buf.String())
	}
	if len(templates.calls) != 1 || templates.calls[0] != "themes/acme/select.tmpl" {
		t.Fatalf("expected partial override, got %v", templates.calls)
	}

	buf.Reset()
	if err := desc.Renderer(&buf, Field{Name: "model"}, ComponentData{Template: templates}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if templates.calls[1] != templatePrefix+"select.tmpl" {
		t.Fatalf("expected default template, got %v", templates.calls)
	}
}
