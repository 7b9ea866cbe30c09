// Package gotemplate implements template.TemplateRenderer on top of pongo2.
// Templates use Django syntax and may be loaded from disk, an fs.FS, or both.
package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formengine/pkg/jsonfmt"
	"github.com/goliatone/go-formengine/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	dir     string
	files   fs.FS
	ext     string
	globals map[string]any
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.dir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS. It is searched before WithBaseDir.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.files = files
	}
}

// WithExtension overrides the ".tpl" template extension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		if ext = strings.TrimSpace(ext); ext != "" {
			cfg.ext = "." + strings.TrimPrefix(ext, ".")
		}
	}
}

// WithGlobals seeds values every template sees. Functions become callable
// globals and pongo2.FilterFunction values are registered as filters.
func WithGlobals(globals map[string]any) Option {
	return func(cfg *config) {
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(globals))
		}
		for key, value := range globals {
			if key = strings.TrimSpace(key); key != "" {
				cfg.globals[key] = value
			}
		}
	}
}

// Engine is a pongo2 template set with a cache of compiled templates.
type Engine struct {
	mu       sync.RWMutex
	set      *pongo2.TemplateSet
	compiled map[string]*pongo2.Template
	ext      string
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine. At least one template source is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{ext: ".tpl"}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.dir == "" && cfg.files == nil {
		return nil, errors.New("gotemplate: a template directory or fs.FS is required")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.files))
	}
	if cfg.dir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.dir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: template dir: %w", err)
		}
		loaders = append(loaders, loader)
	}

	registerFieldFilters()
	e := &Engine{
		set:      pongo2.NewSet("formengine", loaders...),
		compiled: make(map[string]*pongo2.Template),
		ext:      cfg.ext,
	}

	data := make(map[string]any, len(cfg.globals))
	for name, value := range cfg.globals {
		if filter, ok := value.(pongo2.FilterFunction); ok {
			if !pongo2.FilterExists(name) {
				if err := pongo2.RegisterFilter(name, filter); err != nil {
					return nil, fmt.Errorf("gotemplate: filter %q: %w", name, err)
				}
			}
			continue
		}
		data[name] = value
	}
	if err := e.GlobalContext(data); err != nil {
		return nil, err
	}
	return e, nil
}

// Render treats name as inline template content when it contains template
// tags and as a template name otherwise.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if strings.Contains(name, "{{") || strings.Contains(name, "{%") {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate executes a named template, appending the extension when
// name lacks it.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if !strings.HasSuffix(name, e.ext) {
		name += e.ext
	}
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, data, out)
}

// RenderString compiles and executes inline template content.
func (e *Engine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse inline template: %w", err)
	}
	return e.execute(tmpl, data, out)
}

// RegisterFilter registers a process-wide pongo2 filter. Taken names fail.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// GlobalContext merges data into the values every template sees.
func (e *Engine) GlobalContext(data any) error {
	ctx, err := toContext(data)
	if err != nil {
		return fmt.Errorf("gotemplate: global data: %w", err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = pongo2.Context{}
	}
	e.set.Globals.Update(ctx)
	return nil
}

func (e *Engine) execute(tmpl *pongo2.Template, data any, out []io.Writer) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: template data: %w", err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute: %w", err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (e *Engine) lookup(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.compiled[name]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.compiled[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load %q: %w", name, err)
	}
	e.compiled[name] = tmpl
	return tmpl, nil
}

// toContext turns template data into a pongo2 context. Structs are read
// through their JSON encoding so templates address fields by JSON name.
func toContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	plain, err := normalise(data)
	if err != nil {
		return nil, err
	}
	root, ok := plain.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%T is not an object", data)
	}
	return pongo2.Context(root), nil
}

func normalise(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, float64, int, int64:
		return v, nil
	case pongo2.Context:
		return normalise(map[string]any(v))
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			converted, err := normalise(item)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			converted, err := normalise(item)
			if err != nil {
				return nil, err
			}
			out[idx] = converted
		}
		return out, nil
	}
	if reflect.ValueOf(value).Kind() == reflect.Func {
		return value, nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

var fieldFilters sync.Once

// registerFieldFilters installs the filters the field templates rely on:
// trim, jsonpretty (indent JSON text, passing unparsable input through) and
// domid (dotted value path to element id, prefixed "fe" unless a prefix is
// given).
func registerFieldFilters() {
	fieldFilters.Do(func() {
		filters := map[string]pongo2.FilterFunction{
			"trim": func(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
				return pongo2.AsValue(strings.TrimSpace(in.String())), nil
			},
			"jsonpretty": func(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
				formatted, _ := jsonfmt.Format(in.String())
				return pongo2.AsValue(formatted), nil
			},
			"domid": func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
				prefix := "fe"
				if param != nil && param.String() != "" {
					prefix = param.String()
				}
				return pongo2.AsValue(prefix + "-" + domIDReplacer.Replace(in.String())), nil
			},
		}
		for name, filter := range filters {
			if !pongo2.FilterExists(name) {
				_ = pongo2.RegisterFilter(name, filter)
			}
		}
	})
}

var domIDReplacer = strings.NewReplacer(".", "-", "[", "-", "]", "", " ", "-")
