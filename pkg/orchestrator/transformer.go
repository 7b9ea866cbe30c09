package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-formengine/pkg/model"
)

// Transformer mutates a FieldSet before decorators run. Implementations can
// rename fields, change defaults, or perform arbitrary rewrites.
type Transformer interface {
	Transform(ctx context.Context, set *model.FieldSet) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, set *model.FieldSet) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, set *model.FieldSet) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, set)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// The document shape supports the list key and per-field patches:
//
//	{
//	  "optionalListField": "optional_params",
//	  "fields": {
//	    "temperature": {"label": "Creativity", "defaultValue": 0.2, "toggle": true}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	OptionalListField string                    `json:"optionalListField"`
	Fields            map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label        string `json:"label"`
	Description  string `json:"description"`
	Rename       string `json:"rename"`
	DefaultValue any    `json:"defaultValue"`
	Options      any    `json:"options"`
	Required     *bool  `json:"required"`
	Toggle       *bool  `json:"toggle"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied field set.
func (t *JSONPresetTransformer) Transform(ctx context.Context, set *model.FieldSet) error {
	if set == nil {
		return errors.New("json preset transformer: field set is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if name := strings.TrimSpace(t.document.OptionalListField); name != "" {
		set.OptionalListField = name
	}

	for name, patch := range t.document.Fields {
		field := findField(set.Fields, name)
		if field == nil {
			return fmt.Errorf("json preset transformer: field %q not found", name)
		}
		applyFieldPatch(field, patch)
	}
	return nil
}

func applyFieldPatch(field *model.FieldDescriptor, patch jsonFieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Description != "" {
		field.Description = patch.Description
	}
	if patch.DefaultValue != nil {
		field.DefaultValue = patch.DefaultValue
	}
	if patch.Options != nil {
		field.Options = patch.Options
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.Toggle != nil {
		field.Toggle = *patch.Toggle
	}
	if strings.TrimSpace(patch.Rename) != "" {
		field.Name = strings.TrimSpace(patch.Rename)
	}
}

func findField(fields []model.FieldDescriptor, name string) *model.FieldDescriptor {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	for idx := range fields {
		if fields[idx].Name == name {
			return &fields[idx]
		}
	}
	return nil
}
