package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/model"
)

// Schema extensions read by BuildFieldSet.
const (
	ExtensionType      = "x-formengine-type"
	ExtensionWidget    = "x-formengine-widget"
	ExtensionToggle    = "x-formengine-toggle"
	ExtensionOrder     = "x-formengine-order"
	ExtensionListField = "x-formengine-list-field"
)

// DefaultListField is used when neither the schema nor the caller names the
// list key for optional fields.
const DefaultListField = "optional_params"

// Option configures BuildFieldSet.
type Option func(*config)

type config struct {
	listField    string
	validate     bool
	externalRefs bool
}

// WithOptionalListField overrides the list key declared by the schema.
func WithOptionalListField(name string) Option {
	return func(cfg *config) {
		cfg.listField = strings.TrimSpace(name)
	}
}

// WithValidation validates the whole document before reading the schema.
func WithValidation() Option {
	return func(cfg *config) {
		cfg.validate = true
	}
}

// WithExternalRefs allows $ref values that point outside the document.
func WithExternalRefs() Option {
	return func(cfg *config) {
		cfg.externalRefs = true
	}
}

// BuildFieldSet reads components.schemas[component] from a JSON or YAML
// OpenAPI document and returns the equivalent field set. Properties that map
// to no field type are skipped.
func BuildFieldSet(ctx context.Context, raw []byte, component string, opts ...Option) (model.FieldSet, error) {
	if err := ctx.Err(); err != nil {
		return model.FieldSet{}, err
	}
	component = strings.TrimSpace(component)
	if component == "" {
		return model.FieldSet{}, errors.New("openapi: component name is required")
	}

	cfg := config{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: cfg.externalRefs,
	}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return model.FieldSet{}, fmt.Errorf("openapi: load document: %w", err)
	}
	if cfg.validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return model.FieldSet{}, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	if doc.Components == nil {
		return model.FieldSet{}, fmt.Errorf("openapi: component %q not found", component)
	}
	ref, ok := doc.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return model.FieldSet{}, fmt.Errorf("openapi: component %q not found", component)
	}
	schema := ref.Value

	set := model.FieldSet{
		Name:              component,
		OptionalListField: cfg.listField,
	}
	if set.OptionalListField == "" {
		set.OptionalListField = strings.TrimSpace(coerce.String(schema.Extensions[ExtensionListField]))
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	for _, name := range propertyOrder(schema.Properties) {
		property := schema.Properties[name]
		if property == nil || property.Value == nil {
			continue
		}
		field, ok := descriptorFor(name, property.Value, required[name])
		if !ok {
			continue
		}
		set.Fields = append(set.Fields, field)
	}

	if set.OptionalListField == "" && hasOptional(set.Fields) {
		set.OptionalListField = DefaultListField
	}
	return set, nil
}

func descriptorFor(name string, schema *openapi3.Schema, required bool) (model.FieldDescriptor, bool) {
	fieldType, options, ok := fieldTypeFor(schema)
	if !ok {
		return model.FieldDescriptor{}, false
	}

	field := model.FieldDescriptor{
		ID:           name,
		Type:         fieldType,
		Name:         name,
		Label:        strings.TrimSpace(schema.Title),
		Description:  strings.TrimSpace(schema.Description),
		Required:     required,
		DefaultValue: schema.Default,
		Options:      options,
		Toggle:       !required && coerce.Bool(schema.Extensions[ExtensionToggle]),
	}
	if fieldType == model.FieldTypeJSON && schema.Default != nil {
		if _, isString := schema.Default.(string); !isString {
			if encoded, err := json.Marshal(schema.Default); err == nil {
				field.DefaultValue = string(encoded)
			}
		}
	}
	return field, true
}

// fieldTypeFor maps a property schema onto a field type and its options. An
// explicit x-formengine-type wins over inference.
func fieldTypeFor(schema *openapi3.Schema) (model.FieldType, any, bool) {
	widget := strings.ToLower(strings.TrimSpace(coerce.String(schema.Extensions[ExtensionWidget])))

	if explicit := model.FieldType(strings.TrimSpace(coerce.String(schema.Extensions[ExtensionType]))); explicit != "" {
		if !explicit.Known() {
			return "", nil, false
		}
		return explicit, optionsFor(explicit, schema), true
	}

	var fieldType model.FieldType
	switch {
	case schemaIs(schema, openapi3.TypeBoolean):
		fieldType = model.FieldTypeCheckbox
	case schemaIs(schema, openapi3.TypeInteger), schemaIs(schema, openapi3.TypeNumber):
		fieldType = model.FieldTypeNumber
		if widget == "slider" {
			fieldType = model.FieldTypeSlider
		}
	case schemaIs(schema, openapi3.TypeArray):
		if schema.Items == nil || schema.Items.Value == nil || len(schema.Items.Value.Enum) == 0 {
			fieldType = model.FieldTypeJSON
			break
		}
		fieldType = model.FieldTypeMultiselect
	case schemaIs(schema, openapi3.TypeObject):
		fieldType = model.FieldTypeJSON
	case schemaIs(schema, openapi3.TypeString):
		switch {
		case len(schema.Enum) > 0 && widget == "radio":
			fieldType = model.FieldTypeRadio
		case len(schema.Enum) > 0:
			fieldType = model.FieldTypeSelect
		case schema.Format == "email":
			fieldType = model.FieldTypeEmail
		case schema.Format == "date":
			fieldType = model.FieldTypeDate
		case widget == "textarea":
			fieldType = model.FieldTypeTextarea
		default:
			fieldType = model.FieldTypeText
		}
	default:
		return "", nil, false
	}
	return fieldType, optionsFor(fieldType, schema), true
}

func optionsFor(fieldType model.FieldType, schema *openapi3.Schema) any {
	switch fieldType {
	case model.FieldTypeSelect, model.FieldTypeRadio:
		return enumOptions(schema.Enum)
	case model.FieldTypeMultiselect:
		if schema.Items != nil && schema.Items.Value != nil {
			return enumOptions(schema.Items.Value.Enum)
		}
		return enumOptions(schema.Enum)
	case model.FieldTypeNumber, model.FieldTypeSlider:
		bounds := map[string]any{}
		if schema.Min != nil {
			bounds["min"] = *schema.Min
		}
		if schema.Max != nil {
			bounds["max"] = *schema.Max
		}
		if schema.MultipleOf != nil {
			bounds["step"] = *schema.MultipleOf
		}
		if len(bounds) == 0 {
			return nil
		}
		return bounds
	case model.FieldTypeJSON:
		if len(schema.Properties) == 0 {
			return nil
		}
		encoded, err := json.Marshal(schema)
		if err != nil {
			return nil
		}
		return map[string]any{"schema": string(encoded)}
	default:
		return nil
	}
}

func enumOptions(values []any) []any {
	out := make([]any, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		out = append(out, coerce.String(value))
	}
	return out
}

func schemaIs(schema *openapi3.Schema, typ string) bool {
	return schema.Type != nil && schema.Type.Is(typ)
}

// propertyOrder sorts by x-formengine-order, then by name. Properties without
// an order come after ordered ones.
func propertyOrder(properties openapi3.Schemas) []string {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	order := func(name string) (float64, bool) {
		ref := properties[name]
		if ref == nil || ref.Value == nil {
			return 0, false
		}
		return coerce.Number(ref.Value.Extensions[ExtensionOrder])
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, hasI := order(names[i])
		oj, hasJ := order(names[j])
		switch {
		case hasI && hasJ && oi != oj:
			return oi < oj
		case hasI != hasJ:
			return hasI
		default:
			return names[i] < names[j]
		}
	})
	return names
}

func hasOptional(fields []model.FieldDescriptor) bool {
	for _, field := range fields {
		if field.Toggle {
			return true
		}
	}
	return false
}
