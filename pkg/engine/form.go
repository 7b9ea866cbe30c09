package engine

import (
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/state"
)

// Skip reasons reported by Form.Skipped.
const (
	SkipUnknownType   = "unknown type"
	SkipRejected      = "rejected options"
	SkipMissingName   = "missing name"
	SkipDuplicateName = "duplicate name"
	SkipListCollision = "collides with optional list field"
)

// SkippedField records a descriptor that was omitted from the form.
type SkippedField struct {
	Name   string          `json:"name"`
	Type   model.FieldType `json:"type"`
	Reason string          `json:"reason"`
}

// Form binds one descriptor list to one value object. Required descriptors
// are exposed through Required, toggleable ones through Optional.
type Form struct {
	mu      sync.Mutex
	cfg     config
	phase   Phase
	values  *state.Values
	skipped []SkippedField

	required *RequiredFields
	optional *OptionalFields
}

// New partitions fields by their toggle flag, binds every well-formed
// descriptor and initializes the value object. Malformed descriptors are
// omitted and reported by Skipped.
func New(fields []model.FieldDescriptor, opts ...Option) (*Form, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	form := &Form{cfg: cfg, values: state.New(nil)}
	required, optional := form.bindAll(fields)
	if len(optional) > 0 && cfg.listField == "" {
		return nil, ErrListFieldRequired
	}

	listPath := ""
	if cfg.listField != "" {
		listPath = state.JoinPath(cfg.prefix, cfg.listField)
	}
	form.required = newRequiredFields(form, required)
	form.optional = newOptionalFields(form, listPath, optional)

	if err := form.Init(cfg.initial); err != nil {
		return nil, err
	}
	return form, nil
}

func (f *Form) bindAll(fields []model.FieldDescriptor) (required, optional []boundField) {
	requiredNames := make(map[string]struct{})
	optionalNames := make(map[string]struct{})

	for _, field := range fields {
		if field.Name == "" {
			f.skip(field, SkipMissingName)
			continue
		}
		if !field.Type.Known() {
			f.skip(field, SkipUnknownType)
			continue
		}
		handler, ok := f.cfg.registry.Resolve(field)
		if !ok {
			reason := SkipRejected
			if _, registered := f.cfg.registry.Lookup(field.Type); !registered {
				reason = SkipUnknownType
			}
			f.skip(field, reason)
			continue
		}

		if field.Optional() {
			if _, dup := optionalNames[field.Name]; dup {
				f.skip(field, SkipDuplicateName)
				continue
			}
			optionalNames[field.Name] = struct{}{}
			optional = append(optional, bind(field, handler, field.Name))
			continue
		}

		if _, dup := requiredNames[field.Name]; dup {
			f.skip(field, SkipDuplicateName)
			continue
		}
		if f.cfg.listField != "" && field.Name == f.cfg.listField {
			f.skip(field, SkipListCollision)
			continue
		}
		requiredNames[field.Name] = struct{}{}
		required = append(required, bind(field, handler, state.JoinPath(f.cfg.prefix, field.Name)))
	}
	return required, optional
}

func (f *Form) skip(field model.FieldDescriptor, reason string) {
	f.skipped = append(f.skipped, SkippedField{Name: field.Name, Type: field.Type, Reason: reason})
	f.cfg.logger.Debug("engine: skipped field descriptor",
		zap.String("field", field.Name),
		zap.String("type", string(field.Type)),
		zap.String("reason", reason),
	)
}

func (f *Form) logger() *zap.Logger {
	return f.cfg.logger
}

// Required returns the required field accessors.
func (f *Form) Required() *RequiredFields {
	return f.required
}

// Optional returns the optional field manager.
func (f *Form) Optional() *OptionalFields {
	return f.optional
}

// Skipped lists the descriptors omitted at construction, in input order.
func (f *Form) Skipped() []SkippedField {
	return append([]SkippedField(nil), f.skipped...)
}

// Prefix returns the dotted prefix every field path is nested under.
func (f *Form) Prefix() string {
	return f.cfg.prefix
}

// ListField returns the configured optional list key.
func (f *Form) ListField() string {
	return f.cfg.listField
}

// Values returns a deep copy of the merged value object.
func (f *Form) Values() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.Snapshot()
}

// Set writes a value by field name. Required fields are always written;
// optional fields are updated only while active.
func (f *Form) Set(name string, value any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.required.Has(name) {
		return f.required.set(f.values, name, value)
	}
	return f.optional.update(f.values, name, value)
}

// Value reads a value by field name: the stored value of a required field or
// the current value of an optional one.
func (f *Form) Value(name string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.required.Has(name) {
		return f.required.value(f.values, name)
	}
	return f.optional.currentValue(f.values, name)
}

// Descriptor returns the bound descriptor for name.
func (f *Form) Descriptor(name string) (model.FieldDescriptor, bool) {
	if idx, ok := f.required.index[name]; ok {
		return f.required.fields[idx].field, true
	}
	if idx, ok := f.optional.index[name]; ok {
		return f.optional.fields[idx].field, true
	}
	return model.FieldDescriptor{}, false
}
