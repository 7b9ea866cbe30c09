package engine

import (
	"github.com/goliatone/go-formengine/pkg/state"
)

// RequiredFields binds required descriptors to flat paths of the value object.
// Every bound path holds a coerced value from initialization onwards; values
// are replaced, never removed.
type RequiredFields struct {
	form   *Form
	fields []boundField
	index  map[string]int
}

func newRequiredFields(form *Form, fields []boundField) *RequiredFields {
	index := make(map[string]int, len(fields))
	for idx, field := range fields {
		index[field.field.Name] = idx
	}
	return &RequiredFields{form: form, fields: fields, index: index}
}

// Len reports how many required fields are bound.
func (r *RequiredFields) Len() int {
	return len(r.fields)
}

// Bindings lists the required controls in descriptor order.
func (r *RequiredFields) Bindings() []Binding {
	out := make([]Binding, len(r.fields))
	for idx, field := range r.fields {
		out[idx] = field.binding
	}
	return out
}

// Has reports whether name is a bound required field.
func (r *RequiredFields) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Value returns the current value of a required field.
func (r *RequiredFields) Value(name string) (any, bool) {
	r.form.mu.Lock()
	defer r.form.mu.Unlock()
	return r.value(r.form.values, name)
}

// Set coerces value and writes it to the field's path. Unknown names report
// false and leave the value object untouched.
func (r *RequiredFields) Set(name string, value any) bool {
	r.form.mu.Lock()
	defer r.form.mu.Unlock()
	return r.set(r.form.values, name, value)
}

// seed writes the coerced default of every field, or re-coerces a value
// already present in carried-over state.
func (r *RequiredFields) seed(values *state.Values) {
	for _, field := range r.fields {
		raw := field.field.DefaultValue
		if existing, ok := values.Get(field.binding.Path); ok {
			raw = existing
		}
		_ = values.Set(field.binding.Path, field.coerce(raw))
	}
}

func (r *RequiredFields) value(values *state.Values, name string) (any, bool) {
	idx, ok := r.index[name]
	if !ok {
		return nil, false
	}
	field := r.fields[idx]
	raw, _ := values.Get(field.binding.Path)
	return field.coerce(raw), true
}

func (r *RequiredFields) set(values *state.Values, name string, value any) bool {
	idx, ok := r.index[name]
	if !ok {
		return false
	}
	field := r.fields[idx]
	return values.Set(field.binding.Path, field.coerce(value)) == nil
}
