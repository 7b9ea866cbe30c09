package engine

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/state"
)

// OptionalBinding is a toggleable control together with its current state.
// Index is the entry position inside the list and Path the entry value path;
// inactive fields carry Index -1 and an empty Path.
type OptionalBinding struct {
	Binding
	Active bool
	Index  int
	Value  any
}

// OptionalFields manages toggleable descriptors stored as single-key entries
// of the list at ListPath. List membership is the only activation state and
// every operation re-reads the list before acting on it.
type OptionalFields struct {
	form     *Form
	listPath string
	fields   []boundField
	index    map[string]int
}

func newOptionalFields(form *Form, listPath string, fields []boundField) *OptionalFields {
	index := make(map[string]int, len(fields))
	for idx, field := range fields {
		index[field.field.Name] = idx
	}
	return &OptionalFields{
		form:     form,
		listPath: listPath,
		fields:   fields,
		index:    index,
	}
}

// ListPath is the dotted path of the entry list.
func (o *OptionalFields) ListPath() string {
	return o.listPath
}

// Len reports how many optional fields are bound.
func (o *OptionalFields) Len() int {
	return len(o.fields)
}

// Has reports whether name is a bound optional field.
func (o *OptionalFields) Has(name string) bool {
	_, ok := o.index[name]
	return ok
}

// IsActive reports whether the list holds an entry for name.
func (o *OptionalFields) IsActive(name string) bool {
	o.form.mu.Lock()
	defer o.form.mu.Unlock()
	return o.isActive(o.form.values, name)
}

// CurrentValue returns the entry value of an active field or the coerced
// default of an inactive one. The second result is false for unknown names.
func (o *OptionalFields) CurrentValue(name string) (any, bool) {
	o.form.mu.Lock()
	defer o.form.mu.Unlock()
	return o.currentValue(o.form.values, name)
}

// Toggle flips a field's activation and returns the new state. Unknown names
// report ok=false.
func (o *OptionalFields) Toggle(name string) (active bool, ok bool) {
	o.form.mu.Lock()
	defer o.form.mu.Unlock()
	return o.toggle(o.form.values, name)
}

// Activate appends {name: default} to the end of the list. Activating an
// active field is a no-op; the result reports whether the list changed.
func (o *OptionalFields) Activate(name string) bool {
	o.form.mu.Lock()
	defer o.form.mu.Unlock()
	return o.activate(o.form.values, name)
}

// Deactivate removes the entry for name, located by key at call time. Other
// entries keep their relative order.
func (o *OptionalFields) Deactivate(name string) bool {
	o.form.mu.Lock()
	defer o.form.mu.Unlock()
	return o.deactivate(o.form.values, name)
}

// Update replaces the value of an active field's entry in place. Inactive or
// unknown fields are left alone and report false.
func (o *OptionalFields) Update(name string, value any) bool {
	o.form.mu.Lock()
	defer o.form.mu.Unlock()
	return o.update(o.form.values, name, value)
}

// Ordered lists optional controls with active fields first, in list order
// (activation order), followed by inactive fields in descriptor order.
func (o *OptionalFields) Ordered() []OptionalBinding {
	o.form.mu.Lock()
	defer o.form.mu.Unlock()
	return o.ordered(o.form.values)
}

func (o *OptionalFields) isActive(values *state.Values, name string) bool {
	if !o.Has(name) {
		return false
	}
	return entryIndex(o.entries(values), name) >= 0
}

func (o *OptionalFields) currentValue(values *state.Values, name string) (any, bool) {
	idx, ok := o.index[name]
	if !ok {
		return nil, false
	}
	field := o.fields[idx]
	entries := o.entries(values)
	if pos := entryIndex(entries, name); pos >= 0 {
		return field.coerce(entries[pos].(map[string]any)[name]), true
	}
	return field.coerce(field.field.DefaultValue), true
}

func (o *OptionalFields) toggle(values *state.Values, name string) (bool, bool) {
	if !o.Has(name) {
		return false, false
	}
	if o.isActive(values, name) {
		o.deactivate(values, name)
		return false, true
	}
	o.activate(values, name)
	return true, true
}

func (o *OptionalFields) activate(values *state.Values, name string) bool {
	idx, ok := o.index[name]
	if !ok {
		return false
	}
	entries := o.entries(values)
	if entryIndex(entries, name) >= 0 {
		o.form.logger().Debug("engine: optional field already active", zap.String("field", name))
		return false
	}
	field := o.fields[idx]
	entries = append(entries, map[string]any{name: field.coerce(field.field.DefaultValue)})
	return values.Set(o.listPath, entries) == nil
}

func (o *OptionalFields) deactivate(values *state.Values, name string) bool {
	if !o.Has(name) {
		return false
	}
	entries := o.entries(values)
	pos := entryIndex(entries, name)
	if pos < 0 {
		return false
	}
	kept := make([]any, 0, len(entries)-1)
	kept = append(kept, entries[:pos]...)
	kept = append(kept, entries[pos+1:]...)
	return values.Set(o.listPath, kept) == nil
}

func (o *OptionalFields) update(values *state.Values, name string, value any) bool {
	idx, ok := o.index[name]
	if !ok {
		return false
	}
	entries := o.entries(values)
	pos := entryIndex(entries, name)
	if pos < 0 {
		o.form.logger().Debug("engine: ignored update for inactive optional field", zap.String("field", name))
		return false
	}
	entries[pos].(map[string]any)[name] = o.fields[idx].coerce(value)
	return true
}

func (o *OptionalFields) ordered(values *state.Values) []OptionalBinding {
	entries := o.entries(values)
	out := make([]OptionalBinding, 0, len(o.fields))
	placed := make(map[string]struct{}, len(o.fields))

	for pos, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		for _, field := range o.fields {
			name := field.field.Name
			if _, done := placed[name]; done {
				continue
			}
			value, exists := obj[name]
			if !exists {
				continue
			}
			placed[name] = struct{}{}
			binding := field.binding
			binding.Path = state.JoinPath(o.listPath, strconv.Itoa(pos), name)
			out = append(out, OptionalBinding{
				Binding: binding,
				Active:  true,
				Index:   pos,
				Value:   field.coerce(value),
			})
		}
	}

	for _, field := range o.fields {
		if _, done := placed[field.field.Name]; done {
			continue
		}
		out = append(out, OptionalBinding{
			Binding: field.binding,
			Index:   -1,
			Value:   field.coerce(field.field.DefaultValue),
		})
	}
	return out
}

// normalise prepares carried-over list content: a missing or non-list value
// becomes an empty list and active values are re-coerced. Entries holding
// several known names are split into one entry per name in descriptor order,
// later duplicates of a name are dropped, and keys that match no descriptor
// stay together in an entry of their own.
func (o *OptionalFields) normalise(values *state.Values) {
	raw, _ := values.Get(o.listPath)
	entries := toEntries(raw)

	seen := make(map[string]struct{}, len(entries))
	kept := make([]any, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			kept = append(kept, entry)
			continue
		}
		known := 0
		for _, field := range o.fields {
			name := field.field.Name
			value, exists := obj[name]
			if !exists {
				continue
			}
			known++
			if _, dup := seen[name]; dup {
				o.form.logger().Debug("engine: dropped duplicate optional entry", zap.String("field", name))
				continue
			}
			seen[name] = struct{}{}
			kept = append(kept, map[string]any{name: field.coerce(value)})
		}
		if known == 0 {
			kept = append(kept, obj)
			continue
		}
		if known > 1 {
			o.form.logger().Debug("engine: split multi-key optional entry", zap.Int("keys", known))
		}
		if rest := unknownKeys(obj, o.index); len(rest) > 0 {
			kept = append(kept, rest)
		}
	}
	_ = values.Set(o.listPath, kept)
}

func unknownKeys(obj map[string]any, index map[string]int) map[string]any {
	var rest map[string]any
	for key, value := range obj {
		if _, known := index[key]; known {
			continue
		}
		if rest == nil {
			rest = make(map[string]any)
		}
		rest[key] = value
	}
	return rest
}

// entries returns the live list stored in the value object. Entry maps are
// shared with the value object so in-place updates are visible to readers.
func (o *OptionalFields) entries(values *state.Values) []any {
	raw, _ := values.Get(o.listPath)
	if entries, ok := raw.([]any); ok {
		return entries
	}
	entries := toEntries(raw)
	_ = values.Set(o.listPath, entries)
	return entries
}

func toEntries(raw any) []any {
	switch list := raw.(type) {
	case []any:
		return list
	case []map[string]any:
		out := make([]any, len(list))
		for idx, entry := range list {
			out[idx] = entry
		}
		return out
	default:
		return []any{}
	}
}

func entryIndex(entries []any, name string) int {
	for pos, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if _, exists := obj[name]; exists {
			return pos
		}
	}
	return -1
}
