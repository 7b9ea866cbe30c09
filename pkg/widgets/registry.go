package widgets

import (
	"sort"
	"sync"

	"github.com/goliatone/go-formengine/pkg/model"
)

// Control identifiers renderers switch on.
const (
	ControlInput           = "input"
	ControlTextareaOverlay = "textarea-overlay"
	ControlSelect          = "select"
	ControlMultiselect     = "multiselect"
	ControlCheckbox        = "checkbox"
	ControlRadioGroup      = "radio-group"
	ControlRange           = "range"
	ControlJSONEditor      = "json-editor"
)

// CoerceFunc converts a raw value into the canonical Go representation stored
// in the value object for a field.
type CoerceFunc func(field model.FieldDescriptor, raw any) any

// AcceptFunc reports whether a descriptor is well formed for its handler.
// Rejected descriptors are omitted from the form.
type AcceptFunc func(field model.FieldDescriptor) bool

// Handler binds one FieldType to its control and coercion rules.
type Handler struct {
	Type      model.FieldType
	Control   string
	InputType string
	Coerce    CoerceFunc
	Accept    AcceptFunc
}

// Registry maps field types to handlers. Adding a field type means registering
// one more handler; existing handlers are never consulted for other types.
type Registry struct {
	mu       sync.RWMutex
	handlers map[model.FieldType]Handler
}

// NewRegistry returns a registry with the built-in handlers for every
// model.FieldType.
func NewRegistry() *Registry {
	reg := &Registry{handlers: make(map[model.FieldType]Handler)}
	for _, handler := range builtinHandlers() {
		reg.Register(handler)
	}
	return reg
}

// Register adds or replaces the handler for handler.Type. Handlers without a
// type or coercion function are ignored.
func (r *Registry) Register(handler Handler) {
	if r == nil || handler.Type == "" || handler.Coerce == nil {
		return
	}
	if handler.Control == "" {
		handler.Control = ControlInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handlers == nil {
		r.handlers = make(map[model.FieldType]Handler)
	}
	r.handlers[handler.Type] = handler
}

// Lookup returns the handler registered for a type.
func (r *Registry) Lookup(fieldType model.FieldType) (Handler, bool) {
	if r == nil {
		return Handler{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[fieldType]
	return handler, ok
}

// Resolve returns the handler for a descriptor when its type is registered and
// the handler accepts it.
func (r *Registry) Resolve(field model.FieldDescriptor) (Handler, bool) {
	handler, ok := r.Lookup(field.Type)
	if !ok {
		return Handler{}, false
	}
	if handler.Accept != nil && !handler.Accept(field) {
		return Handler{}, false
	}
	return handler, true
}

// Types lists the registered field types in sorted order.
func (r *Registry) Types() []model.FieldType {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]model.FieldType, 0, len(r.handlers))
	for fieldType := range r.handlers {
		types = append(types, fieldType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
