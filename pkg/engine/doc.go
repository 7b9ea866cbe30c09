// Package engine binds a list of field descriptors to a single value object.
//
// Descriptors with Toggle=false are required fields: RequiredFields seeds each
// one at "<prefix>.<name>" and writes every change straight to that path.
// Descriptors with Toggle=true are optional fields: OptionalFields tracks them
// as entries of the ordered list stored at "<prefix>.<optionalListField>",
// where each entry is a single-key object {name: value}. An optional field is
// active exactly when the list holds an entry for its name; deactivating it
// removes the entry, so reactivating restores the descriptor default.
//
// Form composes both halves. It never persists, submits, or validates beyond
// type coercion; Validate is a separate, opt-in pass.
package engine
