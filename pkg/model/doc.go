// Package model defines the field descriptors the form engine consumes. A
// descriptor is immutable input: it names one field, its control type, the
// default used to seed or activate it, type-specific options, and whether the
// field is toggleable. Descriptors with Toggle=false are required fields and
// live at a flat key of the value object; descriptors with Toggle=true are
// optional fields whose presence is recorded as an entry in the list stored
// under the field set's OptionalListField key.
//
// Options stay loosely typed because their shape depends on the field type:
// number and slider fields carry a {min,max,step} object, select, multiselect
// and radio fields carry a list of {value,label} choices (or bare strings),
// and json fields may carry a {schema} object. Helpers on FieldDescriptor
// decode the common shapes without failing on malformed input.
package model
