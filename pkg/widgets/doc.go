// Package widgets is the per-type dispatch table of the form engine. Each
// model.FieldType has one Handler that names the control a renderer should
// draw and the coercion applied to every value written for the field.
package widgets
