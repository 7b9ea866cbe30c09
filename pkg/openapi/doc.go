// Package openapi derives field sets from OpenAPI component schemas. Each
// property of the selected schema becomes one field descriptor; x-formengine
// extensions refine the widget, ordering and optional-field behaviour.
package openapi
