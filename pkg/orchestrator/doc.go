// Package orchestrator wires the field set → decorator → engine → theme →
// renderer pipeline behind a single entry point, with dependency injection
// for callers that need to swap any stage.
package orchestrator
