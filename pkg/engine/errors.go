package engine

import "errors"

var (
	// ErrInitializing is returned when Init is called while the same form is
	// still initializing.
	ErrInitializing = errors.New("engine: form is initializing")
	// ErrListFieldRequired is returned when optional descriptors are supplied
	// without the name of the list-valued key that stores them.
	ErrListFieldRequired = errors.New("engine: optional list field is required when optional descriptors are present")
)
