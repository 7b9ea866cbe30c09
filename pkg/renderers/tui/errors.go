package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoChoices is returned when a choice prompt has nothing to offer.
	ErrNoChoices = errors.New("tui: field has no choices")
)
