package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Styles format the informational messages the renderer prints between
// prompts.
type Styles struct {
	Title lipgloss.Style
	Info  lipgloss.Style
	Error lipgloss.Style
}

// DefaultStyles returns bold titles, dim info lines and red errors.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true),
		Info:  lipgloss.NewStyle().Faint(true),
		Error: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// SubmitTransformer mutates collected values before serialization.
type SubmitTransformer func(map[string]any) (map[string]any, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithStyles overrides message styling.
func WithStyles(styles Styles) Option {
	return func(r *Renderer) {
		r.styles = styles
	}
}

// WithSkipOptional disables the optional field selection step.
func WithSkipOptional() Option {
	return func(r *Renderer) {
		r.skipOptional = true
	}
}
