// Package toolset reconciles the tools attached to an agent against the
// catalogs of the tool sources (custom, sloot, pipedream). Attachments are
// stored as references; the package reports which references resolve, which
// catalog tools are still available, and the changes a caller must persist.
package toolset

import (
	"fmt"
	"slices"
	"strings"
)

// Source identifies where a tool is defined.
type Source string

const (
	SourceCustom    Source = "custom"
	SourceSloot     Source = "sloot"
	SourcePipedream Source = "pipedream"
)

// Sources lists the known sources in display order.
func Sources() []Source {
	return []Source{SourceCustom, SourceSloot, SourcePipedream}
}

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	return slices.Contains(Sources(), s)
}

func (s Source) rank() int {
	if idx := slices.Index(Sources(), s); idx >= 0 {
		return idx
	}
	return len(Sources())
}

// Ref points at a tool by source and id.
type Ref struct {
	ID     string `json:"id" yaml:"id"`
	Source Source `json:"source" yaml:"source"`
}

func (r Ref) String() string {
	return string(r.Source) + ":" + r.ID
}

// ParseRef reads "source:id".
func ParseRef(raw string) (Ref, error) {
	source, id, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || strings.TrimSpace(id) == "" {
		return Ref{}, fmt.Errorf("toolset: reference %q must look like source:id", raw)
	}
	ref := Ref{ID: strings.TrimSpace(id), Source: Source(strings.ToLower(strings.TrimSpace(source)))}
	if !ref.Source.Valid() {
		return Ref{}, fmt.Errorf("toolset: unknown source %q", source)
	}
	return ref, nil
}

// Tool is one catalog entry.
type Tool struct {
	ID          string `json:"id" yaml:"id"`
	Source      Source `json:"source" yaml:"source"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Ref returns the reference that attaches t.
func (t Tool) Ref() Ref {
	return Ref{ID: t.ID, Source: t.Source}
}

func (t Tool) displayName() string {
	if strings.TrimSpace(t.Name) != "" {
		return t.Name
	}
	return t.ID
}
