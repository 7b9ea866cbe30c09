package toolset

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog indexes tools by reference. The zero value is not usable; call
// NewCatalog.
type Catalog struct {
	tools map[Ref]Tool
}

// NewCatalog indexes tools. Entries with an empty id or unknown source are
// ignored; the first of several entries with the same reference wins.
func NewCatalog(tools ...Tool) *Catalog {
	c := &Catalog{tools: make(map[Ref]Tool, len(tools))}
	for _, tool := range tools {
		tool.ID = strings.TrimSpace(tool.ID)
		if tool.ID == "" || !tool.Source.Valid() {
			continue
		}
		if _, exists := c.tools[tool.Ref()]; exists {
			continue
		}
		c.tools[tool.Ref()] = tool
	}
	return c
}

// LoadCatalog decodes a JSON or YAML document of the form
// {"tools": [{"id": ..., "source": ..., "name": ...}]}.
func LoadCatalog(data []byte, source string) (*Catalog, error) {
	var doc struct {
		Tools []Tool `yaml:"tools"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("toolset: decode catalog %s: %w", source, err)
	}
	return NewCatalog(doc.Tools...), nil
}

// Len reports the number of indexed tools.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tools)
}

// Lookup resolves a reference.
func (c *Catalog) Lookup(ref Ref) (Tool, bool) {
	if c == nil {
		return Tool{}, false
	}
	tool, ok := c.tools[ref]
	return tool, ok
}

// List returns the tools of the given sources, or all tools when none are
// given, ordered by source then name.
func (c *Catalog) List(sources ...Source) []Tool {
	if c == nil {
		return nil
	}
	out := make([]Tool, 0, len(c.tools))
	for _, tool := range c.tools {
		if len(sources) > 0 && !slices.Contains(sources, tool.Source) {
			continue
		}
		out = append(out, tool)
	}
	sortTools(out)
	return out
}

func sortTools(tools []Tool) {
	slices.SortFunc(tools, func(a, b Tool) int {
		if diff := a.Source.rank() - b.Source.rank(); diff != 0 {
			return diff
		}
		if cmp := strings.Compare(strings.ToLower(a.displayName()), strings.ToLower(b.displayName())); cmp != 0 {
			return cmp
		}
		return strings.Compare(a.ID, b.ID)
	})
}
