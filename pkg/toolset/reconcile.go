package toolset

import "slices"

// Result is the reconciled view of an agent's attachments.
type Result struct {
	// Attached holds the resolved tools in attach order.
	Attached []Tool
	// Available holds catalog tools that are not attached, ordered by source
	// then name.
	Available []Tool
	// Dangling holds references that no catalog entry resolves.
	Dangling []Ref
}

// Reconcile resolves attached references against the catalog. Repeated
// references count once, at their first position.
func Reconcile(attached []Ref, catalog *Catalog) Result {
	var out Result
	seen := make(map[Ref]struct{}, len(attached))
	for _, ref := range attached {
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		if tool, ok := catalog.Lookup(ref); ok {
			out.Attached = append(out.Attached, tool)
			continue
		}
		out.Dangling = append(out.Dangling, ref)
	}

	for _, tool := range catalog.List() {
		if _, ok := seen[tool.Ref()]; ok {
			continue
		}
		out.Available = append(out.Available, tool)
	}
	return out
}

// Changes lists what must be attached and detached to go from one set of
// references to another.
type Changes struct {
	Attach []Ref
	Detach []Ref
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.Attach) == 0 && len(c.Detach) == 0
}

// Diff compares two attachment lists. Attach follows the order of after,
// Detach the order of before. Order changes alone produce no changes.
func Diff(before, after []Ref) Changes {
	var out Changes
	for _, ref := range after {
		if !slices.Contains(before, ref) && !slices.Contains(out.Attach, ref) {
			out.Attach = append(out.Attach, ref)
		}
	}
	for _, ref := range before {
		if !slices.Contains(after, ref) && !slices.Contains(out.Detach, ref) {
			out.Detach = append(out.Detach, ref)
		}
	}
	return out
}

// Attach appends ref unless it is already attached. The second result
// reports whether refs changed.
func Attach(refs []Ref, ref Ref) ([]Ref, bool) {
	if slices.Contains(refs, ref) {
		return refs, false
	}
	return append(slices.Clone(refs), ref), true
}

// Detach removes every occurrence of ref, keeping the order of the rest.
func Detach(refs []Ref, ref Ref) ([]Ref, bool) {
	if !slices.Contains(refs, ref) {
		return refs, false
	}
	out := make([]Ref, 0, len(refs)-1)
	for _, existing := range refs {
		if existing != ref {
			out = append(out, existing)
		}
	}
	return out, true
}
