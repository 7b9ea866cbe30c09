package vanilla

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const summaryLimit = 80

var (
	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
)

// descriptionSanitizer allows inline formatting and links in descriptions.
func descriptionSanitizer() *bluemonday.Policy {
	descriptionPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "code", "br", "kbd")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		descriptionPolicy = policy
	})
	return descriptionPolicy
}

func sanitizeDescription(policy *bluemonday.Policy, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(policy.Sanitize(trimmed))
}

// controlID turns a value path into an element id.
func controlID(path string) string {
	trimmed := strings.Trim(strings.TrimSpace(path), ".")
	if trimmed == "" {
		return ""
	}
	return "fe-" + strings.NewReplacer(".", "-", " ", "-").Replace(trimmed)
}

// summarize returns the first line of text, shortened for the overlay button.
func summarize(text string) string {
	line := strings.TrimSpace(text)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = strings.TrimSpace(line[:idx]) + " …"
	}
	if utf8.RuneCountInString(line) <= summaryLimit {
		return line
	}
	runes := []rune(line)
	return strings.TrimSpace(string(runes[:summaryLimit])) + "…"
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		name := strings.TrimSpace(key)
		value := strings.TrimSpace(vars[key])
		if name == "" || value == "" {
			continue
		}
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		parts = append(parts, name+": "+value)
	}
	return strings.Join(parts, "; ")
}
