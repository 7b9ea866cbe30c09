// Package jsonfmt is the formatting and validation collaborator for json
// fields. The engine stores json values as raw strings and never parses them;
// renderers and validators call into this package when they need structure.
package jsonfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const indent = "  "

// Format pretty prints raw JSON with sorted object keys. When raw does not
// parse, it is returned unchanged together with false. Blank input formats as
// an empty object.
func Format(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "{}", true
	}
	value, err := decode(trimmed)
	if err != nil {
		return raw, false
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", indent)
	if err := encoder.Encode(value); err != nil {
		return raw, false
	}
	return strings.TrimRight(buf.String(), "\n"), true
}

// Compact re-encodes raw JSON without insignificant whitespace.
func Compact(raw string) (string, bool) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(strings.TrimSpace(raw))); err != nil {
		return raw, false
	}
	return buf.String(), true
}

// Valid reports whether raw parses as JSON. Blank input is treated as valid.
func Valid(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return trimmed == "" || json.Valid([]byte(trimmed))
}

// Validate checks raw against a JSON schema document and returns one message
// per violation, sorted for stable output. A parse failure of raw is reported
// as a single message. An empty schema only checks that raw parses.
func Validate(raw, schema string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = "{}"
	}
	if !json.Valid([]byte(trimmed)) {
		return []string{"invalid JSON"}
	}
	if strings.TrimSpace(schema) == "" {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(trimmed),
	)
	if err != nil {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, issue := range result.Errors() {
		messages = append(messages, issue.String())
	}
	sort.Strings(messages)
	return messages
}

func decode(raw string) (any, error) {
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, fmt.Errorf("jsonfmt: trailing data")
	}
	return value, nil
}
