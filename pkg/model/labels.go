package model

import (
	"regexp"
	"strings"
	"unicode"
)

var labelSeparators = regexp.MustCompile(`[_\-.\s]+`)

// DefaultLabeler turns a field name such as "max_tokens" or "systemPrompt"
// into "Max Tokens" / "System Prompt". Acronym runs ("apiURL") stay together.
func DefaultLabeler(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	var words []string
	for _, chunk := range labelSeparators.Split(name, -1) {
		words = append(words, splitWords(chunk)...)
	}

	for idx, word := range words {
		words[idx] = capitalise(word)
	}
	return strings.Join(words, " ")
}

func splitWords(chunk string) []string {
	runes := []rune(chunk)
	if len(runes) == 0 {
		return nil
	}

	var (
		words []string
		start int
	)
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		split := false
		switch {
		case unicode.IsLower(prev) && unicode.IsUpper(cur):
			split = true
		case unicode.IsLetter(prev) && unicode.IsDigit(cur):
			split = true
		case unicode.IsDigit(prev) && unicode.IsLetter(cur):
			split = true
		case unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			split = true
		}
		if split {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	return append(words, string(runes[start:]))
}

func capitalise(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return ""
	}
	allUpper := true
	for _, r := range runes {
		if unicode.IsLower(r) {
			allUpper = false
			break
		}
	}
	if allUpper && len(runes) > 1 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
