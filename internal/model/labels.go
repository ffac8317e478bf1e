package model

import (
	"strings"
	"unicode"
)

// DefaultLabeler turns an element id such as "site_title" or "apiKey" into a
// readable label ("Site Title", "Api Key").
func DefaultLabeler(id string) string {
	words := splitWords(id)
	for idx, word := range words {
		lower := strings.ToLower(word)
		words[idx] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}

// CamelKey collapses dash and underscore separated keys into camel case:
// "default_values" and "default-values" both become "defaultValues". Keys
// without separators are returned unchanged.
func CamelKey(key string) string {
	if !strings.ContainsAny(key, "-_") {
		return key
	}
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '-' || r == '_' })
	if len(parts) == 0 {
		return key
	}
	var out strings.Builder
	out.Grow(len(key))
	out.WriteString(parts[0])
	for _, part := range parts[1:] {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		out.WriteString(string(runes))
	}
	return out.String()
}

func splitWords(input string) []string {
	var (
		words   []string
		current []rune
	)
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	runes := []rune(input)
	for idx, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			continue
		case idx > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[idx-1]):
			flush()
		case idx > 0 && unicode.IsDigit(r) != unicode.IsDigit(runes[idx-1]) && len(current) > 0:
			flush()
		}
		current = append(current, r)
	}
	flush()
	return words
}
