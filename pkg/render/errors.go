package render

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// ErrorMapping holds server validation messages split by owner: per field
// id, and form-level messages that matched no field.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// formLevelKeys name payload entries that always belong to the form.
var formLevelKeys = map[string]bool{
	"": true, ".": true, "/": true, "#": true, "$": true,
	"form": true, "base": true, "__all__": true,
	"non_field_errors": true, "non-field-errors": true,
}

// envelopeSegments are leading path segments added by request envelopes.
var envelopeSegments = map[string]bool{
	"body": true, "request": true, "payload": true, "data": true, "attributes": true,
}

var pointerEscapes = strings.NewReplacer("~1", "/", "~0", "~")

// MergeFormErrors joins form-level message lists, trimming blanks and
// dropping repeats. First occurrence keeps its position.
func MergeFormErrors(existing []string, extras ...string) []string {
	return dedupeMessages(slices.Concat(existing, extras))
}

// MapErrorPayload assigns server error messages to the declared fields.
// Keys may be plain field ids, scoped input names ("settings[title]"),
// dotted paths or JSON pointers ("/body/title"). Keys that match no field
// become form-level messages so nothing is lost. Keys are visited in sorted
// order so the output is stable.
func MapErrorPayload(fieldIDs []string, payload map[string][]string) ErrorMapping {
	var mapping ErrorMapping
	if len(payload) == 0 {
		return mapping
	}

	known := make(map[string]bool, len(fieldIDs))
	for _, id := range fieldIDs {
		if id = strings.TrimSpace(id); id != "" {
			known[id] = true
		}
	}

	fields := make(map[string][]string)
	for _, key := range slices.Sorted(maps.Keys(payload)) {
		messages := dedupeMessages(payload[key])
		if len(messages) == 0 {
			continue
		}
		if owner := fieldForPath(key, known); owner != "" {
			fields[owner] = append(fields[owner], messages...)
			continue
		}
		mapping.Form = append(mapping.Form, messages...)
	}

	for id, messages := range fields {
		fields[id] = dedupeMessages(messages)
	}
	if len(fields) > 0 {
		mapping.Fields = fields
	}
	mapping.Form = dedupeMessages(mapping.Form)
	return mapping
}

// fieldForPath returns the field a payload key points at, or "" when the key
// is form-level. The deepest known segment wins.
func fieldForPath(raw string, known map[string]bool) string {
	key := strings.TrimSpace(raw)
	if formLevelKeys[strings.ToLower(key)] {
		return ""
	}
	if known[key] {
		return key
	}

	segments := pathSegments(key)
	for len(segments) > 0 && envelopeSegments[strings.ToLower(segments[0])] {
		segments = segments[1:]
	}
	for i := len(segments) - 1; i >= 0; i-- {
		if _, err := strconv.Atoi(segments[i]); err == nil {
			continue
		}
		if known[segments[i]] {
			return segments[i]
		}
	}
	return ""
}

// pathSegments splits dotted, bracketed and pointer style paths. Leading
// anchors such as "#/", "$." and "/" are ignored.
func pathSegments(path string) []string {
	path = strings.TrimLeft(path, "#$./")
	path = strings.NewReplacer("[", ".", "]", "").Replace(path)

	var out []string
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '.' || r == '/' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, pointerEscapes.Replace(part))
		}
	}
	return out
}

func dedupeMessages(messages []string) []string {
	var out []string
	seen := make(map[string]bool, len(messages))
	for _, message := range messages {
		message = strings.TrimSpace(message)
		if message == "" || seen[message] {
			continue
		}
		seen[message] = true
		out = append(out, message)
	}
	return out
}
