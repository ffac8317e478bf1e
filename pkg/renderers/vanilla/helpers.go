package vanilla

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

func controlID(fieldID string) string {
	trimmed := strings.TrimSpace(fieldID)
	if trimmed == "" {
		return ""
	}
	return "fb-" + trimmed
}

func labelID(fieldID string) string {
	id := controlID(fieldID)
	if id == "" {
		return ""
	}
	return id + "-label"
}

// sanitizeClassList drops the fb- prefix reserved for generated ids and any
// token that could break out of the class attribute.
func sanitizeClassList(value string) string {
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.HasPrefix(token, "fb-") || strings.ContainsAny(token, `"'<>`) {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}

// styleClass maps a style override onto a modifier class of base.
func styleClass(base string, style any) string {
	name, ok := style.(string)
	if !ok {
		return ""
	}
	var classes []string
	for _, token := range strings.Fields(sanitizeClassList(name)) {
		classes = append(classes, base+"--"+token)
	}
	return strings.Join(classes, " ")
}

func asMap(value any) map[string]any {
	switch v := value.(type) {
	case map[string]any:
		return v
	case map[string]string:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = item
		}
		return out
	default:
		return nil
	}
}

func asList(value any) []any {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = item
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = item
		}
		return out
	default:
		return []any{v}
	}
}

func textOf(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func joinList(value any) string {
	var parts []string
	for _, item := range asList(value) {
		if text := strings.TrimSpace(textOf(item)); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, ",")
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "0", "false", "off", "no":
			return false
		}
		return true
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

func cssVars(vars map[string]string) string {
	var b strings.Builder
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s: %s;", name, vars[name])
	}
	return b.String()
}
