package vanilla

import (
	"maps"
	"strings"
)

// prepare derives the template-friendly values from the render environment:
// sanitised descriptions, control ids, the input name, selection state and
// theme variables. The input map is never modified.
func (r *Renderer) prepare(data map[string]any, component bool) map[string]any {
	out := maps.Clone(data)
	if out == nil {
		out = make(map[string]any)
	}

	for _, key := range []string{"form", "container", "field"} {
		node := asMap(out[key])
		if node == nil {
			continue
		}
		node = maps.Clone(node)
		if description := strings.TrimSpace(textOf(node["description"])); description != "" {
			node["description_html"] = r.sanitizer.Sanitize(description)
		}
		out[key] = node
	}

	if container := asMap(out["container"]); container != nil {
		kind := textOf(container["kind"])
		container["style_class"] = styleClass("formbuilder-"+kind, container["style"])
	}
	if field := asMap(out["field"]); field != nil {
		prepareField(field, out, component)
	}

	if r.theme != nil {
		out["theme"] = map[string]any{
			"name":     r.theme.Theme,
			"variant":  r.theme.Variant,
			"tokens":   r.theme.Tokens,
			"css_vars": cssVars(r.theme.CSSVars),
		}
	}
	return out
}

func prepareField(field, data map[string]any, component bool) {
	id := textOf(field["id"])
	field["control_id"] = controlID(id)
	field["label_id"] = labelID(id)
	field["style_class"] = styleClass(string(ClassField), field["style"])
	if !component {
		return
	}

	attrs := maps.Clone(asMap(field["attributes"]))
	if attrs == nil {
		attrs = make(map[string]any)
	}
	name := textOf(attrs["name"])
	if name == "" {
		name = textOf(field["name"])
	}
	if name == "" {
		name = id
	}
	field["name"] = name
	field["class"] = sanitizeClassList(textOf(attrs["class"]))
	delete(attrs, "name")
	delete(attrs, "id")
	delete(attrs, "class")
	field["attributes"] = attrs

	ctx := asMap(data["context"])
	value, ok := data["value"]
	if !ok || value == nil {
		value = ctx["default"]
	}

	selected := make(map[string]bool)
	choices := asList(value)
	if value == nil {
		choices = asList(ctx["default_values"])
	}
	for _, choice := range choices {
		selected[textOf(choice)] = true
	}

	switch list := value.(type) {
	case []any, []string:
		field["value_text"] = joinList(list)
	default:
		field["value_text"] = textOf(value)
	}
	field["has_value"] = field["value_text"] != ""

	if options := asList(ctx["options"]); len(options) > 0 {
		prepared := make([]map[string]any, 0, len(options))
		for _, raw := range options {
			option := maps.Clone(asMap(raw))
			if option == nil {
				text := textOf(raw)
				option = map[string]any{"value": text, "label": text}
			}
			if _, ok := option["label"]; !ok {
				option["label"] = option["value"]
			}
			option["selected"] = selected[textOf(option["value"])]
			prepared = append(prepared, option)
		}
		field["options"] = prepared
	}

	field["checked"] = truthy(value)
	checkedValue := textOf(ctx["checked_value"])
	if checkedValue == "" {
		checkedValue = "1"
	}
	field["checked_value"] = checkedValue
	field["palette"] = joinList(ctx["palette"])
	field["mime_types"] = joinList(ctx["mime_types"])
}
