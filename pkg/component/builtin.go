package component

import (
	"fmt"
	"slices"
)

// Built-in component aliases registered by NewDefaultRegistry.
const (
	AliasText     = "text"
	AliasEmail    = "email"
	AliasURL      = "url"
	AliasNumber   = "number"
	AliasPassword = "password"
	AliasHidden   = "hidden"
	AliasTextarea = "textarea"
	AliasSelect   = "select"
	AliasCheckbox = "checkbox"
	AliasColor    = "color"
	AliasMedia    = "media"
)

// Input is a single-line input. The input type ends up in the "type" context
// key so templates can emit it verbatim.
type Input struct {
	*Base
}

// NewInput returns a factory for inputs of the given HTML type.
func NewInput(alias, inputType string) Factory {
	return func(id, label string) Definition {
		input := &Input{Base: NewBase(alias, id, label)}
		input.Bind(input)
		input.Set("type", inputType)
		input.DefineSetter("default", "default")
		input.DefineSetter("maxlength", "maxlength")
		if inputType == "number" {
			input.DefineSetter("min", "min")
			input.DefineSetter("max", "max")
			input.DefineSetter("step", "step")
		}
		return input
	}
}

// Textarea is a multi-line text input.
type Textarea struct {
	*Base
}

// NewTextarea builds a textarea definition.
func NewTextarea(id, label string) Definition {
	textarea := &Textarea{Base: NewBase(AliasTextarea, id, label)}
	textarea.Bind(textarea)
	textarea.Set("rows", 5)
	textarea.DefineSetter("default", "default")
	textarea.DefineSetter("rows", "rows")
	return textarea
}

// Select renders a list of options. With multiple enabled the default is a
// list of values set through defaultValues.
type Select struct {
	*Base
}

// NewSelect builds a select definition.
func NewSelect(id, label string) Definition {
	sel := &Select{Base: NewBase(AliasSelect, id, label)}
	sel.Bind(sel)
	sel.DefineSetter("default", "default")
	sel.DefineSetter("multiple", "multiple")
	sel.Define("options", func(args ...any) error {
		options, err := optionList(args)
		if err != nil {
			return err
		}
		sel.Set("options", options)
		return nil
	})
	sel.Define("defaultValues", func(args ...any) error {
		sel.Set("default_values", flatten(args))
		sel.Set("multiple", true)
		return nil
	})
	sel.DefineQuery("optionCount", func(...any) (any, error) {
		options, _ := sel.Get("options")
		list, _ := options.([]map[string]any)
		return len(list), nil
	})
	return sel
}

// Checkbox is a single boolean toggle.
type Checkbox struct {
	*Base
}

// NewCheckbox builds a checkbox definition.
func NewCheckbox(id, label string) Definition {
	checkbox := &Checkbox{Base: NewBase(AliasCheckbox, id, label)}
	checkbox.Bind(checkbox)
	checkbox.DefineSetter("default", "default")
	checkbox.DefineSetter("checkedValue", "checked_value")
	return checkbox
}

// Color is a color picker backed by a text input.
type Color struct {
	*Base
}

// NewColor builds a color definition.
func NewColor(id, label string) Definition {
	color := &Color{Base: NewBase(AliasColor, id, label)}
	color.Bind(color)
	color.Set("type", "text")
	color.DefineSetter("default", "default")
	color.DefineSetter("palette", "palette")
	return color
}

// Media selects attachments through the host media library.
type Media struct {
	*Base
}

// NewMedia builds a media definition.
func NewMedia(id, label string) Definition {
	media := &Media{Base: NewBase(AliasMedia, id, label)}
	media.Bind(media)
	media.DefineSetter("default", "default")
	media.DefineSetter("multiple", "multiple")
	media.DefineSetter("mimeTypes", "mime_types")
	media.DefineSetter("buttonLabel", "button_label")
	return media
}

func optionList(args []any) ([]map[string]any, error) {
	if len(args) == 1 {
		switch v := args[0].(type) {
		case map[string]string:
			return keyedOptions(v), nil
		case map[string]any:
			converted := make(map[string]string, len(v))
			for key, label := range v {
				converted[key] = fmt.Sprint(label)
			}
			return keyedOptions(converted), nil
		case []map[string]any:
			return v, nil
		}
	}
	out := make([]map[string]any, 0, len(args))
	for _, arg := range flatten(args) {
		switch v := arg.(type) {
		case string:
			out = append(out, map[string]any{"value": v, "label": v})
		case map[string]any:
			out = append(out, v)
		default:
			return nil, fmt.Errorf("component: unsupported option %T", arg)
		}
	}
	return out, nil
}

func keyedOptions(in map[string]string) []map[string]any {
	keys := make([]string, 0, len(in))
	for key := range in {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	out := make([]map[string]any, 0, len(keys))
	for _, key := range keys {
		out = append(out, map[string]any{"value": key, "label": in[key]})
	}
	return out
}

func flatten(args []any) []any {
	out := make([]any, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case []any:
			out = append(out, v...)
		case []string:
			for _, item := range v {
				out = append(out, item)
			}
		default:
			out = append(out, arg)
		}
	}
	return out
}
