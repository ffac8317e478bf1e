package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when a
// translation key is set but no Translator was configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls fn.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler returns the text used when a key has no
// translation. err is ErrMissingTranslator, the translator error, or nil when
// the translator returned an empty string.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// LocalizeTree returns a copy of the section tree with translation keys
// replaced by their localized text. Container headings and descriptions use
// HeadingKey and DescriptionKey; fields use the label_key, description_key and
// placeholder_key context entries. A key without translation falls back to the
// declared text, then to the key itself. The input is never modified.
func LocalizeTree(sections []model.Node, opts RenderOptions) []model.Node {
	if len(sections) == 0 {
		return sections
	}
	out := make([]model.Node, len(sections))
	for i, section := range sections {
		out[i] = localizeNode(section, opts)
	}
	return out
}

// TemplateTranslate returns the translate helper exposed to templates as
// translate(key, args...). Missing keys follow opts.OnMissing, or render the
// key itself.
func TemplateTranslate(opts RenderOptions) func(key string, args ...any) string {
	return func(key string, args ...any) string {
		key = strings.TrimSpace(key)
		if key == "" {
			return ""
		}
		msg, err := lookup(opts, key, args...)
		if err == nil && msg != "" {
			return msg
		}
		if opts.OnMissing != nil {
			return opts.OnMissing(opts.Locale, key, args, err)
		}
		return key
	}
}

// Translate resolves key with the translator in opts. Missing keys follow
// opts.OnMissing, then fallback, then the key itself.
func Translate(opts RenderOptions, key, fallback string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	return translate(opts, key, fallback)
}

func localizeNode(node model.Node, opts RenderOptions) model.Node {
	out := node
	container := node.Container
	if key := strings.TrimSpace(container.HeadingKey); key != "" {
		container.Heading = translate(opts, key, container.Heading)
	}
	if key := strings.TrimSpace(container.DescriptionKey); key != "" {
		switch fallback := container.Description.(type) {
		case nil:
			container.Description = translate(opts, key, "")
		case string:
			container.Description = translate(opts, key, fallback)
		default:
			// Lazy descriptions stay in place unless a translation exists.
			if msg, err := lookup(opts, key); err == nil && msg != "" {
				container.Description = msg
			}
		}
	}
	out.Container = container

	if node.Children == nil {
		return out
	}
	out.Children = make([]model.Child, len(node.Children))
	for i, child := range node.Children {
		switch {
		case child.Node != nil:
			nested := localizeNode(*child.Node, opts)
			out.Children[i] = model.Child{Node: &nested}
		case child.Field != nil:
			field := localizeField(*child.Field, opts)
			out.Children[i] = model.Child{Field: &field}
		default:
			out.Children[i] = child
		}
	}
	return out
}

func localizeField(field model.FieldSnapshot, opts RenderOptions) model.FieldSnapshot {
	labelKey := contextKey(field.Context, builder.ContextLabelKey)
	descriptionKey := contextKey(field.Context, builder.ContextDescriptionKey)
	placeholderKey := contextKey(field.Context, builder.ContextPlaceholderKey)
	if labelKey == "" && descriptionKey == "" && placeholderKey == "" {
		return field
	}

	field.Context = model.CloneContext(field.Context)
	if labelKey != "" {
		field.Label = translate(opts, labelKey, field.Label)
	}
	localizeContext(field.Context, "description", descriptionKey, opts)
	localizeContext(field.Context, "placeholder", placeholderKey, opts)
	return field
}

func localizeContext(ctx map[string]any, name, key string, opts RenderOptions) {
	if key == "" {
		return
	}
	switch fallback := ctx[name].(type) {
	case nil:
		ctx[name] = translate(opts, key, "")
	case string:
		ctx[name] = translate(opts, key, fallback)
	default:
		if msg, err := lookup(opts, key); err == nil && msg != "" {
			ctx[name] = msg
		}
	}
}

func contextKey(ctx map[string]any, name string) string {
	key, _ := ctx[name].(string)
	return strings.TrimSpace(key)
}

// lookup returns the translation, or "" and the reason there is none.
func lookup(opts RenderOptions, key string, args ...any) (string, error) {
	if opts.Translator == nil {
		return "", ErrMissingTranslator
	}
	msg, err := opts.Translator.Translate(opts.Locale, key, args...)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(msg) == "" {
		return "", nil
	}
	return msg, nil
}

func translate(opts RenderOptions, key, fallback string) string {
	msg, err := lookup(opts, key)
	if err == nil && msg != "" {
		return msg
	}
	if opts.OnMissing != nil {
		return opts.OnMissing(opts.Locale, key, []any{map[string]any{"default": fallback}}, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
