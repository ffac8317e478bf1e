package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

type catalog map[string]map[string]string

func (c catalog) Translate(locale, key string, _ ...any) (string, error) {
	messages, ok := c[locale]
	if !ok {
		return "", errors.New("unknown locale " + locale)
	}
	return messages[key], nil
}

func localizedTree() []model.Node {
	return []model.Node{{
		Container: model.ContainerSnapshot{
			ID:             "general",
			Kind:           model.ElementSection,
			Heading:        "General",
			HeadingKey:     "sections.general",
			Description:    "Basic settings",
			DescriptionKey: "sections.general.help",
		},
		Children: []model.Child{
			{Field: &model.FieldSnapshot{
				ID:    "title",
				Label: "Title",
				Context: map[string]any{
					"label_key":       "fields.title",
					"placeholder":     "My site",
					"placeholder_key": "fields.title.placeholder",
				},
			}},
			{Field: &model.FieldSnapshot{ID: "debug", Label: "Debug"}},
		},
	}}
}

func TestLocalizeTree(t *testing.T) {
	messages := catalog{"es": {
		"sections.general":         "General (es)",
		"fields.title":             "Título",
		"fields.title.placeholder": "Mi sitio",
	}}
	sections := localizedTree()

	out := render.LocalizeTree(sections, render.RenderOptions{Locale: "es", Translator: messages})

	section := out[0].Container
	if section.Heading != "General (es)" {
		t.Fatalf("expected translated heading, got %q", section.Heading)
	}
	if section.Description != "Basic settings" {
		t.Fatalf("expected description fallback, got %v", section.Description)
	}
	title := out[0].Children[0].Field
	if title.Label != "Título" || title.Context["placeholder"] != "Mi sitio" {
		t.Fatalf("unexpected field localization %q %v", title.Label, title.Context["placeholder"])
	}
	if out[0].Children[1].Field.Label != "Debug" {
		t.Fatalf("fields without keys should be untouched, got %q", out[0].Children[1].Field.Label)
	}

	if diff := cmp.Diff(localizedTree(), sections); diff != "" {
		t.Fatalf("input tree modified (-want +got):\n%s", diff)
	}
}

func TestLocalizeTree_MissingTranslations(t *testing.T) {
	t.Run("no translator keeps declared text", func(t *testing.T) {
		out := render.LocalizeTree(localizedTree(), render.RenderOptions{})
		if out[0].Container.Heading != "General" {
			t.Fatalf("expected fallback heading, got %q", out[0].Container.Heading)
		}
		if out[0].Children[0].Field.Label != "Title" {
			t.Fatalf("expected fallback label, got %q", out[0].Children[0].Field.Label)
		}
	})

	t.Run("empty fallback renders key", func(t *testing.T) {
		tree := []model.Node{{Container: model.ContainerSnapshot{ID: "s", Kind: model.ElementSection, HeadingKey: "sections.s"}}}
		out := render.LocalizeTree(tree, render.RenderOptions{Translator: catalog{}})
		if out[0].Container.Heading != "sections.s" {
			t.Fatalf("expected key as heading, got %q", out[0].Container.Heading)
		}
	})

	t.Run("handler receives translator error", func(t *testing.T) {
		var gotErr error
		opts := render.RenderOptions{
			Locale:     "fr",
			Translator: catalog{},
			OnMissing: func(locale, key string, _ []any, err error) string {
				gotErr = err
				return "[" + locale + ":" + key + "]"
			},
		}
		out := render.LocalizeTree(localizedTree(), opts)
		if out[0].Container.Heading != "[fr:sections.general]" {
			t.Fatalf("unexpected heading %q", out[0].Container.Heading)
		}
		if gotErr == nil {
			t.Fatalf("expected translator error to reach handler")
		}
	})

	t.Run("handler receives missing translator", func(t *testing.T) {
		var gotErr error
		render.LocalizeTree(localizedTree(), render.RenderOptions{
			OnMissing: func(_, key string, _ []any, err error) string {
				gotErr = err
				return key
			},
		})
		if !errors.Is(gotErr, render.ErrMissingTranslator) {
			t.Fatalf("expected ErrMissingTranslator, got %v", gotErr)
		}
	})
}

func TestLocalizeTree_LazyDescriptionKeptWithoutTranslation(t *testing.T) {
	lazy := func(map[string]any) string { return "computed" }
	tree := []model.Node{{Container: model.ContainerSnapshot{
		ID: "s", Kind: model.ElementSection, Description: lazy, DescriptionKey: "sections.s.help",
	}}}

	out := render.LocalizeTree(tree, render.RenderOptions{Translator: catalog{"": {}}})
	if _, ok := out[0].Container.Description.(func(map[string]any) string); !ok {
		t.Fatalf("expected lazy description to stay, got %T", out[0].Container.Description)
	}

	out = render.LocalizeTree(tree, render.RenderOptions{Translator: catalog{"": {"sections.s.help": "Ayuda"}}})
	if out[0].Container.Description != "Ayuda" {
		t.Fatalf("expected translated description, got %v", out[0].Container.Description)
	}
}

func TestTemplateTranslate(t *testing.T) {
	fn := render.TemplateTranslate(render.RenderOptions{
		Locale: "es",
		Translator: render.TranslatorFunc(func(locale, key string, args ...any) (string, error) {
			if key == "greeting" {
				return "Hola " + args[0].(string), nil
			}
			return "", nil
		}),
	})
	if got := fn("greeting", "Ana"); got != "Hola Ana" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got := fn("missing"); got != "missing" {
		t.Fatalf("expected key for missing translation, got %q", got)
	}
	if got := fn("  "); got != "" {
		t.Fatalf("expected empty output for blank key, got %q", got)
	}
}

func TestTranslate(t *testing.T) {
	opts := render.RenderOptions{Locale: "es", Translator: catalog{"es": {"actions.save": "Guardar"}}}
	if got := render.Translate(opts, "actions.save", "Save"); got != "Guardar" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got := render.Translate(opts, "actions.cancel", "Cancel"); got != "Cancel" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := render.Translate(opts, "", "Save"); got != "Save" {
		t.Fatalf("expected fallback for blank key, got %q", got)
	}
}
