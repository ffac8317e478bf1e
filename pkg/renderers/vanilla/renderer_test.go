package vanilla_test

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	gotemplatepkg "github.com/goliatone/go-template"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func newRenderer(t *testing.T, opts ...vanilla.Option) *vanilla.Renderer {
	t.Helper()
	renderer, err := vanilla.New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func assertContains(t *testing.T, markup string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(markup, fragment) {
			t.Fatalf("expected %q in markup:\n%s", fragment, markup)
		}
	}
}

func TestRenderer_InputComponent(t *testing.T) {
	renderer := newRenderer(t)

	result, err := renderer.Render(testsupport.Context(), "text", map[string]any{
		"field": map[string]any{
			"id":       "title",
			"label":    "Title",
			"required": true,
			"attributes": map[string]any{
				"name":   "site[title]",
				"data-x": "1",
				"class":  "wide fb-reserved",
			},
		},
		"context": map[string]any{"type": "text", "placeholder": "Your title"},
		"value":   `Hello "world"`,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	assertContains(t, result.Markup,
		`id="fb-title"`,
		`name="site[title]"`,
		`type="text"`,
		`class="formbuilder-control wide"`,
		`value="Hello &quot;world&quot;"`,
		`placeholder="Your title"`,
		` required`,
		` data-x="1"`,
	)
	if len(result.Assets) != 1 || result.Assets[0].Source != "/assets/formbuilder/formbuilder-vanilla.css" {
		t.Fatalf("unexpected assets %#v", result.Assets)
	}
	if result.RequiresMedia {
		t.Fatalf("text input must not require media")
	}
}

func TestRenderer_SelectMarksDefaults(t *testing.T) {
	renderer := newRenderer(t)

	result, err := renderer.Render(testsupport.Context(), "select", map[string]any{
		"field": map[string]any{"id": "tags"},
		"context": map[string]any{
			"multiple":       true,
			"default_values": []any{"news"},
			"options": []map[string]any{
				{"value": "news", "label": "News"},
				{"value": "events", "label": "Events"},
			},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, result.Markup,
		`name="tags[]"`,
		` multiple`,
		`<option value="news" selected>News</option>`,
		`<option value="events">Events</option>`,
	)
}

func TestRenderer_MediaRequiresLibrary(t *testing.T) {
	renderer := newRenderer(t)

	result, err := renderer.Render(testsupport.Context(), "media", map[string]any{
		"field":   map[string]any{"id": "avatar"},
		"context": map[string]any{"mime_types": []string{"image/png", "image/jpeg"}},
		"value":   42,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !result.RequiresMedia {
		t.Fatalf("expected media requirement")
	}
	assertContains(t, result.Markup, `data-mime-types="image/png,image/jpeg"`, `value="42"`)

	var handles []string
	for _, asset := range result.Assets {
		handles = append(handles, asset.Handle)
	}
	if strings.Join(handles, ",") != components.HandleStyles+","+components.HandleMedia {
		t.Fatalf("unexpected asset handles %v", handles)
	}
}

func TestRenderer_WrapperSanitisesDescription(t *testing.T) {
	renderer := newRenderer(t)

	result, err := renderer.Render(testsupport.Context(), "field-wrapper", map[string]any{
		"field": map[string]any{
			"id":          "bio",
			"label":       "Bio",
			"component":   "textarea",
			"description": `Use <b>markdown</b><script>alert(1)</script>`,
			"style":       "wide",
		},
		"control": `<textarea id="fb-bio"></textarea>`,
		"errors":  []string{"Too long"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, result.Markup,
		`class="formbuilder-field formbuilder-field--wide"`,
		`<label for="fb-bio" id="fb-bio-label">Bio</label>`,
		`<textarea id="fb-bio"></textarea>`,
		`Use <b>markdown</b>`,
		`role="alert">Too long</p>`,
	)
	if strings.Contains(result.Markup, "<script>") {
		t.Fatalf("description must be sanitised:\n%s", result.Markup)
	}
	if len(result.Assets) != 0 {
		t.Fatalf("chrome templates carry no assets")
	}
}

func TestRenderer_ThemeAndOverrides(t *testing.T) {
	overrides := fstest.MapFS{
		"section.tmpl": {Data: []byte(`<div class="custom">{{ container.id }}</div>`)},
	}
	renderer := newRenderer(t,
		vanilla.WithTemplatesFS(overrides),
		vanilla.WithTheme(&theme.RendererConfig{
			Theme:   "acme",
			Variant: "dark",
			CSSVars: map[string]string{"--primary": "#111", "--border": "#333"},
			AssetURL: func(key string) string {
				if key == components.HandleStyles {
					return "https://cdn.example.com/acme.css"
				}
				return ""
			},
		}),
		vanilla.WithChromeClasses(map[string]string{"form": "acme-form"}),
	)

	section, err := renderer.Render(testsupport.Context(), "section", map[string]any{
		"container": map[string]any{"id": "general", "kind": "section"},
	})
	if err != nil {
		t.Fatalf("render section: %v", err)
	}
	if section.Markup != `<div class="custom">general</div>` {
		t.Fatalf("expected override template, got %q", section.Markup)
	}

	form, err := renderer.Render(testsupport.Context(), "form", map[string]any{
		"form":    map[string]any{"id": "settings"},
		"content": "<section></section>",
		"hidden":  []map[string]any{{"name": "_csrf", "value": "abc"}},
	})
	if err != nil {
		t.Fatalf("render form: %v", err)
	}
	assertContains(t, form.Markup,
		`class="acme-form"`,
		`style="--border: #333; --primary: #111;"`,
		`<input type="hidden" name="_csrf" value="abc">`,
		`<section></section>`,
	)

	input, err := renderer.Render(testsupport.Context(), "color", map[string]any{
		"field": map[string]any{"id": "accent"},
	})
	if err != nil {
		t.Fatalf("render color: %v", err)
	}
	sources := map[string]string{}
	for _, asset := range input.Assets {
		sources[asset.Handle] = asset.Source
	}
	if sources[components.HandleStyles] != "https://cdn.example.com/acme.css" {
		t.Fatalf("expected themed stylesheet, got %v", sources)
	}
	if sources[components.HandleColor] != "/assets/formbuilder/formbuilder-color.js" {
		t.Fatalf("expected default script source, got %v", sources)
	}
}

func TestRenderer_Errors(t *testing.T) {
	renderer := newRenderer(t)

	if _, err := renderer.Render(testsupport.Context(), "", nil); err == nil {
		t.Fatalf("expected empty key to fail")
	}
	if _, err := renderer.Render(testsupport.Context(), "missing-template", nil); err == nil {
		t.Fatalf("expected unknown template to fail")
	}
}

func TestRenderer_SatisfiesComponentRenderer(t *testing.T) {
	var _ render.ComponentRenderer = newRenderer(t)
}

func TestAssetsFS(t *testing.T) {
	for _, name := range []string{components.StylesheetFile, components.ColorScriptFile, components.MediaScriptFile} {
		if _, err := fs.ReadFile(vanilla.AssetsFS(), name); err != nil {
			t.Fatalf("expected %s to be embedded: %v", name, err)
		}
	}
}

func TestRenderer_EngineHooks(t *testing.T) {
	var rendered []string
	renderer := newRenderer(t, vanilla.WithEngineOptions(
		gotemplate.WithPostHook(func(hctx *gotemplatepkg.HookContext) (string, error) {
			rendered = append(rendered, hctx.TemplateName)
			return hctx.Output + "<!-- " + hctx.TemplateName + " -->", nil
		}),
	))

	result, err := renderer.Render(testsupport.Context(), "text", map[string]any{
		"field": map[string]any{"id": "title"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(rendered) != 1 {
		t.Fatalf("expected one hooked render, got %v", rendered)
	}
	if !strings.HasSuffix(result.Markup, "<!-- "+rendered[0]+" -->") {
		t.Fatalf("expected post hook output, got %q", result.Markup)
	}
}
