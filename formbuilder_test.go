package formbuilder

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/component"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla/components"
)

func TestAssetsFSContainsBundles(t *testing.T) {
	fsys := AssetsFS()
	for _, name := range []string{components.StylesheetFile, components.ColorScriptFile, components.MediaScriptFile} {
		if _, err := fs.ReadFile(fsys, name); err != nil {
			t.Fatalf("expected %s to be readable: %v", name, err)
		}
	}
}

func TestEmbeddedTemplatesIncludeForm(t *testing.T) {
	data, err := fs.ReadFile(EmbeddedTemplates(), "form.tmpl")
	if err != nil {
		t.Fatalf("expected form template: %v", err)
	}
	if !strings.Contains(string(data), "<form") {
		t.Fatalf("unexpected form template %q", data)
	}
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML(context.Background(), "profile", func(form *Form) {
		form.Builder().Section("about").
			MustField("bio", "", component.AliasTextarea, nil).
			Description("<b>Markdown</b> is not supported<script>alert(1)</script>")
	}, RenderOptions{Values: map[string]any{"bio": "Hi"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out.Markup, `<form id="profile"`) || !strings.Contains(out.Markup, "Hi</textarea>") {
		t.Fatalf("unexpected markup:\n%s", out.Markup)
	}
	if strings.Contains(out.Markup, "<script>") {
		t.Fatalf("expected description to be sanitised:\n%s", out.Markup)
	}
	if len(out.Styles) != 1 || out.Styles[0].Source != "/assets/formbuilder/"+components.StylesheetFile {
		t.Fatalf("unexpected styles %#v", out.Styles)
	}
}
