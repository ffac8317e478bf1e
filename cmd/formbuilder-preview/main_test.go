package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func TestRenderPage_SampleForm(t *testing.T) {
	values := filepath.Join(t.TempDir(), "values.json")
	if err := os.WriteFile(values, []byte(`{"timezone": "Europe/Paris", "title": "Docs"}`), 0o644); err != nil {
		t.Fatalf("write values: %v", err)
	}

	page, err := renderPage(testsupport.Context(), options{storage: "site_settings", values: values}, hclog.NewNullLogger())
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	for _, fragment := range []string{
		"<!doctype html>",
		`name="site_settings[timezone]"`,
		`<option value="">Site default</option>`,
		`<option value="Europe/Paris" selected>Europe/Paris</option>`,
		`value="Docs"`,
		`name="_wpnonce" value="preview"`,
	} {
		if !strings.Contains(page, fragment) {
			t.Fatalf("expected %q in page:\n%s", fragment, page)
		}
	}
}

func TestRun_WritesOutputFile(t *testing.T) {
	output := filepath.Join(t.TempDir(), "preview.html")
	if err := run([]string{"--output", output, "--log-level", "error"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `data-component="timezone"`) {
		t.Fatalf("expected timezone field in preview:\n%s", data)
	}
}

func TestLoadValues_RejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.json")
	if err := os.WriteFile(path, []byte(`{`), 0o644); err != nil {
		t.Fatalf("write values: %v", err)
	}
	if _, err := loadValues(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
