package templates

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

func TestResolver_Precedence(t *testing.T) {
	r := NewResolver()
	target := Target{
		TemplateType: model.TemplateFieldWrapper,
		ElementType:  model.ElementField,
		ElementID:    "site_title",
		Default:      "fields/wrapper",
	}

	mustSet(t, r.SetDefault(model.TemplateFieldWrapper, "fields/wrapper-d"))
	mustSet(t, r.SetOverride(model.ElementField, "site_title", model.TemplateFieldWrapper, "fields/wrapper-o"))

	assertResolution(t, r, target, "fields/wrapper-o", SourceElement)

	r.RemoveOverride(model.ElementField, "site_title", model.TemplateFieldWrapper)
	assertResolution(t, r, target, "fields/wrapper-d", SourceDefault)

	r.RemoveDefault(model.TemplateFieldWrapper)
	assertResolution(t, r, target, "fields/wrapper", SourceBuiltin)
}

func TestResolver_OverridesAreScopedToElement(t *testing.T) {
	r := NewResolver()
	mustSet(t, r.SetOverride(model.ElementGroup, "social", model.TemplateGroup, "groups/card"))

	assertResolution(t, r, Target{
		TemplateType: model.TemplateGroup,
		ElementType:  model.ElementGroup,
		ElementID:    "billing",
		Default:      "groups/default",
	}, "groups/default", SourceBuiltin)

	assertResolution(t, r, Target{
		TemplateType: model.TemplateGroup,
		ElementType:  model.ElementFieldset,
		ElementID:    "social",
		Default:      "fieldsets/default",
	}, "fieldsets/default", SourceBuiltin)
}

func TestResolver_CallbackShortCircuits(t *testing.T) {
	r := NewResolver()
	mustSet(t, r.SetOverride(model.ElementSection, "general", model.TemplateSection, "sections/card"))
	mustSet(t, r.SetCallback("general", func(context.Context, map[string]any) (string, error) {
		return "<div>custom</div>", nil
	}))

	got, err := r.Resolve(Target{TemplateType: model.TemplateSection, ElementType: model.ElementSection, ElementID: "general"}, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !got.UsesCallback() || got.Source != SourceCallback {
		t.Fatalf("expected callback resolution, got %+v", got)
	}

	r.ClearElement(model.ElementSection, "general")
	got, _ = r.Resolve(Target{TemplateType: model.TemplateSection, ElementType: model.ElementSection, ElementID: "general", Default: "sections/default"}, nil)
	if got.UsesCallback() || got.Key != "sections/default" {
		t.Fatalf("expected ClearElement to drop overrides and callback, got %+v", got)
	}
}

func TestResolver_EmptyKeysAreRejected(t *testing.T) {
	r := NewResolver()
	checks := []error{
		r.SetDefault(model.TemplateFieldWrapper, ""),
		r.SetDefault("", "fields/x"),
		r.SetOverride(model.ElementField, "title", model.TemplateFieldWrapper, "  "),
		r.SetOverride(model.ElementField, "", model.TemplateFieldWrapper, "fields/x"),
		r.SetOverride(model.ElementType("widget"), "title", model.TemplateFieldWrapper, "fields/x"),
		r.SetCallback("", func(context.Context, map[string]any) (string, error) { return "", nil }),
		r.ReplaceOverrides(model.TemplateOverride{
			ElementType: model.ElementField,
			ElementID:   "title",
			Overrides:   map[string]model.Override{model.TemplateFieldWrapper: {}},
		}),
	}
	for idx, err := range checks {
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("check %d: expected invalid argument, got %v", idx, err)
		}
	}
}

func TestResolver_LazyKeys(t *testing.T) {
	r := NewResolver()
	mustSet(t, r.SetOverrideFunc(model.ElementField, "plan", model.TemplateFieldWrapper, func(env map[string]any) (string, error) {
		if env["plan"] == "pro" {
			return "fields/pro", nil
		}
		return "", nil
	}))
	mustSet(t, r.SetDefault(model.TemplateFieldWrapper, "fields/wrapper-d"))
	target := Target{TemplateType: model.TemplateFieldWrapper, ElementType: model.ElementField, ElementID: "plan"}

	got, _ := r.Resolve(target, map[string]any{"plan": "pro"})
	if got.Key != "fields/pro" {
		t.Fatalf("expected lazy override, got %+v", got)
	}
	got, _ = r.Resolve(target, map[string]any{"plan": "free"})
	if got.Key != "fields/wrapper-d" {
		t.Fatalf("expected empty lazy key to defer to default, got %+v", got)
	}

	mustSet(t, r.SetOverrideFunc(model.ElementField, "plan", model.TemplateFieldWrapper, func(map[string]any) (string, error) {
		return "", errors.New("boom")
	}))
	if _, err := r.Resolve(target, nil); err == nil {
		t.Fatalf("expected resolver error")
	}
}

func TestResolver_ReplaceOverridesAndImport(t *testing.T) {
	r := NewResolver()
	mustSet(t, r.ReplaceOverrides(model.TemplateOverride{
		ElementType: model.ElementField,
		ElementID:   "title",
		Overrides:   map[string]model.Override{model.TemplateFieldWrapper: {Key: "fields/hero"}},
	}))
	mustSet(t, r.ReplaceOverrides(model.TemplateOverride{ElementType: model.ElementField, ElementID: "title"}))

	target := Target{TemplateType: model.TemplateFieldWrapper, ElementType: model.ElementField, ElementID: "title", Default: "fields/wrapper"}
	assertResolution(t, r, target, "fields/wrapper", SourceBuiltin)

	shared := NewResolver()
	mustSet(t, shared.SetDefault(model.TemplateFieldWrapper, "fields/shared"))
	local := shared.Clone()
	mustSet(t, local.SetDefault(model.TemplateFieldWrapper, "fields/local"))
	assertResolution(t, shared, target, "fields/shared", SourceDefault)

	r.Import(local)
	assertResolution(t, r, target, "fields/local", SourceDefault)
}

func mustSet(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func assertResolution(t *testing.T, r *Resolver, target Target, key string, source Source) {
	t.Helper()
	got, err := r.Resolve(target, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Key != key || got.Source != source {
		t.Fatalf("expected %s from %s, got %s from %s", key, source, got.Key, got.Source)
	}
}
