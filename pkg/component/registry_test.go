package component

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func TestDefaultRegistry_BuiltIns(t *testing.T) {
	registry := NewDefaultRegistry()

	want := []string{
		AliasCheckbox, AliasColor, AliasEmail, AliasHidden, AliasMedia, AliasNumber,
		AliasPassword, AliasSelect, AliasText, AliasTextarea, AliasURL,
	}
	if diff := cmp.Diff(want, registry.Names()); diff != "" {
		t.Fatalf("aliases mismatch (-want +got):\n%s", diff)
	}

	factory, ok := registry.Factory(" Email ")
	if !ok {
		t.Fatalf("expected alias lookup to be normalised")
	}
	snapshot := factory("contact", "Contact").Snapshot()
	if snapshot.Component != AliasEmail || snapshot.Context["type"] != "email" {
		t.Fatalf("unexpected snapshot %#v", snapshot)
	}
}

func TestRegistry_RegisterValidation(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register("", Manifest{Factory: NewTextarea}); err == nil {
		t.Fatalf("expected empty alias to fail")
	}
	if err := registry.Register("rich", Manifest{}); err == nil {
		t.Fatalf("expected nil factory to fail")
	}
}

func TestRegistry_CloneIsIndependent(t *testing.T) {
	shared := NewDefaultRegistry()
	local := shared.Clone()
	local.MustRegister("rating", Manifest{Factory: NewInput("rating", "number")})

	if _, ok := shared.Factory("rating"); ok {
		t.Fatalf("clone leaked into shared registry")
	}
	if _, ok := local.Factory("rating"); !ok {
		t.Fatalf("expected clone registration")
	}
}

func TestRegistry_SchemaMergesManifestDefaults(t *testing.T) {
	registry := NewDefaultRegistry()

	bundle, err := registry.Schema(AliasEmail, validation.Fragment{
		Validators: []validation.Validator{validation.Choice("ops@example.com")},
	})
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if diff := cmp.Diff([]string{"email", "choice", "text"}, bundle.ValidatorNames()); diff != "" {
		t.Fatalf("validators mismatch (-want +got):\n%s", diff)
	}

	_, err = registry.Schema(AliasColor, validation.Fragment{SchemaValidators: []validation.Validator{}})
	if !errors.Is(err, validation.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	_, err = registry.Schema("missing", validation.Fragment{})
	if !errors.Is(err, validation.ErrConfiguration) {
		t.Fatalf("expected unknown alias to fail, got %v", err)
	}
}

func TestBase_MethodsAndCapabilities(t *testing.T) {
	sel := NewSelect("tags", "Tags")

	method, ok := sel.Method("defaultValues")
	if !ok || !method.Fluent {
		t.Fatalf("expected fluent defaultValues")
	}
	result, err := method.Call("a", []any{"b", "c"})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if result != sel {
		t.Fatalf("expected fluent method to return the outer definition")
	}
	if diff := cmp.Diff([]any{"a", "b", "c"}, sel.Snapshot().Context["default_values"]); diff != "" {
		t.Fatalf("default values mismatch (-want +got):\n%s", diff)
	}

	query, _ := sel.Method("optionCount")
	if query.Fluent {
		t.Fatalf("expected query method to be non-fluent")
	}
	count, _ := query.Call()
	if IsFluentResult(count) {
		t.Fatalf("expected non-definition result")
	}

	base := NewBase("text", "title", "Title")
	base.SetAttribute("data-test", "value")
	base.SetDescription("Help")
	base.SetDescription("")
	snapshot := base.Snapshot()
	if _, ok := snapshot.Context["description"]; ok {
		t.Fatalf("expected empty description to clear")
	}
	snapshot.Context["attributes"].(map[string]any)["data-test"] = "mutated"
	if base.Snapshot().Context["attributes"].(map[string]any)["data-test"] != "value" {
		t.Fatalf("snapshot aliased definition state")
	}
}
