package builder_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/component"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/scope"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func TestContainer_FieldRejectsEmptyAlias(t *testing.T) {
	cases := []struct {
		id    string
		label string
	}{
		{"title", "Title"},
		{"", ""},
		{"with space", "Label"},
		{"site_title", ""},
	}

	section := builder.NewRoot("settings", nil).Section("general")
	for _, tc := range cases {
		for _, alias := range []string{"", "   "} {
			if _, err := section.Field(tc.id, tc.label, alias, nil); !errors.Is(err, builder.ErrInvalidArgument) {
				t.Fatalf("Field(%q, %q, %q): expected invalid argument, got %v", tc.id, tc.label, alias, err)
			}
		}
	}
}

func TestContainer_FieldValidatesOptions(t *testing.T) {
	section := builder.NewRoot("settings", nil).Section("general")

	if _, err := section.Field("title", "", component.AliasText, map[string]any{"context": "nope"}); !errors.Is(err, builder.ErrInvalidArgument) {
		t.Fatalf("expected non-map context to fail, got %v", err)
	}
	if _, err := section.Field("title", "", "rich-editor", nil); !errors.Is(err, builder.ErrInvalidArgument) {
		t.Fatalf("expected unregistered alias to fail, got %v", err)
	}
	if _, err := section.Field("title", "", component.AliasText, map[string]any{"colour": "red"}); !errors.Is(err, builder.ErrInvalidArgument) {
		t.Fatalf("expected unknown option to fail, got %v", err)
	}

	section.MustField("title", "", component.AliasText, nil)
	if _, err := section.Field("title", "", component.AliasText, nil); !errors.Is(err, builder.ErrInvalidArgument) {
		t.Fatalf("expected duplicate field id to fail, got %v", err)
	}
}

func TestContainer_FieldOptions(t *testing.T) {
	rec := testsupport.NewRecorder()
	section := builder.NewRoot("settings", rec).Section("general")

	section.MustField("site_title", "", component.AliasText, map[string]any{
		"context":  map[string]any{"placeholder": "My site"},
		"template": "fields/wide",
		"order":    "4",
	})

	last, ok := rec.LastField("site_title")
	if !ok {
		t.Fatalf("expected field events")
	}
	if last.Label != "Site Title" {
		t.Fatalf("expected derived label, got %q", last.Label)
	}
	if last.Order != 4 {
		t.Fatalf("expected order option to decode, got %d", last.Order)
	}
	if last.Context["placeholder"] != "My site" {
		t.Fatalf("expected seeded context, got %#v", last.Context)
	}
	if last.ContainerID != "general" || last.SectionID != "general" {
		t.Fatalf("unexpected placement %s/%s", last.SectionID, last.ContainerID)
	}
	overrides := rec.Overrides("site_title")
	if len(overrides) != 1 || overrides[0].Overrides[model.TemplateFieldWrapper].Key != "fields/wide" {
		t.Fatalf("expected field-wrapper override, got %#v", overrides)
	}
}

func TestContainer_FieldAcceptsStringContext(t *testing.T) {
	rec := testsupport.NewRecorder()
	section := builder.NewRoot("settings", rec).Section("general")
	options := map[string]any{"context": map[string]string{"placeholder": "My site"}}

	if _, err := section.Field("site_title", "", component.AliasText, options); err != nil {
		t.Fatalf("field with string context: %v", err)
	}
	last, _ := rec.LastField("site_title")
	if last.Context["placeholder"] != "My site" {
		t.Fatalf("expected seeded context, got %#v", last.Context)
	}
	if _, ok := options["context"].(map[string]string); !ok {
		t.Fatalf("caller options must not be modified")
	}
}

func TestFieldProxy_EndFieldPreservesIdentity(t *testing.T) {
	rec := testsupport.NewRecorder()
	root := builder.NewRoot("settings", rec)
	section := root.Section("general")
	field := section.MustField("title", "Title", component.AliasText, nil)
	before := len(rec.Events)

	if got := field.EndField(); got != section {
		t.Fatalf("expected EndField to return the creating container")
	}
	if got := field.EndSection(); got != root {
		t.Fatalf("expected EndSection to return the root")
	}
	if len(rec.Events) != before {
		t.Fatalf("navigation must not emit, got %d new events", len(rec.Events)-before)
	}
}

func TestContainer_NestedNavigation(t *testing.T) {
	root := builder.NewRoot("settings", nil)
	section := root.Section("general")
	group := section.Group("social")
	fieldset := group.Fieldset("links")

	field := fieldset.MustField("twitter", "", component.AliasURL, nil)
	if field.Snapshot().GroupID != "social" {
		t.Fatalf("expected group id inherited from enclosing group, got %q", field.Snapshot().GroupID)
	}
	if field.Snapshot().SectionID != "general" {
		t.Fatalf("expected section id general, got %q", field.Snapshot().SectionID)
	}
	if got := field.EndFieldset(); got != group {
		t.Fatalf("expected EndFieldset to return the group")
	}
	if got := field.EndGroup(); got != section {
		t.Fatalf("expected EndGroup to return the section")
	}
	if got := field.EndCollection(); got != group {
		t.Fatalf("expected EndCollection to close the nearest collection")
	}
	if got := field.End(); got != root {
		t.Fatalf("expected End to return the root")
	}
	if got := section.Group("social"); got != group {
		t.Fatalf("expected Group to return the existing container")
	}
}

func TestContainer_MetadataEvents(t *testing.T) {
	rec := testsupport.NewRecorder()
	section := builder.NewRoot("settings", rec).Section("general")

	section.Heading("General").Description("Site wide settings").Order(-3).Style("boxed").Style("")

	last, ok := rec.LastContainer("general")
	if !ok {
		t.Fatalf("expected metadata events")
	}
	want := model.ContainerSnapshot{
		ID:          "general",
		Kind:        model.ElementSection,
		SectionID:   "general",
		Heading:     "General",
		Description: "Site wide settings",
	}
	if diff := cmp.Diff(want, last); diff != "" {
		t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
	}
	if got := len(rec.OfType(model.EventMetadata)); got != 6 {
		t.Fatalf("expected one metadata event per call plus creation, got %d", got)
	}
}

func TestContainer_TemplateOverride(t *testing.T) {
	rec := testsupport.NewRecorder()
	group := builder.NewRoot("settings", rec).Section("general").Group("social")

	group.Template(model.TemplateGroup, "groups/card")

	overrides := rec.Overrides("social")
	if len(overrides) != 1 {
		t.Fatalf("expected one override event, got %d", len(overrides))
	}
	if overrides[0].ElementType != model.ElementGroup || overrides[0].Overrides[model.TemplateGroup].Key != "groups/card" {
		t.Fatalf("unexpected override %#v", overrides[0])
	}

	err := builder.Catch(func() { group.Template("", "groups/card") })
	if !errors.Is(err, builder.ErrInvalidArgument) {
		t.Fatalf("expected empty template type to fail, got %v", err)
	}
}

func TestRoot_ScopeDerivesFieldNames(t *testing.T) {
	rec := testsupport.NewRecorder()
	storage, err := scope.Option("site_settings")
	if err != nil {
		t.Fatalf("scope: %v", err)
	}
	section := builder.NewRoot("settings", rec, builder.WithScope(storage)).Section("general")

	section.MustField("title", "", component.AliasText, nil)
	section.MustField("slug", "", component.AliasText, map[string]any{
		"context": map[string]any{"name": "custom_slug"},
	})

	title, _ := rec.LastField("title")
	attrs, _ := title.Context["attributes"].(map[string]any)
	if attrs["name"] != "site_settings[title]" {
		t.Fatalf("expected scoped name, got %#v", attrs["name"])
	}
	slug, _ := rec.LastField("slug")
	attrs, _ = slug.Context["attributes"].(map[string]any)
	if attrs["name"] != "custom_slug" {
		t.Fatalf("expected explicit name to win, got %#v", attrs["name"])
	}
}

func TestRoot_FoldsIntoModel(t *testing.T) {
	m := model.New()
	root := builder.NewRoot("settings", m)

	root.Section("general").
		Heading("General").
		MustField("title", "", component.AliasText, nil).Order(2).EndField().
		MustField("tagline", "", component.AliasText, nil).Order(1).EndField().
		Group("social").
		MustField("twitter", "", component.AliasURL, nil).
		End().
		Commit().
		Commit()

	sections, orphans := m.Tree()
	if len(orphans) != 0 {
		t.Fatalf("unexpected orphans %v", orphans)
	}
	if len(sections) != 1 || !sections[0].Committed {
		t.Fatalf("expected one committed section, got %#v", sections)
	}

	var order []string
	for _, child := range sections[0].Children {
		switch {
		case child.Field != nil:
			order = append(order, child.Field.ID)
		case child.Node != nil:
			order = append(order, child.Node.Container.ID)
		}
	}
	if diff := cmp.Diff([]string{"social", "tagline", "title"}, order); diff != "" {
		t.Fatalf("child order mismatch (-want +got):\n%s", diff)
	}
	if !m.Committed("social") {
		t.Fatalf("expected nested containers committed")
	}
}
