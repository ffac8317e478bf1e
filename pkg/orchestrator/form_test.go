package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/component"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/resolve"
	"github.com/goliatone/go-formbuilder/pkg/scope"
	"github.com/goliatone/go-formbuilder/pkg/templates"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

func mustRender(t *testing.T, form *orchestrator.Form, opts render.RenderOptions) orchestrator.Output {
	t.Helper()
	out, err := form.Render(testsupport.Context(), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func findCall(stub *testsupport.StubRenderer, key string) (testsupport.Call, bool) {
	for _, call := range stub.Calls {
		if call.Key == key {
			return call, true
		}
	}
	return testsupport.Call{}, false
}

func TestForm_RenderWalksTreeInOrder(t *testing.T) {
	stub := testsupport.NewStubRenderer()
	storage, err := scope.Option("site_settings")
	if err != nil {
		t.Fatalf("scope: %v", err)
	}
	form := orchestrator.New("settings",
		orchestrator.WithRenderer(stub),
		orchestrator.WithScope(storage),
		orchestrator.WithHidden(render.Nonce("_wpnonce", "abc")),
		orchestrator.WithAction("/options.php"),
	)

	form.Builder().Section("general").
		Heading("General").
		MustField("title", "", component.AliasText, nil).Required().EndField().
		Group("social").
		MustField("twitter", "", component.AliasURL, nil).
		End()

	out := mustRender(t, form, render.RenderOptions{
		Values: map[string]any{"title": "Hello"},
		Errors: map[string][]string{
			"site_settings[title]": {"Title is required"},
			"unknown":              {"Something went wrong"},
		},
	})

	want := []string{"text", "field-wrapper", "url", "field-wrapper", "group", "section", "form"}
	if diff := cmp.Diff(want, stub.Keys()); diff != "" {
		t.Fatalf("render order mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(out.Markup, "<form ") {
		t.Fatalf("expected form markup, got %q", out.Markup)
	}

	control, _ := findCall(stub, "text")
	if control.Data["value"] != "Hello" {
		t.Fatalf("expected submitted value, got %#v", control.Data["value"])
	}
	field, _ := control.Data["field"].(map[string]any)
	if field["required"] != true || field["label"] != "Title" {
		t.Fatalf("unexpected field data %#v", field)
	}
	if diff := cmp.Diff([]string{"Title is required"}, control.Data["errors"]); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wrapper, _ := findCall(stub, "field-wrapper")
	if wrapper.Data["control"] != wrapper.Data[render.ConfigComponentHTML] {
		t.Fatalf("expected control markup in wrapper data and config")
	}

	formCall, _ := findCall(stub, "form")
	wantHidden := []map[string]any{
		{"name": "_scope", "value": "option"},
		{"name": "_storage_key", "value": "site_settings"},
		{"name": "_wpnonce", "value": "abc"},
	}
	if diff := cmp.Diff(wantHidden, formCall.Data["hidden"]); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Something went wrong"}, formCall.Data["errors"]); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	formData, _ := formCall.Data["form"].(map[string]any)
	if formData["action"] != "/options.php" || formData["method"] != "POST" {
		t.Fatalf("unexpected form data %#v", formData)
	}
}

func TestForm_RenderIsSingleUse(t *testing.T) {
	form := orchestrator.New("settings", orchestrator.WithRenderer(testsupport.NewStubRenderer()))
	form.Builder().Section("general").MustField("title", "", component.AliasText, nil)

	mustRender(t, form, render.RenderOptions{})
	if _, err := form.Render(context.Background(), render.RenderOptions{}); !errors.Is(err, orchestrator.ErrAlreadyRendered) {
		t.Fatalf("expected ErrAlreadyRendered, got %v", err)
	}
}

func TestForm_OptionErrorsSurfaceOnRender(t *testing.T) {
	form := orchestrator.New("settings", orchestrator.WithTemplateOverrides(nil))
	if form.Err() == nil {
		t.Fatalf("expected option error to be kept")
	}
	if _, err := form.Render(context.Background(), render.RenderOptions{}); err == nil {
		t.Fatalf("expected render to report the option error")
	}
	if form.Builder() == nil {
		t.Fatalf("expected builder to stay usable")
	}
}

func TestForm_FailedFieldFallsBackWithoutAbortingForm(t *testing.T) {
	stub := testsupport.NewStubRenderer()
	stub.Results["text"] = render.Result{Markup: `<input name="title">`}
	stub.Errors["field-wrapper"] = errors.New("wrapper broke")
	stub.Panics["url"] = "url exploded"

	form := orchestrator.New("settings", orchestrator.WithRenderer(stub))
	form.Builder().Section("general").
		MustField("title", "", component.AliasText, nil).EndField().
		MustField("homepage", "", component.AliasURL, nil)

	out := mustRender(t, form, render.RenderOptions{})

	if len(out.Failures) != 3 {
		t.Fatalf("expected three failures (two wrappers, one control), got %v", out.Failures)
	}
	section, _ := findCall(stub, "section")
	content, _ := section.Data["content"].(string)
	if !strings.Contains(content, `<input name="title">`) {
		t.Fatalf("expected control markup to survive wrapper failure, got %q", content)
	}
	if strings.Count(content, "screen-reader-text") != 1 {
		t.Fatalf("expected a single fallback notice, got %q", content)
	}
}

func TestForm_TemplateOverridesAndCallbacks(t *testing.T) {
	stub := testsupport.NewStubRenderer()
	shared := templates.NewResolver()
	if err := shared.SetDefault(model.TemplateSection, "sections/card"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if err := shared.SetCallback("notice", func(context.Context, map[string]any) (string, error) {
		return "<p>custom</p>", nil
	}); err != nil {
		t.Fatalf("set callback: %v", err)
	}

	form := orchestrator.New("settings", orchestrator.WithRenderer(stub), orchestrator.WithResolver(shared))
	form.Builder().Section("general").
		MustField("title", "", component.AliasText, map[string]any{"template": "fields/wide"}).EndField().
		MustField("notice", "", component.AliasText, nil)

	out := mustRender(t, form, render.RenderOptions{})

	want := []string{"text", "fields/wide", "sections/card", "form"}
	if diff := cmp.Diff(want, stub.Keys()); diff != "" {
		t.Fatalf("render keys mismatch (-want +got):\n%s", diff)
	}
	section, _ := findCall(stub, "sections/card")
	if content, _ := section.Data["content"].(string); !strings.Contains(content, "<p>custom</p>") {
		t.Fatalf("expected callback markup once, got %q", content)
	}
	if len(out.Failures) != 0 {
		t.Fatalf("unexpected failures %v", out.Failures)
	}

	resolution, err := shared.Resolve(templates.Target{
		TemplateType: model.TemplateFieldWrapper,
		ElementType:  model.ElementField,
		ElementID:    "title",
		Default:      "field-wrapper",
	}, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolution.Key != "field-wrapper" {
		t.Fatalf("expected shared resolver untouched by builder overrides, got %q", resolution.Key)
	}
}

func TestForm_VisibilityAndLazyValues(t *testing.T) {
	stub := testsupport.NewStubRenderer()
	form := orchestrator.New("settings",
		orchestrator.WithRenderer(stub),
		orchestrator.WithDecorators(orchestrator.VisibleWhen(`values.plan == "pro"`, "api_key")),
	)

	var calls []string
	form.Builder().Section("general").
		Description(resolve.String(func() string { return "Lazy description" })).
		Before(func(map[string]any) string { calls = append(calls, "before"); return "<!-- before -->" }).
		After(func(map[string]any) string { panic("after hook") }).
		MustField("plan", "", component.AliasText, nil).EndField().
		MustField("api_key", "", component.AliasText, nil).
		DisabledWhen(resolve.MustWhen(`values.plan == "free"`))

	out := mustRender(t, form, render.RenderOptions{Values: map[string]any{"plan": "free"}})

	for _, call := range stub.Calls {
		if field, ok := call.Data["field"].(map[string]any); ok && field["id"] == "api_key" {
			t.Fatalf("hidden field rendered: %#v", call)
		}
	}
	section, _ := findCall(stub, "section")
	container, _ := section.Data["container"].(map[string]any)
	if container["description"] != "Lazy description" {
		t.Fatalf("expected resolved description, got %#v", container["description"])
	}
	if len(calls) != 1 {
		t.Fatalf("expected before hook once, got %d", len(calls))
	}
	if !strings.Contains(out.Markup, "<!-- before -->") {
		t.Fatalf("expected before hook output in markup, got %q", out.Markup)
	}
}

func TestForm_SubsetRendersSelectedGroups(t *testing.T) {
	stub := testsupport.NewStubRenderer()
	form := orchestrator.New("settings", orchestrator.WithRenderer(stub))
	section := form.Builder().Section("general")
	section.MustField("title", "", component.AliasText, nil)
	section.Group("social").MustField("twitter", "", component.AliasURL, nil)

	mustRender(t, form, render.RenderOptions{Subset: render.FieldSubset{Groups: []string{"social"}}})

	if _, ok := findCall(stub, "text"); ok {
		t.Fatalf("expected title to be filtered out")
	}
	if _, ok := findCall(stub, "url"); !ok {
		t.Fatalf("expected twitter to render")
	}
}

func TestForm_SinksReceiveEvents(t *testing.T) {
	rec := testsupport.NewRecorder()
	form := orchestrator.New("settings",
		orchestrator.WithRenderer(testsupport.NewStubRenderer()),
		orchestrator.WithSinks(rec),
	)
	form.Builder().Section("general").MustField("title", "", component.AliasText, nil)

	if _, ok := rec.LastField("title"); !ok {
		t.Fatalf("expected extra sink to see field events")
	}
	if _, ok := form.Model().Field("title"); !ok {
		t.Fatalf("expected model to fold field events")
	}
}

func TestForm_VisibilityEvaluatorSeesExtras(t *testing.T) {
	stub := testsupport.NewStubRenderer()
	var seen []string
	evaluator := visibility.EvaluatorFunc(func(fieldID, rule string, ctx visibility.Context) (bool, error) {
		seen = append(seen, fieldID+":"+rule)
		roles, _ := ctx.Extras["roles"].([]string)
		return len(roles) > 0 && roles[0] == "admin", nil
	})
	form := orchestrator.New("settings",
		orchestrator.WithRenderer(stub),
		orchestrator.WithVisibilityEvaluator(evaluator),
		orchestrator.WithVisibilityExtras(map[string]any{"roles": []string{"editor"}}),
	)
	form.Builder().Section("general").
		MustField("debug", "", component.AliasCheckbox, nil).VisibleWhen("is_admin")

	mustRender(t, form, render.RenderOptions{})

	if diff := cmp.Diff([]string{"debug:is_admin"}, seen); diff != "" {
		t.Fatalf("evaluator calls mismatch (-want +got):\n%s", diff)
	}
	if _, ok := findCall(stub, component.AliasCheckbox); ok {
		t.Fatalf("expected field hidden for non-admin")
	}
}

func TestForm_RenderExposesTranslateHelper(t *testing.T) {
	stub := testsupport.NewStubRenderer()
	form := orchestrator.New("settings", orchestrator.WithRenderer(stub))
	form.Builder().Section("general").MustField("title", "", component.AliasText, nil)

	mustRender(t, form, render.RenderOptions{
		Locale: "de",
		Translator: render.TranslatorFunc(func(locale, key string, _ ...any) (string, error) {
			return locale + ":" + key, nil
		}),
	})

	for _, key := range []string{"text", "field-wrapper", "section", "form"} {
		call, ok := findCall(stub, key)
		if !ok {
			t.Fatalf("expected %s call", key)
		}
		if call.Data["locale"] != "de" {
			t.Fatalf("%s: expected locale, got %#v", key, call.Data["locale"])
		}
		translate, ok := call.Data["translate"].(func(string, ...any) string)
		if !ok {
			t.Fatalf("%s: expected translate helper, got %T", key, call.Data["translate"])
		}
		if got := translate("actions.save"); got != "de:actions.save" {
			t.Fatalf("%s: unexpected translation %q", key, got)
		}
	}
}
