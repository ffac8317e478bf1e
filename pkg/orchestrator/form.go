package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/component"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/scope"
	"github.com/goliatone/go-formbuilder/pkg/templates"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
	visexpr "github.com/goliatone/go-formbuilder/pkg/visibility/expr"
)

// ErrAlreadyRendered is returned by a second Render call on the same Form.
var ErrAlreadyRendered = errors.New("orchestrator: form already rendered")

const defaultSubmitLabel = "Save Changes"

// Output is the rendered form with the assets its elements declared.
type Output struct {
	Markup        string
	Scripts       []render.Asset
	Styles        []render.Asset
	RequiresMedia bool
	Components    []string
	Failures      []render.Failure
}

// Form wires a builder root to a session model and renders it once.
type Form struct {
	id     string
	logger hclog.Logger

	components     *component.Registry
	scope          scope.Scope
	resolver       *templates.Resolver
	themeResolver  *templates.Resolver
	fileResolvers  []*templates.Resolver
	renderer       render.ComponentRenderer
	renderers      *render.Registry
	rendererName   string
	vanillaOptions []vanilla.Option
	decorators     []model.Decorator
	transformers   []Transformer
	sinks          []model.Sink

	visibility       visibility.Evaluator
	visibilityExtras map[string]any

	action         string
	method         string
	submitLabel    string
	submitLabelKey string
	hidden         []render.HiddenField
	notice         string

	model    *model.Model
	root     *builder.Root
	initErr  error
	rendered atomic.Bool
}

// New creates a form. Option errors are kept and reported by Render so the
// builder chain stays usable.
func New(id string, options ...Option) *Form {
	f := &Form{
		id:          strings.TrimSpace(id),
		logger:      hclog.NewNullLogger(),
		method:      "POST",
		submitLabel: defaultSubmitLabel,
		visibility:  visexpr.New(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.id == "" {
		f.fail(fmt.Errorf("%w: form id is required", builder.ErrInvalidArgument))
	}
	if f.components == nil {
		f.components = component.NewDefaultRegistry()
	}
	f.logger = f.logger.Named("formbuilder").With("form", f.id)

	f.model = model.New(model.WithLogger(f.logger))
	sink := model.Sink(f.model)
	if len(f.sinks) > 0 {
		sink = append(model.Fanout{f.model}, f.sinks...)
	}
	f.root = builder.NewRoot(f.id, sink,
		builder.WithRegistry(f.components),
		builder.WithScope(f.scope),
	)
	return f
}

// ID returns the form id.
func (f *Form) ID() string { return f.id }

// Builder returns the root builder used to declare sections and fields.
func (f *Form) Builder() *builder.Root { return f.root }

// Model exposes the session model folded from builder events.
func (f *Form) Model() *model.Model { return f.model }

// Err reports configuration errors collected by options.
func (f *Form) Err() error { return f.initErr }

func (f *Form) fail(err error) {
	if err != nil {
		f.initErr = multierror.Append(f.initErr, err)
	}
}

// Render renders the form. A Form renders once; later calls return
// ErrAlreadyRendered.
func (f *Form) Render(ctx context.Context, opts render.RenderOptions) (Output, error) {
	if f == nil {
		return Output{}, errors.New("orchestrator: form is nil")
	}
	if f.initErr != nil {
		return Output{}, f.initErr
	}
	if !f.rendered.CompareAndSwap(false, true) {
		return Output{}, ErrAlreadyRendered
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for _, transformer := range f.transformers {
		if err := transformer.Transform(ctx, f.model); err != nil {
			return Output{}, fmt.Errorf("orchestrator: transform: %w", err)
		}
	}
	for _, decorator := range f.decorators {
		if err := decorator.Decorate(f.model); err != nil {
			return Output{}, fmt.Errorf("orchestrator: decorate: %w", err)
		}
	}

	resolver, err := f.buildResolver()
	if err != nil {
		return Output{}, err
	}
	renderer, err := f.componentRenderer()
	if err != nil {
		return Output{}, err
	}

	sessionOpts := []render.SessionOption{render.WithLogger(f.logger)}
	if f.notice != "" {
		sessionOpts = append(sessionOpts, render.WithFallbackNotice(f.notice))
	}
	session, err := render.NewSession(resolver, renderer, sessionOpts...)
	if err != nil {
		return Output{}, fmt.Errorf("orchestrator: %w", err)
	}

	sections, orphans := f.model.Tree()
	for _, orphan := range orphans {
		f.logger.Warn("field belongs to an unknown container", "field", orphan.ID, "container", orphan.ContainerID)
	}
	sections = render.ApplySubset(sections, opts.Subset)
	sections = render.LocalizeTree(sections, opts)

	fieldIDs := make([]string, 0)
	for _, field := range f.model.Fields() {
		fieldIDs = append(fieldIDs, field.ID)
	}
	mapping := render.MapErrorPayload(fieldIDs, opts.Errors)
	form, methodFields := f.formData(opts)
	i18n := map[string]any{
		"locale":    opts.Locale,
		"translate": render.TemplateTranslate(opts),
	}

	w := &walker{
		session:    session,
		resolver:   resolver,
		visibility: f.visibility,
		values:     opts.Values,
		errors:     mapping.Fields,
		i18n:       i18n,
		logger:     f.logger,
	}
	w.env = map[string]any{
		"values": opts.Values,
		"errors": mapping.Fields,
		"form":   form,
		"locale": opts.Locale,
	}
	extras := maps.Clone(f.visibilityExtras)
	if extras == nil {
		extras = make(map[string]any)
	}
	extras["errors"] = mapping.Fields
	extras["form"] = form
	w.visCtx = visibility.Context{Values: opts.Values, Extras: extras}

	var content strings.Builder
	for _, section := range sections {
		content.WriteString(w.container(ctx, section))
	}

	hidden := render.MergeHiddenFields(render.ScopeFields(f.scope), methodFields, f.hidden, opts.Hidden)
	markup := session.RenderElement(ctx, model.TemplateForm, render.Element{
		Type:    model.ElementForm,
		ID:      f.id,
		Default: model.TemplateForm,
		Config:  map[string]any{render.ConfigContent: content.String()},
	}, withI18n(map[string]any{
		"form":    form,
		"content": content.String(),
		"hidden":  hiddenData(hidden),
		"errors":  mapping.Form,
	}, i18n))

	bundle, err := session.Close()
	if err != nil {
		return Output{}, fmt.Errorf("orchestrator: %w", err)
	}
	return Output{
		Markup:        markup,
		Scripts:       bundle.Scripts,
		Styles:        bundle.Styles,
		RequiresMedia: bundle.RequiresMedia,
		Components:    bundle.Components,
		Failures:      session.Failures(),
	}, nil
}

// buildResolver layers the theme defaults, override files, the caller
// resolver and finally the overrides declared through the builder.
func (f *Form) buildResolver() (*templates.Resolver, error) {
	resolver := templates.NewResolver()
	resolver.Import(f.themeResolver)
	for _, loaded := range f.fileResolvers {
		resolver.Import(loaded)
	}
	resolver.Import(f.resolver)

	for _, event := range f.model.TemplateOverrides() {
		for templateType, override := range event.Overrides {
			var err error
			if override.Resolve != nil {
				err = resolver.SetOverrideFunc(event.ElementType, event.ElementID, templateType, override.Resolve)
			} else {
				err = resolver.SetOverride(event.ElementType, event.ElementID, templateType, override.Key)
			}
			if err != nil {
				return nil, fmt.Errorf("orchestrator: template override: %w", err)
			}
		}
	}
	return resolver, nil
}

func (f *Form) componentRenderer() (render.ComponentRenderer, error) {
	if f.renderer != nil {
		return f.renderer, nil
	}
	if f.renderers != nil && f.rendererName != "" {
		renderer, err := f.renderers.Get(f.rendererName)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
		return renderer, nil
	}
	renderer, err := vanilla.New(f.vanillaOptions...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

// formData describes the form element. Verbs other than GET and POST are
// submitted as POST with a _method input; "intended_method" keeps the
// declared verb for templates and conditions.
func (f *Form) formData(opts render.RenderOptions) (map[string]any, []render.HiddenField) {
	intended := f.method
	if trimmed := strings.TrimSpace(opts.Method); trimmed != "" {
		intended = strings.ToUpper(trimmed)
	}
	method, hidden := render.SubmitMethod(intended)
	submitLabel := f.submitLabel
	if f.submitLabelKey != "" {
		submitLabel = render.Translate(opts, f.submitLabelKey, f.submitLabel)
	}
	return map[string]any{
		"id":              f.id,
		"action":          f.action,
		"method":          method,
		"intended_method": intended,
		"submit_label":    submitLabel,
	}, hidden
}

// withI18n adds the locale and translate helper to element data.
func withI18n(data, i18n map[string]any) map[string]any {
	maps.Copy(data, i18n)
	return data
}

func hiddenData(fields []render.HiddenField) []map[string]any {
	if len(fields) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		out = append(out, map[string]any{"name": field.Name, "value": field.Value})
	}
	return out
}
