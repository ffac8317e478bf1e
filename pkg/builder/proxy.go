package builder

import (
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/component"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/resolve"
)

// FieldConfig configures a FieldProxy. Container.Field fills it in; it is
// exported so container flavours can wrap definitions directly.
type FieldConfig struct {
	Definition  component.Definition
	Sink        model.Sink
	Parent      *Container
	ContainerID string
	SectionID   string
	GroupID     string
	Alias       string
	// Template is the initial field-wrapper override: a template key, a
	// model.KeyResolver or a func() string.
	Template any
	// Context seeds the definition through ApplyContext before the first
	// emission.
	Context map[string]any
	Order   *int
}

// FieldProxy wraps a leaf definition. Every mutation updates local state or
// the definition and then emits the complete field snapshot.
//
// Mutators that forward to the definition panic with a *CallError when the
// definition breaks the fluent contract; use Call or Catch to get an error.
type FieldProxy struct {
	def    component.Definition
	sink   model.Sink
	parent *Container

	id          string
	alias       string
	containerID string
	sectionID   string
	groupID     string

	order        *int
	contextOrder *int
	style        any
	before       model.Callback
	after        model.Callback
	overrides    map[string]model.Override
	overlay      map[string]any
	attributes   map[string]any
}

// NewFieldProxy wraps cfg.Definition and emits its first snapshot.
func NewFieldProxy(cfg FieldConfig) (*FieldProxy, error) {
	if cfg.Definition == nil {
		return nil, invalidArgument("field definition is required")
	}
	alias := strings.TrimSpace(cfg.Alias)
	if alias == "" {
		return nil, invalidArgument("component alias is required")
	}
	snapshot := cfg.Definition.Snapshot()
	if snapshot.ID == "" {
		return nil, invalidArgument("definition for component %q has no id", alias)
	}

	sink := cfg.Sink
	if sink == nil {
		sink = model.Discard
	}

	p := &FieldProxy{
		def:         cfg.Definition,
		sink:        sink,
		parent:      cfg.Parent,
		id:          snapshot.ID,
		alias:       alias,
		containerID: cfg.ContainerID,
		sectionID:   cfg.SectionID,
		groupID:     cfg.GroupID,
		overrides:   make(map[string]model.Override),
		overlay:     make(map[string]any),
		attributes:  make(map[string]any),
	}

	var initial model.Override
	if cfg.Template != nil {
		override, err := toOverride(cfg.Template)
		if err != nil {
			return nil, err
		}
		initial = override
	}

	if len(cfg.Context) > 0 {
		steps, err := p.plan(cfg.Context)
		if err != nil {
			return nil, err
		}
		if err := p.apply(steps); err != nil {
			return nil, err
		}
	}
	if cfg.Order != nil {
		p.order = clampPtr(*cfg.Order)
	}
	if !initial.IsZero() {
		p.overrides[model.TemplateFieldWrapper] = initial
	}

	p.emit()
	if len(p.overrides) > 0 {
		p.emitOverrides()
	}
	return p, nil
}

// FieldID returns the id of the wrapped definition.
func (p *FieldProxy) FieldID() string { return p.id }

// Alias returns the component alias.
func (p *FieldProxy) Alias() string { return p.alias }

// Definition exposes the wrapped definition.
func (p *FieldProxy) Definition() component.Definition { return p.def }

// Snapshot derives the full field state: the definition snapshot with the
// pending overlay and proxy-level settings applied.
func (p *FieldProxy) Snapshot() model.FieldSnapshot {
	snapshot := p.def.Snapshot()

	ctx := model.CloneContext(snapshot.Context)
	if ctx == nil {
		ctx = make(map[string]any)
	}
	for key, value := range model.CloneContext(p.overlay) {
		if key == "attributes" {
			if attrs, ok := value.(map[string]any); ok {
				mergeAttributes(ctx, attrs)
				continue
			}
		}
		ctx[key] = value
	}
	if len(p.attributes) > 0 {
		mergeAttributes(ctx, model.CloneContext(p.attributes))
	}

	alias := snapshot.Component
	if alias == "" {
		alias = p.alias
	}

	return model.FieldSnapshot{
		ID:          p.id,
		ContainerID: p.containerID,
		SectionID:   p.sectionID,
		GroupID:     p.groupID,
		Component:   alias,
		Label:       snapshot.Label,
		Context:     ctx,
		Order:       p.effectiveOrder(snapshot.Order),
		Style:       p.style,
		Before:      p.before,
		After:       p.after,
	}
}

// Attribute sets a generic HTML attribute.
func (p *FieldProxy) Attribute(name string, value any) *FieldProxy {
	p.setAttribute(name, value)
	p.emit()
	return p
}

// Description sets the help text. Resolvers are evaluated at render time.
func (p *FieldProxy) Description(text any) *FieldProxy {
	literal, isString := text.(string)
	switch describable, ok := p.def.(component.Describable); {
	case isString && ok:
		describable.SetDescription(literal)
		delete(p.overlay, "description")
	case isString && literal == "":
		delete(p.overlay, "description")
	default:
		p.overlay["description"] = text
	}
	p.emit()
	return p
}

// Order sets the explicit order. It wins over any order coming from context
// hydration or the definition. Negative values clamp to zero.
func (p *FieldProxy) Order(n int) *FieldProxy {
	p.order = clampPtr(n)
	p.emit()
	return p
}

// ClearOrder drops the explicit order.
func (p *FieldProxy) ClearOrder() *FieldProxy {
	p.order = nil
	p.emit()
	return p
}

// Style sets a style override: a string or a resolver. The empty string
// clears any previous value.
func (p *FieldProxy) Style(value any) *FieldProxy {
	p.style = normalizeStyle(value)
	p.emit()
	return p
}

// Before registers markup emitted before the field. Nil clears it.
func (p *FieldProxy) Before(cb model.Callback) *FieldProxy {
	p.before = cb
	p.emit()
	return p
}

// After registers markup emitted after the field. Nil clears it.
func (p *FieldProxy) After(cb model.Callback) *FieldProxy {
	p.after = cb
	p.emit()
	return p
}

// VisibleWhen sets the visibility rule: a resolver, a bool or an expression
// such as `values.plan == "pro"`. Nil removes the rule.
func (p *FieldProxy) VisibleWhen(rule any) *FieldProxy {
	if rule == nil {
		delete(p.overlay, ContextVisibleWhen)
	} else {
		p.overlay[ContextVisibleWhen] = rule
	}
	p.emit()
	return p
}

// Tags labels the field for partial rendering.
func (p *FieldProxy) Tags(tags ...string) *FieldProxy {
	if len(tags) == 0 {
		delete(p.overlay, ContextTags)
	} else {
		p.overlay[ContextTags] = slices.Clone(tags)
	}
	p.emit()
	return p
}

// LabelKey sets the translation key for the label. The empty string clears
// it.
func (p *FieldProxy) LabelKey(key string) *FieldProxy {
	return p.overlayString(ContextLabelKey, key)
}

// DescriptionKey sets the translation key for the help text.
func (p *FieldProxy) DescriptionKey(key string) *FieldProxy {
	return p.overlayString(ContextDescriptionKey, key)
}

// PlaceholderKey sets the translation key for the placeholder.
func (p *FieldProxy) PlaceholderKey(key string) *FieldProxy {
	return p.overlayString(ContextPlaceholderKey, key)
}

func (p *FieldProxy) overlayString(name, value string) *FieldProxy {
	if value = strings.TrimSpace(value); value == "" {
		delete(p.overlay, name)
	} else {
		p.overlay[name] = value
	}
	p.emit()
	return p
}

// Disabled marks the field disabled.
func (p *FieldProxy) Disabled() *FieldProxy { return p.Flag("disabled", true) }

// Required marks the field required.
func (p *FieldProxy) Required() *FieldProxy { return p.Flag("required", true) }

// Readonly marks the field read only.
func (p *FieldProxy) Readonly() *FieldProxy { return p.Flag("readonly", true) }

// DisabledWhen evaluates cond at render time.
func (p *FieldProxy) DisabledWhen(cond resolve.Func) *FieldProxy { return p.Flag("disabled", cond) }

// RequiredWhen evaluates cond at render time.
func (p *FieldProxy) RequiredWhen(cond resolve.Func) *FieldProxy { return p.Flag("required", cond) }

// ReadonlyWhen evaluates cond at render time.
func (p *FieldProxy) ReadonlyWhen(cond resolve.Func) *FieldProxy { return p.Flag("readonly", cond) }

// Flag sets a boolean-ish context flag. Literal values go through a
// same-named definition method when one exists.
func (p *FieldProxy) Flag(name string, value any) *FieldProxy {
	p.mustDo(p.setFlag(name, value))
	p.emit()
	return p
}

// Default forwards to the definition's "default" method.
func (p *FieldProxy) Default(value any) *FieldProxy {
	method, ok := p.def.Method("default")
	if !ok {
		panic(p.callError("default", ReasonUnsupported, ErrInvalidCall))
	}
	p.mustDo(p.forward("default", method, value))
	p.emit()
	return p
}

// DefaultValues forwards to the definition's default_values (or
// defaultValues) method.
func (p *FieldProxy) DefaultValues(values ...any) *FieldProxy {
	name, method, match := lookup(p.def, "default_values")
	switch match {
	case matchAmbiguous:
		panic(p.callError("default_values", ReasonAmbiguous, ErrAmbiguousHydration))
	case matchNone:
		panic(p.callError("default_values", ReasonUnsupported, ErrInvalidCall))
	}
	p.mustDo(p.forward(name, method, values...))
	p.emit()
	return p
}

// Name sets the input name.
func (p *FieldProxy) Name(name string) *FieldProxy {
	p.mustDo(p.setNamed("name", name))
	p.emit()
	return p
}

// ID sets the HTML id attribute. The field identity used by the model is
// fixed by the definition.
func (p *FieldProxy) ID(id string) *FieldProxy {
	p.mustDo(p.setNamed("id", id))
	p.emit()
	return p
}

// Template overrides the field-wrapper template. The empty key clears it.
func (p *FieldProxy) Template(key string) *FieldProxy {
	p.setTemplate(model.Override{Key: strings.TrimSpace(key)})
	p.emit()
	p.emitOverrides()
	return p
}

// TemplateFunc overrides the field-wrapper template with a key computed at
// render time.
func (p *FieldProxy) TemplateFunc(fn model.KeyResolver) *FieldProxy {
	p.setTemplate(model.Override{Resolve: fn})
	p.emit()
	p.emitOverrides()
	return p
}

// Call invokes a named method of the wrapped definition and re-emits.
func (p *FieldProxy) Call(name string, args ...any) (*FieldProxy, error) {
	method, ok := p.def.Method(name)
	if !ok {
		return p, p.callError(name, ReasonUnsupported, ErrInvalidCall)
	}
	if err := p.forward(name, method, args...); err != nil {
		return p, err
	}
	p.emit()
	return p, nil
}

// MustCall mirrors Call but panics on error.
func (p *FieldProxy) MustCall(name string, args ...any) *FieldProxy {
	if _, err := p.Call(name, args...); err != nil {
		panic(err)
	}
	return p
}

// EndField returns the container that created the field.
func (p *FieldProxy) EndField() *Container { return p.parent }

// EndGroup closes the enclosing group.
func (p *FieldProxy) EndGroup() *Container { return p.parent.EndGroup() }

// EndFieldset closes the enclosing fieldset.
func (p *FieldProxy) EndFieldset() *Container { return p.parent.EndFieldset() }

// EndCollection closes the enclosing group or fieldset.
func (p *FieldProxy) EndCollection() *Container { return p.parent.EndCollection() }

// EndSection returns the root that owns the enclosing section.
func (p *FieldProxy) EndSection() *Root { return p.parent.EndSection() }

// End returns the root builder.
func (p *FieldProxy) End() *Root { return p.parent.End() }

func (p *FieldProxy) emit() {
	p.sink.Emit(model.EventField, p.Snapshot())
}

func (p *FieldProxy) emitOverrides() {
	p.sink.Emit(model.EventTemplateOverride, model.TemplateOverride{
		ElementType: model.ElementField,
		ElementID:   p.id,
		Overrides:   maps.Clone(p.overrides),
	})
}

func (p *FieldProxy) effectiveOrder(definitionOrder *int) int {
	switch {
	case p.order != nil:
		return *p.order
	case p.contextOrder != nil:
		return *p.contextOrder
	case definitionOrder != nil:
		return max(*definitionOrder, 0)
	default:
		return 0
	}
}

func (p *FieldProxy) setAttribute(name string, value any) {
	if attributable, ok := p.def.(component.Attributable); ok {
		attributable.SetAttribute(name, value)
		return
	}
	p.attributes[name] = value
}

func (p *FieldProxy) setFlag(name string, value any) error {
	if method, ok := p.flagMethod(name, value); ok {
		delete(p.overlay, name)
		return p.forward(name, method, value)
	}
	p.overlay[name] = value
	return nil
}

// flagMethod returns the definition method handling a flag. Resolver values
// are evaluated at render time and always stay in the overlay.
func (p *FieldProxy) flagMethod(name string, value any) (component.Method, bool) {
	if resolve.IsResolver(value) {
		return component.Method{}, false
	}
	return p.def.Method(name)
}

func (p *FieldProxy) setNamed(name, value string) error {
	if method, ok := p.def.Method(name); ok {
		return p.forward(name, method, value)
	}
	p.setAttribute(name, value)
	return nil
}

func (p *FieldProxy) setTemplate(override model.Override) {
	if override.IsZero() {
		delete(p.overrides, model.TemplateFieldWrapper)
		return
	}
	p.overrides[model.TemplateFieldWrapper] = override
}

func (p *FieldProxy) forward(name string, method component.Method, args ...any) error {
	if method.Call == nil {
		return p.callError(name, ReasonUnsupported, ErrInvalidCall)
	}
	result, err := method.Call(args...)
	if err != nil {
		return p.callError(name, ReasonFailed, err)
	}
	if !component.IsFluentResult(result) {
		return p.callError(name, ReasonNotFluent, ErrInvalidCall)
	}
	return nil
}

func (p *FieldProxy) callError(method, reason string, err error) *CallError {
	return &CallError{
		Field:     p.id,
		Component: p.alias,
		Method:    method,
		Reason:    reason,
		Err:       err,
	}
}

func (p *FieldProxy) mustDo(err error) {
	if err != nil {
		panic(err)
	}
}

func mergeAttributes(ctx map[string]any, attrs map[string]any) {
	merged, _ := ctx["attributes"].(map[string]any)
	if merged == nil {
		merged = make(map[string]any, len(attrs))
	}
	maps.Copy(merged, attrs)
	ctx["attributes"] = merged
}

func normalizeStyle(value any) any {
	if text, ok := value.(string); ok && strings.TrimSpace(text) == "" {
		return nil
	}
	return value
}

func clampPtr(n int) *int {
	n = max(n, 0)
	return &n
}

func toOverride(value any) (model.Override, error) {
	switch v := value.(type) {
	case nil:
		return model.Override{}, nil
	case string:
		return model.Override{Key: strings.TrimSpace(v)}, nil
	case model.Override:
		return v, nil
	case model.KeyResolver:
		return model.Override{Resolve: v}, nil
	case func(map[string]any) (string, error):
		return model.Override{Resolve: v}, nil
	case func() string:
		return model.Override{Resolve: func(map[string]any) (string, error) { return v(), nil }}, nil
	default:
		return model.Override{}, invalidArgument("template override must be a key or resolver, got %T", value)
	}
}
