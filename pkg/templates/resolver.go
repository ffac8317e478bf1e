// Package templates resolves which template renders an element. Lookups go
// through four layers: a per-element render callback, per-element overrides,
// form-wide defaults and finally the built-in key supplied by the caller.
package templates

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ErrInvalidArgument reports an empty template type, key or element id.
var ErrInvalidArgument = errors.New("templates: invalid argument")

// Source identifies the layer a resolution came from.
type Source int

const (
	SourceBuiltin Source = iota
	SourceDefault
	SourceElement
	SourceCallback
)

func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceElement:
		return "element"
	case SourceCallback:
		return "callback"
	default:
		return "builtin"
	}
}

// RenderFunc renders an element directly, bypassing key resolution. The
// environment carries the merged element config and context.
type RenderFunc func(ctx context.Context, env map[string]any) (string, error)

// Target names the element and template type being resolved. Default is the
// built-in key used when no override applies.
type Target struct {
	TemplateType string
	ElementType  model.ElementType
	ElementID    string
	Default      string
}

// Resolution is the outcome of a lookup: either a template key or a callback.
type Resolution struct {
	TemplateType string
	Key          string
	Callback     RenderFunc
	Source       Source
}

// UsesCallback reports whether the element should be rendered by Callback.
func (r Resolution) UsesCallback() bool {
	return r.Callback != nil
}

type elementKey struct {
	elementType model.ElementType
	id          string
}

// Resolver stores form-wide defaults (keyed by template type), per-element
// overrides (keyed by element type and id) and per-element render callbacks.
type Resolver struct {
	mu        sync.RWMutex
	defaults  map[string]model.Override
	elements  map[elementKey]map[string]model.Override
	callbacks map[string]RenderFunc
}

// NewResolver returns an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{
		defaults:  make(map[string]model.Override),
		elements:  make(map[elementKey]map[string]model.Override),
		callbacks: make(map[string]RenderFunc),
	}
}

// SetDefault registers the form-wide template key for templateType.
func (r *Resolver) SetDefault(templateType, key string) error {
	return r.setDefault(templateType, model.Override{Key: strings.TrimSpace(key)})
}

// SetDefaultFunc registers a form-wide key computed at render time.
func (r *Resolver) SetDefaultFunc(templateType string, fn model.KeyResolver) error {
	return r.setDefault(templateType, model.Override{Resolve: fn})
}

func (r *Resolver) setDefault(templateType string, override model.Override) error {
	templateType = strings.TrimSpace(templateType)
	if templateType == "" {
		return fmt.Errorf("%w: template type is required", ErrInvalidArgument)
	}
	if override.IsZero() {
		return fmt.Errorf("%w: default for %q has an empty key", ErrInvalidArgument, templateType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaults[templateType] = override
	return nil
}

// RemoveDefault drops the form-wide default for templateType.
func (r *Resolver) RemoveDefault(templateType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.defaults, strings.TrimSpace(templateType))
}

// SetOverride registers a per-element template key.
func (r *Resolver) SetOverride(elementType model.ElementType, elementID, templateType, key string) error {
	return r.setOverride(elementType, elementID, templateType, model.Override{Key: strings.TrimSpace(key)})
}

// SetOverrideFunc registers a per-element key computed at render time.
func (r *Resolver) SetOverrideFunc(elementType model.ElementType, elementID, templateType string, fn model.KeyResolver) error {
	return r.setOverride(elementType, elementID, templateType, model.Override{Resolve: fn})
}

func (r *Resolver) setOverride(elementType model.ElementType, elementID, templateType string, override model.Override) error {
	key, err := newElementKey(elementType, elementID)
	if err != nil {
		return err
	}
	templateType = strings.TrimSpace(templateType)
	if templateType == "" {
		return fmt.Errorf("%w: template type is required for %s %q", ErrInvalidArgument, elementType, elementID)
	}
	if override.IsZero() {
		return fmt.Errorf("%w: override for %s %q (%s) has an empty key", ErrInvalidArgument, elementType, elementID, templateType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	overrides := r.elements[key]
	if overrides == nil {
		overrides = make(map[string]model.Override)
		r.elements[key] = overrides
	}
	overrides[templateType] = override
	return nil
}

// ReplaceOverrides swaps the full override map of an element, the shape
// carried by template_override events. An empty map clears the element.
func (r *Resolver) ReplaceOverrides(event model.TemplateOverride) error {
	key, err := newElementKey(event.ElementType, event.ElementID)
	if err != nil {
		return err
	}
	next := make(map[string]model.Override, len(event.Overrides))
	for templateType, override := range event.Overrides {
		templateType = strings.TrimSpace(templateType)
		if templateType == "" || override.IsZero() {
			return fmt.Errorf("%w: override for %s %q has an empty template type or key", ErrInvalidArgument, event.ElementType, event.ElementID)
		}
		next[templateType] = override
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(next) == 0 {
		delete(r.elements, key)
		return nil
	}
	r.elements[key] = next
	return nil
}

// RemoveOverride drops a single per-element override.
func (r *Resolver) RemoveOverride(elementType model.ElementType, elementID, templateType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := elementKey{elementType: elementType, id: strings.TrimSpace(elementID)}
	overrides := r.elements[key]
	delete(overrides, strings.TrimSpace(templateType))
	if len(overrides) == 0 {
		delete(r.elements, key)
	}
}

// SetCallback renders the element with fn instead of a template.
func (r *Resolver) SetCallback(elementID string, fn RenderFunc) error {
	elementID = strings.TrimSpace(elementID)
	if elementID == "" {
		return fmt.Errorf("%w: element id is required", ErrInvalidArgument)
	}
	if fn == nil {
		return fmt.Errorf("%w: callback for %q is nil", ErrInvalidArgument, elementID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks[elementID] = fn
	return nil
}

// HasCallback reports whether elementID renders through a callback.
func (r *Resolver) HasCallback(elementID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.callbacks[strings.TrimSpace(elementID)] != nil
}

// ClearElement removes every override of the element and any callback
// registered for its id.
func (r *Resolver) ClearElement(elementType model.ElementType, elementID string) {
	elementID = strings.TrimSpace(elementID)
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.elements, elementKey{elementType: elementType, id: elementID})
	delete(r.callbacks, elementID)
}

// Resolve picks the template for target. Lazy keys are evaluated against env;
// a lazy key producing "" defers to the next layer.
func (r *Resolver) Resolve(target Target, env map[string]any) (Resolution, error) {
	out := Resolution{TemplateType: target.TemplateType}

	r.mu.RLock()
	callback := r.callbacks[target.ElementID]
	element, hasElement := r.elements[elementKey{elementType: target.ElementType, id: target.ElementID}][target.TemplateType]
	fallback, hasDefault := r.defaults[target.TemplateType]
	r.mu.RUnlock()

	if callback != nil && target.ElementID != "" {
		out.Callback = callback
		out.Source = SourceCallback
		return out, nil
	}
	if hasElement {
		key, err := evaluate(element, env)
		if err != nil {
			return out, fmt.Errorf("templates: %s %q (%s): %w", target.ElementType, target.ElementID, target.TemplateType, err)
		}
		if key != "" {
			out.Key, out.Source = key, SourceElement
			return out, nil
		}
	}
	if hasDefault {
		key, err := evaluate(fallback, env)
		if err != nil {
			return out, fmt.Errorf("templates: default %q: %w", target.TemplateType, err)
		}
		if key != "" {
			out.Key, out.Source = key, SourceDefault
			return out, nil
		}
	}
	out.Key, out.Source = target.Default, SourceBuiltin
	return out, nil
}

// Defaults returns the literal form-wide keys. Lazy defaults are omitted.
func (r *Resolver) Defaults() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.defaults))
	for templateType, override := range r.defaults {
		if override.Key != "" {
			out[templateType] = override.Key
		}
	}
	return out
}

// TemplateTypes lists the template types with a form-wide default.
func (r *Resolver) TemplateTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := slices.Collect(maps.Keys(r.defaults))
	slices.Sort(types)
	return types
}

// Clone returns an independent copy so a shared resolver can seed per-form
// resolvers.
func (r *Resolver) Clone() *Resolver {
	out := NewResolver()
	if r == nil {
		return out
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	maps.Copy(out.defaults, r.defaults)
	for key, overrides := range r.elements {
		out.elements[key] = maps.Clone(overrides)
	}
	maps.Copy(out.callbacks, r.callbacks)
	return out
}

// Import copies every entry of other into r. Entries of other win.
func (r *Resolver) Import(other *Resolver) {
	if other == nil || other == r {
		return
	}
	snapshot := other.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	maps.Copy(r.defaults, snapshot.defaults)
	for key, overrides := range snapshot.elements {
		current := r.elements[key]
		if current == nil {
			current = make(map[string]model.Override, len(overrides))
			r.elements[key] = current
		}
		maps.Copy(current, overrides)
	}
	maps.Copy(r.callbacks, snapshot.callbacks)
}

func newElementKey(elementType model.ElementType, elementID string) (elementKey, error) {
	elementID = strings.TrimSpace(elementID)
	if elementID == "" {
		return elementKey{}, fmt.Errorf("%w: element id is required", ErrInvalidArgument)
	}
	switch elementType {
	case model.ElementForm, model.ElementSection, model.ElementGroup, model.ElementFieldset, model.ElementField:
	default:
		return elementKey{}, fmt.Errorf("%w: unknown element type %q", ErrInvalidArgument, elementType)
	}
	return elementKey{elementType: elementType, id: elementID}, nil
}

func evaluate(override model.Override, env map[string]any) (string, error) {
	if override.Resolve == nil {
		return override.Key, nil
	}
	key, err := override.Resolve(env)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(key), nil
}
