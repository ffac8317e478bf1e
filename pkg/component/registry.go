package component

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Manifest registers a component alias: how to build its definition and the
// validators and sanitizers every field of that component starts with.
type Manifest struct {
	Alias    string
	Factory  Factory
	Defaults validation.Bundle
}

// Registry tracks manifests keyed by alias. Registries are usually built once
// at startup and shared by every form.
type Registry struct {
	mu        sync.RWMutex
	manifests map[string]Manifest
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		manifests: make(map[string]Manifest),
	}
}

// NewDefaultRegistry returns a registry with the built-in components.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()

	text := validation.Bundle{
		Sanitizers:       []validation.Sanitizer{validation.TrimSpace()},
		SchemaValidators: []validation.Validator{validation.Text()},
	}
	registry.MustRegister(AliasText, Manifest{Factory: NewInput(AliasText, "text"), Defaults: text})
	registry.MustRegister(AliasPassword, Manifest{Factory: NewInput(AliasPassword, "password"), Defaults: text})
	registry.MustRegister(AliasHidden, Manifest{Factory: NewInput(AliasHidden, "hidden"), Defaults: text})
	registry.MustRegister(AliasTextarea, Manifest{Factory: NewTextarea, Defaults: text})
	registry.MustRegister(AliasEmail, Manifest{
		Factory: NewInput(AliasEmail, "email"),
		Defaults: validation.Bundle{
			Validators:       []validation.Validator{validation.Email()},
			Sanitizers:       []validation.Sanitizer{validation.TrimSpace()},
			SchemaValidators: []validation.Validator{validation.Text()},
		},
	})
	registry.MustRegister(AliasURL, Manifest{
		Factory: NewInput(AliasURL, "url"),
		Defaults: validation.Bundle{
			Validators:       []validation.Validator{validation.URL()},
			Sanitizers:       []validation.Sanitizer{validation.TrimSpace()},
			SchemaValidators: []validation.Validator{validation.Text()},
		},
	})
	registry.MustRegister(AliasNumber, Manifest{
		Factory:  NewInput(AliasNumber, "number"),
		Defaults: validation.Bundle{SchemaValidators: []validation.Validator{validation.Number()}},
	})
	registry.MustRegister(AliasSelect, Manifest{
		Factory:  NewSelect,
		Defaults: validation.Bundle{Validators: []validation.Validator{validation.Choice()}},
	})
	registry.MustRegister(AliasCheckbox, Manifest{
		Factory:  NewCheckbox,
		Defaults: validation.Bundle{SchemaValidators: []validation.Validator{validation.Boolean()}},
	})
	registry.MustRegister(AliasColor, Manifest{Factory: NewColor, Defaults: text})
	registry.MustRegister(AliasMedia, Manifest{
		Factory:  NewMedia,
		Defaults: validation.Bundle{SchemaValidators: []validation.Validator{validation.Number()}},
	})

	return registry
}

// Register associates a manifest with alias. Existing entries are replaced.
func (r *Registry) Register(alias string, manifest Manifest) error {
	if alias = normalize(alias); alias == "" {
		return fmt.Errorf("component: alias is required")
	}
	if manifest.Factory == nil {
		return fmt.Errorf("component: factory for %q is nil", alias)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	manifest.Alias = alias
	manifest.Defaults = manifest.Defaults.Clone()
	r.manifests[alias] = manifest
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(alias string, manifest Manifest) {
	if err := r.Register(alias, manifest); err != nil {
		panic(err)
	}
}

// Manifest fetches the manifest registered for alias.
func (r *Registry) Manifest(alias string) (Manifest, bool) {
	if r == nil {
		return Manifest{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	manifest, ok := r.manifests[normalize(alias)]
	if !ok {
		return Manifest{}, false
	}
	manifest.Defaults = manifest.Defaults.Clone()
	return manifest, true
}

// Factory fetches the definition factory registered for alias.
func (r *Registry) Factory(alias string) (Factory, bool) {
	manifest, ok := r.Manifest(alias)
	if !ok {
		return nil, false
	}
	return manifest.Factory, true
}

// Names returns the sorted registered aliases.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := slices.Collect(maps.Keys(r.manifests))
	slices.Sort(names)
	return names
}

// Clone returns an independent copy so callers can register form-specific
// components without touching a shared registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := NewRegistry()
	for alias, manifest := range r.manifests {
		manifest.Defaults = manifest.Defaults.Clone()
		cloned.manifests[alias] = manifest
	}
	return cloned
}

// Schema merges the manifest defaults for alias with an integrator fragment.
func (r *Registry) Schema(alias string, fragment validation.Fragment) (validation.Bundle, error) {
	manifest, ok := r.Manifest(alias)
	if !ok {
		return validation.Bundle{}, fmt.Errorf("%w: component %q is not registered", validation.ErrConfiguration, alias)
	}
	return validation.Merge(manifest.Alias, manifest.Defaults, fragment)
}

func normalize(alias string) string {
	return strings.ToLower(strings.TrimSpace(alias))
}
