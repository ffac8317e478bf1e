// Package components holds the descriptors the vanilla renderer uses for leaf
// components: which template renders a component alias and which assets the
// markup needs.
package components

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/render"
)

// Descriptor describes how a component alias renders.
type Descriptor struct {
	Name          string
	Template      string
	Assets        []render.Asset
	RequiresMedia bool
}

// Registry tracks component descriptors keyed by alias. Callers can register
// new components or override defaults.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		components: make(map[string]Descriptor),
	}
}

// Clone returns a deep copy of the registry to allow isolated mutations.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for name, descriptor := range r.components {
		cloned.components[name] = cloneDescriptor(descriptor)
	}
	return cloned
}

// Register associates a descriptor with name. Existing entries are replaced.
func (r *Registry) Register(name string, descriptor Descriptor) error {
	if name = normalize(name); name == "" {
		return fmt.Errorf("components: component name is required")
	}
	if strings.TrimSpace(descriptor.Template) == "" {
		return fmt.Errorf("components: template for %q is required", name)
	}
	for _, asset := range descriptor.Assets {
		if err := asset.Validate(); err != nil {
			return fmt.Errorf("components: %q: %w", name, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.Name = name
	r.components[name] = cloneDescriptor(descriptor)
	return nil
}

// MustRegister mirrors Register but panics on error, simplifying default
// registry setup.
func (r *Registry) MustRegister(name string, descriptor Descriptor) {
	if err := r.Register(name, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor fetches a descriptor by name.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.components[normalize(name)]
	if !ok {
		return Descriptor{}, false
	}
	return cloneDescriptor(descriptor), true
}

// Names returns a sorted slice of registered component names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.components))
}

func cloneDescriptor(src Descriptor) Descriptor {
	clone := src
	clone.Assets = make([]render.Asset, len(src.Assets))
	for idx, asset := range src.Assets {
		asset.Dependencies = slices.Clone(asset.Dependencies)
		asset.Data = maps.Clone(asset.Data)
		clone.Assets[idx] = asset
	}
	return clone
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
