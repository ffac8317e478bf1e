package builder

import (
	"maps"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Container builds a section, group or fieldset. All kinds share the same
// surface; each mutation emits the full container metadata.
type Container struct {
	root      *Root
	parent    *Container
	meta      model.ContainerSnapshot
	overrides map[string]model.Override
	children  []*Container
	fields    []*FieldProxy
}

func newContainer(root *Root, parent *Container, kind model.ElementType, id string) *Container {
	c := &Container{
		root:      root,
		parent:    parent,
		overrides: make(map[string]model.Override),
		meta: model.ContainerSnapshot{
			ID:   id,
			Kind: kind,
		},
	}
	if parent != nil {
		c.meta.ParentID = parent.meta.ID
		c.meta.SectionID = parent.meta.SectionID
	} else {
		c.meta.SectionID = id
	}
	c.emit()
	return c
}

// ID returns the container id.
func (c *Container) ID() string { return c.meta.ID }

// Kind returns section, group or fieldset.
func (c *Container) Kind() model.ElementType { return c.meta.Kind }

// Parent returns the enclosing container, nil for sections.
func (c *Container) Parent() *Container { return c.parent }

// Root returns the owning root builder.
func (c *Container) Root() *Root { return c.root }

// Snapshot returns the current metadata.
func (c *Container) Snapshot() model.ContainerSnapshot { return c.meta }

// Children lists nested containers in declaration order.
func (c *Container) Children() []*Container { return append([]*Container(nil), c.children...) }

// Fields lists the fields declared directly in the container.
func (c *Container) Fields() []*FieldProxy { return append([]*FieldProxy(nil), c.fields...) }

// Heading sets the container heading.
func (c *Container) Heading(text string) *Container {
	c.meta.Heading = text
	c.emit()
	return c
}

// Description sets the description text or a resolver producing it.
func (c *Container) Description(text any) *Container {
	if literal, ok := text.(string); ok && literal == "" {
		text = nil
	}
	c.meta.Description = text
	c.emit()
	return c
}

// HeadingKey sets the translation key for the heading. Heading stays the
// fallback when no translation is found.
func (c *Container) HeadingKey(key string) *Container {
	c.meta.HeadingKey = strings.TrimSpace(key)
	c.emit()
	return c
}

// DescriptionKey sets the translation key for the description.
func (c *Container) DescriptionKey(key string) *Container {
	c.meta.DescriptionKey = strings.TrimSpace(key)
	c.emit()
	return c
}

// Order sets the sort position among siblings. Negative values clamp to zero.
func (c *Container) Order(n int) *Container {
	c.meta.Order = max(n, 0)
	c.emit()
	return c
}

// Style sets a style override; the empty string clears it.
func (c *Container) Style(value any) *Container {
	c.meta.Style = normalizeStyle(value)
	c.emit()
	return c
}

// Before registers markup emitted before the container.
func (c *Container) Before(cb model.Callback) *Container {
	c.meta.Before = cb
	c.emit()
	return c
}

// After registers markup emitted after the container.
func (c *Container) After(cb model.Callback) *Container {
	c.meta.After = cb
	c.emit()
	return c
}

// Template overrides the template used for templateType on this container.
// The empty key removes the override.
func (c *Container) Template(templateType, key string) *Container {
	return c.setTemplate(templateType, model.Override{Key: strings.TrimSpace(key)})
}

// TemplateFunc overrides templateType with a key computed at render time.
func (c *Container) TemplateFunc(templateType string, fn model.KeyResolver) *Container {
	return c.setTemplate(templateType, model.Override{Resolve: fn})
}

func (c *Container) setTemplate(templateType string, override model.Override) *Container {
	templateType = strings.TrimSpace(templateType)
	if templateType == "" {
		panic(invalidArgument("container %q: template type is required", c.meta.ID))
	}
	if override.IsZero() {
		delete(c.overrides, templateType)
	} else {
		c.overrides[templateType] = override
	}
	c.emit()
	c.root.sink.Emit(model.EventTemplateOverride, model.TemplateOverride{
		ElementType: c.meta.Kind,
		ElementID:   c.meta.ID,
		Overrides:   maps.Clone(c.overrides),
	})
	return c
}

// Group opens a nested group, or returns the existing one with that id.
func (c *Container) Group(id string) *Container {
	return c.root.child(c, model.ElementGroup, id)
}

// Fieldset opens a nested fieldset, or returns the existing one with that id.
func (c *Container) Fieldset(id string) *Container {
	return c.root.child(c, model.ElementFieldset, id)
}

// Field declares a field rendered by the component registered for alias.
//
// Supported options: "context" (map seeding the definition), "template"
// (field-wrapper override), "group" and "order".
func (c *Container) Field(id, label, alias string, options map[string]any) (*FieldProxy, error) {
	id = strings.TrimSpace(id)
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return nil, invalidArgument("field %q: component alias is required", id)
	}
	if id == "" {
		return nil, invalidArgument("field id is required for component %q", alias)
	}
	opts, err := decodeFieldOptions(id, options)
	if err != nil {
		return nil, err
	}
	factory, ok := c.root.registry.Factory(alias)
	if !ok {
		return nil, invalidArgument("field %q: component %q is not registered", id, alias)
	}
	if _, exists := c.root.fields[id]; exists {
		return nil, invalidArgument("field %q is already declared", id)
	}
	if label == "" {
		label = c.root.labeler(id)
	}
	def := factory(id, label)
	if def == nil {
		return nil, invalidArgument("field %q: factory for %q returned no definition", id, alias)
	}

	seed := model.CloneContext(opts.Context)
	if !c.root.scope.IsZero() {
		if seed == nil {
			seed = make(map[string]any)
		}
		if _, named := seed["name"]; !named {
			seed["name"] = c.root.scope.FieldName(id)
		}
	}

	groupID := opts.Group
	if groupID == "" {
		groupID = c.groupID()
	}

	proxy, err := NewFieldProxy(FieldConfig{
		Definition:  def,
		Sink:        c.root.sink,
		Parent:      c,
		ContainerID: c.meta.ID,
		SectionID:   c.meta.SectionID,
		GroupID:     groupID,
		Alias:       alias,
		Template:    opts.Template,
		Context:     seed,
		Order:       opts.Order,
	})
	if err != nil {
		return nil, err
	}
	c.fields = append(c.fields, proxy)
	c.root.fields[id] = proxy
	c.root.fieldOrder = append(c.root.fieldOrder, id)
	return proxy, nil
}

// MustField mirrors Field but panics on error.
func (c *Container) MustField(id, label, alias string, options map[string]any) *FieldProxy {
	proxy, err := c.Field(id, label, alias, options)
	if err != nil {
		panic(err)
	}
	return proxy
}

// Commit marks the container as finalised. Repeated commits are harmless.
func (c *Container) Commit() *Container {
	c.root.sink.Emit(model.EventCommit, model.Commit{ContainerID: c.meta.ID})
	return c
}

// EndGroup returns the parent of the nearest enclosing group.
func (c *Container) EndGroup() *Container {
	return c.closest(model.ElementGroup).parentOrNil()
}

// EndFieldset returns the parent of the nearest enclosing fieldset.
func (c *Container) EndFieldset() *Container {
	return c.closest(model.ElementFieldset).parentOrNil()
}

// EndCollection returns the parent of the nearest enclosing group or
// fieldset.
func (c *Container) EndCollection() *Container {
	return c.closest(model.ElementGroup, model.ElementFieldset).parentOrNil()
}

// EndSection returns the root builder.
func (c *Container) EndSection() *Root { return c.End() }

// End returns the root builder.
func (c *Container) End() *Root {
	if c == nil {
		return nil
	}
	return c.root
}

func (c *Container) emit() {
	c.root.sink.Emit(model.EventMetadata, c.meta)
}

func (c *Container) groupID() string {
	if group := c.closest(model.ElementGroup); group != nil {
		return group.meta.ID
	}
	return ""
}

func (c *Container) closest(kinds ...model.ElementType) *Container {
	for current := c; current != nil; current = current.parent {
		for _, kind := range kinds {
			if current.meta.Kind == kind {
				return current
			}
		}
	}
	return nil
}

func (c *Container) parentOrNil() *Container {
	if c == nil {
		return nil
	}
	return c.parent
}
