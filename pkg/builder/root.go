// Package builder provides the fluent form builders: the root, containers
// (section, group, fieldset) and the field proxy wrapping leaf component
// definitions. Every mutation emits a full snapshot through a model.Sink.
package builder

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/component"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/scope"
)

// Root is the entry point of a form declaration.
type Root struct {
	id       string
	sink     model.Sink
	registry *component.Registry
	scope    scope.Scope
	labeler  func(string) string

	sections   []*Container
	containers map[string]*Container
	fields     map[string]*FieldProxy
	fieldOrder []string
	auto       map[model.ElementType]int
}

// NewRoot creates a root builder emitting to sink. A nil sink discards
// events.
func NewRoot(id string, sink model.Sink, opts ...Option) *Root {
	if sink == nil {
		sink = model.Discard
	}
	r := &Root{
		id:         id,
		sink:       sink,
		labeler:    model.DefaultLabeler,
		containers: make(map[string]*Container),
		fields:     make(map[string]*FieldProxy),
		auto:       make(map[model.ElementType]int),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.registry == nil {
		r.registry = component.NewDefaultRegistry()
	}
	return r
}

// ID returns the form id.
func (r *Root) ID() string { return r.id }

// Registry exposes the component factory registry.
func (r *Root) Registry() *component.Registry { return r.registry }

// Scope returns the storage scope, the zero value when none was set.
func (r *Root) Scope() scope.Scope { return r.scope }

// Section opens a section, or returns the existing one with that id. An
// empty id gets a generated one.
func (r *Root) Section(id string) *Container {
	return r.child(nil, model.ElementSection, id)
}

// Sections lists sections in declaration order.
func (r *Root) Sections() []*Container {
	return append([]*Container(nil), r.sections...)
}

// Container finds any declared container by id.
func (r *Root) Container(id string) (*Container, bool) {
	c, ok := r.containers[id]
	return c, ok
}

// Field finds a declared field by id.
func (r *Root) Field(id string) (*FieldProxy, bool) {
	proxy, ok := r.fields[id]
	return proxy, ok
}

// Fields lists fields in declaration order.
func (r *Root) Fields() []*FieldProxy {
	out := make([]*FieldProxy, 0, len(r.fieldOrder))
	for _, id := range r.fieldOrder {
		out = append(out, r.fields[id])
	}
	return out
}

// Commit finalises every container declared so far.
func (r *Root) Commit() *Root {
	var walk func(c *Container)
	walk = func(c *Container) {
		c.Commit()
		for _, child := range c.children {
			walk(child)
		}
	}
	for _, section := range r.sections {
		walk(section)
	}
	return r
}

func (r *Root) child(parent *Container, kind model.ElementType, id string) *Container {
	id = strings.TrimSpace(id)
	if id == "" {
		r.auto[kind]++
		id = fmt.Sprintf("%s-%d", kind, r.auto[kind])
		for r.containers[id] != nil {
			r.auto[kind]++
			id = fmt.Sprintf("%s-%d", kind, r.auto[kind])
		}
	}

	if existing, ok := r.containers[id]; ok {
		if existing.meta.Kind != kind || existing.parent != parent {
			panic(invalidArgument("container %q is already declared as a %s elsewhere", id, existing.meta.Kind))
		}
		return existing
	}

	c := newContainer(r, parent, kind, id)
	r.containers[id] = c
	if parent == nil {
		r.sections = append(r.sections, c)
	} else {
		parent.children = append(parent.children, c)
	}
	return c
}
