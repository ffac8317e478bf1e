package model

// EventType names the payload carried by an update event.
type EventType string

const (
	// EventMetadata carries a ContainerSnapshot.
	EventMetadata EventType = "metadata"
	// EventField carries a FieldSnapshot.
	EventField EventType = "field"
	// EventTemplateOverride carries a TemplateOverride.
	EventTemplateOverride EventType = "template_override"
	// EventCommit carries a Commit.
	EventCommit EventType = "commit"
)

// ElementType identifies the kind of node a snapshot or override refers to.
type ElementType string

const (
	ElementForm     ElementType = "form"
	ElementSection  ElementType = "section"
	ElementGroup    ElementType = "group"
	ElementFieldset ElementType = "fieldset"
	ElementField    ElementType = "field"
)

// IsContainer reports whether the element type describes a container node.
func (t ElementType) IsContainer() bool {
	switch t {
	case ElementSection, ElementGroup, ElementFieldset:
		return true
	default:
		return false
	}
}

// Callback produces markup emitted before or after an element. The render
// environment is passed so callbacks can read values and context.
type Callback func(env map[string]any) string

// ContainerSnapshot is the full state of a section, group or fieldset at the
// time it was emitted. Description and Style hold either a literal string or a
// lazy resolver evaluated at render time. HeadingKey and DescriptionKey name
// translation keys; Heading and Description are their fallbacks.
type ContainerSnapshot struct {
	ID             string      `json:"id"`
	Kind           ElementType `json:"kind"`
	ParentID       string      `json:"parentId,omitempty"`
	SectionID      string      `json:"sectionId,omitempty"`
	Heading        string      `json:"heading,omitempty"`
	HeadingKey     string      `json:"headingKey,omitempty"`
	Description    any         `json:"description,omitempty"`
	DescriptionKey string      `json:"descriptionKey,omitempty"`
	Order          int         `json:"order"`
	Style          any         `json:"style,omitempty"`
	Before         Callback    `json:"-"`
	After          Callback    `json:"-"`
}

// FieldSnapshot is the full state of a field proxy. Context is the merged
// definition context plus any pending overlay entries.
type FieldSnapshot struct {
	ID          string         `json:"id"`
	ContainerID string         `json:"containerId"`
	SectionID   string         `json:"sectionId"`
	GroupID     string         `json:"groupId,omitempty"`
	Component   string         `json:"component"`
	Label       string         `json:"label,omitempty"`
	Context     map[string]any `json:"context,omitempty"`
	Order       int            `json:"order"`
	Style       any            `json:"style,omitempty"`
	Before      Callback       `json:"-"`
	After       Callback       `json:"-"`
}

// KeyResolver computes a template key lazily from the render environment.
type KeyResolver func(env map[string]any) (string, error)

// Override is a template key or a resolver producing one. Exactly one of the
// two is expected to be set.
type Override struct {
	Key     string      `json:"key,omitempty"`
	Resolve KeyResolver `json:"-"`
}

// IsZero reports whether the override carries neither a key nor a resolver.
func (o Override) IsZero() bool {
	return o.Key == "" && o.Resolve == nil
}

// TemplateOverride lists the per-element template overrides keyed by template
// type (for example "field-wrapper").
type TemplateOverride struct {
	ElementType ElementType         `json:"elementType"`
	ElementID   string              `json:"elementId"`
	Overrides   map[string]Override `json:"overrides"`
}

// Commit marks a container as finalised.
type Commit struct {
	ContainerID string `json:"containerId"`
}

// Template types rendered for each element. Overrides are keyed by these.
const (
	TemplateForm         = "form"
	TemplateSection      = "section"
	TemplateGroup        = "group"
	TemplateFieldset     = "fieldset"
	TemplateFieldWrapper = "field-wrapper"
	TemplateField        = "field"
)
