package model

import internalmodel "github.com/goliatone/go-formbuilder/internal/model"

type EventType = internalmodel.EventType

const (
	EventMetadata         = internalmodel.EventMetadata
	EventField            = internalmodel.EventField
	EventTemplateOverride = internalmodel.EventTemplateOverride
	EventCommit           = internalmodel.EventCommit
)

type ElementType = internalmodel.ElementType

const (
	ElementForm     = internalmodel.ElementForm
	ElementSection  = internalmodel.ElementSection
	ElementGroup    = internalmodel.ElementGroup
	ElementFieldset = internalmodel.ElementFieldset
	ElementField    = internalmodel.ElementField
)

const (
	TemplateForm         = internalmodel.TemplateForm
	TemplateSection      = internalmodel.TemplateSection
	TemplateGroup        = internalmodel.TemplateGroup
	TemplateFieldset     = internalmodel.TemplateFieldset
	TemplateFieldWrapper = internalmodel.TemplateFieldWrapper
	TemplateField        = internalmodel.TemplateField
)

type Callback = internalmodel.Callback
type ContainerSnapshot = internalmodel.ContainerSnapshot
type FieldSnapshot = internalmodel.FieldSnapshot
type KeyResolver = internalmodel.KeyResolver
type Override = internalmodel.Override
type TemplateOverride = internalmodel.TemplateOverride
type Commit = internalmodel.Commit

type Sink = internalmodel.Sink
type SinkFunc = internalmodel.SinkFunc
type Fanout = internalmodel.Fanout

// Discard drops every event.
var Discard = internalmodel.Discard

type Model = internalmodel.Model
type Option = internalmodel.Option
type Node = internalmodel.Node
type Child = internalmodel.Child

// New constructs an empty session model.
func New(options ...Option) *Model {
	return internalmodel.New(options...)
}

// WithLogger routes model diagnostics to an hclog logger.
var WithLogger = internalmodel.WithLogger

// CloneContext copies the maps and slices of a context; other values are
// shared.
func CloneContext(in map[string]any) map[string]any {
	return internalmodel.CloneContext(in)
}

// DefaultLabeler derives a readable label from an element id.
func DefaultLabeler(id string) string {
	return internalmodel.DefaultLabeler(id)
}

// CamelKey normalises dash/underscore separated keys into camel case.
func CamelKey(key string) string {
	return internalmodel.CamelKey(key)
}
