package model

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-hclog"
)

// Option configures a Model.
type Option func(*Model)

// WithLogger routes fold diagnostics to logger.
func WithLogger(logger hclog.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

type overrideKey struct {
	elementType ElementType
	elementID   string
}

// Model accumulates the latest snapshot per element id. Every event replaces
// the stored state for its id wholesale, so replaying an event is idempotent.
// A Model belongs to a single form and is not safe for concurrent use.
type Model struct {
	logger hclog.Logger

	seq        int
	containers map[string]ContainerSnapshot
	fields     map[string]FieldSnapshot
	positions  map[string]int

	overrides     map[overrideKey]TemplateOverride
	overrideOrder []overrideKey

	committed map[string]struct{}
}

var _ Sink = (*Model)(nil)

// New constructs an empty model.
func New(options ...Option) *Model {
	m := &Model{
		logger:     hclog.NewNullLogger(),
		containers: make(map[string]ContainerSnapshot),
		fields:     make(map[string]FieldSnapshot),
		positions:  make(map[string]int),
		overrides:  make(map[overrideKey]TemplateOverride),
		committed:  make(map[string]struct{}),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m
}

// Emit implements Sink. Payloads that cannot be folded are logged and dropped;
// use Apply to observe the error directly.
func (m *Model) Emit(eventType EventType, payload any) {
	if err := m.Apply(eventType, payload); err != nil {
		m.logger.Warn("dropping update event", "event", string(eventType), "error", err)
	}
}

// Apply folds a single event into the model.
func (m *Model) Apply(eventType EventType, payload any) error {
	switch eventType {
	case EventMetadata:
		snapshot, ok := payload.(ContainerSnapshot)
		if !ok {
			return fmt.Errorf("model: metadata event expects ContainerSnapshot, got %T", payload)
		}
		if snapshot.ID == "" {
			return fmt.Errorf("model: metadata event without container id")
		}
		if !snapshot.Kind.IsContainer() {
			return fmt.Errorf("model: container %q has invalid kind %q", snapshot.ID, snapshot.Kind)
		}
		m.track(containerPosition(snapshot.ID))
		m.containers[snapshot.ID] = cloneContainer(snapshot)
	case EventField:
		snapshot, ok := payload.(FieldSnapshot)
		if !ok {
			return fmt.Errorf("model: field event expects FieldSnapshot, got %T", payload)
		}
		if snapshot.ID == "" {
			return fmt.Errorf("model: field event without field id")
		}
		m.track(fieldPosition(snapshot.ID))
		m.fields[snapshot.ID] = cloneField(snapshot)
	case EventTemplateOverride:
		override, ok := payload.(TemplateOverride)
		if !ok {
			return fmt.Errorf("model: template_override event expects TemplateOverride, got %T", payload)
		}
		if override.ElementID == "" {
			return fmt.Errorf("model: template_override event without element id")
		}
		key := overrideKey{elementType: override.ElementType, elementID: override.ElementID}
		if _, exists := m.overrides[key]; !exists {
			m.overrideOrder = append(m.overrideOrder, key)
		}
		m.overrides[key] = cloneOverride(override)
	case EventCommit:
		commit, ok := payload.(Commit)
		if !ok {
			return fmt.Errorf("model: commit event expects Commit, got %T", payload)
		}
		if commit.ContainerID == "" {
			return fmt.Errorf("model: commit event without container id")
		}
		m.committed[commit.ContainerID] = struct{}{}
	default:
		return fmt.Errorf("model: unknown event type %q", eventType)
	}
	return nil
}

func (m *Model) track(key string) {
	if _, ok := m.positions[key]; ok {
		return
	}
	m.positions[key] = m.seq
	m.seq++
}

func containerPosition(id string) string { return "c:" + id }
func fieldPosition(id string) string     { return "f:" + id }

// Container returns the latest snapshot for id.
func (m *Model) Container(id string) (ContainerSnapshot, bool) {
	snapshot, ok := m.containers[id]
	if !ok {
		return ContainerSnapshot{}, false
	}
	return cloneContainer(snapshot), true
}

// Field returns the latest snapshot for id.
func (m *Model) Field(id string) (FieldSnapshot, bool) {
	snapshot, ok := m.fields[id]
	if !ok {
		return FieldSnapshot{}, false
	}
	return cloneField(snapshot), true
}

// Containers lists container snapshots in first-seen order.
func (m *Model) Containers() []ContainerSnapshot {
	ids := make([]string, 0, len(m.containers))
	for id := range m.containers {
		ids = append(ids, id)
	}
	m.sortByPosition(ids, containerPosition)
	out := make([]ContainerSnapshot, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneContainer(m.containers[id]))
	}
	return out
}

// Fields lists field snapshots in first-seen order.
func (m *Model) Fields() []FieldSnapshot {
	ids := make([]string, 0, len(m.fields))
	for id := range m.fields {
		ids = append(ids, id)
	}
	m.sortByPosition(ids, fieldPosition)
	out := make([]FieldSnapshot, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneField(m.fields[id]))
	}
	return out
}

// TemplateOverrides lists the stored per-element overrides in first-seen
// order.
func (m *Model) TemplateOverrides() []TemplateOverride {
	out := make([]TemplateOverride, 0, len(m.overrideOrder))
	for _, key := range m.overrideOrder {
		out = append(out, cloneOverride(m.overrides[key]))
	}
	return out
}

// Committed reports whether the container has been finalised.
func (m *Model) Committed(id string) bool {
	_, ok := m.committed[id]
	return ok
}

// Len returns the number of containers and fields held by the model.
func (m *Model) Len() (containers, fields int) {
	return len(m.containers), len(m.fields)
}

func (m *Model) sortByPosition(ids []string, position func(string) string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return m.positions[position(ids[i])] < m.positions[position(ids[j])]
	})
}
