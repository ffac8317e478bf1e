package testsupport

import (
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Event is a recorded update event.
type Event struct {
	Type    model.EventType
	Payload any
}

// Recorder is a model.Sink that keeps every event in emission order.
type Recorder struct {
	Events []Event
}

var _ model.Sink = (*Recorder)(nil)

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Emit implements model.Sink.
func (r *Recorder) Emit(eventType model.EventType, payload any) {
	r.Events = append(r.Events, Event{Type: eventType, Payload: payload})
}

// Reset drops recorded events.
func (r *Recorder) Reset() {
	r.Events = nil
}

// OfType returns the recorded events of the given type.
func (r *Recorder) OfType(eventType model.EventType) []Event {
	var out []Event
	for _, event := range r.Events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

// FieldEvents returns the field snapshots recorded for id, oldest first.
func (r *Recorder) FieldEvents(id string) []model.FieldSnapshot {
	var out []model.FieldSnapshot
	for _, event := range r.Events {
		snapshot, ok := event.Payload.(model.FieldSnapshot)
		if ok && event.Type == model.EventField && snapshot.ID == id {
			out = append(out, snapshot)
		}
	}
	return out
}

// LastField returns the latest field snapshot recorded for id.
func (r *Recorder) LastField(id string) (model.FieldSnapshot, bool) {
	events := r.FieldEvents(id)
	if len(events) == 0 {
		return model.FieldSnapshot{}, false
	}
	return events[len(events)-1], true
}

// LastContainer returns the latest metadata snapshot recorded for id.
func (r *Recorder) LastContainer(id string) (model.ContainerSnapshot, bool) {
	for idx := len(r.Events) - 1; idx >= 0; idx-- {
		snapshot, ok := r.Events[idx].Payload.(model.ContainerSnapshot)
		if ok && r.Events[idx].Type == model.EventMetadata && snapshot.ID == id {
			return snapshot, true
		}
	}
	return model.ContainerSnapshot{}, false
}

// Overrides returns the template override events recorded for id.
func (r *Recorder) Overrides(id string) []model.TemplateOverride {
	var out []model.TemplateOverride
	for _, event := range r.Events {
		override, ok := event.Payload.(model.TemplateOverride)
		if ok && event.Type == model.EventTemplateOverride && override.ElementID == id {
			out = append(out, override)
		}
	}
	return out
}

// Replay feeds every recorded event into sink again.
func (r *Recorder) Replay(sink model.Sink) {
	for _, event := range r.Events {
		sink.Emit(event.Type, event.Payload)
	}
}
