package model

// Sink receives every builder mutation as a full snapshot. Builders call Emit
// synchronously after each change.
type Sink interface {
	Emit(eventType EventType, payload any)
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(eventType EventType, payload any)

// Emit calls the underlying function.
func (fn SinkFunc) Emit(eventType EventType, payload any) {
	if fn != nil {
		fn(eventType, payload)
	}
}

// Fanout forwards each event to every sink in order.
type Fanout []Sink

// Emit implements Sink.
func (f Fanout) Emit(eventType EventType, payload any) {
	for _, sink := range f {
		if sink == nil {
			continue
		}
		sink.Emit(eventType, payload)
	}
}

type discardSink struct{}

func (discardSink) Emit(EventType, any) {}

// Discard is a Sink that drops every event.
var Discard Sink = discardSink{}
