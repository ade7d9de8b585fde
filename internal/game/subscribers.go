package game

import (
	"github.com/charmbracelet/log"
)

// LogSubscriber mirrors round events into a logger at debug level
type LogSubscriber struct {
	logger *log.Logger
}

// NewLogSubscriber creates a subscriber writing to logger
func NewLogSubscriber(logger *log.Logger) *LogSubscriber {
	return &LogSubscriber{logger: logger.WithPrefix("event")}
}

// OnEvent implements EventSubscriber
func (s *LogSubscriber) OnEvent(event GameEvent) {
	s.logger.Debug(Describe(event), "type", event.EventType())
}

// Recorder keeps every event it receives, in order
type Recorder struct {
	events []GameEvent
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnEvent implements EventSubscriber
func (r *Recorder) OnEvent(event GameEvent) {
	r.events = append(r.events, event)
}

// Events returns the recorded events
func (r *Recorder) Events() []GameEvent {
	return append([]GameEvent(nil), r.events...)
}

// Types returns the type of every recorded event
func (r *Recorder) Types() []EventType {
	types := make([]EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.EventType()
	}
	return types
}

// OfType returns the recorded events with the given type
func (r *Recorder) OfType(t EventType) []GameEvent {
	var out []GameEvent
	for _, e := range r.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

// Drain returns the recorded events and forgets them
func (r *Recorder) Drain() []GameEvent {
	events := r.events
	r.events = nil
	return events
}

// Reset forgets every recorded event
func (r *Recorder) Reset() {
	r.events = nil
}
