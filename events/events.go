// Package events carries notifications from terrain and slopes to the host.
package events

import (
	"fmt"
	"log"

	"github.com/milk9111/platformgen/physics"
)

type Kind int

const (
	BodyEnteredSlope Kind = iota
	BodyExitedSlope
	Effect
	Warning
)

func (k Kind) String() string {
	switch k {
	case BodyEnteredSlope:
		return "body_entered_slope"
	case BodyExitedSlope:
		return "body_exited_slope"
	case Effect:
		return "effect"
	case Warning:
		return "warning"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is a single notification. Slope and Body are zero when not relevant.
type Event struct {
	Kind    Kind
	Slope   uint64
	Body    physics.BodyID
	Name    string
	Message string
}

func (e Event) String() string {
	switch e.Kind {
	case Warning:
		return fmt.Sprintf("warning: %s", e.Message)
	case Effect:
		return fmt.Sprintf("effect %s: slope=%d body=%d", e.Name, e.Slope, e.Body)
	}
	return fmt.Sprintf("%s: slope=%d body=%d", e.Kind, e.Slope, e.Body)
}

// Sink receives events. Implementations run on the frame loop goroutine.
type Sink interface {
	Emit(evt Event)
}

type SinkFunc func(evt Event)

func (f SinkFunc) Emit(evt Event) { f(evt) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Warn emits a warning event.
func Warn(sink Sink, format string, args ...any) {
	if sink == nil {
		return
	}
	sink.Emit(Event{Kind: Warning, Message: fmt.Sprintf(format, args...)})
}

// Queue is a simple FIFO queue.
type Queue struct {
	items []Event
}

func (q *Queue) Emit(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *Queue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// LogSink writes events to a logger, or the standard logger when nil.
type LogSink struct {
	Logger *log.Logger
	// Verbose also logs enter/exit/effect events.
	Verbose bool
}

func (s LogSink) Emit(evt Event) {
	if evt.Kind != Warning && !s.Verbose {
		return
	}
	if s.Logger != nil {
		s.Logger.Printf("events: %s", evt)
		return
	}
	log.Printf("events: %s", evt)
}

// Fanout forwards each event to every sink in order.
type Fanout []Sink

func (f Fanout) Emit(evt Event) {
	for _, s := range f {
		if s != nil {
			s.Emit(evt)
		}
	}
}
