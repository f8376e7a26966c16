// Package otel provides structured observability for Courtside.
//
// Events are typed structs serialized as JSONL lines. The Logger writes
// events asynchronously via a buffered channel and background drain goroutine.
// An optional RingBuffer keeps recent events for the /api/events endpoint.
// Components receive a Sink and never reach for a package-level logger.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an observability event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Adapter events, one start and one complete or error per adapter run
	KindAdapterStart     EventKind = "adapter.start"
	KindAdapterComplete  EventKind = "adapter.complete"
	KindAdapterError     EventKind = "adapter.error"
	KindAdapterDateError EventKind = "adapter.date_error"
	KindAdapterFallback  EventKind = "adapter.fallback"

	// Candidate-level trace events (only when COURTSIDE_TRACE is set)
	KindCandidateRejected EventKind = "trace.candidate_rejected"

	// Pipeline events
	KindPipelineMerge    EventKind = "pipeline.merge"
	KindPipelineFallback EventKind = "pipeline.fallback"
	KindPipelinePanic    EventKind = "pipeline.panic"

	// Endpoint events
	KindHTTPRequest  EventKind = "http.request"
	KindHTTPFallback EventKind = "http.fallback"

	// Presentation client events
	KindClientLoad     EventKind = "client.load"
	KindClientFallback EventKind = "client.fallback"

	// System events
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"
)

// Event is the universal observability record. Every field except Kind and
// Time is optional. Serialized as a single JSONL line.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"`       // component: "coord", "server", "markup", "espn"
	SessionID string         `json:"session_id,omitempty"` // random hex, same for entire process
	RunID     string         `json:"run,omitempty"`        // pipeline run correlation ID
	Dur       time.Duration  `json:"-"`                    // not serialized directly
	DurMs     float64        `json:"dur_ms,omitempty"`     // computed from Dur at marshal time
	Count     int            `json:"count,omitempty"`
	Source    string         `json:"source,omitempty"` // adapter name
	Status    int            `json:"status,omitempty"` // HTTP status for http.* events
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`   // free text
	Extra     map[string]any `json:"extra,omitempty"` // escape hatch for unusual fields
}

// MarshalJSON implements json.Marshaler, converting Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	a := struct {
		Alias
	}{Alias: Alias(e)}
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}

// Sink receives observability events. Implementations must be safe for
// concurrent use and must not block the caller for long.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

// Discard is a Sink that drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// tee fans an event out to several sinks.
type tee []Sink

func (t tee) Emit(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	for _, s := range t {
		s.Emit(e)
	}
}

// Tee returns a Sink that forwards each event to every non-nil sink in order.
// The event time is stamped once so all sinks see the same value.
func Tee(sinks ...Sink) Sink {
	out := make(tee, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return Discard
	}
	return out
}

// OrDiscard returns s, or Discard when s is nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}
