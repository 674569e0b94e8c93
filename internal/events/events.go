// Package events carries discovery progress out of the explorer without
// coupling it to any particular consumer.
package events

import "time"

// Lifecycle events.
const (
	DiscoveryStart    = "graph:discovery:start"
	DiscoveryComplete = "graph:discovery:complete"
	DiscoveryError    = "graph:discovery:error"
	DiscoveryTimeout  = "graph:discovery:timeout"
)

// Login flow events.
const (
	LoginStart          = "graph:discovery:login:start"
	LoginNotNeeded      = "graph:discovery:login:not_needed"
	LoginEmailFilled    = "graph:discovery:login:email_filled"
	LoginPasswordFilled = "graph:discovery:login:password_filled"
	LoginComplete       = "graph:discovery:login:complete"
	LoginRedirect       = "graph:discovery:login:redirect"
	LoginError          = "graph:discovery:login:error"
)

// Per-item progress events.
const (
	Visiting            = "graph:discovery:visiting"
	VisitError          = "graph:discovery:visit_error"
	SkipExternal        = "graph:discovery:skip:external"
	AppTypeDetected     = "graph:discovery:app_type_detected"
	NodeCreated         = "graph:discovery:node_created"
	NavigationDetected  = "graph:discovery:navigation_detected"
	SPAStateFound       = "graph:discovery:spa_state_found"
)

// Event is a single progress notification.
type Event struct {
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// Sink receives discovery events. Implementations must not block: the
// explorer emits from its hot path.
type Sink interface {
	Emit(Event)
}

// Discard is a Sink that drops everything.
type Discard struct{}

func (Discard) Emit(Event) {}

// Func adapts a function to the Sink interface.
type Func func(Event)

func (f Func) Emit(e Event) { f(e) }

// New builds an event with the current timestamp.
func New(eventType string, payload map[string]any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}
