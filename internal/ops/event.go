package ops

import "time"

type EventType string

const (
	EventProgress  EventType = "progress"
	EventCompleted EventType = "completed"
	EventFailed    EventType = "failed"
	EventCancelled EventType = "cancelled"

	// EventLagged is synthesized by a subscriber whose buffer overflowed.
	// Dropped carries how many events were discarded; it is never published
	// through the bus itself.
	EventLagged EventType = "lagged"
)

// Event is one update about a background operation. Exactly one terminal
// event (Completed, Failed or Cancelled) is published per operation.
type Event struct {
	ID      OperationID
	Kind    Kind
	Type    EventType
	Text    string
	Result  string
	Err     string
	Dropped int
	Time    time.Time
}

// Terminal reports whether the event ends its operation's stream.
func (e Event) Terminal() bool {
	return e.Type == EventCompleted || e.Type == EventFailed || e.Type == EventCancelled
}
