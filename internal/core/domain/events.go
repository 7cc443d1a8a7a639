package domain

// EventType defines the type of real-time event.
type EventType string

const (
	EventSummaryUpdated EventType = "SUMMARY_UPDATED"
	EventPong           EventType = "PONG"
)

// Event is the payload sent over WebSocket.
type Event struct {
	Type       EventType   `json:"type"`
	Generation uint64      `json:"generation,omitempty"`
	Payload    interface{} `json:"payload,omitempty"`
}
