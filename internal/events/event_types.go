package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventSessionRestored fires when startup finds a usable token in the store.
	EventSessionRestored EventType = "session_restored"
	// EventSessionDiscarded fires when startup finds a malformed or expired token and purges it.
	EventSessionDiscarded EventType = "session_discarded"
	EventSessionStarted   EventType = "session_started"
	EventSessionEnded     EventType = "session_ended"
	// EventSessionRevoked is emitted by the HTTP client when the backend answers 401 or 403.
	EventSessionRevoked EventType = "session_revoked"
)

// Event represents a session lifecycle transition.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	SessionKey string    `json:"session_key,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Payload    any       `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh ID and the current time.
func NewEvent(eventType EventType, sessionKey, subject string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		SessionKey: sessionKey,
		Subject:    subject,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}

// DiscardedPayload explains why a stored token was dropped at startup.
type DiscardedPayload struct {
	Reason string `json:"reason"`
}

// RevokedPayload describes the backend call that triggered a revocation.
type RevokedPayload struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Status int    `json:"status"`
}
