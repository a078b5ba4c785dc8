package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/process-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserLoggedIn    EventType = "user_logged_in"
	EventUserLoginFailed EventType = "user_login_failed"
	EventUserLoggedOut   EventType = "user_logged_out"
	EventProcessCreated  EventType = "process_created"
	EventProcessUpdated  EventType = "process_updated"
	EventProcessDeleted  EventType = "process_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     string      `json:"actor,omitempty"`
	ProcessID int64       `json:"process_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, actor string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// ProcessChangedPayload describes a created or updated record.
type ProcessChangedPayload struct {
	Number    string               `json:"number,omitempty"`
	Title     string               `json:"title"`
	OldStatus domain.ProcessStatus `json:"old_status,omitempty"`
	NewStatus domain.ProcessStatus `json:"new_status"`
}

// ProcessDeletedPayload payload.
type ProcessDeletedPayload struct {
	Number string `json:"number,omitempty"`
	Found  bool   `json:"found"`
}
