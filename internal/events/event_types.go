package events

import (
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketFieldsUpdated   EventType = "ticket_fields_updated"
	EventTicketStatusToggled   EventType = "ticket_status_toggled"
	EventTicketSatisfactionSet EventType = "ticket_satisfaction_set"
	EventTicketDeleted         EventType = "ticket_deleted"
)

// Event represents a change made through a dashboard session.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	SessionID string      `json:"session_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ProcessNumber string `json:"process_number"`
	Organization  string `json:"organization"`
	Handler       string `json:"handler"`
}

// TicketFieldsUpdatedPayload payload.
type TicketFieldsUpdatedPayload struct {
	Fields []domain.Field `json:"fields"`
	Inline bool           `json:"inline"`
}

// TicketStatusToggledPayload payload.
type TicketStatusToggledPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	ClosedOn  *string             `json:"closed_on,omitempty"`
}

// TicketSatisfactionSetPayload payload.
type TicketSatisfactionSetPayload struct {
	Satisfaction domain.Satisfaction `json:"satisfaction"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	Bulk bool `json:"bulk"`
}
