package dto

import (
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/filter"
)

// SessionResponse is returned when a dashboard session starts.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Tickets   int       `json:"tickets"`
}

// FiltersRequest replaces the field criteria and the status color filter.
type FiltersRequest struct {
	filter.Criteria
	StatusColor string `json:"status_color"`
}

// PageRequest moves to a page. Direction "next" or "prev" takes precedence
// over Page.
type PageRequest struct {
	Page      int    `json:"page"`
	Direction string `json:"direction"`
}

// PageSizeRequest changes the page size.
type PageSizeRequest struct {
	PageSize int `json:"page_size"`
}

// BeginEditRequest opens an inline edit.
type BeginEditRequest struct {
	TicketID string       `json:"ticket_id"`
	Field    domain.Field `json:"field"`
}

// PendingEditRequest updates the pending inline value.
type PendingEditRequest struct {
	Value string `json:"value"`
}

// DeleteResponse reports the outcome of a confirmed action.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
	Count   int  `json:"count"`
}

// CopyResponse returns copied text.
type CopyResponse struct {
	Text string `json:"text"`
}
