package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusClosed     TicketStatus = "closed"
)

// DateLayout is the textual form of opening and closure dates.
const DateLayout = "2006-01-02"

// Ticket is a tracked support case.
type Ticket struct {
	ID            string
	ProcessNumber string
	OpenedOn      string
	Organization  string
	Handler       string
	Functionality string
	Summary       string
	RequestText   string
	ResponseText  string
	Tags          []string
	// Status is empty for rows that never had one; they count as in progress.
	Status       TicketStatus
	ClosedOn     *string
	CreatedAt    *time.Time
	Satisfaction *Satisfaction
}

// IsClosed reports whether the ticket is in the closed state.
func (t Ticket) IsClosed() bool {
	return t.Status == TicketStatusClosed
}

// EffectiveStatus resolves an unset status to in progress.
func (t Ticket) EffectiveStatus() TicketStatus {
	if t.Status == "" {
		return TicketStatusInProgress
	}
	return t.Status
}

// AgingReference returns the instant ticket age is measured from: the
// creation timestamp when the store assigned one, else the opening date.
// ok is false when neither is usable.
func (t Ticket) AgingReference() (ref time.Time, ok bool) {
	if t.CreatedAt != nil && !t.CreatedAt.IsZero() {
		return *t.CreatedAt, true
	}
	opened, err := time.Parse(DateLayout, t.OpenedOn)
	if err != nil {
		return time.Time{}, false
	}
	return opened, true
}

// Clone returns a copy that shares no slices or pointers with t.
func (t Ticket) Clone() Ticket {
	out := t
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	if t.ClosedOn != nil {
		closed := *t.ClosedOn
		out.ClosedOn = &closed
	}
	if t.CreatedAt != nil {
		created := *t.CreatedAt
		out.CreatedAt = &created
	}
	if t.Satisfaction != nil {
		level := *t.Satisfaction
		out.Satisfaction = &level
	}
	return out
}

// ParseTags splits comma separated input into trimmed, non-empty tags.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
