// Package filter narrows a ticket collection by field criteria.
package filter

import (
	"strings"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Criteria captures the table's field filters. Every field is optional and
// an empty value places no constraint; non-empty fields combine with AND.
type Criteria struct {
	ProcessNumber string `json:"process_number,omitempty"`
	Handler       string `json:"handler,omitempty"`
	Organization  string `json:"organization,omitempty"`
	OpenedOn      string `json:"opened_on,omitempty"`
	Tag           string `json:"tag,omitempty"`
	Functionality string `json:"functionality,omitempty"`
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// Matches reports whether the ticket satisfies every non-empty criterion.
// Text criteria match by case-insensitive containment, the opening date must
// be equal byte for byte, and the tag criterion matches when any tag
// contains it.
func (c Criteria) Matches(ticket domain.Ticket) bool {
	if !containsFold(ticket.ProcessNumber, c.ProcessNumber) {
		return false
	}
	if !containsFold(ticket.Handler, c.Handler) {
		return false
	}
	if !containsFold(ticket.Organization, c.Organization) {
		return false
	}
	if c.OpenedOn != "" && ticket.OpenedOn != c.OpenedOn {
		return false
	}
	if !containsFold(ticket.Functionality, c.Functionality) {
		return false
	}
	if c.Tag != "" {
		for _, tag := range ticket.Tags {
			if containsFold(tag, c.Tag) {
				return true
			}
		}
		return false
	}
	return true
}

// Apply returns the tickets matching the criteria in their input order. The
// input slice is never modified.
func Apply(tickets []domain.Ticket, criteria Criteria) []domain.Ticket {
	result := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if criteria.Matches(ticket) {
			result = append(result, ticket)
		}
	}
	return result
}

func containsFold(value, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(query))
}
