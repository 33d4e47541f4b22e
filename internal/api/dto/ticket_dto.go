package dto

import (
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/filter"
	"github.com/spec-kit/ticket-dashboard/internal/table"
)

// CreateTicketRequest payload. Status and closure date are not accepted;
// new tickets start in progress.
type CreateTicketRequest struct {
	ProcessNumber string   `json:"process_number"`
	OpenedOn      string   `json:"opened_on"`
	Organization  string   `json:"organization"`
	Handler       string   `json:"handler"`
	Functionality string   `json:"functionality"`
	Summary       string   `json:"summary"`
	RequestText   string   `json:"request_text"`
	ResponseText  string   `json:"response_text"`
	Tags          []string `json:"tags"`
}

// Draft converts the payload to an unsaved ticket.
func (r CreateTicketRequest) Draft() domain.Ticket {
	return domain.Ticket{
		ProcessNumber: r.ProcessNumber,
		OpenedOn:      r.OpenedOn,
		Organization:  r.Organization,
		Handler:       r.Handler,
		Functionality: r.Functionality,
		Summary:       r.Summary,
		RequestText:   r.RequestText,
		ResponseText:  r.ResponseText,
		Tags:          r.Tags,
	}
}

// UpdateFieldRequest carries a full-editor value. Tags are comma separated.
type UpdateFieldRequest struct {
	Value string `json:"value"`
}

// SatisfactionRequest sets a rating.
type SatisfactionRequest struct {
	Satisfaction string `json:"satisfaction"`
}

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID            string               `json:"id"`
	ProcessNumber string               `json:"process_number"`
	OpenedOn      string               `json:"opened_on"`
	Organization  string               `json:"organization"`
	Handler       string               `json:"handler"`
	Functionality string               `json:"functionality"`
	Summary       string               `json:"summary"`
	RequestText   string               `json:"request_text"`
	ResponseText  string               `json:"response_text"`
	Tags          []string             `json:"tags"`
	Status        domain.TicketStatus  `json:"status"`
	ClosedOn      *string              `json:"closed_on"`
	Satisfaction  *domain.Satisfaction `json:"satisfaction"`
	CreatedAt     *time.Time           `json:"created_at"`
}

// Ticket converts a domain ticket.
func Ticket(t domain.Ticket) TicketResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TicketResponse{
		ID:            t.ID,
		ProcessNumber: t.ProcessNumber,
		OpenedOn:      t.OpenedOn,
		Organization:  t.Organization,
		Handler:       t.Handler,
		Functionality: t.Functionality,
		Summary:       t.Summary,
		RequestText:   t.RequestText,
		ResponseText:  t.ResponseText,
		Tags:          tags,
		Status:        t.EffectiveStatus(),
		ClosedOn:      t.ClosedOn,
		Satisfaction:  t.Satisfaction,
		CreatedAt:     t.CreatedAt,
	}
}

// Tickets converts a slice of tickets.
func Tickets(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, Ticket(t))
	}
	return out
}

// RowResponse is one visible table line.
type RowResponse struct {
	TicketResponse
	Indicator table.Indicator `json:"indicator"`
	Selected  bool            `json:"selected"`
}

// ViewResponse is the derived table.
type ViewResponse struct {
	Rows          []RowResponse       `json:"rows"`
	Page          int                 `json:"page"`
	PageSize      int                 `json:"page_size"`
	PageSizes     []int               `json:"page_sizes"`
	TotalPages    int                 `json:"total_pages"`
	Total         int                 `json:"total"`
	Matching      int                 `json:"matching"`
	Criteria      filter.Criteria     `json:"criteria"`
	StatusColor   table.StatusColor   `json:"status_color,omitempty"`
	SortField     domain.Field        `json:"sort_field,omitempty"`
	SortDirection table.SortDirection `json:"sort_direction,omitempty"`
	SelectedCount int                 `json:"selected_count"`
	CanBulkDelete bool                `json:"can_bulk_delete"`
	Edit          *table.InlineEdit   `json:"edit,omitempty"`
}

// View converts a derived table.
func View(v table.View) ViewResponse {
	rows := make([]RowResponse, 0, len(v.Rows))
	for _, row := range v.Rows {
		rows = append(rows, RowResponse{
			TicketResponse: Ticket(row.Ticket),
			Indicator:      row.Indicator,
			Selected:       row.Selected,
		})
	}
	return ViewResponse{
		Rows:          rows,
		Page:          v.Page,
		PageSize:      v.PageSize,
		PageSizes:     table.PageSizes,
		TotalPages:    v.TotalPages,
		Total:         v.Total,
		Matching:      v.Matching,
		Criteria:      v.Criteria,
		StatusColor:   v.StatusColor,
		SortField:     v.SortField,
		SortDirection: v.SortDirection,
		SelectedCount: v.SelectedCount,
		CanBulkDelete: v.CanBulkDelete,
		Edit:          v.Edit,
	}
}
