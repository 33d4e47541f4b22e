package table

import (
	"fmt"
	"slices"
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/filter"
)

// SortDirection orders the sorted column.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// Row is one visible table line.
type Row struct {
	Ticket    domain.Ticket `json:"ticket"`
	Indicator Indicator     `json:"indicator"`
	Selected  bool          `json:"selected"`
}

// View is the derived, paginated table.
type View struct {
	Rows        []Row           `json:"rows"`
	Page        int             `json:"page"`
	PageSize    int             `json:"page_size"`
	TotalPages  int             `json:"total_pages"`
	Total       int             `json:"total"`
	Matching    int             `json:"matching"`
	Criteria    filter.Criteria `json:"criteria"`
	StatusColor StatusColor     `json:"status_color,omitempty"`
	SortField   domain.Field    `json:"sort_field,omitempty"`
	// SortDirection is empty while unsorted.
	SortDirection SortDirection `json:"sort_direction,omitempty"`
	SelectedCount int           `json:"selected_count"`
	CanBulkDelete bool          `json:"can_bulk_delete"`
	Edit          *InlineEdit   `json:"edit,omitempty"`
}

// View derives the visible table: filter, status color, sort, paginate.
// A stored page beyond the last page is clamped.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	matching := e.matchingLocked(now)
	e.sortLocked(matching)

	totalPages := pageCount(len(matching), e.pageSize)
	e.page = clampPage(e.page, totalPages)

	start := min((e.page-1)*e.pageSize, len(matching))
	end := min(start+e.pageSize, len(matching))

	rows := make([]Row, 0, end-start)
	for _, ticket := range matching[start:end] {
		_, selected := e.selected[ticket.ID]
		rows = append(rows, Row{
			Ticket:    ticket.Clone(),
			Indicator: IndicatorFor(ticket, now),
			Selected:  selected,
		})
	}

	view := View{
		Rows:          rows,
		Page:          e.page,
		PageSize:      e.pageSize,
		TotalPages:    totalPages,
		Total:         len(e.collection),
		Matching:      len(matching),
		Criteria:      e.criteria,
		StatusColor:   e.statusColor,
		SortField:     e.sortField,
		SelectedCount: len(e.selected),
		CanBulkDelete: len(e.selected) > 0,
	}
	if e.sortField != "" {
		view.SortDirection = SortAscending
		if e.sortDesc {
			view.SortDirection = SortDescending
		}
	}
	if e.edit != nil {
		edit := *e.edit
		view.Edit = &edit
	}
	return view
}

// matchingLocked applies the criteria and the status color filter.
func (e *Engine) matchingLocked(now time.Time) []domain.Ticket {
	matching := filter.Apply(e.collection, e.criteria)
	if e.statusColor == "" {
		return matching
	}
	colored := matching[:0]
	for _, ticket := range matching {
		if Classify(ticket, now) == e.statusColor {
			colored = append(colored, ticket)
		}
	}
	return colored
}

func (e *Engine) sortLocked(tickets []domain.Ticket) {
	if e.sortField == "" {
		return
	}
	field, desc := e.sortField, e.sortDesc
	slices.SortStableFunc(tickets, func(a, b domain.Ticket) int {
		cmp := e.collator.CompareString(a.Text(field), b.Text(field))
		if desc {
			return -cmp
		}
		return cmp
	})
}

func pageCount(count, size int) int {
	if size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

func clampPage(page, totalPages int) int {
	return min(max(page, 1), max(1, totalPages))
}

// SetCriteria replaces the filter criteria. The page is kept and clamped
// on the next View.
func (e *Engine) SetCriteria(criteria filter.Criteria) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.criteria = criteria
}

// SetStatusColor restricts the table to one urgency class; empty clears it.
func (e *Engine) SetStatusColor(color StatusColor) error {
	if _, err := ParseStatusColor(string(color)); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.statusColor = color
	return nil
}

// ToggleSort sorts by field. Selecting the current field flips the
// direction; another field starts ascending.
func (e *Engine) ToggleSort(field domain.Field) error {
	if _, err := domain.ParseField(string(field)); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sortField == field {
		e.sortDesc = !e.sortDesc
		return nil
	}
	e.sortField = field
	e.sortDesc = false
	return nil
}

// SetPageSize changes the page size and returns to the first page.
func (e *Engine) SetPageSize(size int) error {
	if !validPageSize(size) {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pageSize = size
	e.page = 1
	return nil
}

// GoToPage moves to page, clamped to the available pages, and returns the
// resulting page.
func (e *Engine) GoToPage(page int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.goToLocked(page)
}

// NextPage advances one page unless on the last page.
func (e *Engine) NextPage() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.goToLocked(e.page + 1)
}

// PrevPage goes back one page unless on the first page.
func (e *Engine) PrevPage() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.goToLocked(e.page - 1)
}

func (e *Engine) goToLocked(page int) int {
	count := len(e.matchingLocked(e.clock()))
	e.page = clampPage(page, pageCount(count, e.pageSize))
	return e.page
}
