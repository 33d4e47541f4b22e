package table

import (
	"context"
	"fmt"
	"slices"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/events"
)

// InlineEditable lists the fields edited in place from the table.
var InlineEditable = []domain.Field{
	domain.FieldOpenedOn,
	domain.FieldOrganization,
	domain.FieldHandler,
	domain.FieldFunctionality,
}

// IsInlineEditable reports whether field is edited in place.
func IsInlineEditable(field domain.Field) bool {
	return slices.Contains(InlineEditable, field)
}

// InlineEdit is the in-progress edit of one table cell.
type InlineEdit struct {
	TicketID string       `json:"ticket_id"`
	Field    domain.Field `json:"field"`
	Pending  string       `json:"pending"`
}

// BeginEdit opens an inline edit seeded with the current value, replacing
// any edit in progress without writing it; FocusEdit commits it instead.
// Fields outside InlineEditable return ErrNotInlineEditable; callers open
// the read view for those instead.
func (e *Engine) BeginEdit(id string, field domain.Field) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.indexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}
	if !IsInlineEditable(field) {
		return fmt.Errorf("%w: %s", ErrNotInlineEditable, field)
	}
	e.edit = &InlineEdit{
		TicketID: id,
		Field:    field,
		Pending:  e.collection[idx].Text(field),
	}
	return nil
}

// SetPending replaces the pending value of the open edit.
func (e *Engine) SetPending(value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.edit == nil {
		return ErrNoEditInProgress
	}
	e.edit.Pending = value
	return nil
}

// Edit returns the open inline edit, if any.
func (e *Engine) Edit() (InlineEdit, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.edit == nil {
		return InlineEdit{}, false
	}
	return *e.edit, true
}

// FocusEdit moves the inline edit to another cell. The edit being left is
// closed as by LeaveEdit; when that write fails the old edit stays open and
// no new one is started.
func (e *Engine) FocusEdit(ctx context.Context, id string, field domain.Field) error {
	if err := e.LeaveEdit(ctx); err != nil {
		return err
	}
	return e.BeginEdit(id, field)
}

// LeaveEdit closes the open edit the way losing focus does: a changed value
// is committed, an unchanged one is dropped. Without an open edit it does
// nothing.
func (e *Engine) LeaveEdit(ctx context.Context) error {
	e.mu.Lock()
	if e.edit == nil {
		e.mu.Unlock()
		return nil
	}
	idx := e.indexLocked(e.edit.TicketID)
	unchanged := idx < 0 || e.collection[idx].Text(e.edit.Field) == e.edit.Pending
	if unchanged {
		e.edit = nil
	}
	e.mu.Unlock()
	if unchanged {
		return nil
	}
	_, err := e.CommitEdit(ctx)
	return err
}

// CancelEdit discards the open edit without writing.
func (e *Engine) CancelEdit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.edit = nil
}

// CommitEdit writes the pending value of the open edit. On success the
// cache is updated and the edit closed; on failure the edit stays open.
func (e *Engine) CommitEdit(ctx context.Context) (domain.Ticket, error) {
	e.mu.Lock()
	if e.edit == nil {
		e.mu.Unlock()
		return domain.Ticket{}, ErrNoEditInProgress
	}
	edit := *e.edit
	e.mu.Unlock()

	changes := domain.Changes{edit.Field: edit.Pending}
	ticket, err := e.writeFields(ctx, OpInlineEdit, edit.TicketID, changes)
	if err != nil {
		return domain.Ticket{}, err
	}

	e.mu.Lock()
	if e.edit != nil && *e.edit == edit {
		e.edit = nil
	}
	e.mu.Unlock()

	e.publish(ctx, events.EventTicketFieldsUpdated, edit.TicketID, events.TicketFieldsUpdatedPayload{
		Fields: []domain.Field{edit.Field},
		Inline: true,
	})
	e.notify(LevelSuccess, OpInlineEdit, fmt.Sprintf("%s updated", edit.Field.Label()))
	return ticket, nil
}

// CopyProcessNumber copies a ticket's process number to the clipboard and
// returns it.
func (e *Engine) CopyProcessNumber(id string) (string, error) {
	ticket, err := e.Ticket(id)
	if err != nil {
		return "", err
	}
	if e.clipboard != nil {
		if err := e.clipboard.WriteAll(ticket.ProcessNumber); err != nil {
			e.notify(LevelError, OpCopy, fmt.Sprintf("Could not copy: %v", err))
			return "", fmt.Errorf("copy process number: %w", err)
		}
	}
	e.notify(LevelSuccess, OpCopy, fmt.Sprintf("Copied %s", ticket.ProcessNumber))
	return ticket.ProcessNumber, nil
}
