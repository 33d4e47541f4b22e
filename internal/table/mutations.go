package table

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/events"
)

type draftInput struct {
	ProcessNumber string `json:"process_number" validate:"required"`
	OpenedOn      string `json:"opened_on" validate:"required,datetime=2006-01-02"`
}

// Add validates and inserts a new ticket, then appends the stored row.
// New tickets always start in progress without a closure date.
func (e *Engine) Add(ctx context.Context, draft domain.Ticket) (domain.Ticket, error) {
	ticket := draft.Clone()
	ticket.ID = ""
	ticket.CreatedAt = nil
	ticket.ProcessNumber = strings.TrimSpace(ticket.ProcessNumber)
	ticket.OpenedOn = strings.TrimSpace(ticket.OpenedOn)
	ticket.Status = domain.TicketStatusInProgress
	ticket.ClosedOn = nil

	if err := e.validateDraft(ticket); err != nil {
		e.notify(LevelError, OpAdd, err.Error())
		return domain.Ticket{}, err
	}

	if err := e.tickets.Insert(ctx, &ticket); err != nil {
		return domain.Ticket{}, e.fail(OpAdd, err)
	}

	e.mu.Lock()
	e.collection = append(e.collection, ticket.Clone())
	e.mu.Unlock()

	e.publish(ctx, events.EventTicketCreated, ticket.ID, events.TicketCreatedPayload{
		ProcessNumber: ticket.ProcessNumber,
		Organization:  ticket.Organization,
		Handler:       ticket.Handler,
	})
	e.notify(LevelSuccess, OpAdd, fmt.Sprintf("Ticket %s created", ticket.ProcessNumber))
	return ticket, nil
}

func newDraftValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		return name
	})
	return validate
}

// fieldRules holds the draft rules that still apply when a field is edited
// on its own.
var fieldRules = map[domain.Field]string{
	domain.FieldProcessNumber: "required",
	domain.FieldOpenedOn:      "required,datetime=2006-01-02",
}

func (e *Engine) validateChanges(changes domain.Changes) error {
	var fields []string
	for _, field := range changes.Fields() {
		rule, ok := fieldRules[field]
		if !ok {
			continue
		}
		value, _ := changes[field].(string)
		if err := e.validate.Var(value, rule); err != nil {
			fields = append(fields, string(field))
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (e *Engine) validateDraft(ticket domain.Ticket) error {
	err := e.validate.Struct(draftInput{
		ProcessNumber: ticket.ProcessNumber,
		OpenedOn:      ticket.OpenedOn,
	})
	if err == nil {
		return nil
	}
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return err
	}
	fields := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields}
}

// SaveField writes one field from the full editor. Tags are given as comma
// separated text. Status, closure date, satisfaction and creation time have
// dedicated operations and are rejected.
func (e *Engine) SaveField(ctx context.Context, id string, field domain.Field, value string) (domain.Ticket, error) {
	var changes domain.Changes
	switch {
	case field.IsFreeText():
		changes = domain.Changes{field: value}
	case field == domain.FieldTags:
		changes = domain.Changes{field: domain.ParseTags(value)}
	default:
		return domain.Ticket{}, fmt.Errorf("%w: %s", ErrFieldNotEditable, field)
	}

	ticket, err := e.writeFields(ctx, OpSaveField, id, changes)
	if err != nil {
		return domain.Ticket{}, err
	}
	e.publish(ctx, events.EventTicketFieldsUpdated, id, events.TicketFieldsUpdatedPayload{
		Fields: []domain.Field{field},
	})
	e.notify(LevelSuccess, OpSaveField, fmt.Sprintf("%s updated", field.Label()))
	return ticket, nil
}

// ToggleStatus closes an open ticket, stamping today's date, or reopens a
// closed one, clearing the closure date.
func (e *Engine) ToggleStatus(ctx context.Context, id string) (domain.Ticket, error) {
	current, err := e.Ticket(id)
	if err != nil {
		return domain.Ticket{}, err
	}

	next := domain.TicketStatusClosed
	var closedOn *string
	if current.IsClosed() {
		next = domain.TicketStatusInProgress
	} else {
		today := e.clock().Format(domain.DateLayout)
		closedOn = &today
	}

	changes := domain.Changes{
		domain.FieldStatus:   next,
		domain.FieldClosedOn: closedOn,
	}
	ticket, err := e.writeFields(ctx, OpToggleStatus, id, changes)
	if err != nil {
		return domain.Ticket{}, err
	}
	e.publish(ctx, events.EventTicketStatusToggled, id, events.TicketStatusToggledPayload{
		OldStatus: current.EffectiveStatus(),
		NewStatus: next,
		ClosedOn:  closedOn,
	})
	e.notify(LevelSuccess, OpToggleStatus, fmt.Sprintf("Ticket %s is now %s", ticket.ProcessNumber, next))
	return ticket, nil
}

// SetSatisfaction records the requester's rating.
func (e *Engine) SetSatisfaction(ctx context.Context, id string, level domain.Satisfaction) (domain.Ticket, error) {
	if _, err := domain.ParseSatisfaction(string(level)); err != nil {
		return domain.Ticket{}, fmt.Errorf("%w: %q", ErrInvalidSatisfaction, level)
	}
	changes := domain.Changes{domain.FieldSatisfaction: &level}
	ticket, err := e.writeFields(ctx, OpSetSatisfaction, id, changes)
	if err != nil {
		return domain.Ticket{}, err
	}
	e.publish(ctx, events.EventTicketSatisfactionSet, id, events.TicketSatisfactionSetPayload{
		Satisfaction: level,
	})
	e.notify(LevelSuccess, OpSetSatisfaction, "Satisfaction recorded")
	return ticket, nil
}

// Delete removes one ticket after confirmation. Declining returns false
// and no error.
func (e *Engine) Delete(ctx context.Context, id string, confirmer Confirmer) (bool, error) {
	ticket, err := e.Ticket(id)
	if err != nil {
		return false, err
	}
	prompt := fmt.Sprintf("Delete ticket %s?", ticket.ProcessNumber)
	if confirmer == nil || !confirmer.Confirm(prompt) {
		return false, nil
	}

	if err := e.tickets.Delete(ctx, id); err != nil {
		return false, e.fail(OpDelete, err)
	}

	e.mu.Lock()
	e.removeLocked([]string{id})
	e.mu.Unlock()

	e.publish(ctx, events.EventTicketDeleted, id, events.TicketDeletedPayload{})
	e.notify(LevelSuccess, OpDelete, fmt.Sprintf("Ticket %s deleted", ticket.ProcessNumber))
	return true, nil
}

// DeleteSelected removes every selected ticket in one store call after
// confirmation and clears the selection. It returns the number deleted.
func (e *Engine) DeleteSelected(ctx context.Context, confirmer Confirmer) (int, error) {
	ids := e.SelectedIDs()
	if len(ids) == 0 {
		return 0, ErrNothingSelected
	}
	prompt := fmt.Sprintf("Delete %d selected tickets?", len(ids))
	if confirmer == nil || !confirmer.Confirm(prompt) {
		return 0, nil
	}

	if err := e.tickets.DeleteMany(ctx, ids); err != nil {
		return 0, e.fail(OpDeleteSelected, err)
	}

	e.mu.Lock()
	e.removeLocked(ids)
	clear(e.selected)
	e.mu.Unlock()

	for _, id := range ids {
		e.publish(ctx, events.EventTicketDeleted, id, events.TicketDeletedPayload{Bulk: true})
	}
	e.notify(LevelSuccess, OpDeleteSelected, fmt.Sprintf("%d tickets deleted", len(ids)))
	return len(ids), nil
}

func (e *Engine) removeLocked(ids []string) {
	e.collection = slices.DeleteFunc(e.collection, func(t domain.Ticket) bool {
		return slices.Contains(ids, t.ID)
	})
	for _, id := range ids {
		delete(e.selected, id)
	}
	if e.edit != nil && slices.Contains(ids, e.edit.TicketID) {
		e.edit = nil
	}
}

// writeFields sends a partial update and mirrors it in the cache once the
// store accepts it. Changes are type checked before the store is called.
func (e *Engine) writeFields(ctx context.Context, operation, id string, changes domain.Changes) (domain.Ticket, error) {
	current, err := e.Ticket(id)
	if err != nil {
		return domain.Ticket{}, err
	}
	if err := current.Apply(changes); err != nil {
		return domain.Ticket{}, err
	}
	if err := e.validateChanges(changes); err != nil {
		e.notify(LevelError, operation, err.Error())
		return domain.Ticket{}, err
	}

	if err := e.tickets.UpdateFields(ctx, id, changes); err != nil {
		return domain.Ticket{}, e.fail(operation, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.indexLocked(id)
	if idx < 0 {
		// Deleted while the write was in flight.
		return domain.Ticket{}, ErrNotFound
	}
	ticket := e.collection[idx]
	if err := ticket.Apply(changes); err != nil {
		return domain.Ticket{}, err
	}
	e.collection[idx] = ticket
	return ticket.Clone(), nil
}
