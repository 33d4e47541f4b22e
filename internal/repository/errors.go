package repository

import (
	"errors"
	"fmt"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

var (
	// ErrNotFound is returned when a requested row doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrUnknownColumn is returned when a field has no backing column.
	ErrUnknownColumn = errors.New("unknown column")
)

// InsertError reports a row the store refused, typically a constraint
// violation. Its message is the store's own and is shown to users verbatim.
type InsertError struct {
	Collection string
	Err        error
}

func (e *InsertError) Error() string {
	return e.Err.Error()
}

func (e *InsertError) Unwrap() error {
	return e.Err
}

// TicketColumns maps ticket fields to their column names. Only fields
// listed here can be written by UpdateFields or used in queries.
var TicketColumns = map[domain.Field]string{
	domain.FieldProcessNumber: "process_number",
	domain.FieldOpenedOn:      "opened_on",
	domain.FieldOrganization:  "organization",
	domain.FieldHandler:       "handler",
	domain.FieldFunctionality: "functionality",
	domain.FieldSummary:       "summary",
	domain.FieldRequestText:   "request_text",
	domain.FieldResponseText:  "response_text",
	domain.FieldTags:          "tags",
	domain.FieldStatus:        "status",
	domain.FieldClosedOn:      "closed_on",
	domain.FieldSatisfaction:  "satisfaction",
}

// Column resolves the column for a field.
func Column(field domain.Field) (string, error) {
	column, ok := TicketColumns[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownColumn, field)
	}
	return column, nil
}

// ColumnValue converts a change value to its storable form: nil pointers
// become NULL, typed strings become plain strings.
func ColumnValue(value any) any {
	switch v := value.(type) {
	case domain.TicketStatus:
		if v == "" {
			return nil
		}
		return string(v)
	case *string:
		if v == nil {
			return nil
		}
		return *v
	case *domain.Satisfaction:
		if v == nil {
			return nil
		}
		return string(*v)
	default:
		return value
	}
}
