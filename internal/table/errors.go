package table

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a ticket id is not in the loaded collection.
	ErrNotFound = errors.New("ticket not found")

	// ErrNothingSelected is returned by bulk delete when the selection is empty.
	ErrNothingSelected = errors.New("no tickets selected")

	// ErrNotInlineEditable is returned when a field cannot be edited in place.
	ErrNotInlineEditable = errors.New("field is not inline editable")

	// ErrNoEditInProgress is returned when committing without an open edit.
	ErrNoEditInProgress = errors.New("no inline edit in progress")

	// ErrFieldNotEditable is returned for fields owned by dedicated operations.
	ErrFieldNotEditable = errors.New("field is not editable")

	// ErrInvalidPageSize is returned for page sizes outside PageSizes.
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrInvalidSatisfaction is returned for unknown rating levels.
	ErrInvalidSatisfaction = errors.New("invalid satisfaction level")
)

// ValidationError lists the draft fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid required fields: %s", strings.Join(e.Fields, ", "))
}

// WriteError wraps a failed remote write with the operation that issued it.
type WriteError struct {
	Operation string
	Err       error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
