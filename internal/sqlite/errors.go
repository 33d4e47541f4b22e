package sqlite

import (
	"strings"

	"github.com/spec-kit/ticket-dashboard/internal/repository"
)

func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "constraint failed")
}

// insertError passes constraint violations through with the store's message.
func insertError(collection string, err error) error {
	if isConstraintViolation(err) {
		return &repository.InsertError{Collection: collection, Err: err}
	}
	return err
}
