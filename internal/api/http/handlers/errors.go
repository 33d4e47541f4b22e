package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/repository"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	"github.com/spec-kit/ticket-dashboard/internal/session"
	"github.com/spec-kit/ticket-dashboard/internal/table"
	"github.com/spec-kit/ticket-dashboard/internal/view"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// mapError translates engine, service and store errors to DomainErrors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var validationErr *table.ValidationError
	if errors.As(err, &validationErr) {
		return apperrors.NewValidationError(err.Error(), map[string]any{"fields": validationErr.Fields})
	}
	var writeErr *table.WriteError
	if errors.As(err, &writeErr) {
		return apperrors.NewRemoteWriteFailed(writeErr.Operation, writeErr.Err)
	}
	var insertErr *repository.InsertError
	if errors.As(err, &insertErr) {
		return apperrors.NewRemoteWriteFailed("insert "+insertErr.Collection, insertErr.Err)
	}

	switch {
	case errors.Is(err, table.ErrNotFound):
		return apperrors.NewNotFound("ticket", nil)
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("resource", nil)
	case errors.Is(err, session.ErrSessionNotFound):
		return apperrors.NewUnauthorized("session expired")
	case errors.Is(err, table.ErrNoEditInProgress),
		errors.Is(err, view.ErrInvalidTransition):
		return apperrors.NewConflict(err.Error(), nil)
	case errors.Is(err, table.ErrNothingSelected),
		errors.Is(err, table.ErrNotInlineEditable),
		errors.Is(err, table.ErrFieldNotEditable),
		errors.Is(err, table.ErrInvalidPageSize),
		errors.Is(err, table.ErrInvalidSatisfaction),
		errors.Is(err, service.ErrNothingToSave),
		errors.Is(err, service.ErrInvalidScript):
		return apperrors.NewValidationError(err.Error(), nil)
	}
	return apperrors.MapError(err)
}

func invalidPayload() error {
	return apperrors.NewValidationError("invalid payload", nil)
}

// confirmation reads consent for destructive actions from ?confirm=true.
func confirmation(c *fiber.Ctx) table.Confirmer {
	confirmed := c.QueryBool("confirm", false)
	return table.ConfirmFunc(func(string) bool { return confirmed })
}

func currentSession(c *fiber.Ctx) (*session.Session, error) {
	s, ok := session.FromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("session required")
	}
	return s, nil
}

func validation(err error) error {
	return apperrors.NewValidationError(err.Error(), nil)
}
