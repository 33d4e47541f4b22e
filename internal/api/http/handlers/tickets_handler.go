package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/api/dto"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/filter"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
)

// TicketsHandler manages ticket mutations of a session's table.
type TicketsHandler struct {
	tickets repository.TicketRepository
}

// NewTicketsHandler constructs handler. The repository serves store-side
// search; every mutation goes through the session's engine.
func NewTicketsHandler(tickets repository.TicketRepository) *TicketsHandler {
	return &TicketsHandler{tickets: tickets}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	ticket, err := s.Engine.Add(c.UserContext(), req.Draft())
	if err != nil {
		return mapError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.Ticket(ticket)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	ticket, err := s.Engine.Ticket(c.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.Ticket(ticket)})
}

// UpdateField PUT /tickets/:id/fields/:field.
func (h *TicketsHandler) UpdateField(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	field, err := domain.ParseField(c.Params("field"))
	if err != nil {
		return validation(err)
	}
	var req dto.UpdateFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	ticket, err := s.Engine.SaveField(c.UserContext(), c.Params("id"), field, req.Value)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.Ticket(ticket)})
}

// ToggleStatus POST /tickets/:id/status/toggle.
func (h *TicketsHandler) ToggleStatus(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	ticket, err := s.Engine.ToggleStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.Ticket(ticket)})
}

// SetSatisfaction PUT /tickets/:id/satisfaction.
func (h *TicketsHandler) SetSatisfaction(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.SatisfactionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	ticket, err := s.Engine.SetSatisfaction(c.UserContext(), c.Params("id"), domain.Satisfaction(req.Satisfaction))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.Ticket(ticket)})
}

// DeleteTicket DELETE /tickets/:id?confirm=true.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	deleted, err := s.Engine.Delete(c.UserContext(), c.Params("id"), confirmation(c))
	if err != nil {
		return mapError(err)
	}
	count := 0
	if deleted {
		count = 1
	}
	return c.JSON(fiber.Map{"data": dto.DeleteResponse{Deleted: deleted, Count: count}})
}

// CopyProcessNumber POST /tickets/:id/copy.
func (h *TicketsHandler) CopyProcessNumber(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	text, err := s.Engine.CopyProcessNumber(c.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.CopyResponse{Text: text}})
}

// Search GET /tickets/search.
func (h *TicketsHandler) Search(c *fiber.Ctx) error {
	criteria := filter.Criteria{
		ProcessNumber: c.Query("process_number"),
		Handler:       c.Query("handler"),
		Organization:  c.Query("organization"),
		OpenedOn:      c.Query("opened_on"),
		Tag:           c.Query("tag"),
		Functionality: c.Query("functionality"),
	}
	tickets, err := h.tickets.Search(c.UserContext(), criteria)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.Tickets(tickets)})
}
