package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/api/dto"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/session"
	"github.com/spec-kit/ticket-dashboard/internal/table"
)

// SessionHandler drives the table view of a dashboard session.
type SessionHandler struct {
	sessions *session.Manager
	tokens   *session.TokenManager
}

// NewSessionHandler constructs handler.
func NewSessionHandler(sessions *session.Manager, tokens *session.TokenManager) *SessionHandler {
	return &SessionHandler{sessions: sessions, tokens: tokens}
}

// Create POST /sessions.
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	s, err := h.sessions.Create(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	token, expiresAt, err := h.tokens.GenerateToken(s.ID)
	if err != nil {
		return mapError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.SessionResponse{
		SessionID: s.ID,
		Token:     token,
		ExpiresAt: expiresAt,
		Tickets:   len(s.Engine.Tickets()),
	}})
}

// End DELETE /session.
func (h *SessionHandler) End(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	if err := h.sessions.Close(c.UserContext(), s.ID); err != nil {
		return mapError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// View GET /session/view.
func (h *SessionHandler) View(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	return respondView(c, s)
}

// Reload POST /session/reload.
func (h *SessionHandler) Reload(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	if err := s.Engine.Load(c.UserContext()); err != nil {
		return mapError(err)
	}
	return respondView(c, s)
}

// SetFilters PUT /session/filters.
func (h *SessionHandler) SetFilters(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.FiltersRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	color, err := table.ParseStatusColor(req.StatusColor)
	if err != nil {
		return validation(err)
	}
	s.Engine.SetCriteria(req.Criteria)
	if err := s.Engine.SetStatusColor(color); err != nil {
		return mapError(err)
	}
	return respondView(c, s)
}

// ToggleSort POST /session/sort/:field.
func (h *SessionHandler) ToggleSort(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	field, err := domain.ParseField(c.Params("field"))
	if err != nil {
		return validation(err)
	}
	if err := s.Engine.ToggleSort(field); err != nil {
		return mapError(err)
	}
	return respondView(c, s)
}

// SetPage PUT /session/page.
func (h *SessionHandler) SetPage(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.PageRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	switch strings.ToLower(req.Direction) {
	case "next":
		s.Engine.NextPage()
	case "prev", "previous":
		s.Engine.PrevPage()
	case "":
		s.Engine.GoToPage(req.Page)
	default:
		return invalidPayload()
	}
	return respondView(c, s)
}

// SetPageSize PUT /session/page-size.
func (h *SessionHandler) SetPageSize(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.PageSizeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if err := s.Engine.SetPageSize(req.PageSize); err != nil {
		return mapError(err)
	}
	return respondView(c, s)
}

// ToggleSelection POST /session/selection/:id.
func (h *SessionHandler) ToggleSelection(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	if _, err := s.Engine.ToggleSelected(c.Params("id")); err != nil {
		return mapError(err)
	}
	return respondView(c, s)
}

// DeleteSelected DELETE /session/selection?confirm=true.
func (h *SessionHandler) DeleteSelected(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	count, err := s.Engine.DeleteSelected(c.UserContext(), confirmation(c))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.DeleteResponse{Deleted: count > 0, Count: count}})
}

// BeginEdit POST /session/edit.
func (h *SessionHandler) BeginEdit(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.BeginEditRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if err := s.Engine.FocusEdit(c.UserContext(), req.TicketID, req.Field); err != nil {
		return mapError(err)
	}
	edit, _ := s.Engine.Edit()
	return c.JSON(fiber.Map{"data": edit})
}

// SetPending PUT /session/edit.
func (h *SessionHandler) SetPending(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.PendingEditRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if err := s.Engine.SetPending(req.Value); err != nil {
		return mapError(err)
	}
	edit, _ := s.Engine.Edit()
	return c.JSON(fiber.Map{"data": edit})
}

// CommitEdit POST /session/edit/commit.
func (h *SessionHandler) CommitEdit(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	ticket, err := s.Engine.CommitEdit(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.Ticket(ticket)})
}

// CancelEdit DELETE /session/edit.
func (h *SessionHandler) CancelEdit(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	s.Engine.CancelEdit()
	return c.SendStatus(fiber.StatusNoContent)
}

// Notifications GET /session/notifications.
func (h *SessionHandler) Notifications(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": s.Inbox.Drain()})
}

func respondView(c *fiber.Ctx, s *session.Session) error {
	return c.JSON(fiber.Map{"data": dto.View(s.Engine.View())})
}
