package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/stats"
)

// StatsHandler reports statistics over a session's loaded tickets.
type StatsHandler struct{}

// NewStatsHandler constructs handler.
func NewStatsHandler() *StatsHandler {
	return &StatsHandler{}
}

// Organizations GET /stats/organizations.
func (h *StatsHandler) Organizations(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats.ByOrganization(s.Engine.Tickets())})
}

// HandlingTime GET /stats/handling-time.
func (h *StatsHandler) HandlingTime(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats.HandlingTime(s.Engine.Tickets())})
}
