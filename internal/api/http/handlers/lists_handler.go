package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/api/dto"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/service"
)

// ListsHandler manages the custom lists.
type ListsHandler struct {
	service *service.ListService
}

// NewListsHandler constructs handler.
func NewListsHandler(listService *service.ListService) *ListsHandler {
	return &ListsHandler{service: listService}
}

// ListEntries GET /lists.
func (h *ListsHandler) ListEntries(c *fiber.Ctx) error {
	groups, err := h.service.Grouped(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	resp := make(map[domain.ListField][]dto.ListEntryResponse, len(groups))
	for field, entries := range groups {
		resp[field] = dto.ListEntries(entries)
	}
	return c.JSON(fiber.Map{"data": resp})
}

// SaveEntries POST /lists.
func (h *ListsHandler) SaveEntries(c *fiber.Ctx) error {
	var req dto.SaveListsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	values := make(map[domain.ListField][]string, len(req.Values))
	for raw, entries := range req.Values {
		field, err := domain.ParseListField(raw)
		if err != nil {
			return validation(err)
		}
		values[field] = entries
	}
	stored, err := h.service.Save(c.UserContext(), values)
	if err != nil {
		return mapError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ListEntries(stored)})
}

// DeleteEntry DELETE /lists/:id?confirm=true.
func (h *ListsHandler) DeleteEntry(c *fiber.Ctx) error {
	deleted, err := h.service.Delete(c.UserContext(), c.Params("id"), confirmation(c))
	if err != nil {
		return mapError(err)
	}
	count := 0
	if deleted {
		count = 1
	}
	return c.JSON(fiber.Map{"data": dto.DeleteResponse{Deleted: deleted, Count: count}})
}
