package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/api/dto"
	"github.com/spec-kit/ticket-dashboard/internal/service"
)

// maxScriptBytes bounds uploaded script files.
const maxScriptBytes = 1 << 20

// ScriptsHandler manages reply scripts.
type ScriptsHandler struct {
	service *service.ScriptService
}

// NewScriptsHandler constructs handler.
func NewScriptsHandler(scriptService *service.ScriptService) *ScriptsHandler {
	return &ScriptsHandler{service: scriptService}
}

// ListScripts GET /scripts.
func (h *ScriptsHandler) ListScripts(c *fiber.Ctx) error {
	scripts, err := h.service.List(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.Scripts(scripts)})
}

// UploadScript POST /scripts (multipart field "file").
func (h *ScriptsHandler) UploadScript(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return invalidPayload()
	}
	if header.Size > maxScriptBytes {
		return invalidPayload()
	}
	file, err := header.Open()
	if err != nil {
		return mapError(err)
	}
	defer file.Close()
	content, err := io.ReadAll(io.LimitReader(file, maxScriptBytes))
	if err != nil {
		return mapError(err)
	}

	created, err := h.service.Upload(c.UserContext(), header.Filename, content)
	if err != nil {
		return mapError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.Script(*created)})
}

// Template GET /scripts/:id/template.
func (h *ScriptsHandler) Template(c *fiber.Ctx) error {
	fill, err := h.service.Open(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.ScriptTemplate(fill)})
}

// Render POST /scripts/:id/render.
func (h *ScriptsHandler) Render(c *fiber.Ctx) error {
	var req dto.RenderScriptRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	result, err := h.service.Render(c.UserContext(), c.Params("id"), req.Values)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.RenderScriptResponse{Name: result.Name, Text: result.Text}})
}
