package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"uptrack/career-coach/internal/models"
	"uptrack/career-coach/internal/repositories"
	"uptrack/career-coach/internal/services"
)

// EditorHandler exposes the view-mode controller: which of structured-edit,
// markdown-preview and markdown-edit is active and which content is
// authoritative.
type EditorHandler struct {
	resumeRepo repositories.ResumeRepository
	editor     services.EditorService
}

func NewEditorHandler(resumeRepo repositories.ResumeRepository, editor services.EditorService) *EditorHandler {
	return &EditorHandler{resumeRepo: resumeRepo, editor: editor}
}

// HandleGetSession handles GET /resume/session. First access seeds the
// session from the persisted document when one exists.
func (h *EditorHandler) HandleGetSession(c *fiber.Ctx) error {
	user := currentUser(c)

	initialContent := ""
	if resume, err := h.resumeRepo.FindByUser(user.ID); err == nil {
		initialContent = resume.Content
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load resume",
		})
	}

	session := h.editor.Session(user.ID, user.Name, initialContent)
	return c.JSON(sessionResponse(session, ""))
}

// HandleUpdateForm handles POST /resume/session/form
func (h *EditorHandler) HandleUpdateForm(c *fiber.Ctx) error {
	user := currentUser(c)

	var form models.ResumeForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	session, warning, err := h.editor.UpdateForm(user.ID, &form)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(sessionResponse(session, warning))
}

// HandleUpdateContent handles POST /resume/session/content (manual markdown
// edits, only valid in markdown-edit mode).
func (h *EditorHandler) HandleUpdateContent(c *fiber.Ctx) error {
	user := currentUser(c)

	var req models.SaveResumeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	session, err := h.editor.UpdateContent(user.ID, req.Content)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(sessionResponse(session, ""))
}

// HandleSetMode handles POST /resume/session/mode
func (h *EditorHandler) HandleSetMode(c *fiber.Ctx) error {
	user := currentUser(c)

	var req models.SetModeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	session, warning, err := h.editor.SetMode(user.ID, services.ViewMode(req.Mode))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(sessionResponse(session, warning))
}

func sessionResponse(session *services.EditorSession, warning string) models.SessionResponse {
	form := session.Form
	return models.SessionResponse{
		Mode:    string(session.Mode),
		Content: session.Content,
		Form:    &form,
		Warning: warning,
	}
}
