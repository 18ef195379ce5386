package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"uptrack/career-coach/internal/models"
	"uptrack/career-coach/internal/repositories"
	"uptrack/career-coach/internal/services"
)

type ResumeHandler struct {
	resumeRepo repositories.ResumeRepository
	editor     services.EditorService
	exporter   services.ExportService
	improver   services.ImproveService
	storage    services.StorageService
	importer   services.ImportService
}

func NewResumeHandler(
	resumeRepo repositories.ResumeRepository,
	editor services.EditorService,
	exporter services.ExportService,
	improver services.ImproveService,
	storage services.StorageService,
	importer services.ImportService,
) *ResumeHandler {
	return &ResumeHandler{
		resumeRepo: resumeRepo,
		editor:     editor,
		exporter:   exporter,
		improver:   improver,
		storage:    storage,
		importer:   importer,
	}
}

// HandleGetResume handles GET /resume
func (h *ResumeHandler) HandleGetResume(c *fiber.Ctx) error {
	user := currentUser(c)

	resume, err := h.resumeRepo.FindByUser(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"resume": nil})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load resume",
		})
	}

	return c.JSON(fiber.Map{"resume": resume})
}

// HandleSaveResume handles PUT /resume
func (h *ResumeHandler) HandleSaveResume(c *fiber.Ctx) error {
	user := currentUser(c)

	var req models.SaveResumeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if strings.TrimSpace(req.Content) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "content is required",
		})
	}

	resume, err := h.resumeRepo.Upsert(user.ID, req.Content)
	if err != nil {
		log.Printf("⚠️  Failed to save resume for %s: %v\n", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save resume",
		})
	}

	return c.JSON(fiber.Map{"resume": resume})
}

// HandleImprove handles POST /resume/improve
func (h *ResumeHandler) HandleImprove(c *fiber.Ctx) error {
	user := currentUser(c)

	var req models.ImproveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	improved, err := h.improver.Improve(c.Context(), user.ID, req.Current, req.Type)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		log.Printf("⚠️  Improve failed for %s: %v\n", user.ID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "AI service temporarily unavailable",
		})
	}

	return c.JSON(models.ImproveResponse{Improved: improved})
}

// HandleExport handles POST /resume/export. The export action is disabled
// for a blank document here, at the trigger point, not inside the pipeline.
func (h *ResumeHandler) HandleExport(c *fiber.Ctx) error {
	user := currentUser(c)

	content := h.currentContent(user)
	if strings.TrimSpace(content) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Nothing to export: the resume is empty",
		})
	}

	artifact, err := h.exporter.Export(c.Context(), user.ID, content, user.Name)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrExportInFlight):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "An export is already running. Please wait for it to finish",
			})
		case errors.Is(err, models.ErrContentNotReady):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Resume content not ready. Please try again",
			})
		default:
			log.Printf("❌ Export failed for %s: %v\n", user.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to generate PDF. Please try again",
			})
		}
	}

	if artifact.Fallback {
		// The client opens this in a new window; the document triggers the
		// native print dialog itself.
		c.Set("X-Export-Fallback", "print")
	}
	c.Set(fiber.HeaderContentType, artifact.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	return c.Send(artifact.Data)
}

// HandleImport handles POST /resume/import: seed the markdown document from
// an uploaded PDF resume.
func (h *ResumeHandler) HandleImport(c *fiber.Ctx) error {
	_ = currentUser(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file is required",
		})
	}

	path, err := h.storage.SaveUpload(fileHeader)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only PDF uploads are supported",
		})
	}
	defer func() {
		if err := h.storage.DeleteFile(path); err != nil {
			log.Printf("⚠️  Failed to remove upload %s: %v\n", path, err)
		}
	}()

	text, err := h.importer.ExtractText(path)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Could not read any text from the uploaded PDF",
		})
	}

	return c.JSON(fiber.Map{"content": text})
}

// currentContent prefers the live editing buffer and falls back to the
// persisted document.
func (h *ResumeHandler) currentContent(user *models.User) string {
	if session, err := h.editor.Current(user.ID); err == nil {
		return session.Content
	}
	if resume, err := h.resumeRepo.FindByUser(user.ID); err == nil {
		return resume.Content
	}
	return ""
}
