package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"uptrack/career-coach/internal/models"
	"uptrack/career-coach/internal/repositories"
	"uptrack/career-coach/internal/services"
)

type DashboardHandler struct {
	userRepo repositories.UserRepository
	insights services.InsightsService
}

func NewDashboardHandler(userRepo repositories.UserRepository, insights services.InsightsService) *DashboardHandler {
	return &DashboardHandler{userRepo: userRepo, insights: insights}
}

// HandleGetInsights handles GET /insights
func (h *DashboardHandler) HandleGetInsights(c *fiber.Ctx) error {
	user := currentUser(c)

	insight, err := h.insights.GetInsights(c.Context(), user.ID)
	if err != nil {
		if errors.Is(err, models.ErrIndustryNotSet) {
			// Whether to redirect into a profile-completion flow is the
			// client's call; the API only reports the condition.
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":      "Please complete your profile with industry information before generating insights",
				"onboarding": false,
			})
		}
		log.Printf("❌ Failed to load insights for %s: %v\n", user.ID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to generate industry insights. Please try again",
		})
	}

	return c.JSON(insight)
}

// HandleGetOnboarding handles GET /onboarding
func (h *DashboardHandler) HandleGetOnboarding(c *fiber.Ctx) error {
	user := currentUser(c)
	return c.JSON(models.OnboardingStatusResponse{
		IsOnboarded: user.IsOnboarded(),
		Industry:    user.Industry,
	})
}

// HandleUpdateProfile handles POST /onboarding
func (h *DashboardHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	user := currentUser(c)

	var req models.OnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if strings.TrimSpace(req.Industry) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "industry is required",
		})
	}

	updated, err := h.userRepo.UpdateProfile(user.ID, &req)
	if err != nil {
		log.Printf("⚠️  Failed to update profile for %s: %v\n", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update profile",
		})
	}

	return c.JSON(updated)
}
