package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"uptrack/career-coach/internal/models"
	"uptrack/career-coach/internal/repositories"
)

const userLocalsKey = "currentUser"

// NewAuthMiddleware resolves the externally issued identity into a user
// record. Session mechanics live in the identity provider; this gateway only
// translates "no valid session" into a short actionable message instead of a
// stack trace.
func NewAuthMiddleware(userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authID := c.Get("X-Auth-ID")
		if authID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Please sign in to continue",
			})
		}

		user, err := userRepo.FindByAuthID(authID)
		if err != nil {
			if errors.Is(err, models.ErrUserNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "User account not found. Please try signing out and back in",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to resolve user",
			})
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}
