package middleware

import (
	"github.com/gofiber/fiber/v2"

	"rolegate_backend/internal/model"
	"rolegate_backend/pkg/database"
	"rolegate_backend/pkg/subscription"
	"rolegate_backend/pkg/utils/jwt"
)

var subSvc *subscription.Service

func InitACLMiddleware(svc *subscription.Service) {
	subSvc = svc
}

// RequireAdmin allows only users holding the administrator role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		var user model.User
		if err := database.DB.First(&user, claims.UserID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		if !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Administrator access required",
			})
		}

		return c.Next()
	}
}

// CheckSubscriptionAccess allows administrators, and otherwise only the owner
// of the local subscription matching the remote_id query parameter.
func CheckSubscriptionAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)
		remoteID := c.Query("remote_id")

		owns, err := subSvc.UserOwnsSubscription(claims.UserID, remoteID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not verify subscription ownership",
			})
		}
		if owns {
			return c.Next()
		}

		var user model.User
		if err := database.DB.First(&user, claims.UserID).Error; err != nil || !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have permission to manage this subscription",
			})
		}

		return c.Next()
	}
}
