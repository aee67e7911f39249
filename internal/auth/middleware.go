package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoShopAdmin/GoShopAdmin/internal/db/models"
)

const (
	// localsUserKey is the fiber.Locals key the resolved user is stored under.
	localsUserKey = "current_user"

	bearerPrefix = "Bearer "
)

// Authenticate creates Fiber middleware that resolves the bearer token to a user.
// A missing, invalid or expired token, or a token pointing at a missing or
// deactivated user, all end the request with 401. On success the user is
// attached to the request context for downstream permission checks.
func Authenticate(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "no token provided",
			})
		}

		token := strings.TrimPrefix(header, bearerPrefix)

		userID, err := authService.Tokens().Validate(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": ErrInvalidToken.Error(),
			})
		}

		user, err := authService.GetUserByID(userID)
		if err != nil {
			// Same response as a bad token: the caller learns nothing about
			// whether the account exists or was deactivated.
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": ErrInvalidToken.Error(),
			})
		}

		c.Locals(localsUserKey, user)

		return c.Next()
	}
}

// RequirePermission creates Fiber middleware that requires a specific permission.
// It must run after Authenticate. Unapproved users are rejected before the
// permission set is consulted; master admins pass every check.
func RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "authentication required",
			})
		}

		if !user.Approved && !user.IsMasterAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": ErrNotApproved.Error(),
			})
		}

		if !user.HasPermission(permission) {
			log.Warn().Uint64("user_id", user.ID).Str("permission", permission).
				Msg("user lacks required permission")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": ErrMissingPermission.Error() + ": " + permission,
			})
		}

		return c.Next()
	}
}

// RequireMasterAdmin creates Fiber middleware for master-admin-only operations.
// Named permissions never satisfy this gate; there is no fallback to
// RequirePermission.
func RequireMasterAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !user.IsMasterAdmin {
			if user != nil {
				log.Warn().Uint64("user_id", user.ID).Msg("master admin gate rejected user")
			}

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": ErrMasterAdminRequired.Error(),
			})
		}

		return c.Next()
	}
}

// CurrentUser returns the user attached to the request by Authenticate,
// or nil if the request never passed authentication.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(localsUserKey).(*models.User)
	if !ok {
		return nil
	}

	return user
}
