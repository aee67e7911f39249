// Package user provides the user administration and profile endpoints.
package user

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoShopAdmin/GoShopAdmin/internal/auth"
	"github.com/GoShopAdmin/GoShopAdmin/internal/config"
	"github.com/GoShopAdmin/GoShopAdmin/internal/db/models"
	"github.com/GoShopAdmin/GoShopAdmin/internal/web/handler"
)

const (
	// Path is the route group prefix for the user endpoints.
	Path = handler.RootPath + "users"
)

// updateProfileRequest is the payload for updating the caller's own profile.
type updateProfileRequest struct {
	FirstName       string `json:"firstName" validate:"max=50"`
	LastName        string `json:"lastName" validate:"max=50"`
	Email           string `json:"email" validate:"omitempty,email"`
	ProfilePhotoURL string `json:"profilePhotoUrl" validate:"omitempty,url,max=255"`
}

// changePasswordRequest is the payload for changing the caller's password.
type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// setPermissionsRequest is the payload for replacing a user's permission set.
type setPermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

// Service is the user handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the user handler.
var Handler = Service{}

// Init initializes the user handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.authService = authService
	s.validator = validator.New()

	authenticated := auth.Authenticate(authService)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, authenticated, auth.RequireMasterAdmin(), s.List)
		router.Get("/profile", authenticated, s.GetProfile)
		router.Put("/profile", authenticated, s.UpdateProfile)
		router.Put("/change-password", authenticated, s.ChangePassword)
		router.Put("/:id/approve", authenticated, auth.RequireMasterAdmin(), s.Approve)
		router.Put("/:id/permissions", authenticated, auth.RequireMasterAdmin(), s.SetPermissions)
		router.Delete("/:id", authenticated, auth.RequirePermission(auth.PermUserDelete), s.Delete)
	})
}

// List returns all active users, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := s.authService.ListUsers()
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "failed to list users",
		})
	}

	views := make([]models.UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View())
	}

	return c.JSON(fiber.Map{"users": views})
}

// GetProfile returns the caller's own profile.
func (s *Service) GetProfile(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)

	return c.JSON(fiber.Map{"user": user.View()})
}

// UpdateProfile updates the caller's own profile fields. An email change is
// rejected with 409 when the address is already taken by another account,
// including a deactivated one.
func (s *Service) UpdateProfile(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)

	var req updateProfileRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}

	if err := s.validator.Struct(&req); err != nil {
		return validationError(c, err)
	}

	updates := map[string]interface{}{
		"first_name":        req.FirstName,
		"last_name":         req.LastName,
		"profile_photo_url": req.ProfilePhotoURL,
	}

	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))

		if email != user.Email {
			var count int64

			err := s.db.Model(&models.User{}).
				Where("email = ? AND id <> ?", email, user.ID).Count(&count).Error
			if err != nil {
				log.Error().Err(err).Msg("failed to check email uniqueness")

				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "failed to update profile",
				})
			}

			if count > 0 {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"message": auth.ErrUserNameOrEmailExists.Error(),
				})
			}

			updates["email"] = email
		}
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		log.Error().Err(err).Msg("failed to update profile")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "failed to update profile",
		})
	}

	return c.JSON(fiber.Map{"user": user.View()})
}

// ChangePassword replaces the caller's password after verifying the current one.
func (s *Service) ChangePassword(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)

	var req changePasswordRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}

	if err := s.validator.Struct(&req); err != nil {
		return validationError(c, err)
	}

	err := s.authService.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword)
	if errors.Is(err, auth.ErrInvalidOldPassword) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": auth.ErrInvalidOldPassword.Error(),
		})
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to change password")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "failed to change password",
		})
	}

	return c.JSON(fiber.Map{"message": "password changed"})
}

// Approve marks a user as approved so they can log in.
func (s *Service) Approve(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid user id",
		})
	}

	err = s.authService.ApproveUser(userID)
	if errors.Is(err, auth.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": auth.ErrUserNotFound.Error(),
		})
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to approve user")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "failed to approve user",
		})
	}

	log.Info().Uint64("user_id", userID).Msg("user approved")

	return c.JSON(fiber.Map{"message": "user approved"})
}

// SetPermissions replaces a user's permission set. Master admin permission
// sets cannot be changed.
func (s *Service) SetPermissions(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid user id",
		})
	}

	var req setPermissionsRequest

	if err = c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}

	err = s.authService.SetUserPermissions(userID, req.Permissions)

	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": auth.ErrUserNotFound.Error(),
		})
	case errors.Is(err, auth.ErrCannotModifyMasterAdmin):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": auth.ErrCannotModifyMasterAdmin.Error(),
		})
	case err != nil:
		log.Error().Err(err).Msg("failed to set permissions")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "failed to set permissions",
		})
	}

	log.Info().Uint64("user_id", userID).Strs("permissions", req.Permissions).
		Msg("user permissions replaced")

	return c.JSON(fiber.Map{"message": "permissions updated"})
}

// Delete soft-deletes a user. The record persists and its username and email
// remain reserved.
func (s *Service) Delete(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid user id",
		})
	}

	err = s.authService.DeactivateUser(userID)
	if errors.Is(err, auth.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": auth.ErrUserNotFound.Error(),
		})
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to deactivate user")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "failed to delete user",
		})
	}

	log.Info().Uint64("user_id", userID).Msg("user deactivated")

	return c.JSON(fiber.Map{"message": "user deleted"})
}

func parseID(c *fiber.Ctx) (uint64, error) {
	return strconv.ParseUint(c.Params("id"), 10, 64)
}

func validationError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors

	errors.As(err, &validationErrors)

	errorMessages := make([]string, len(validationErrors))
	for i, ve := range validationErrors {
		errorMessages[i] = "field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "validation failed",
		"errors":  errorMessages,
	})
}
