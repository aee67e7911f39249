// Package account provides the authentication endpoints: registration,
// login, password reset and the current-user lookup.
package account

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoShopAdmin/GoShopAdmin/internal/auth"
	"github.com/GoShopAdmin/GoShopAdmin/internal/config"
	"github.com/GoShopAdmin/GoShopAdmin/internal/web/handler"
)

const (
	// Path is the route group prefix for the authentication endpoints.
	Path = handler.RootPath + "auth"
)

// registerRequest is the payload for user registration.
type registerRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=30"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
}

// loginRequest is the payload for login. Login accepts a username or email.
type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// forgotPasswordRequest is the payload for requesting a password reset.
type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// resetPasswordRequest is the payload for consuming a reset token.
type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// Service is the account handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the account handler.
var Handler = Service{}

// Init initializes the account handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.authService = authService
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Post("/register", s.Register)
		router.Post("/login", s.Login)
		router.Post("/forgot-password", s.ForgotPassword)
		router.Post("/reset-password/:token", s.ResetPassword)
		router.Get("/me", auth.Authenticate(authService), s.Me)
	})
}

// Register handles new user registration. New accounts cannot log in until a
// master admin approves them.
func (s *Service) Register(c *fiber.Ctx) error {
	var req registerRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}

	if err := s.validator.Struct(&req); err != nil {
		return validationError(c, err)
	}

	user, err := s.authService.CreateUser(req.Username, req.Email, req.Password, req.FirstName, req.LastName)
	if errors.Is(err, auth.ErrUserNameOrEmailExists) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": auth.ErrUserNameOrEmailExists.Error(),
		})
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to register user")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "registration failed",
		})
	}

	log.Info().Uint64("user_id", user.ID).Str("username", user.Username).Msg("user registered")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "registration successful, awaiting approval",
		"user":    user.View(),
	})
}

// Login authenticates a user and returns a session token.
func (s *Service) Login(c *fiber.Ctx) error {
	var req loginRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}

	if err := s.validator.Struct(&req); err != nil {
		return validationError(c, err)
	}

	user, token, err := s.authService.Authenticate(req.Login, req.Password)

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": auth.ErrInvalidCredentials.Error(),
		})
	case errors.Is(err, auth.ErrNotApproved):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": auth.ErrNotApproved.Error(),
		})
	case err != nil:
		log.Error().Err(err).Msg("login failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "login failed",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user.View(),
	})
}

// ForgotPassword starts the password-reset flow. The response is the same
// whether or not the email belongs to an account.
func (s *Service) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}

	if err := s.validator.Struct(&req); err != nil {
		return validationError(c, err)
	}

	if err := s.authService.RequestPasswordReset(req.Email); err != nil {
		log.Error().Err(err).Msg("failed to dispatch reset mail")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "reset email could not be sent",
		})
	}

	return c.JSON(fiber.Map{
		"message": "if the email exists, a reset link has been sent",
	})
}

// ResetPassword consumes a reset token and sets the new password.
func (s *Service) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}

	if err := s.validator.Struct(&req); err != nil {
		return validationError(c, err)
	}

	err := s.authService.ConsumeResetToken(c.Params("token"), req.Password)
	if errors.Is(err, auth.ErrInvalidResetToken) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": auth.ErrInvalidResetToken.Error(),
		})
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to reset password")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "password reset failed",
		})
	}

	return c.JSON(fiber.Map{
		"message": "password has been reset",
	})
}

// Me returns the authenticated user together with their effective permissions.
func (s *Service) Me(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "authentication required",
		})
	}

	return c.JSON(fiber.Map{
		"user":        user.View(),
		"permissions": auth.EffectivePermissions(user),
	})
}

// validationError renders validator errors as a 400 with per-field messages.
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
