// Package permission provides read access to the permission catalog.
package permission

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoShopAdmin/GoShopAdmin/internal/auth"
	"github.com/GoShopAdmin/GoShopAdmin/internal/config"
	"github.com/GoShopAdmin/GoShopAdmin/internal/web/handler"
)

const (
	// Path is the route group prefix for the permission endpoints.
	Path = handler.RootPath + "permissions"
)

// Service is the permission handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the permission handler.
var Handler = Service{}

// Init initializes the permission handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.authService = authService

	authenticated := auth.Authenticate(authService)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, authenticated, auth.RequirePermission(auth.PermPermissionRead), s.List)
		router.Get("/by-module", authenticated, auth.RequirePermission(auth.PermPermissionRead), s.ListByModule)
	})
}

// List returns the permission catalog ordered by module, resource and action.
func (s *Service) List(c *fiber.Ctx) error {
	permissions, err := auth.ListPermissions(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list permissions")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "failed to list permissions",
		})
	}

	return c.JSON(fiber.Map{"permissions": permissions})
}

// ListByModule returns the permission catalog grouped by module label.
func (s *Service) ListByModule(c *fiber.Ctx) error {
	grouped, err := auth.PermissionsByModule(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to group permissions")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "failed to list permissions",
		})
	}

	return c.JSON(fiber.Map{"modules": grouped})
}
