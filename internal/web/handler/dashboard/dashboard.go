// Package dashboard provides the admin dashboard summary endpoint.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoShopAdmin/GoShopAdmin/internal/auth"
	"github.com/GoShopAdmin/GoShopAdmin/internal/config"
	"github.com/GoShopAdmin/GoShopAdmin/internal/db/models"
	"github.com/GoShopAdmin/GoShopAdmin/internal/web/handler"
)

const (
	// Path is the path of the dashboard endpoint.
	Path = handler.RootPath + "dashboard"
)

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.authService = authService

	app.Get(Path,
		auth.Authenticate(authService),
		auth.RequirePermission(auth.PermDashboardRead),
		s.Get,
	)
}

// Get returns summary counts over the active records.
func (s *Service) Get(c *fiber.Ctx) error {
	var (
		userCount     int64
		pendingCount  int64
		productCount  int64
		categoryCount int64
	)

	queries := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&userCount, s.db.Model(&models.User{}).Where("is_active = ?", true)},
		{&pendingCount, s.db.Model(&models.User{}).Where("is_active = ? AND approved = ?", true, false)},
		{&productCount, s.db.Model(&models.Product{}).Where("is_active = ?", true)},
	}

	for _, q := range queries {
		if err := q.query.Count(q.dest).Error; err != nil {
			log.Error().Err(err).Msg("failed to count dashboard records")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "failed to load dashboard",
			})
		}
	}

	err := s.db.Model(&models.Product{}).Where("is_active = ?", true).
		Distinct("category").Count(&categoryCount).Error
	if err != nil {
		log.Error().Err(err).Msg("failed to count product categories")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "failed to load dashboard",
		})
	}

	return c.JSON(fiber.Map{
		"users":            userCount,
		"pendingApprovals": pendingCount,
		"products":         productCount,
		"categories":       categoryCount,
	})
}
