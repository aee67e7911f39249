// Package handler holds shared constants and the common handler interface
// for the web handler packages.
package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoShopAdmin/GoShopAdmin/internal/auth"
	"github.com/GoShopAdmin/GoShopAdmin/internal/config"
)

const (
	// RootPath is the common prefix of all API routes.
	RootPath = "/api/"

	// RouterRootPath is the root path inside a route group.
	RouterRootPath = "/"

	// ErrNilACDFatalLogMsg is logged when a handler is initialized with nil dependencies.
	ErrNilACDFatalLogMsg = "app, config or db is nil"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service)
}
