package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoShopAdmin/GoShopAdmin/internal/auth"
	"github.com/GoShopAdmin/GoShopAdmin/internal/config"
)

// seed upserts the permission catalog and the bootstrap master admin.
// Both steps are idempotent and run on every start.
func seed(cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if err := auth.SeedPermissions(db); err != nil {
		log.Fatal().Err(err).Msg("failed to seed permission catalog")
		return
	}

	err := authService.EnsureMasterAdmin(
		cfg.Auth.BootstrapUsername,
		cfg.Auth.BootstrapEmail,
		cfg.Auth.BootstrapPassword,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to ensure master admin")
	}
}
