package config

import (
	"time"

	"github.com/GoShopAdmin/GoShopAdmin/internal/logger"
)

const (
	// defaultTokenTTL is the session token lifetime used when none is configured.
	defaultTokenTTL = 24 * time.Hour

	// defaultBootstrapUsername is the master admin username when none is configured.
	defaultBootstrapUsername = "admin"

	// defaultBootstrapEmail is the master admin email when none is configured.
	defaultBootstrapEmail = "admin@system.local"

	// defaultBootstrapPassword is the initial master admin password when none is configured.
	defaultBootstrapPassword = "changeme"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Log       logger.Log
	Webserver Webserver
	Auth      Auth
	Mail      Mail
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain       string // domain name for the webserver
	Port         int    // listening port for the webserver
	ShutDownTime int    // wait time for shutdown
	URL          string // base url for the webserver, used in reset mails
}

// Auth holds token and bootstrap settings.
type Auth struct {
	SigningKey        string        // HS256 key for session tokens, required
	TokenTTL          time.Duration // session token lifetime
	BootstrapUsername string        // master admin username created on first start
	BootstrapEmail    string        // master admin email created on first start
	BootstrapPassword string        // master admin initial password
}

// Mail holds the SMTP settings for outbound mail.
type Mail struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}
