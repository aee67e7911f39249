package permission

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoShopAdmin/GoShopAdmin/internal/auth"
	"github.com/GoShopAdmin/GoShopAdmin/internal/config"
	"github.com/GoShopAdmin/GoShopAdmin/internal/db/models"
)

type dropMailer struct{}

func (dropMailer) Send(_, _, _ string) error { return nil }

func newTestApp(t *testing.T) (*fiber.App, *auth.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Permission{}, &models.Product{}))
	require.NoError(t, auth.SeedPermissions(db))

	cfg := &config.Config{
		Webserver: config.Webserver{Port: 8080, URL: "http://localhost:8080"},
		Auth:      config.Auth{SigningKey: "test-secret", TokenTTL: time.Hour},
	}

	tokens := auth.NewTokenIssuer(cfg.Auth.SigningKey, cfg.Auth.TokenTTL)
	authService := auth.NewService(db, tokens, dropMailer{}, cfg.Webserver.URL)

	app := fiber.New(fiber.Config{CaseSensitive: true, Immutable: true})

	var s Service
	s.Init(app, cfg, db, authService)

	return app, authService
}

func performGet(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func newReaderToken(t *testing.T, s *auth.Service) string {
	t.Helper()

	user, err := s.CreateUser("alice", "alice@example.com", "secret123", "", "")
	require.NoError(t, err)
	require.NoError(t, s.ApproveUser(user.ID))
	require.NoError(t, s.SetUserPermissions(user.ID, []string{auth.PermPermissionRead}))

	_, token, err := s.Authenticate("alice", "secret123")
	require.NoError(t, err)

	return token
}

func TestList(t *testing.T) {
	app, authService := newTestApp(t)

	token := newReaderToken(t, authService)

	resp := performGet(t, app, Path, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer func() { _ = resp.Body.Close() }()

	var body struct {
		Permissions []models.Permission `json:"permissions"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Permissions, len(auth.Catalog()))
}

func TestListByModule(t *testing.T) {
	app, authService := newTestApp(t)

	token := newReaderToken(t, authService)

	resp := performGet(t, app, Path+"/by-module", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer func() { _ = resp.Body.Close() }()

	var body struct {
		Modules map[string][]models.Permission `json:"modules"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Modules["User Management"], 4)
	assert.Len(t, body.Modules["Product Management"], 4)
}

func TestList_RequiresPermission(t *testing.T) {
	app, authService := newTestApp(t)

	user, err := authService.CreateUser("bob", "bob@example.com", "secret123", "", "")
	require.NoError(t, err)
	require.NoError(t, authService.ApproveUser(user.ID))

	_, token, err := authService.Authenticate("bob", "secret123")
	require.NoError(t, err)

	resp := performGet(t, app, Path, token)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
