package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoShopAdmin/GoShopAdmin/internal/db/models"
)

func newMiddlewareTestApp(t *testing.T) (*fiber.App, *Service) {
	t.Helper()

	s, _ := newTestService(t)

	app := fiber.New(fiber.Config{CaseSensitive: true, Immutable: true})

	app.Get("/protected",
		Authenticate(s),
		RequirePermission(PermProductRead),
		func(c *fiber.Ctx) error { return c.SendString("ok") },
	)

	app.Get("/admin-only",
		Authenticate(s),
		RequireMasterAdmin(),
		func(c *fiber.Ctx) error { return c.SendString("ok") },
	)

	return app, s
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

func loginToken(t *testing.T, s *Service, login, password string) string {
	t.Helper()

	_, token, err := s.Authenticate(login, password)
	require.NoError(t, err)

	return token
}

func TestAuthenticate_Middleware_MissingToken(t *testing.T) {
	app, _ := newMiddlewareTestApp(t)

	resp := performGet(t, app, "/protected", "")
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticate_Middleware_BadToken(t *testing.T) {
	app, _ := newMiddlewareTestApp(t)

	resp := performGet(t, app, "/protected", "not-a-token")
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticate_Middleware_DeactivatedUserTokenRejected(t *testing.T) {
	app, s := newMiddlewareTestApp(t)

	user := createTestUser(t, s, "alice")
	require.NoError(t, s.ApproveUser(user.ID))
	require.NoError(t, s.SetUserPermissions(user.ID, []string{PermProductRead}))

	token := loginToken(t, s, "alice", "secret123")

	require.NoError(t, s.DeactivateUser(user.ID))

	// a still-valid token dies with the account
	resp := performGet(t, app, "/protected", token)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequirePermission_Middleware(t *testing.T) {
	app, s := newMiddlewareTestApp(t)

	user := createTestUser(t, s, "alice")
	require.NoError(t, s.ApproveUser(user.ID))

	token := loginToken(t, s, "alice", "secret123")

	// approved but without the permission
	resp := performGet(t, app, "/protected", token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	require.NoError(t, s.SetUserPermissions(user.ID, []string{PermProductRead}))

	resp = performGet(t, app, "/protected", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestRequirePermission_Middleware_UnapprovedUser(t *testing.T) {
	app, s := newMiddlewareTestApp(t)

	user := createTestUser(t, s, "alice")
	require.NoError(t, s.SetUserPermissions(user.ID, []string{PermProductRead}))

	// unapproved users cannot log in, so issue the token directly
	token, err := s.Tokens().Issue(user.ID)
	require.NoError(t, err)

	resp := performGet(t, app, "/protected", token)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequirePermission_Middleware_MasterAdminPassesEveryCheck(t *testing.T) {
	app, s := newMiddlewareTestApp(t)

	require.NoError(t, s.EnsureMasterAdmin("admin", "admin@system.local", "changeme"))

	token := loginToken(t, s, "admin", "changeme")

	resp := performGet(t, app, "/protected", token)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireMasterAdmin_Middleware(t *testing.T) {
	app, s := newMiddlewareTestApp(t)

	user := createTestUser(t, s, "alice")
	require.NoError(t, s.ApproveUser(user.ID))
	// every named permission is not enough for the master admin gate
	require.NoError(t, s.SetUserPermissions(user.ID, EffectivePermissions(&models.User{IsMasterAdmin: true})))

	token := loginToken(t, s, "alice", "secret123")

	resp := performGet(t, app, "/admin-only", token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	require.NoError(t, s.EnsureMasterAdmin("admin", "admin@system.local", "changeme"))
	adminToken := loginToken(t, s, "admin", "changeme")

	resp = performGet(t, app, "/admin-only", adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}
