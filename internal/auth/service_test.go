package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoShopAdmin/GoShopAdmin/internal/db/models"
)

// testMailer records sent mails and can be switched to fail.
type testMailer struct {
	sent []string
	fail bool
}

func (m *testMailer) Send(to, _, _ string) error {
	if m.fail {
		return errors.New("relay unreachable")
	}

	m.sent = append(m.sent, to)

	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Permission{}, &models.Product{}))

	return db
}

func newTestService(t *testing.T) (*Service, *testMailer) {
	t.Helper()

	m := &testMailer{}
	tokens := NewTokenIssuer("test-secret", time.Hour)

	return NewService(newTestDB(t), tokens, m, "http://localhost:8080"), m
}

func createTestUser(t *testing.T, s *Service, username string) *models.User {
	t.Helper()

	user, err := s.CreateUser(username, username+"@example.com", "secret123", "Test", "User")
	require.NoError(t, err)

	return user
}

func TestCreateUser(t *testing.T) {
	s, _ := newTestService(t)

	user, err := s.CreateUser("alice", "Alice@Example.com", "secret123", "Alice", "Doe")
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email, "email must be lowercased")
	assert.False(t, user.Approved, "new users start unapproved")
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.True(t, user.VerifyPassword("secret123"))
}

func TestCreateUser_Conflicts(t *testing.T) {
	s, _ := newTestService(t)

	createTestUser(t, s, "alice")

	_, err := s.CreateUser("alice", "other@example.com", "secret123", "", "")
	assert.ErrorIs(t, err, ErrUserNameOrEmailExists)

	_, err = s.CreateUser("other", "alice@example.com", "secret123", "", "")
	assert.ErrorIs(t, err, ErrUserNameOrEmailExists)
}

func TestCreateUser_ConflictWithDeactivatedUser(t *testing.T) {
	s, _ := newTestService(t)

	user := createTestUser(t, s, "alice")
	require.NoError(t, s.db.Model(user).Update("approved", true).Error)
	require.NoError(t, s.DeactivateUser(user.ID))

	// username and email stay reserved after soft delete
	_, err := s.CreateUser("alice", "new@example.com", "secret123", "", "")
	assert.ErrorIs(t, err, ErrUserNameOrEmailExists)

	_, err = s.CreateUser("newname", "alice@example.com", "secret123", "", "")
	assert.ErrorIs(t, err, ErrUserNameOrEmailExists)
}

func TestAuthenticate(t *testing.T) {
	s, _ := newTestService(t)

	user := createTestUser(t, s, "alice")
	require.NoError(t, s.ApproveUser(user.ID))

	got, token, err := s.Authenticate("alice", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, user.ID, got.ID)
	assert.NotNil(t, got.LastLogin, "successful login must be recorded")

	userID, err := s.Tokens().Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	// login by email works too
	_, _, err = s.Authenticate("alice@example.com", "secret123")
	require.NoError(t, err)
}

func TestAuthenticate_SameErrorForUnknownUserAndWrongPassword(t *testing.T) {
	s, _ := newTestService(t)

	user := createTestUser(t, s, "alice")
	require.NoError(t, s.ApproveUser(user.ID))

	_, _, errUnknown := s.Authenticate("nobody", "secret123")
	_, _, errWrongPass := s.Authenticate("alice", "wrong")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestAuthenticate_NotApproved(t *testing.T) {
	s, _ := newTestService(t)

	user := createTestUser(t, s, "alice")

	_, _, err := s.Authenticate("alice", "secret123")
	assert.ErrorIs(t, err, ErrNotApproved)

	require.NoError(t, s.ApproveUser(user.ID))

	_, _, err = s.Authenticate("alice", "secret123")
	assert.NoError(t, err)
}

func TestAuthenticate_MasterAdminSkipsApprovalGate(t *testing.T) {
	s, _ := newTestService(t)

	require.NoError(t, s.EnsureMasterAdmin("admin", "admin@system.local", "changeme"))

	admin, _, err := s.Authenticate("admin", "changeme")
	require.NoError(t, err)
	assert.True(t, admin.IsMasterAdmin)
}

func TestAuthenticate_DeactivatedUser(t *testing.T) {
	s, _ := newTestService(t)

	user := createTestUser(t, s, "alice")
	require.NoError(t, s.ApproveUser(user.ID))
	require.NoError(t, s.DeactivateUser(user.ID))

	_, _, err := s.Authenticate("alice", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSetUserPermissions(t *testing.T) {
	s, _ := newTestService(t)

	user := createTestUser(t, s, "alice")

	require.NoError(t, s.SetUserPermissions(user.ID, []string{PermProductRead, PermProductCreate}))

	got, err := s.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{PermProductRead, PermProductCreate}, got.Permissions)

	// nil replaces with the empty set
	require.NoError(t, s.SetUserPermissions(user.ID, nil))

	got, err = s.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Permissions)
}

func TestSetUserPermissions_MasterAdmin(t *testing.T) {
	s, _ := newTestService(t)

	require.NoError(t, s.EnsureMasterAdmin("admin", "admin@system.local", "changeme"))

	admin, err := s.FindByLogin("admin")
	require.NoError(t, err)

	err = s.SetUserPermissions(admin.ID, []string{PermProductRead})
	assert.ErrorIs(t, err, ErrCannotModifyMasterAdmin)

	// the empty list is rejected just the same
	err = s.SetUserPermissions(admin.ID, []string{})
	assert.ErrorIs(t, err, ErrCannotModifyMasterAdmin)
}

func TestDeactivateUser_ExcludedFromLookups(t *testing.T) {
	s, _ := newTestService(t)

	user := createTestUser(t, s, "alice")
	createTestUser(t, s, "bob")

	require.NoError(t, s.DeactivateUser(user.ID))

	_, err := s.GetUserByID(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	users, err := s.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)
}

func TestChangePassword(t *testing.T) {
	s, _ := newTestService(t)

	user := createTestUser(t, s, "alice")
	require.NoError(t, s.ApproveUser(user.ID))

	err := s.ChangePassword(user.ID, "wrong", "newsecret")
	assert.ErrorIs(t, err, ErrInvalidOldPassword)

	require.NoError(t, s.ChangePassword(user.ID, "secret123", "newsecret"))

	_, _, err = s.Authenticate("alice", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = s.Authenticate("alice", "newsecret")
	assert.NoError(t, err)
}

func TestRequestPasswordReset(t *testing.T) {
	s, m := newTestService(t)

	user := createTestUser(t, s, "alice")

	require.NoError(t, s.RequestPasswordReset("alice@example.com"))
	require.Len(t, m.sent, 1)
	assert.Equal(t, "alice@example.com", m.sent[0])

	got, err := s.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, got.ResetPasswordToken)
	require.NotNil(t, got.ResetPasswordExpires)
	assert.WithinDuration(t, time.Now().Add(ResetTokenTTL), *got.ResetPasswordExpires, time.Minute)
}

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	s, m := newTestService(t)

	require.NoError(t, s.RequestPasswordReset("nobody@example.com"))
	assert.Empty(t, m.sent)
}

func TestRequestPasswordReset_MailFailureClearsToken(t *testing.T) {
	s, m := newTestService(t)
	m.fail = true

	user := createTestUser(t, s, "alice")

	err := s.RequestPasswordReset("alice@example.com")
	require.Error(t, err)

	got, err := s.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ResetPasswordToken, "token must not outlive a mail the user never received")
	assert.Nil(t, got.ResetPasswordExpires)
}

func TestConsumeResetToken(t *testing.T) {
	s, _ := newTestService(t)

	user := createTestUser(t, s, "alice")
	require.NoError(t, s.ApproveUser(user.ID))
	require.NoError(t, s.RequestPasswordReset("alice@example.com"))

	got, err := s.GetUserByID(user.ID)
	require.NoError(t, err)

	token := got.ResetPasswordToken

	require.NoError(t, s.ConsumeResetToken(token, "newsecret"))

	_, _, err = s.Authenticate("alice", "newsecret")
	assert.NoError(t, err)

	// a token is consumed at most once
	err = s.ConsumeResetToken(token, "another")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestConsumeResetToken_Invalid(t *testing.T) {
	s, _ := newTestService(t)

	user := createTestUser(t, s, "alice")

	assert.ErrorIs(t, s.ConsumeResetToken("", "newsecret"), ErrInvalidResetToken)
	assert.ErrorIs(t, s.ConsumeResetToken("bogus", "newsecret"), ErrInvalidResetToken)

	// expired token
	expired := time.Now().Add(-time.Minute)
	require.NoError(t, s.db.Model(user).Updates(map[string]interface{}{
		"reset_password_token":   "expired-token",
		"reset_password_expires": expired,
	}).Error)

	assert.ErrorIs(t, s.ConsumeResetToken("expired-token", "newsecret"), ErrInvalidResetToken)
}

func TestEnsureMasterAdmin_Idempotent(t *testing.T) {
	s, _ := newTestService(t)

	require.NoError(t, s.EnsureMasterAdmin("admin", "admin@system.local", "changeme"))
	require.NoError(t, s.EnsureMasterAdmin("admin", "admin@system.local", "changeme"))

	var count int64
	require.NoError(t, s.db.Model(&models.User{}).Where("is_master_admin = ?", true).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	admin, err := s.FindByLogin("admin")
	require.NoError(t, err)
	assert.True(t, admin.Approved)
	assert.True(t, admin.IsActive)
}

func TestEffectivePermissions(t *testing.T) {
	admin := &models.User{IsMasterAdmin: true}

	all := EffectivePermissions(admin)
	assert.Len(t, all, len(Catalog()), "master admin holds the whole catalog")
	assert.Contains(t, all, PermUserDelete)

	user := &models.User{Permissions: []string{PermProductRead}}
	assert.Equal(t, []string{PermProductRead}, EffectivePermissions(user))

	empty := &models.User{}
	assert.Empty(t, EffectivePermissions(empty))
	assert.NotNil(t, EffectivePermissions(empty))
}
