package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoShopAdmin/GoShopAdmin/internal/db/models"
	"github.com/GoShopAdmin/GoShopAdmin/internal/mailer"
	"github.com/GoShopAdmin/GoShopAdmin/internal/uniuri"
)

const (
	// ResetTokenTTL is how long a password-reset token stays valid.
	ResetTokenTTL = time.Hour

	// resetTokenLen is the length of generated reset tokens.
	resetTokenLen = 40

	whereActiveID = "id = ? AND is_active = ?"
)

// Service provides authentication and user-store operations.
// It is the only component that touches credential hashes and reset tokens.
type Service struct {
	db          *gorm.DB
	tokens      *TokenIssuer
	mailer      mailer.Mailer
	frontendURL string
}

// NewService creates a new auth service.
func NewService(db *gorm.DB, tokens *TokenIssuer, m mailer.Mailer, frontendURL string) *Service {
	return &Service{
		db:          db,
		tokens:      tokens,
		mailer:      m,
		frontendURL: frontendURL,
	}
}

// Tokens returns the session token issuer.
func (s *Service) Tokens() *TokenIssuer {
	return s.tokens
}

// CreateUser registers a new user with a hashed password.
// New users start unapproved and without permissions and cannot log in until
// a master admin approves them. Fails with ErrUserNameOrEmailExists when the
// username or email is taken, including by a deactivated account.
func (s *Service) CreateUser(username, email, password, firstName, lastName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User

	err := s.db.Where("username = ? OR email = ?", username, email).First(&existing).Error
	if err == nil {
		return nil, ErrUserNameOrEmailExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: models.HashPassword(password),
		FirstName:    firstName,
		LastName:     lastName,
		Approved:     false,
		IsActive:     true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// FindByLogin looks up an active user by username or email.
func (s *Service) FindByLogin(login string) (*models.User, error) {
	var user models.User

	err := s.db.Where("(username = ? OR email = ?) AND is_active = ?",
		login, strings.ToLower(login), true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// Authenticate verifies credentials and issues a session token.
// An unknown login and a wrong password both fail with ErrInvalidCredentials.
// Users that are not yet approved fail with ErrNotApproved unless they are
// master admins. On success the last-login timestamp is recorded.
func (s *Service) Authenticate(login, password string) (*models.User, string, error) {
	user, err := s.FindByLogin(login)
	if errors.Is(err, ErrUserNotFound) {
		return nil, "", ErrInvalidCredentials
	}

	if err != nil {
		return nil, "", err
	}

	if !user.VerifyPassword(password) {
		return nil, "", ErrInvalidCredentials
	}

	if !user.Approved && !user.IsMasterAdmin {
		return nil, "", ErrNotApproved
	}

	now := time.Now()
	if err := s.db.Model(user).Update("last_login", now).Error; err != nil {
		return nil, "", fmt.Errorf("failed to record login time: %w", err)
	}

	user.LastLogin = &now

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// GetUserByID retrieves an active user by ID.
func (s *Service) GetUserByID(userID uint64) (*models.User, error) {
	var user models.User

	err := s.db.Where(whereActiveID, userID, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// ListUsers lists all active users, newest first.
func (s *Service) ListUsers() ([]models.User, error) {
	var users []models.User

	err := s.db.Where("is_active = ?", true).Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// ApproveUser marks a user as approved so they can log in.
func (s *Service) ApproveUser(userID uint64) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	return s.db.Model(user).Update("approved", true).Error
}

// SetUserPermissions replaces a user's permission set.
// Master admin permission sets are immutable: the attempt fails with
// ErrCannotModifyMasterAdmin regardless of the list contents.
func (s *Service) SetUserPermissions(userID uint64, permissions []string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if user.IsMasterAdmin {
		return ErrCannotModifyMasterAdmin
	}

	if permissions == nil {
		permissions = []string{}
	}

	return s.db.Model(user).Update("permissions", permissions).Error
}

// DeactivateUser soft-deletes a user. The record persists and its username
// and email remain reserved, but the user can no longer authenticate.
func (s *Service) DeactivateUser(userID uint64) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	return s.db.Model(user).Update("is_active", false).Error
}

// ChangePassword replaces a user's password after verifying the current one.
func (s *Service) ChangePassword(userID uint64, currentPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !user.VerifyPassword(currentPassword) {
		return ErrInvalidOldPassword
	}

	return s.db.Model(user).Update("password_hash", models.HashPassword(newPassword)).Error
}

// RequestPasswordReset starts the password-reset flow for the given email.
// It succeeds silently when the email matches no active account, so the
// response never reveals whether an account exists. When dispatch fails the
// stored token is cleared before the error surfaces: a valid token must not
// outlive a mail the user never received.
func (s *Service) RequestPasswordReset(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User

	err := s.db.Where("email = ? AND is_active = ?", email, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to query user: %w", err)
	}

	token := uniuri.NewLen(resetTokenLen)
	expires := time.Now().Add(ResetTokenTTL)

	err = s.db.Model(&user).Updates(map[string]interface{}{
		"reset_password_token":   token,
		"reset_password_expires": expires,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)
	body := fmt.Sprintf(
		"You requested a password reset. Open the link below to choose a new password:\n\n%s\n\n"+
			"If you didn't request this, ignore this message. The link expires in 1 hour.",
		resetURL,
	)

	if sendErr := s.mailer.Send(user.Email, "Password Reset Request", body); sendErr != nil {
		rollbackErr := s.db.Model(&user).Updates(map[string]interface{}{
			"reset_password_token":   "",
			"reset_password_expires": nil,
		}).Error
		if rollbackErr != nil {
			log.Error().Err(rollbackErr).Uint64("user_id", user.ID).
				Msg("failed to clear reset token after mail failure")
		}

		return fmt.Errorf("failed to dispatch reset mail: %w", sendErr)
	}

	return nil
}

// ConsumeResetToken replaces the password of the active user holding the
// exact token, provided it has not expired. The credential hash is replaced
// and the token fields cleared in a single update, so a token can be
// consumed at most once.
func (s *Service) ConsumeResetToken(token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}

	var user models.User

	err := s.db.Where("reset_password_token = ? AND reset_password_expires > ? AND is_active = ?",
		token, time.Now(), true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidResetToken
	}

	if err != nil {
		return fmt.Errorf("failed to query reset token: %w", err)
	}

	return s.db.Model(&user).Updates(map[string]interface{}{
		"password_hash":          models.HashPassword(newPassword),
		"reset_password_token":   "",
		"reset_password_expires": nil,
	}).Error
}

// EnsureMasterAdmin creates the bootstrap master admin if no master admin
// exists yet. Idempotent and safe to run on every start.
func (s *Service) EnsureMasterAdmin(username, email, password string) error {
	var count int64

	err := s.db.Model(&models.User{}).Where("is_master_admin = ?", true).Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check for master admin: %w", err)
	}

	if count > 0 {
		return nil
	}

	admin := models.User{
		Username:      username,
		Email:         strings.ToLower(email),
		PasswordHash:  models.HashPassword(password),
		FirstName:     "System",
		LastName:      "Administrator",
		IsMasterAdmin: true,
		Approved:      true,
		IsActive:      true,
		Permissions:   []string{},
	}

	if err := s.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create master admin: %w", err)
	}

	log.Warn().Str("username", username).
		Msg("master admin created with the configured bootstrap password, change it after first login")

	return nil
}

// EffectivePermissions returns the permission names the user actually holds.
// For master admins that is every name in the catalog; for everyone else it
// is exactly the stored set.
func EffectivePermissions(user *models.User) []string {
	if user.IsMasterAdmin {
		all := Catalog()

		names := make([]string, 0, len(all))
		for _, perm := range all {
			names = append(names, perm.Name)
		}

		return names
	}

	if user.Permissions == nil {
		return []string{}
	}

	return user.Permissions
}
