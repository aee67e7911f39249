package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// User represents an account in the system.
// Users authenticate with username or email plus password and carry the set
// of permission names granted to them. A master admin bypasses the
// permission set entirely.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Username is the unique name used for login (3-30 characters).
	Username string `gorm:"unique;size:30;not null"`
	// Email is the unique, lowercased email address, also usable for login.
	Email string `gorm:"unique;size:255;not null"`
	// PasswordHash is the Argon2id hash of the password. Never exposed.
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	// FirstName is the user's first or given name.
	FirstName string `gorm:"size:50"`
	// LastName is the user's last or family name.
	LastName string `gorm:"size:50"`
	// ProfilePhotoURL references the user's avatar, if any.
	ProfilePhotoURL string `gorm:"size:255"`
	// Permissions is the set of permission names granted directly to the
	// user. Ignored when IsMasterAdmin is set.
	Permissions []string `gorm:"serializer:json"`
	// Approved must be set by a master admin before the user can log in.
	Approved bool `gorm:"default:false"`
	// IsMasterAdmin grants every permission unconditionally and exempts the
	// user from the approval gate.
	IsMasterAdmin bool `gorm:"default:false"`
	// IsActive is the soft-delete flag. Inactive users cannot authenticate
	// and are excluded from lookups.
	IsActive bool `gorm:"default:true"`
	// ResetPasswordToken is the pending password-reset token, if any.
	ResetPasswordToken string `gorm:"size:64" json:"-"`
	// ResetPasswordExpires is the expiry of the pending reset token.
	ResetPasswordExpires *time.Time `json:"-"`
	// LastLogin is the timestamp of the last successful authentication.
	LastLogin *time.Time
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// This function should be used when creating or updating user passwords.
// It uses the default Argon2id parameters for secure password hashing.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
// Returns true if the password matches, false otherwise.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.PasswordHash)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}

// HasPermission reports whether the user holds the named permission.
// Master admins hold every permission; everyone else is checked against
// their stored permission set only.
func (u *User) HasPermission(permission string) bool {
	if u.IsMasterAdmin {
		return true
	}

	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}

	return false
}

// DisplayName returns "FirstName LastName" when both are set, otherwise the username.
func (u *User) DisplayName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}

	return u.Username
}

// UserView is the sanitized representation of a user returned by the API.
// It never contains the password hash or reset-token fields.
type UserView struct {
	ID              uint64     `json:"id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	ProfilePhotoURL string     `json:"profilePhotoUrl"`
	Permissions     []string   `json:"permissions"`
	Approved        bool       `json:"approved"`
	IsMasterAdmin   bool       `json:"isMasterAdmin"`
	IsActive        bool       `json:"isActive"`
	DisplayName     string     `json:"displayName"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// View returns the sanitized API representation of the user.
func (u *User) View() UserView {
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}

	return UserView{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfilePhotoURL: u.ProfilePhotoURL,
		Permissions:     perms,
		Approved:        u.Approved,
		IsMasterAdmin:   u.IsMasterAdmin,
		IsActive:        u.IsActive,
		DisplayName:     u.DisplayName(),
		LastLogin:       u.LastLogin,
		CreatedAt:       u.CreatedAt,
	}
}
