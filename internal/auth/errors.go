package auth

import "errors"

var (
	// ErrUserNameOrEmailExists is returned when attempting to create a user with a username or email that already exists.
	// Uniqueness is global: a deactivated account keeps blocking reuse of its username and email.
	ErrUserNameOrEmailExists = errors.New("user with username or email already exists")

	// ErrInvalidCredentials is returned when the login identifier is unknown or the password is wrong.
	// The two cases are deliberately indistinguishable to prevent account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotApproved is returned when a user with valid credentials has not yet been approved by a master admin.
	ErrNotApproved = errors.New("account not approved")

	// ErrInvalidToken is returned when a session token is missing, malformed, expired or carries a bad signature.
	// All validation failures share this error so callers cannot probe token internals.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidResetToken is returned when a password-reset token does not match any active user or has expired.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")

	// ErrInvalidOldPassword is returned when the current password does not match during a password change.
	ErrInvalidOldPassword = errors.New("invalid old password")

	// ErrMissingPermission is returned when an approved user lacks the permission an operation requires.
	// Responses append the permission name to this message.
	ErrMissingPermission = errors.New("missing required permission")

	// ErrMasterAdminRequired is returned when a master-admin-only operation is attempted by a regular user.
	// Holding named permissions does not satisfy this gate.
	ErrMasterAdminRequired = errors.New("master admin access required")

	// ErrCannotModifyMasterAdmin is returned when attempting to change the permission set of a master admin.
	ErrCannotModifyMasterAdmin = errors.New("cannot modify master admin permissions")

	// ErrUserNotFound is returned when an operation references a user that does not exist or is inactive.
	ErrUserNotFound = errors.New("user not found")
)
