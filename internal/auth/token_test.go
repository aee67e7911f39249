package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_IssueAndValidate(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
}

func TestTokenIssuer_Validate_Failures(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "whitespace token", token: "   "},
		{name: "garbage token", token: "not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Validate(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenIssuer_Validate_WrongKey(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)

	token, err := other.Issue(42)
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// signToken builds a token with arbitrary claims using the given key.
func signToken(t *testing.T, key string, claims jwt.RegisteredClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: claims})

	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)

	return signed
}

func TestTokenIssuer_Validate_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	now := time.Now().UTC()

	expired := signToken(t, "test-secret", jwt.RegisteredClaims{
		Issuer:    tokenIssuerName,
		Subject:   "42",
		IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Second)),
	})

	_, err := issuer.Validate(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	valid := signToken(t, "test-secret", jwt.RegisteredClaims{
		Issuer:    tokenIssuerName,
		Subject:   "42",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})

	userID, err := issuer.Validate(valid)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
}

func TestTokenIssuer_Validate_ClaimChecks(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	now := time.Now().UTC()

	tests := []struct {
		name   string
		claims jwt.RegisteredClaims
	}{
		{
			name: "wrong issuer",
			claims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				Subject:   "42",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		},
		{
			name: "missing expiry",
			claims: jwt.RegisteredClaims{
				Issuer:  tokenIssuerName,
				Subject: "42",
			},
		},
		{
			name: "non numeric subject",
			claims: jwt.RegisteredClaims{
				Issuer:    tokenIssuerName,
				Subject:   "bob",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		},
		{
			name: "zero subject",
			claims: jwt.RegisteredClaims{
				Issuer:    tokenIssuerName,
				Subject:   "0",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Validate(signToken(t, "test-secret", tt.claims))
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
