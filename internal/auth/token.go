package auth

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenIssuerName is the iss claim on every session token.
const tokenIssuerName = "go-shop-admin"

// TokenIssuer signs and validates stateless session tokens.
// Tokens are HS256 JWTs binding a user ID to an expiry; validity is purely a
// function of signature and expiry, with no server-side session record.
// The signing key and TTL are fixed at construction time.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// Claims are the JWT claims carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
}

// NewTokenIssuer creates a token issuer with the given signing key and token lifetime.
func NewTokenIssuer(signingKey string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(signingKey),
		ttl:    ttl,
	}
}

// Issue signs a session token for the given user ID with the configured TTL.
func (t *TokenIssuer) Issue(userID uint64) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuerName,
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// Validate checks signature, issuer and expiry and returns the embedded user ID.
// Every failure mode returns ErrInvalidToken so callers cannot distinguish a
// malformed token from an expired or forged one.
func (t *TokenIssuer) Validate(token string) (uint64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}

		return t.secret, nil
	})
	if err != nil {
		return 0, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	if claims.Issuer != tokenIssuerName || claims.ExpiresAt == nil {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
