// Package jwtmw issues and verifies signed authentication tokens and provides the gin middleware that enforces them.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed validity of an issued token.
const TokenTTL = 24 * time.Hour

var (
	// ErrInvalidToken is the only error Verify returns. Signature mismatch, malformed
	// input and expiry are deliberately indistinguishable.
	ErrInvalidToken = errors.New("invalid token")

	// ErrMissingSecret is returned when the signing secret is not configured.
	ErrMissingSecret = errors.New("jwt: signing secret is not configured")
)

// Claims is the payload of an authentication token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the subject of the token.
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenService signs and verifies HS256 tokens with a process-wide secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. An empty secret is a configuration error.
func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    TokenTTL,
		now:    time.Now,
	}, nil
}

// Issue creates a signed token for userID and role that expires TokenTTL after issuance.
func (s *TokenService) Issue(userID, role string) (string, error) {
	issuedAt := s.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of tokenStr and returns its claims.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		// HMAC以外のアルゴリズムは拒否
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
