// Package auth issues and verifies the signed session tokens presented as
// bearer credentials on every protected request.
package auth

import (
	"errors"
	"fmt"
	"time"

	"campuslink/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Authenticator signs and verifies session claims with a process-wide secret.
// It is stateless: tokens expire, they are never revoked server-side.
type Authenticator struct {
	secret []byte
}

// New creates an Authenticator with the given signing secret. The secret is
// injected here rather than read from a global so tests can use their own.
func New(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Issue creates an HS256 token binding the moodle ID to an expiry ttl from now.
func (a *Authenticator) Issue(moodleID string, ttl time.Duration) (string, error) {
	if len(a.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user": moodleID,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
		"jti":  generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Verify parses and validates a token, returning the moodle ID it was issued
// for. Expired tokens report AUTH_EXPIRED; everything else that fails to
// parse or validate reports AUTH_INVALID.
func (a *Authenticator) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", models.NewAuthError(models.CodeAuthExpired, "Token has expired")
		}
		return "", models.NewAuthError(models.CodeAuthInvalid, "Invalid authentication token")
	}
	if !token.Valid {
		return "", models.NewAuthError(models.CodeAuthInvalid, "Invalid authentication token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", models.NewAuthError(models.CodeAuthInvalid, "Invalid token claims")
	}

	moodleID, ok := claims["user"].(string)
	if !ok || moodleID == "" {
		return "", models.NewAuthError(models.CodeAuthInvalid, "Token is missing the user claim")
	}

	return moodleID, nil
}

// generateJTI creates a unique JWT ID to prevent replay attacks.
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
