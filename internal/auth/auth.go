// Package auth issues and verifies the signed, time-limited credentials used
// by the login and registration endpoints.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL matches the 7-day validity of issued credentials.
const tokenTTL = 7 * 24 * time.Hour

// bcryptCost mirrors the cost factor the registration flow has always used.
const bcryptCost = 10

// ErrInvalidToken indicates a credential that failed verification.
var ErrInvalidToken = errors.New("invalid token")

// Manager signs and verifies tokens with a shared HMAC secret.
type Manager struct {
	secret []byte
}

// NewManager returns a Manager for the given secret.
func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// Issue returns a signed token for the user id, valid for seven days.
func (m *Manager) Issue(userID int64) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded user id.
func (m *Manager) Verify(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}
	return int64(id), nil
}

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
