// Package auth implements the access gate: a shared-secret capability check
// done once when a session starts, and the session tokens it hands out.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrWrongSecret is returned by SecretGate.Unlock for a mismatched secret.
var ErrWrongSecret = errors.New("incorrect secret")

// Gate decides whether a caller may open a session.
// The check has no bearing on ledger data; it only gates visibility.
type Gate interface {
	// Unlock checks secret and opens a session on success.
	Unlock(ctx context.Context, secret string) (*models.Session, string, error)

	// Enabled reports whether callers must present a session token.
	Enabled() bool
}

// SecretGate compares a caller-supplied secret against a bcrypt hash.
type SecretGate struct {
	hash     []byte
	sessions *SessionManager
}

// NewSecretGate creates a gate from a bcrypt hash of the shared secret.
func NewSecretGate(secretHash string, sessions *SessionManager) (*SecretGate, error) {
	if _, err := bcrypt.Cost([]byte(secretHash)); err != nil {
		return nil, fmt.Errorf("invalid secret hash: %w", err)
	}
	return &SecretGate{hash: []byte(secretHash), sessions: sessions}, nil
}

// HashSecret hashes a plaintext secret for use with NewSecretGate.
func HashSecret(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hashed), nil
}

// Enabled always returns true.
func (g *SecretGate) Enabled() bool { return true }

// Unlock verifies secret and returns the new session with its signed token.
func (g *SecretGate) Unlock(_ context.Context, secret string) (*models.Session, string, error) {
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(secret)); err != nil {
		return nil, "", ErrWrongSecret
	}
	return g.sessions.Open()
}

// OpenGate is used when no secret is configured. Every unlock succeeds and
// tokens are not required.
type OpenGate struct {
	sessions *SessionManager
}

// NewOpenGate creates a gate that lets everyone in.
func NewOpenGate(sessions *SessionManager) *OpenGate {
	return &OpenGate{sessions: sessions}
}

// Enabled always returns false.
func (g *OpenGate) Enabled() bool { return false }

// Unlock opens a session without checking secret.
func (g *OpenGate) Unlock(_ context.Context, _ string) (*models.Session, string, error) {
	return g.sessions.Open()
}
