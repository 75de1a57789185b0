package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// SessionManager handles session token generation and validation.
type SessionManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// Claims represents the JWT claims for a gate session.
// The session id is carried in the standard "jti" claim.
type Claims struct {
	jwt.RegisteredClaims
}

// NewSessionManager creates a session manager with the given signing key and token duration.
// An empty signingKey is replaced by 32 random bytes, so tokens do not outlive the process.
func NewSessionManager(signingKey string, tokenDuration time.Duration) (*SessionManager, error) {
	key := []byte(signingKey)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
	}
	if tokenDuration <= 0 {
		return nil, fmt.Errorf("token duration must be positive, got %s", tokenDuration)
	}
	return &SessionManager{
		secretKey:     key,
		tokenDuration: tokenDuration,
		now:           time.Now,
	}, nil
}

// Open creates a new session and its signed token.
func (m *SessionManager) Open() (*models.Session, string, error) {
	now := m.now()
	session := &models.Session{
		ID:        uuid.New().String(),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(m.tokenDuration).Unix(),
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	return session, tokenString, nil
}

// Validate parses and validates a session token, returning the session if valid.
func (m *SessionManager) Validate(tokenString string) (*models.Session, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Verify the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	session := &models.Session{ID: claims.ID}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return session, nil
}
