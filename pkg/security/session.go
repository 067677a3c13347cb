package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionType = "auth"

var ErrSessionInvalid = errors.New("session token invalid")

type sessionClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// Sessions signs the auth_token cookie identifying a logged in user
type Sessions struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	return &Sessions{
		key: deriveKey([]byte(secret), sessionType),
		ttl: ttl,
		now: time.Now,
	}
}

// TTL is how long an issued session stays valid
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

func (s *Sessions) Issue(userID string) (string, error) {
	now := s.now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Type: sessionType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	return t.SignedString(s.key)
}

// Parse returns the user ID stored in a session token
func (s *Sessions) Parse(token string) (string, error) {
	var c sessionClaims

	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w, %w", ErrSessionInvalid, err)
	}

	if c.Type != sessionType || c.Subject == "" {
		return "", ErrSessionInvalid
	}

	return c.Subject, nil
}
