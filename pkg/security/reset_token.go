package security

import (
	"bitwise74/movie-list/internal/model"
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	resetPurpose = "password_reset"

	DefaultResetTTL = 1800 * time.Second
)

var errWrongPurpose = errors.New("token was not issued for a password reset")

// UserLookup resolves the user a token points at
type UserLookup interface {
	Get(ctx context.Context, id string) (*model.User, error)
}

type resetClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// ResetTokens issues and verifies self contained password reset tokens.
// The signing key is derived from the process secret and the user's current
// password hash, so a token stops verifying once the password it was meant
// to reset has changed
type ResetTokens struct {
	secret []byte
	users  UserLookup
	now    func() time.Time
}

func NewResetTokens(secret string, users UserLookup) *ResetTokens {
	return &ResetTokens{
		secret: []byte(secret),
		users:  users,
		now:    time.Now,
	}
}

func (r *ResetTokens) key(u *model.User) []byte {
	return deriveKey(r.secret, resetPurpose, u.ID, u.PasswordHash)
}

// Issue returns a token for u that expires after ttl
func (r *ResetTokens) Issue(u *model.User, ttl time.Duration) (string, error) {
	if u == nil || u.ID == "" {
		return "", errors.New("no user provided")
	}

	now := r.now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, resetClaims{
		Purpose: resetPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	return t.SignedString(r.key(u))
}

// Verify returns the user a token was issued for, or nil if the token is
// malformed, tampered with, expired or its user is gone
func (r *ResetTokens) Verify(ctx context.Context, token string) *model.User {
	if token == "" {
		return nil
	}

	var user *model.User

	_, err := jwt.ParseWithClaims(token, &resetClaims{}, func(t *jwt.Token) (any, error) {
		c, ok := t.Claims.(*resetClaims)
		if !ok || c.Purpose != resetPurpose || c.Subject == "" {
			return nil, errWrongPurpose
		}

		u, err := r.users.Get(ctx, c.Subject)
		if err != nil {
			return nil, err
		}

		user = u
		return r.key(u), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(r.now),
	)
	if err != nil {
		zap.L().Debug("Rejected password reset token", zap.Error(err))
		return nil
	}

	return user
}
