// Package account owns user credentials: registration, login and
// password changes
package account

import (
	"bitwise74/movie-list/internal/model"
	"bitwise74/movie-list/pkg/security"
	"context"
	"errors"
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

const (
	charset  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	idLength = 16
)

var (
	ErrAlreadyExists = errors.New("this email is already registered. Please login or use a different email")

	// ErrAuthFailure matches both ErrNoSuchUser and ErrWrongPassword
	ErrAuthFailure   = errors.New("authentication failed")
	ErrNoSuchUser    = fmt.Errorf("%w, that email does not exist", ErrAuthFailure)
	ErrWrongPassword = fmt.Errorf("%w, password incorrect", ErrAuthFailure)
)

type Store struct {
	db     *gorm.DB
	hasher *security.ArgonHash
}

func NewStore(db *gorm.DB, hasher *security.ArgonHash) *Store {
	return &Store{db: db, hasher: hasher}
}

// NormalizeEmail is the form emails are stored and looked up in
func NormalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func (s *Store) Register(ctx context.Context, email, name, password string) (*model.User, error) {
	email = NormalizeEmail(email)

	var found bool
	err := s.db.WithContext(ctx).
		Model(model.User{}).
		Select("count(*) > 0").
		Where("email = ?", email).
		Find(&found).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to check if user is registered, %w", err)
	}

	if found {
		return nil, ErrAlreadyExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password, %w", err)
	}

	id, err := gonanoid.Generate(charset, idLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID, %w", err)
	}

	u := &model.User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
	}

	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		// Lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}

		return nil, fmt.Errorf("failed to create user, %w", err)
	}

	return u, nil
}

// Authenticate returns the user owning email if password matches. A missing
// account still pays for a hash verification
func (s *Store) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	var u model.User

	err := s.db.WithContext(ctx).
		Where("email = ?", NormalizeEmail(email)).
		First(&u).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.hasher.VerifyDummy(password)
			return nil, ErrNoSuchUser
		}

		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return nil, ErrWrongPassword
	}

	return &u, nil
}

// SetPassword replaces the stored hash. Existing sessions stay valid
func (s *Store) SetPassword(ctx context.Context, u *model.User, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password, %w", err)
	}

	r := s.db.WithContext(ctx).
		Model(model.User{}).
		Where("id = ?", u.ID).
		Update("password_hash", hash)
	if r.Error != nil {
		return fmt.Errorf("failed to update password, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		return ErrNoSuchUser
	}

	u.PasswordHash = hash
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&u).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSuchUser
		}

		return nil, fmt.Errorf("failed to fetch user, %w", err)
	}

	return &u, nil
}

// FindByEmail is used by the password reset flow
func (s *Store) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := s.db.WithContext(ctx).
		Where("email = ?", NormalizeEmail(email)).
		First(&u).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSuchUser
		}

		return nil, fmt.Errorf("failed to fetch user, %w", err)
	}

	return &u, nil
}
