package internal

import (
	"bitwise74/movie-list/config"
	"bitwise74/movie-list/internal/account"
	"bitwise74/movie-list/internal/catalog"
	"bitwise74/movie-list/internal/service"
	"bitwise74/movie-list/pkg/security"
	"fmt"

	"gorm.io/gorm"
)

// Deps is everything a handler may need. It is built once at startup
type Deps struct {
	Config      *config.Config
	Accounts    *account.Store
	Catalog     *catalog.Catalog
	Sessions    *security.Sessions
	ResetTokens *security.ResetTokens
	Search      service.MovieSearcher
	Mail        service.MailSender
}

// NewDeps wires the components on top of an open database
func NewDeps(c *config.Config, db *gorm.DB) (*Deps, error) {
	argon, err := security.NewArgon()
	if err != nil {
		return nil, fmt.Errorf("failed to set up password hashing, %w", err)
	}

	accounts := account.NewStore(db, argon)

	return &Deps{
		Config:      c,
		Accounts:    accounts,
		Catalog:     catalog.New(db),
		Sessions:    security.NewSessions(c.Security.Secret, c.Security.SessionTTL),
		ResetTokens: security.NewResetTokens(c.Security.Secret, accounts),
		Search:      service.NewTMDB(c.TMDB),
		Mail:        service.NewMailer(c.Mail),
	}, nil
}
