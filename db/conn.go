// Package db opens the relational store and keeps its schema current
package db

import (
	"bitwise74/movie-list/config"
	"bitwise74/movie-list/internal/model"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func New(c config.StorageConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch c.Driver {
	case "sqlite":
		dialector = sqlite.Open(c.DSN)
	case "postgres":
		dialector = postgres.Open(c.DSN)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", c.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database, %w", c.Driver, err)
	}

	err = db.AutoMigrate(model.User{}, model.Movie{}, model.Migration{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	if err := applyMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

type migration struct {
	name string
	run  func(tx *gorm.DB) error
}

// Data fixes that AutoMigrate can't express. Append only
var migrations = []migration{
	{
		// Accounts created before emails were normalized could be stored with
		// upper case letters and would never match a login again
		name: "lowercase_user_emails",
		run: func(tx *gorm.DB) error {
			return tx.Model(model.User{}).
				Where("email <> LOWER(email)").
				Update("email", gorm.Expr("LOWER(email)")).
				Error
		},
	},
}

func applyMigrations(db *gorm.DB) error {
	for _, m := range migrations {
		err := db.Transaction(func(tx *gorm.DB) error {
			var applied model.Migration
			err := tx.Where("name = ?", m.name).First(&applied).Error
			if err == nil {
				return nil
			}

			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			if err := m.run(tx); err != nil {
				return err
			}

			zap.L().Info("Applied migration", zap.String("name", m.name))
			return tx.Create(&model.Migration{Name: m.name}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s, %w", m.name, err)
		}
	}

	return nil
}
