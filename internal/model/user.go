// Package model defines database models
package model

import "time"

type User struct {
	ID           string    `gorm:"primaryKey;size:16" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"` // Always stored lowercase
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `gorm:"not null" json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`

	Movies []Movie `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}
