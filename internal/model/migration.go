package model

import "time"

// Migration records one-off data fixes applied on top of AutoMigrate
type Migration struct {
	ID        int       `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}
