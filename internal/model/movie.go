package model

import "time"

type Movie struct {
	ID          uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string   `gorm:"index:idx_owner_title,priority:2;not null" json:"title"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Rating      *float64 `json:"rating"`
	// Derived from Rating on every list read, 1 is the best movie.
	// Never trust it outside of a freshly listed set
	Ranking int    `json:"ranking"`
	Review  string `json:"review"`
	ImgURL  string `json:"img_url"`
	// Nil for records created before movies had owners
	OwnerID *string `gorm:"index:idx_owner_title,priority:1;size:16" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// OwnedBy reports whether userID owns the movie
func (m *Movie) OwnedBy(userID string) bool {
	return m.OwnerID != nil && *m.OwnerID == userID
}
