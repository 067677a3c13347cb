// Package catalog keeps every user's private, ranked list of movies
package catalog

import (
	"bitwise74/movie-list/internal/auth"
	"bitwise74/movie-list/internal/model"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"gorm.io/gorm"
)

const (
	// Given to new movies until the next list read ranks them
	UnrankedSentinel = 0

	DefaultReview    = "None"
	MissingReview    = "Picture not found"
	PlaceholderImage = "/static/img/404.jpg"
)

var (
	ErrDuplicateTitle = errors.New("this movie is already on your list")
	ErrNotFound       = errors.New("movie not found")
	ErrForbidden      = errors.New("you don't own this movie")
)

// NewMovie is a search result that passed boundary validation
type NewMovie struct {
	Title       string
	Year        int
	Description string
	Rating      float64
	// Absolute poster URL, empty when the search had none
	ImageRef string
}

// incomplete reports a search result that lacks a poster, an overview or
// a rating. TMDB uses 0 for movies nobody has voted on yet
func (m NewMovie) incomplete() bool {
	return strings.TrimSpace(m.ImageRef) == "" ||
		strings.TrimSpace(m.Description) == "" ||
		m.Rating == 0
}

type Catalog struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// ListFor returns the owner's movies best first with freshly computed
// rankings, which are persisted before returning. Anonymous callers get an
// empty list
func (c *Catalog) ListFor(ctx context.Context, owner auth.Identity) ([]model.Movie, error) {
	if owner.IsAnonymous() {
		return []model.Movie{}, nil
	}

	var movies []model.Movie

	err := c.db.WithContext(ctx).
		Where("owner_id = ?", owner.UserID).
		Find(&movies).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movies, %w", err)
	}

	changed := Rank(movies)

	if err := c.saveRankings(ctx, owner.UserID, changed); err != nil {
		return nil, err
	}

	slices.Reverse(movies)
	return movies, nil
}

func (c *Catalog) saveRankings(ctx context.Context, owner string, changed []Assignment) error {
	if len(changed) == 0 {
		return nil
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range changed {
			err := tx.Model(model.Movie{}).
				Where("id = ? AND owner_id = ?", a.MovieID, owner).
				UpdateColumn("ranking", a.Ranking).
				Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save rankings, %w", err)
	}

	return nil
}

// Add puts a movie on owner's list. Titles are unique per owner, compared
// case sensitively
func (c *Catalog) Add(ctx context.Context, owner auth.Identity, m NewMovie) (*model.Movie, error) {
	if err := owner.Require(); err != nil {
		return nil, err
	}

	var exists bool

	err := c.db.WithContext(ctx).
		Model(model.Movie{}).
		Select("count(*) > 0").
		Where("owner_id = ? AND title = ?", owner.UserID, m.Title).
		Find(&exists).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate title, %w", err)
	}

	if exists {
		return nil, ErrDuplicateTitle
	}

	rating := m.Rating
	ownerID := owner.UserID

	movie := &model.Movie{
		Title:       m.Title,
		Year:        m.Year,
		Description: m.Description,
		Rating:      &rating,
		Ranking:     UnrankedSentinel,
		Review:      DefaultReview,
		ImgURL:      m.ImageRef,
		OwnerID:     &ownerID,
	}

	if m.incomplete() {
		movie.ImgURL = PlaceholderImage
		movie.Review = MissingReview
	}

	if err := c.db.WithContext(ctx).Create(movie).Error; err != nil {
		return nil, fmt.Errorf("failed to create movie, %w", err)
	}

	return movie, nil
}

// Get returns a single movie if owner owns it
func (c *Catalog) Get(ctx context.Context, id uint, owner auth.Identity) (*model.Movie, error) {
	if err := owner.Require(); err != nil {
		return nil, err
	}

	return c.owned(ctx, c.db, id, owner)
}

// owned loads a movie and checks ownership. Existence is checked first so
// callers can tell a missing movie from somebody else's
func (c *Catalog) owned(ctx context.Context, tx *gorm.DB, id uint, owner auth.Identity) (*model.Movie, error) {
	var movie model.Movie

	err := tx.WithContext(ctx).
		Where("id = ?", id).
		First(&movie).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to fetch movie, %w", err)
	}

	if !movie.OwnedBy(owner.UserID) {
		return nil, ErrForbidden
	}

	return &movie, nil
}

func (c *Catalog) UpdateRating(ctx context.Context, id uint, rating float64, review string, owner auth.Identity) (*model.Movie, error) {
	if err := owner.Require(); err != nil {
		return nil, err
	}

	var movie *model.Movie

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := c.owned(ctx, tx, id, owner)
		if err != nil {
			return err
		}

		err = tx.Model(m).
			Updates(map[string]any{
				"rating": rating,
				"review": review,
			}).
			Error
		if err != nil {
			return fmt.Errorf("failed to update movie, %w", err)
		}

		m.Rating = &rating
		m.Review = review
		movie = m

		return nil
	})
	if err != nil {
		return nil, err
	}

	return movie, nil
}

// Delete removes a movie permanently
func (c *Catalog) Delete(ctx context.Context, id uint, owner auth.Identity) error {
	if err := owner.Require(); err != nil {
		return err
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := c.owned(ctx, tx, id, owner)
		if err != nil {
			return err
		}

		if err := tx.Delete(m).Error; err != nil {
			return fmt.Errorf("failed to delete movie, %w", err)
		}

		return nil
	})
}
