package movie

import (
	"bitwise74/movie-list/app/respond"
	"bitwise74/movie-list/internal"
	"bitwise74/movie-list/internal/auth"
	"bitwise74/movie-list/internal/catalog"
	"bitwise74/movie-list/pkg/validators"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// selectBody is a search result picked by the user. Rating accepts
// both 7.5 and "7.5"
type selectBody struct {
	Title       string      `json:"title"`
	ReleaseDate string      `json:"release_date"`
	Overview    string      `json:"overview"`
	Rating      json.Number `json:"rating"`
	PosterPath  string      `json:"poster_path"`
}

// MovieSelect adds a search result to the caller's list
func MovieSelect(c *gin.Context, d *internal.Deps) {
	var data selectBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	title := strings.TrimSpace(data.Title)
	if err := validators.TitleValidator(title); err != nil {
		respond.Error(c, err, "Invalid title")
		return
	}

	year, err := validators.ParseYear(data.ReleaseDate)
	if err != nil {
		respond.Error(c, err, "Invalid release date")
		return
	}

	rating, err := validators.ParseRating(data.Rating.String())
	if err != nil {
		respond.Error(c, err, "Invalid rating")
		return
	}

	movie, err := d.Catalog.Add(c.Request.Context(), auth.From(c), catalog.NewMovie{
		Title:       title,
		Year:        year,
		Description: strings.TrimSpace(data.Overview),
		Rating:      rating,
		ImageRef:    d.Search.PosterURL(data.PosterPath),
	})
	if err != nil {
		respond.Error(c, err, "Failed to add movie")
		return
	}

	c.JSON(http.StatusCreated, movie)
}
