package movie

import (
	"bitwise74/movie-list/app/respond"
	"bitwise74/movie-list/internal"
	"bitwise74/movie-list/pkg/validators"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type searchResult struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date"`
	Overview    string   `json:"overview"`
	PosterPath  string   `json:"poster_path"`
	PosterURL   string   `json:"poster_url"`
	VoteAverage *float64 `json:"vote_average"`
}

func MovieSearch(c *gin.Context, d *internal.Deps) {
	title := strings.TrimSpace(c.Query("title"))
	if err := validators.TitleValidator(title); err != nil {
		respond.Error(c, err, "Invalid search title")
		return
	}

	candidates, err := d.Search.Search(c.Request.Context(), title)
	if err != nil {
		respond.Error(c, err, "Movie search failed")
		return
	}

	results := make([]searchResult, len(candidates))
	for i, m := range candidates {
		results[i] = searchResult{
			ID:          m.ID,
			Title:       m.Title,
			ReleaseDate: m.ReleaseDate,
			Overview:    m.Overview,
			PosterPath:  m.PosterPath,
			PosterURL:   d.Search.PosterURL(m.PosterPath),
			VoteAverage: m.VoteAverage,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
	})
}
