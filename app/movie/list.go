// Package movie contains the handlers for a user's ranked movie list
package movie

import (
	"bitwise74/movie-list/app/respond"
	"bitwise74/movie-list/internal"
	"bitwise74/movie-list/internal/auth"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MovieList returns the caller's movies, best first. Anonymous callers
// get an empty list
func MovieList(c *gin.Context, d *internal.Deps) {
	movies, err := d.Catalog.ListFor(c.Request.Context(), auth.From(c))
	if err != nil {
		respond.Error(c, err, "Failed to list movies")
		return
	}

	c.JSON(http.StatusOK, movies)
}
