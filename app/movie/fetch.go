package movie

import (
	"bitwise74/movie-list/app/respond"
	"bitwise74/movie-list/internal"
	"bitwise74/movie-list/internal/auth"
	"bitwise74/movie-list/pkg/validators"
	"net/http"

	"github.com/gin-gonic/gin"
)

func MovieFetch(c *gin.Context, d *internal.Deps) {
	id, err := validators.ParseMovieID(c.Param("id"))
	if err != nil {
		respond.Error(c, err, "Invalid movie ID")
		return
	}

	movie, err := d.Catalog.Get(c.Request.Context(), id, auth.From(c))
	if err != nil {
		respond.Error(c, err, "Failed to fetch movie")
		return
	}

	c.JSON(http.StatusOK, movie)
}
