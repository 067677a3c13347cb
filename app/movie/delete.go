package movie

import (
	"bitwise74/movie-list/app/respond"
	"bitwise74/movie-list/internal"
	"bitwise74/movie-list/internal/auth"
	"bitwise74/movie-list/pkg/validators"
	"net/http"

	"github.com/gin-gonic/gin"
)

func MovieDelete(c *gin.Context, d *internal.Deps) {
	id, err := validators.ParseMovieID(c.Param("id"))
	if err != nil {
		respond.Error(c, err, "Invalid movie ID")
		return
	}

	if err := d.Catalog.Delete(c.Request.Context(), id, auth.From(c)); err != nil {
		respond.Error(c, err, "Failed to delete movie")
		return
	}

	c.Status(http.StatusNoContent)
}
