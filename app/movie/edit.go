package movie

import (
	"bitwise74/movie-list/app/respond"
	"bitwise74/movie-list/internal"
	"bitwise74/movie-list/internal/auth"
	"bitwise74/movie-list/pkg/validators"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type editBody struct {
	Rating json.Number `json:"rating"`
	Review string      `json:"review"`
}

// MovieEdit changes the rating and review of a movie. The new ranking
// shows up the next time the list is read
func MovieEdit(c *gin.Context, d *internal.Deps) {
	id, err := validators.ParseMovieID(c.Param("id"))
	if err != nil {
		respond.Error(c, err, "Invalid movie ID")
		return
	}

	var data editBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	rating, err := validators.ParseRating(data.Rating.String())
	if err != nil {
		respond.Error(c, err, "Invalid rating")
		return
	}

	review := strings.TrimSpace(data.Review)
	if err := validators.ReviewValidator(review); err != nil {
		respond.Error(c, err, "Invalid review")
		return
	}

	movie, err := d.Catalog.UpdateRating(c.Request.Context(), id, rating, review, auth.From(c))
	if err != nil {
		respond.Error(c, err, "Failed to edit movie")
		return
	}

	c.JSON(http.StatusOK, movie)
}
