package user

import (
	"bitwise74/movie-list/app/respond"
	"bitwise74/movie-list/internal"
	"bitwise74/movie-list/internal/account"
	"bitwise74/movie-list/internal/auth"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserFetch returns the logged in user. A session that outlived its
// account is treated as logged out
func UserFetch(c *gin.Context, d *internal.Deps) {
	u, err := d.Accounts.Get(c.Request.Context(), auth.From(c).UserID)
	if err != nil {
		if errors.Is(err, account.ErrNoSuchUser) {
			endSession(c, d)
			respond.Error(c, auth.ErrUnauthorized, "Session user vanished")
			return
		}

		respond.Error(c, err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, u)
}
