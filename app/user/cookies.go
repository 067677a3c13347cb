// Package user contains the account handlers
package user

import (
	"bitwise74/movie-list/internal"
	"bitwise74/movie-list/pkg/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

// startSession logs the user in by setting the session cookies
func startSession(c *gin.Context, d *internal.Deps, userID string) error {
	token, err := d.Sessions.Issue(userID)
	if err != nil {
		return err
	}

	secure := d.Config.Host.SSL.Enabled
	maxAge := int(d.Sessions.TTL().Seconds())

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("user_id", userID, maxAge, "/", "", secure, false)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", secure, true)
	c.SetCookie("logged_in", "1", maxAge, "/", "", secure, false)
	return nil
}

func endSession(c *gin.Context, d *internal.Deps) {
	secure := d.Config.Host.SSL.Enabled

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("user_id", "", -1, "/", "", secure, false)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", secure, true)
	c.SetCookie("logged_in", "", -1, "/", "", secure, false)
}
