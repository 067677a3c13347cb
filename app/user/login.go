package user

import (
	"bitwise74/movie-list/app/respond"
	"bitwise74/movie-list/internal"
	"bitwise74/movie-list/pkg/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func UserLogin(c *gin.Context, d *internal.Deps) {
	requestID := middleware.RequestID(c)

	var data loginBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	if data.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email field can't be empty",
			"requestID": requestID,
		})
		return
	}

	if data.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Password field can't be empty",
			"requestID": requestID,
		})
		return
	}

	u, err := d.Accounts.Authenticate(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		respond.Error(c, err, "Failed to authenticate user")
		return
	}

	if err := startSession(c, d, u.ID); err != nil {
		respond.Error(c, err, "Failed to generate session token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userID": u.ID,
		"name":   u.Name,
	})
}

// UserLogout always succeeds, even for callers that weren't logged in
func UserLogout(c *gin.Context, d *internal.Deps) {
	endSession(c, d)
	c.Status(http.StatusNoContent)
}
