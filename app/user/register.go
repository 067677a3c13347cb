package user

import (
	"bitwise74/movie-list/app/respond"
	"bitwise74/movie-list/internal"
	"bitwise74/movie-list/pkg/validators"
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerBody struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// UserRegister creates an account and logs it in straight away
func UserRegister(c *gin.Context, d *internal.Deps) {
	var data registerBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		respond.Error(c, err, "Invalid email")
		return
	}

	if err := validators.NameValidator(data.Name); err != nil {
		respond.Error(c, err, "Invalid name")
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		respond.Error(c, err, "Invalid password")
		return
	}

	u, err := d.Accounts.Register(c.Request.Context(), data.Email, data.Name, data.Password)
	if err != nil {
		respond.Error(c, err, "Failed to register user")
		return
	}

	if err := startSession(c, d, u.ID); err != nil {
		respond.Error(c, err, "Failed to generate session token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"userID": u.ID,
		"name":   u.Name,
	})
}
