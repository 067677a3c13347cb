// Package contact forwards contact form submissions by mail
package contact

import (
	"bitwise74/movie-list/app/respond"
	"bitwise74/movie-list/internal"
	"bitwise74/movie-list/internal/service"
	"bitwise74/movie-list/pkg/middleware"
	"bitwise74/movie-list/pkg/validators"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type contactBody struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func Contact(c *gin.Context, d *internal.Deps) {
	var data contactBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	if err := validators.NameValidator(data.Name); err != nil {
		respond.Error(c, err, "Invalid name")
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		respond.Error(c, err, "Invalid email")
		return
	}

	if err := validators.MessageValidator(data.Message); err != nil {
		respond.Error(c, err, "Invalid message")
		return
	}

	to := d.Config.Mail.ContactAddress
	if to == "" {
		to = d.Config.Mail.SenderAddress
	}

	msg := service.ContactMail(to, strings.TrimSpace(data.Name), data.Email, strings.TrimSpace(data.Phone), data.Message)
	if !d.Mail.Send(msg) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "Failed to send your message, please try again later",
			"requestID": middleware.RequestID(c),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully sent your message"})
}
