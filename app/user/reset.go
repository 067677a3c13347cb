package user

import (
	"bitwise74/movie-list/app/respond"
	"bitwise74/movie-list/internal"
	"bitwise74/movie-list/internal/account"
	"bitwise74/movie-list/internal/service"
	"bitwise74/movie-list/pkg/middleware"
	"bitwise74/movie-list/pkg/validators"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const resetRequestedMessage = "If that email is registered, a reset link is on its way"

type resetRequestBody struct {
	Email string `json:"email"`
}

type resetBody struct {
	Password string `json:"password"`
}

// UserResetRequest mails a reset link. The response is the same whether
// or not the email belongs to an account, and so is the time it takes:
// the mail goes out in the background and every answer waits for
// security.reset_request_delay
func UserResetRequest(c *gin.Context, d *internal.Deps) {
	requestID := middleware.RequestID(c)
	deadline := time.Now().Add(d.Config.Security.ResetRequestDelay)

	var data resetRequestBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		respond.Error(c, err, "Invalid email")
		return
	}

	u, err := d.Accounts.FindByEmail(c.Request.Context(), data.Email)
	if err != nil {
		if !errors.Is(err, account.ErrNoSuchUser) {
			respond.Error(c, err, "Failed to look up user")
			return
		}

		zap.L().Debug("Password reset requested for unknown email", zap.String("requestID", requestID))

		time.Sleep(time.Until(deadline))
		c.JSON(http.StatusOK, gin.H{"message": resetRequestedMessage})
		return
	}

	ttl := d.Config.Security.ResetTTL
	token, err := d.ResetTokens.Issue(u, ttl)
	if err != nil {
		respond.Error(c, err, "Failed to issue reset token")
		return
	}

	link := d.Config.Host.BaseURL() + "/reset/" + token
	msg := service.ResetMail(u.Email, u.Name, link, int(ttl.Minutes()))

	go func(userID string) {
		if !d.Mail.Send(msg) {
			zap.L().Warn("Reset mail was not delivered", zap.String("userID", userID), zap.String("requestID", requestID))
		}
	}(u.ID)

	time.Sleep(time.Until(deadline))
	c.JSON(http.StatusOK, gin.H{"message": resetRequestedMessage})
}

// UserResetCheck lets the client know if a reset link is still usable
// before asking for a new password
func UserResetCheck(c *gin.Context, d *internal.Deps) {
	if d.ResetTokens.Verify(c.Request.Context(), c.Param("token")) == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "This reset link is invalid or has expired",
			"requestID": middleware.RequestID(c),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// UserReset sets a new password. The link stops working afterwards
// because tokens are bound to the password they were issued for
func UserReset(c *gin.Context, d *internal.Deps) {
	var data resetBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	u := d.ResetTokens.Verify(c.Request.Context(), c.Param("token"))
	if u == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "This reset link is invalid or has expired",
			"requestID": middleware.RequestID(c),
		})
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		respond.Error(c, err, "Invalid password")
		return
	}

	if err := d.Accounts.SetPassword(c.Request.Context(), u, data.Password); err != nil {
		respond.Error(c, err, "Failed to reset password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Your password has been changed, you can log in now"})
}
