// Package respond turns component errors into JSON responses
package respond

import (
	"bitwise74/movie-list/internal/account"
	"bitwise74/movie-list/internal/auth"
	"bitwise74/movie-list/internal/catalog"
	"bitwise74/movie-list/internal/service"
	"bitwise74/movie-list/pkg/middleware"
	"bitwise74/movie-list/pkg/validators"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Status picks the HTTP status for an error returned by a component
func Status(err error) int {
	switch {
	case errors.Is(err, validators.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthorized),
		errors.Is(err, account.ErrWrongPassword):
		return http.StatusUnauthorized
	case errors.Is(err, catalog.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, account.ErrNoSuchUser):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrDuplicateTitle),
		errors.Is(err, account.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err with its status. Unexpected errors are logged and
// hidden from the client behind the request ID
func Error(c *gin.Context, err error, msg string) {
	requestID := middleware.RequestID(c)
	status := Status(err)

	if status == http.StatusInternalServerError {
		zap.L().Error(msg, zap.Error(err), zap.String("requestID", requestID))

		c.JSON(status, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})
		return
	}

	if status == http.StatusBadGateway {
		zap.L().Warn(msg, zap.Error(err), zap.String("requestID", requestID))

		c.JSON(status, gin.H{
			"error":     "The movie database is unavailable, please try again later",
			"requestID": requestID,
		})
		return
	}

	body := gin.H{
		"error":     message(err),
		"requestID": requestID,
	}
	if status == http.StatusUnauthorized && errors.Is(err, auth.ErrUnauthorized) {
		body["redirect"] = "/login"
	}

	c.JSON(status, body)
}

// BadBody is used when the request body can't be bound at all
func BadBody(c *gin.Context, err error) {
	requestID := middleware.RequestID(c)
	zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))

	status := http.StatusBadRequest
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}

	c.JSON(status, gin.H{
		"error":     "Invalid request body",
		"requestID": requestID,
	})
}

// message strips the "authentication failed, " prefix so the login form
// can tell the two failures apart
func message(err error) string {
	switch {
	case errors.Is(err, account.ErrNoSuchUser):
		return "That email does not exist, please try again"
	case errors.Is(err, account.ErrWrongPassword):
		return "Password incorrect, please try again"
	default:
		return err.Error()
	}
}
