package middleware

import (
	"bitwise74/movie-list/internal/auth"
	"bitwise74/movie-list/pkg/security"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionCookie holds the signed session token
const SessionCookie = "auth_token"

// NewSessionMiddleware resolves the caller of every request. A missing,
// expired or forged cookie leaves the request anonymous instead of failing it
func NewSessionMiddleware(s *security.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookie)
		if err != nil || tokenStr == "" {
			auth.Attach(c, auth.Anonymous)
			c.Next()
			return
		}

		userID, err := s.Parse(tokenStr)
		if err != nil {
			zap.L().Debug("Ignoring invalid session cookie", zap.Error(err), zap.String("requestID", RequestID(c)))

			auth.Attach(c, auth.Anonymous)
			c.Next()
			return
		}

		auth.Attach(c, auth.User(userID))
		c.Next()
	}
}

// RequireUser stops anonymous callers and tells the client where to log in
func RequireUser(c *gin.Context) {
	if err := auth.From(c).Require(); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     err.Error(),
			"redirect":  "/login",
			"requestID": RequestID(c),
		})
		return
	}

	c.Next()
}
