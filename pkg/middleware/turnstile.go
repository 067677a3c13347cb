package middleware

import (
	"bitwise74/movie-list/config"
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const TurnstileVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

type turnstileResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// NewTurnstileMiddleware checks the TurnstileToken header against Cloudflare
// before letting the request through. It does nothing when turnstile is disabled
func NewTurnstileMiddleware(c config.SecurityConfig, verifyURL string) gin.HandlerFunc {
	client := &http.Client{Timeout: 5 * time.Second}

	return func(ctx *gin.Context) {
		if !c.Turnstile.Enabled {
			ctx.Next()
			return
		}

		requestID := RequestID(ctx)

		token := ctx.GetHeader("TurnstileToken")
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Missing or invalid turnstile token",
				"requestID": requestID,
			})
			return
		}

		jsonBody, _ := json.Marshal(gin.H{
			"secret":   c.Turnstile.SecretToken,
			"response": token,
			"remoteip": ctx.ClientIP(),
		})

		req, err := http.NewRequestWithContext(ctx.Request.Context(), http.MethodPost, verifyURL, bytes.NewReader(jsonBody))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
				"error":     "Failed to verify turnstile token",
				"requestID": requestID,
			})

			zap.L().Error("Turnstile request failed", zap.Error(err), zap.String("requestID", requestID))
			return
		}
		defer resp.Body.Close()

		var res turnstileResponse
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil || !res.Success {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Turnstile verification failed",
				"requestID": requestID,
			})

			zap.L().Debug("Turnstile rejected request", zap.Strings("codes", res.ErrorCodes), zap.String("requestID", requestID))
			return
		}

		ctx.Next()
	}
}
