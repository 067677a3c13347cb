// Package app contains all endpoints available
package app

import (
	"bitwise74/movie-list/app/contact"
	"bitwise74/movie-list/app/movie"
	"bitwise74/movie-list/app/root"
	"bitwise74/movie-list/app/user"
	"bitwise74/movie-list/config"
	"bitwise74/movie-list/db"
	"bitwise74/movie-list/internal"
	"bitwise74/movie-list/pkg/middleware"
	"context"
	"fmt"
	"net/http"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const maxBodySize = 1 << 20

// NewRouter opens the database, builds every component and returns the
// ready router. Background work stops when ctx is cancelled
func NewRouter(ctx context.Context, cfg *config.Config) (*gin.Engine, error) {
	conn, err := db.New(cfg.Storage, zap.L())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	store, err := newCacheStore(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	d, err := internal.NewDeps(cfg, conn)
	if err != nil {
		return nil, err
	}

	return Routes(ctx, d, store), nil
}

// newCacheStore uses redis when an address is configured so several
// instances share search results, memory otherwise
func newCacheStore(ctx context.Context, c config.CacheConfig) (persist.CacheStore, error) {
	if c.RedisAddr == "" {
		return persist.NewMemoryStore(c.SearchTTL), nil
	}

	client := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis, %w", err)
	}

	zap.L().Info("Caching search results in redis", zap.String("addr", c.RedisAddr))
	return persist.NewRedisStore(client), nil
}

// Routes mounts every endpoint on a fresh engine
func Routes(ctx context.Context, d *internal.Deps, store persist.CacheStore) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     d.Config.Host.CORS,
			AllowMethods:     []string{"GET", "HEAD", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == http.MethodHead
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
		ginzap.RecoveryWithZap(zap.L(), true),
		middleware.NewSessionMiddleware(d.Sessions),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: d.Config.Security.RateLimit,
		Burst:             d.Config.Security.RateLimit * 2,
		CleanupInterval:   time.Minute,
	})
	go rateLimiter.Cleanup(ctx)

	limited := rateLimiter.Handler()
	turnstile := middleware.NewTurnstileMiddleware(d.Config.Security, middleware.TurnstileVerifyURL)
	searchCache := cache.CacheByRequestURI(store, d.Config.Cache.SearchTTL)

	m := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)
	}

	mv := m.Group("/movies")
	{
		// GET /api/movies		-> Returns the caller's ranked list, empty when logged out
		mv.GET("", func(c *gin.Context) { movie.MovieList(c, d) })

		// GET /api/movies/search	-> Searches TMDB by title
		mv.GET("/search", middleware.RequireUser, searchCache, func(c *gin.Context) { movie.MovieSearch(c, d) })

		// POST /api/movies		-> Adds a selected search result to the list
		mv.POST("", middleware.RequireUser, middleware.BodySizeLimiter(maxBodySize), func(c *gin.Context) { movie.MovieSelect(c, d) })

		// GET /api/movies/:id		-> Returns a movie owned by the caller
		mv.GET("/:id", middleware.RequireUser, func(c *gin.Context) { movie.MovieFetch(c, d) })

		// PATCH /api/movies/:id	-> Changes the rating and review of a movie
		mv.PATCH("/:id", middleware.RequireUser, middleware.BodySizeLimiter(maxBodySize), func(c *gin.Context) { movie.MovieEdit(c, d) })

		// DELETE /api/movies/:id	-> Removes a movie from the list
		mv.DELETE("/:id", middleware.RequireUser, func(c *gin.Context) { movie.MovieDelete(c, d) })
	}

	u := m.Group("/users", middleware.BodySizeLimiter(maxBodySize))
	{
		// GET /api/users/me		-> Returns the logged in user
		u.GET("/me", middleware.RequireUser, func(c *gin.Context) { user.UserFetch(c, d) })

		// POST /api/users 		-> Registers a new user and logs them in
		u.POST("", limited, func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /api/users/login 	-> Logs in a user and sets the session cookie
		u.POST("/login", limited, func(c *gin.Context) { user.UserLogin(c, d) })

		// POST /api/users/logout	-> Clears the session cookies
		u.POST("/logout", func(c *gin.Context) { user.UserLogout(c, d) })

		// POST /api/users/reset	-> Mails a password reset link
		u.POST("/reset", limited, turnstile, func(c *gin.Context) { user.UserResetRequest(c, d) })

		// GET /api/users/reset/:token	-> Checks if a reset link is still valid
		u.GET("/reset/:token", func(c *gin.Context) { user.UserResetCheck(c, d) })

		// POST /api/users/reset/:token	-> Sets a new password
		u.POST("/reset/:token", limited, func(c *gin.Context) { user.UserReset(c, d) })
	}

	// POST /api/contact		-> Forwards the contact form by mail
	m.POST("/contact", limited, turnstile, middleware.BodySizeLimiter(maxBodySize), func(c *gin.Context) { contact.Contact(c, d) })

	return router
}
