package main

import (
	"bitwise74/movie-list/app"
	"bitwise74/movie-list/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	cfg, err := config.Setup()
	if err != nil {
		if errors.Is(err, config.ErrNoSecret) {
			os.Exit(1)
		}
		panic(err)
	}

	log, err := app.MakeLogger(cfg.App.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if f := config.File(); f != "" {
		zap.L().Info("Loaded config file", zap.String("file", f))
	} else {
		zap.L().Warn("No config.toml found, using defaults and environment")
	}

	for _, w := range cfg.Warnings() {
		zap.L().Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router, err := app.NewRouter(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Host.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
	}

	go func() {
		zap.L().Info("Server starting", zap.String("addr", srv.Addr), zap.Bool("ssl", cfg.Host.SSL.Enabled))

		var err error
		if cfg.Host.SSL.Enabled {
			err = srv.ListenAndServeTLS(cfg.Host.SSL.CertificatePath, cfg.Host.SSL.CertificateKeyPath)
		} else {
			err = srv.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server stopped unexpectedly", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Server forced to shut down", zap.Error(err))
	}
}
