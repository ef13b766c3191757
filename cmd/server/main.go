package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/aiam/server/api/rest/validation"
	"codeberg.org/aiam/server/internal/config"
	"codeberg.org/aiam/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// @title AiAm API
// @version 1.0
// @description Personalized affirmations with generated imagery and spoken audio, paid for in aiams
// @description
// @description Features:
// @description - Affirmation text generation by category
// @description - Generic or personal (reference photo) images
// @description - Speech in preset voices or the user's own voice clone

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT issued by the identity provider. Format: Bearer {token}

func main() {
	logger.Info("starting aiam server")

	// load configuration from environment
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := validation.Register(); err != nil {
		logger.Fatal("failed to register validators", "error", err)
	}

	// create server with all dependencies
	srv, err := NewServer(cfg)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     srv.router,
		ReadTimeout: 30 * time.Second,
		// image generation can take a minute end to end
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// let in-flight audio uploads finish before connections go away
	if err := srv.tasks.Stop(ctx); err != nil {
		logger.Error("background tasks did not finish", "error", err)
	}

	srv.close()

	logger.Info("server stopped")
}
