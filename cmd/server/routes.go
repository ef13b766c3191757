package main

import (
	"fmt"
	"time"

	"codeberg.org/aiam/server/api/rest/affirmations"
	"codeberg.org/aiam/server/api/rest/blobs"
	"codeberg.org/aiam/server/api/rest/caller"
	"codeberg.org/aiam/server/api/rest/credits"
	"codeberg.org/aiam/server/api/rest/generate"
	"codeberg.org/aiam/server/api/rest/health"
	"codeberg.org/aiam/server/api/rest/users"
	"codeberg.org/aiam/server/api/rest/voices"
	"codeberg.org/aiam/server/internal/auth"
	"codeberg.org/aiam/server/internal/metrics"
	"codeberg.org/aiam/server/internal/ratelimit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) error {
	router.Use(corsMiddleware(server.config.CORSAllowedOrigins))

	router.GET("/health", health.Handler(server.db))
	router.GET("/metrics", metrics.Handler())

	// provider-backed routes share one per-user budget
	generateLimit, err := ratelimit.Middleware(server.config.RateLimitGenerate, server.redis)
	if err != nil {
		return fmt.Errorf("failed to create rate limiter: %w", err)
	}

	v1 := router.Group("/api/v1")
	v1.GET("/ping", health.PingHandler)

	protected := v1.Group("", auth.AuthMiddleware(), caller.Middleware(server.userRepo))
	limited := protected.Group("", generateLimit)

	services := server.services

	{
		generate.RegisterRoutes(limited, services.Text, services.Images, services.Ledger)
		voices.RegisterRoutes(v1, limited, services.Voice, services.Voice, server.userRepo)
		affirmations.RegisterRoutes(v1, protected, services.Orchestrator, server.affirmationRepo, generateLimit)
		users.RegisterRoutes(protected, server.userRepo, services.Assets)
		credits.RegisterRoutes(v1, protected)
		blobs.RegisterRoutes(v1, server.blobs)
	}

	return nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Voice-Id", "X-Aiams-Charged", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
