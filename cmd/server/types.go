package main

import (
	"codeberg.org/aiam/server/aiam/affirmations"
	"codeberg.org/aiam/server/aiam/users"
	"codeberg.org/aiam/server/internal/audiocache"
	"codeberg.org/aiam/server/internal/background"
	"codeberg.org/aiam/server/internal/blobstore"
	"codeberg.org/aiam/server/internal/config"
	"codeberg.org/aiam/server/internal/credits"
	"codeberg.org/aiam/server/internal/imagegen"
	"codeberg.org/aiam/server/internal/orchestrator"
	"codeberg.org/aiam/server/internal/rehost"
	"codeberg.org/aiam/server/internal/textgen"
	"codeberg.org/aiam/server/internal/voice"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// holds all dependencies and state for the API server
type Server struct {
	db              *pgxpool.Pool
	redis           *redis.Client // nil without REDIS_URL
	config          *config.Config
	userRepo        *users.Repository
	affirmationRepo *affirmations.Repository
	blobs           blobstore.Store
	services        *Services
	tasks           *background.Runner
	router          *gin.Engine
}

// provider clients and the flows built on them
type Services struct {
	Text         *textgen.Generator
	Images       *imagegen.Generator
	Voice        *voice.Client
	Assets       *rehost.Rehoster
	AudioCache   *audiocache.Cache
	Ledger       *credits.Guard
	Orchestrator *orchestrator.Orchestrator
}
