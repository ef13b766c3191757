package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/aiam/server/aiam/affirmations"
	"codeberg.org/aiam/server/aiam/users"
	"codeberg.org/aiam/server/internal/background"
	"codeberg.org/aiam/server/internal/blobstore"
	"codeberg.org/aiam/server/internal/config"
	"codeberg.org/aiam/server/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	// upper bound for a detached task such as an audio upload
	backgroundTaskTimeout = 2 * time.Minute

	connectTimeout = 10 * time.Second
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := newPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	rdb, err := newRedis(ctx, cfg.RedisURL)
	if err != nil {
		db.Close()
		return nil, err
	}

	blobs, err := blobstore.New(ctx, cfg.Blob, cfg.PublicBaseURL)
	if err != nil {
		closeRedis(rdb)
		db.Close()
		return nil, fmt.Errorf("failed to initialize blob store: %w", err)
	}

	logger.Info("blob store ready", "backend", cfg.Blob.Backend)

	server := &Server{
		db:              db,
		redis:           rdb,
		config:          cfg,
		userRepo:        users.NewRepository(db),
		affirmationRepo: affirmations.NewRepository(db),
		blobs:           blobs,
		tasks:           background.NewRunner(backgroundTaskTimeout),
		router:          gin.Default(),
	}

	services, err := InitializeServices(server)
	if err != nil {
		server.close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	server.services = services

	if err := RegisterRoutes(server.router, server); err != nil {
		server.close()
		return nil, err
	}

	return server, nil
}

func newPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// transaction-mode poolers (pgbouncer, supavisor) cannot hold prepared statements
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// optional; rate limits and the audio cache mirror fall back to memory and Postgres without it
func newRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		logger.Info("REDIS_URL not set, using in-memory rate limits")
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis")

	return client, nil
}

func closeRedis(rdb *redis.Client) {
	if rdb != nil {
		rdb.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
	}
}

// releases connections in reverse order of creation
func (s *Server) close() {
	if s.blobs != nil {
		s.blobs.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
	}

	closeRedis(s.redis)
	s.db.Close()
}
