package main

import (
	"context"
	"fmt"
	"os"

	"codeberg.org/aiam/server/aiam/users"
	"codeberg.org/aiam/server/internal/auth"
	"codeberg.org/aiam/server/internal/config"
	"codeberg.org/aiam/server/internal/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// prints a bearer token for a local test user, creating the profile if needed.
// usage: go run ./scripts [user-id]
func main() {
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	ctx := context.Background()

	db, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()

	userID := uuid.NewString()
	if len(os.Args) > 1 {
		userID = os.Args[1]
	}

	const email = "test@aiam.app"

	profile, err := users.NewRepository(db).EnsureProfile(ctx, userID, email, "Test User", "")
	if err != nil {
		logger.Fatal("failed to create test profile", "error", err)
	}

	token, err := auth.GenerateJWT(profile.ID, email)
	if err != nil {
		logger.Fatal("failed to generate JWT", "error", err)
	}

	fmt.Printf("user %s has %d aiams\n\n", profile.ID, profile.Credits)
	fmt.Printf("export TEST_TOKEN=%q\n", token)
}
