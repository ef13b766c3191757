package ratelimit

import (
	"fmt"

	"codeberg.org/aiam/server/internal/auth"
	apperrors "codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const storePrefix = "aiam:ratelimit"

// builds a per-user limiter for formatted rates like "20-M"; rdb may be nil
func Middleware(formatted string, rdb *redis.Client) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", formatted, err)
	}

	var store limiter.Store
	if rdb != nil {
		store, err = sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: storePrefix})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
		}
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: storePrefix})
	}

	return mgin.NewMiddleware(
		limiter.New(store, rate),
		mgin.WithKeyGetter(keyFor),
		mgin.WithLimitReachedHandler(limitReached),
		mgin.WithErrorHandler(storeFailed),
	), nil
}

// signed-in users are limited by id, everyone else by client IP
func keyFor(c *gin.Context) string {
	if userID, ok := auth.GetUserID(c); ok {
		return "user:" + userID
	}

	return "ip:" + c.ClientIP()
}

func limitReached(c *gin.Context) {
	apperrors.TooManyRequests(c, "too many requests, please slow down")
}

// a broken limiter store must not take the API down
func storeFailed(c *gin.Context, err error) {
	logger.WarnErr(err, "rate limit store failed, allowing request", "path", c.Request.URL.Path)
	c.Next()
}
