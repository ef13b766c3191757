package health

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/aiam/server/internal/logger"
	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

// anything whose reachability decides readiness (the database pool)
type Pinger interface {
	Ping(ctx context.Context) error
}

// returns the server health status; degraded when the database does not answer
func Handler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.WarnErr(err, "health check failed")
			c.JSON(http.StatusServiceUnavailable, Response{Status: "degraded", Service: "aiam", Version: Version})
			return
		}

		c.JSON(http.StatusOK, Response{Status: "healthy", Service: "aiam", Version: Version})
	}
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{Message: "pong"})
}
