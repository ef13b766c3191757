package caller

import (
	"context"

	"codeberg.org/aiam/server/aiam/users"
	"codeberg.org/aiam/server/internal/auth"
	"codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/orchestrator"
	"github.com/gin-gonic/gin"
)

const ctxSession = "aiam_session"

// creates the profile on first sight of an identity
type ProfileLoader interface {
	EnsureProfile(ctx context.Context, userID, email, name, avatarURL string) (*users.Profile, error)
}

// loads the caller's profile after AuthMiddleware and stores the session on the context
func Middleware(profiles ProfileLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.GetIdentity(c)
		if !ok {
			errors.Unauthorized(c, "user not authenticated")
			c.Abort()
			return
		}

		profile, err := profiles.EnsureProfile(c.Request.Context(), identity.UserID, identity.Email, identity.Name, identity.AvatarURL)
		if err != nil {
			errors.InternalError(c, "failed to load profile", err)
			c.Abort()
			return
		}

		Set(c, &orchestrator.Session{
			UserID:  identity.UserID,
			Email:   identity.Email,
			Profile: profile,
		})

		c.Next()
	}
}

func Set(c *gin.Context, sess *orchestrator.Session) {
	c.Set(ctxSession, sess)
}

// the session set by Middleware
func Session(c *gin.Context) (*orchestrator.Session, bool) {
	v, ok := c.Get(ctxSession)
	if !ok {
		return nil, false
	}

	sess, ok := v.(*orchestrator.Session)

	return sess, ok && sess != nil
}

// writes a 401 when no session is present
func Require(c *gin.Context) (*orchestrator.Session, bool) {
	sess, ok := Session(c)
	if !ok {
		errors.Unauthorized(c, "user not authenticated")
	}

	return sess, ok
}
