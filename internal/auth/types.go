package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// claims issued by the identity provider; user_id falls back to sub
type Claims struct {
	UserID  string `json:"user_id,omitempty"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// the authenticated caller, as set on the gin context
type Identity struct {
	UserID    string
	Email     string
	Name      string
	AvatarURL string
}

const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxUserName  = "user_name"
	ctxAvatarURL = "user_avatar"
)
