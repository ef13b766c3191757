package users

import (
	"context"

	"codeberg.org/aiam/server/aiam/users"
	"codeberg.org/aiam/server/internal/credits"
)

// upper bound for an uploaded reference photo
const maxPhotoBytes = 10 << 20

type ProfileWriter interface {
	UpdateProfile(ctx context.Context, userID string, req users.UpdateProfileRequest) (*users.Profile, error)
	SetReferencePhoto(ctx context.Context, userID string, kind users.PhotoKind, url string) (*users.Profile, error)
}

type PhotoStore interface {
	StoreProfilePhoto(ctx context.Context, userID, kind string, data []byte, contentType string) (string, error)
}

// MeResponse is the caller's profile with the balance view
type MeResponse struct {
	Profile *users.Profile  `json:"profile"`
	Credits credits.Summary `json:"credits"`
}

// accepted reference photo formats
var photoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}
