package generate

import (
	"context"

	"codeberg.org/aiam/server/internal/credits"
	"codeberg.org/aiam/server/internal/imagegen"
)

type TextGenerator interface {
	Generate(ctx context.Context, category string) (string, error)
}

type ImageGenerator interface {
	Generate(ctx context.Context, req imagegen.Request) (*imagegen.Result, error)
}

// charges the personal-image surcharge for images made from reference photos
type Ledger interface {
	Check(ctx context.Context, userID string, calc credits.Calculation) (int, error)
	ReserveAndDebit(ctx context.Context, userID string, amount int, reason string) (int, error)
}

// TextRequest is the body of POST /generate/text
type TextRequest struct {
	Category string `json:"category" binding:"required,max=120"`
}

type TextResponse struct {
	Affirmation string `json:"affirmation"`
}

// UserImages overrides the profile reference photos for a single request
type UserImages struct {
	Portrait string `json:"portrait" binding:"omitempty,url"`
	FullBody string `json:"fullBody" binding:"omitempty,url"`
}

type Demographics struct {
	AgeRange    string `json:"ageRange" binding:"omitempty,agerange"`
	Gender      string `json:"gender" binding:"omitempty,gender"`
	Ethnicity   string `json:"ethnicity" binding:"omitempty,ethnicity"`
	Nationality string `json:"nationality" binding:"omitempty,max=80"`
}

// ImageRequest is the body of POST /generate/image
type ImageRequest struct {
	Affirmation   string        `json:"affirmation" binding:"required,max=1000"`
	Category      string        `json:"category" binding:"max=120"`
	UseUserImages bool          `json:"useUserImages"`
	UserImages    *UserImages   `json:"userImages"`
	AspectRatio   string        `json:"aspectRatio" binding:"omitempty,aspectratio"`
	Demographics  *Demographics `json:"demographics"`
}

type ImageResponse struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt,omitempty"`
	// aiams taken; only images made from the caller's photos cost anything
	Charged int `json:"charged"`
}
