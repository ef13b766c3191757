package users

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles user profile database operations
type Repository struct {
	db *pgxpool.Pool
}

// optional demographic attributes used to steer generated imagery
type Demographics struct {
	AgeRange    string `json:"ageRange,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Ethnicity   string `json:"ethnicity,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

// per-user profile document
type Profile struct {
	ID                 string       `json:"id"`
	Email              string       `json:"email,omitempty"`
	Name               string       `json:"name"`
	AvatarURL          string       `json:"avatarUrl"`
	PortraitImageURL   string       `json:"portraitImageUrl"`
	FullBodyImageURL   string       `json:"fullBodyImageUrl"`
	VoiceCloneID       string       `json:"voiceCloneId"`
	VoiceCloneName     string       `json:"voiceCloneName"`
	Demographics       Demographics `json:"demographics"`
	DefaultAspectRatio string       `json:"defaultAspectRatio"`
	AutoGenerateImages bool         `json:"autoGenerateImages"`
	Credits            int          `json:"aiams"`
	SavedCount         int          `json:"savedCount"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

// partial profile update; nil fields are left unchanged
type UpdateProfileRequest struct {
	Name               *string `json:"name" binding:"omitempty,max=120"`
	AvatarURL          *string `json:"avatarUrl" binding:"omitempty,url"`
	AgeRange           *string `json:"ageRange" binding:"omitempty,agerange"`
	Gender             *string `json:"gender" binding:"omitempty,gender"`
	Ethnicity          *string `json:"ethnicity" binding:"omitempty,ethnicity"`
	Nationality        *string `json:"nationality" binding:"omitempty,max=80"`
	DefaultAspectRatio *string `json:"defaultAspectRatio" binding:"omitempty,aspectratio"`
	AutoGenerateImages *bool   `json:"autoGenerateImages"`
}

// which reference photo an upload replaces
type PhotoKind string

const (
	PhotoPortrait PhotoKind = "portrait"
	PhotoFullBody PhotoKind = "full-body"
)
