package affirmations

import (
	"context"

	"codeberg.org/aiam/server/aiam/affirmations"
	"codeberg.org/aiam/server/api/rest/pagination"
	"codeberg.org/aiam/server/internal/orchestrator"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// the billed generation flows
type Flows interface {
	CreateAffirmation(ctx context.Context, sess *orchestrator.Session, req orchestrator.CreateRequest) (*orchestrator.CreateResult, error)
	AddImage(ctx context.Context, sess *orchestrator.Session, affirmationID string, req orchestrator.AddImageRequest) (*orchestrator.AddImageResult, error)
	Speak(ctx context.Context, sess *orchestrator.Session, affirmationID, voiceID string) (*orchestrator.SpeakResult, error)
	PlayAll(ctx context.Context, sess *orchestrator.Session, req orchestrator.PlayAllRequest) (string, []orchestrator.PlayItem, error)
}

// the free library operations
type Library interface {
	Get(ctx context.Context, id, userID string) (*affirmations.Affirmation, error)
	List(ctx context.Context, userID string, filter affirmations.ListFilter) ([]affirmations.Affirmation, int, error)
	ListCategories(ctx context.Context, userID string) ([]affirmations.Category, error)
	ToggleFavorite(ctx context.Context, id, userID string) (*affirmations.Affirmation, error)
}

// CreateRequest is the body of POST /affirmations
type CreateRequest struct {
	Category         string `json:"category" binding:"required,max=120"`
	UsePersonalImage bool   `json:"usePersonalImage"`
	UseVoiceClone    bool   `json:"useVoiceClone"`
	GenerateImage    *bool  `json:"generateImage"`
	AspectRatio      string `json:"aspectRatio" binding:"omitempty,aspectratio"`
	DraftID          string `json:"draftId" binding:"max=64"`
	RequestID        string `json:"requestId" binding:"max=64"`
}

// ImageRequest is the body of POST /affirmations/:id/image
type ImageRequest struct {
	UsePersonalImage bool   `json:"usePersonalImage"`
	AspectRatio      string `json:"aspectRatio" binding:"omitempty,aspectratio"`
}

type SpeakRequest struct {
	VoiceID string `json:"voiceId"`
}

type SpeakResponse struct {
	VoiceID  string `json:"voiceId"`
	AudioURL string `json:"audioUrl"`
	Cached   bool   `json:"cached"`
	Charged  int    `json:"charged"`
}

type PlayAllRequest struct {
	VoiceID       string `json:"voiceId"`
	FavoritesOnly bool   `json:"favoritesOnly"`
}

type PlayAllResponse struct {
	VoiceID string                  `json:"voiceId"`
	Items   []orchestrator.PlayItem `json:"items"`
}

type ListResponse struct {
	Affirmations []affirmations.Affirmation `json:"affirmations"`
	Pagination   pagination.Meta            `json:"pagination"`
}

type CategoriesResponse struct {
	Categories []affirmations.Category `json:"categories"`
}
