package orchestrator

import (
	"context"
	"time"

	"codeberg.org/aiam/server/aiam/affirmations"
	"codeberg.org/aiam/server/aiam/users"
	"codeberg.org/aiam/server/internal/credits"
	"codeberg.org/aiam/server/internal/imagegen"
	"golang.org/x/sync/singleflight"
)

// the caller a flow runs for; loaded once per request
type Session struct {
	UserID  string
	Email   string
	Profile *users.Profile
}

type AffirmationStore interface {
	Create(ctx context.Context, params affirmations.CreateParams) (*affirmations.Affirmation, error)
	Get(ctx context.Context, id, userID string) (*affirmations.Affirmation, error)
	List(ctx context.Context, userID string, filter affirmations.ListFilter) ([]affirmations.Affirmation, int, error)
	SetImage(ctx context.Context, id, userID, url string) (*affirmations.Affirmation, error)
	ClaimVoiceCharge(ctx context.Context, id, userID string) (bool, error)
	ReleaseVoiceCharge(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id, userID string) error
}

type ProfileStore interface {
	IncrementSavedCount(ctx context.Context, userID string) error
}

type Ledger interface {
	Check(ctx context.Context, userID string, calc credits.Calculation) (int, error)
	ReserveAndDebit(ctx context.Context, userID string, amount int, reason string) (int, error)
	Refund(ctx context.Context, userID string, amount int, reason string) (int, error)
	Balance(ctx context.Context, userID string) (int, error)
}

type TextGenerator interface {
	Generate(ctx context.Context, category string) (string, error)
}

type ImageGenerator interface {
	Generate(ctx context.Context, req imagegen.Request) (*imagegen.Result, error)
}

type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

type AssetStore interface {
	RehostImage(ctx context.Context, src, userID, affirmationID string) string
	StoreBytes(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type AudioCache interface {
	Get(ctx context.Context, affirmationID, voiceID string) (string, error)
	Put(ctx context.Context, affirmationID, voiceID, url string) (string, error)
}

type TaskRunner interface {
	Go(ctx context.Context, name string, fn func(ctx context.Context) error) bool
}

type Dependencies struct {
	Affirmations AffirmationStore
	Profiles     ProfileStore
	Ledger       Ledger
	Text         TextGenerator
	Images       ImageGenerator
	Speech       SpeechSynthesizer
	Assets       AssetStore
	AudioCache   AudioCache
	Tasks        TaskRunner
}

// sequences cost, credits, providers, rehosting and persistence for every generation flow
type Orchestrator struct {
	affirmations AffirmationStore
	profiles     ProfileStore
	ledger       Ledger
	text         TextGenerator
	images       ImageGenerator
	speech       SpeechSynthesizer
	assets       AssetStore
	audio        AudioCache
	tasks        TaskRunner
	sequencer    *Sequencer
	pending      *PendingTexts
	synthesis    singleflight.Group
	newID        func() string
}

type CreateRequest struct {
	Category         string
	UsePersonalImage bool
	UseVoiceClone    bool
	// nil means the profile's auto-generate preference
	GenerateImage *bool
	AspectRatio   string
	// requests sharing a draft id supersede each other
	DraftID string
	// lets a retry after a persistence failure reuse the generated text
	RequestID string
}

type CreateResult struct {
	Affirmation *affirmations.Affirmation `json:"affirmation"`
	Selection   credits.Selection         `json:"selection"`
	Cost        credits.Calculation       `json:"cost"`
	Charged     int                       `json:"charged"`
	Credits     credits.Summary           `json:"credits"`
	// the image is generated in the background; a failure leaves the affirmation without one
	ImagePending bool `json:"imagePending"`
}

type AddImageRequest struct {
	UsePersonalImage bool
	AspectRatio      string
}

type AddImageResult struct {
	Affirmation *affirmations.Affirmation `json:"affirmation"`
	Charged     int                       `json:"charged"`
	Credits     credits.Summary           `json:"credits"`
}

type SpeakResult struct {
	VoiceID  string
	AudioURL string
	Cached   bool
	// set on a cache miss; the upload continues in the background
	Audio       []byte
	ContentType string
	Charged     int
}

type PlayItem struct {
	AffirmationID string `json:"affirmationId"`
	Text          string `json:"affirmation"`
	AudioURL      string `json:"audioUrl,omitempty"`
	Cached        bool   `json:"cached"`
	Error         string `json:"error,omitempty"`
}

type PlayAllRequest struct {
	VoiceID       string
	FavoritesOnly bool
}

const (
	pendingTextTTL   = 15 * time.Minute
	playAllLimit     = 200
	audioContentType = "audio/mpeg"
)
