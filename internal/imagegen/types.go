package imagegen

import "time"

const (
	defaultTimeout      = 60 * time.Second
	defaultPromptModel  = "gpt-4o-mini"
	defaultBaseModel    = "google/nano-banana"
	defaultAspectRatio  = "1:1"
	defaultReplicateURL = "https://api.replicate.com/v1"
	pollInterval        = time.Second
	promptTemperature   = 0.8
	promptMaxTokens     = 200
	preferNotToSay      = "prefer-not-to-say"
)

// demographic hints used when the user's own photos are not in play
type Demographics struct {
	AgeRange    string
	Gender      string
	Ethnicity   string
	Nationality string
}

// the user's two reference photos; both are required for likeness
type ReferencePhotos struct {
	Portrait string
	FullBody string
}

func (p ReferencePhotos) complete() bool {
	return p.Portrait != "" && p.FullBody != ""
}

// one image generation for an affirmation
type Request struct {
	Affirmation     string
	Category        string
	Demographics    Demographics
	ReferencePhotos ReferencePhotos
	UseUserImages   bool
	AspectRatio     string
}

// whether the reference photos are actually sent to the image model
func (r Request) Personal() bool {
	return r.UseUserImages && r.ReferencePhotos.complete()
}

type Result struct {
	// provider-hosted, short-lived URL; rehost before storing
	URL    string
	Prompt string
}

type Config struct {
	PromptModel string
	// REPLICATE_NANO_BANANA_MODEL, owner/name
	BaseModel string
	// REPLICATE_NANO_BANANA_VERSION: empty, a bare version, owner/name or owner/name:version
	Version  string
	APIToken string
	BaseURL  string
	Timeout  time.Duration
}

// replicate prediction resource
type prediction struct {
	ID     string           `json:"id"`
	Status string           `json:"status"`
	Output predictionOutput `json:"output"`
	Error  any              `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

type predictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

type predictionInput struct {
	Prompt       string   `json:"prompt"`
	OutputFormat string   `json:"output_format"`
	AspectRatio  string   `json:"aspect_ratio"`
	ImageInput   []string `json:"image_input,omitempty"`
}

type modelInfo struct {
	LatestVersion *struct {
		ID string `json:"id"`
	} `json:"latest_version"`
}
