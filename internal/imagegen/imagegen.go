package imagegen

import (
	"context"
	"net/http"
	"strings"
	"time"

	apperrors "codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/llm"
)

// two-stage image generation: scene prompt from the completer, then a replicate prediction
type Generator struct {
	completer    llm.Completer
	promptModel  string
	baseModel    string
	version      string
	apiToken     string
	baseURL      string
	timeout      time.Duration
	pollInterval time.Duration
	httpClient   *http.Client
}

func New(completer llm.Completer, config Config) *Generator {
	if config.PromptModel == "" {
		config.PromptModel = defaultPromptModel
	}

	if config.BaseModel == "" {
		config.BaseModel = defaultBaseModel
	}

	if config.BaseURL == "" {
		config.BaseURL = defaultReplicateURL
	}

	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	return &Generator{
		completer:    completer,
		promptModel:  config.PromptModel,
		baseModel:    config.BaseModel,
		version:      config.Version,
		apiToken:     config.APIToken,
		baseURL:      strings.TrimRight(config.BaseURL, "/"),
		timeout:      config.Timeout,
		pollInterval: pollInterval,
		httpClient:   replicateHTTPClient,
	}
}

// generates one image for an affirmation and returns its provider URL
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Affirmation) == "" {
		return nil, apperrors.Invalid(apperrors.OpImageGenerationFailed, "affirmation text is required")
	}

	if g.apiToken == "" {
		return nil, apperrors.Configuration(apperrors.OpImageGenerationFailed, "REPLICATE_API_TOKEN is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt, err := g.synthesizePrompt(ctx, req)
	if err != nil {
		return nil, err
	}

	version, err := g.resolveVersion(ctx)
	if err != nil {
		return nil, err
	}

	aspectRatio := req.AspectRatio
	if aspectRatio == "" {
		aspectRatio = defaultAspectRatio
	}

	input := predictionInput{
		Prompt:       prompt,
		OutputFormat: "jpg",
		AspectRatio:  aspectRatio,
	}

	if req.Personal() {
		input.ImageInput = []string{req.ReferencePhotos.Portrait, req.ReferencePhotos.FullBody}
	}

	p, err := g.runPrediction(ctx, version, input)
	if err != nil {
		return nil, err
	}

	url := p.Output.URL()
	if url == "" {
		return nil, apperrors.NewGeneration(apperrors.KindProviderRejected, apperrors.OpImageGenerationFailed,
			"image generation returned no output", nil)
	}

	return &Result{URL: url, Prompt: prompt}, nil
}
