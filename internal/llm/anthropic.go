package llm

import (
	"context"
	"net/http"
	"strings"

	apperrors "codeberg.org/aiam/server/internal/errors"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	defaultAnthropicModel   = "claude-3-5-haiku-latest"
	anthropicVersion        = "2023-06-01"
	defaultMaxTokens        = 200
)

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
}

type messagesResponse struct {
	ID      string    `json:"id"`
	Content []content `json:"content"`
	Usage   struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Anthropic messages client, selectable with TEXT_PROVIDER=anthropic
type AnthropicClient struct {
	config     Config
	httpClient *http.Client
}

func NewAnthropicClient(config Config) *AnthropicClient {
	if config.BaseURL == "" {
		config.BaseURL = defaultAnthropicBaseURL
	}

	if config.Model == "" {
		config.Model = defaultAnthropicModel
	}

	return &AnthropicClient{
		config:     config,
		httpClient: completionHTTPClient,
	}
}

func (c *AnthropicClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if c.config.APIKey == "" {
		return "", apperrors.Configuration(req.Op, "ANTHROPIC_API_KEY is not configured")
	}

	model := req.Model
	if model == "" {
		model = c.config.Model
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	body := messagesRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		System:      req.SystemPrompt,
		Messages:    req.Messages,
		Temperature: req.Temperature,
	}

	headers := map[string]string{
		"x-api-key":         c.config.APIKey,
		"anthropic-version": anthropicVersion,
	}

	var resp messagesResponse
	url := strings.TrimRight(c.config.BaseURL, "/") + "/messages"

	if err := postJSON(ctx, c.httpClient, string(ProviderAnthropic), req.Op, url, headers, body, &resp); err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return strings.TrimSpace(text.String()), nil
}
