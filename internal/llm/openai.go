package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	apperrors "codeberg.org/aiam/server/internal/errors"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index   int     `json:"index"`
		Message Message `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// OpenAI chat completions client
type OpenAIClient struct {
	config     Config
	httpClient *http.Client
}

func NewOpenAIClient(config Config) *OpenAIClient {
	if config.BaseURL == "" {
		config.BaseURL = defaultOpenAIBaseURL
	}

	if config.Model == "" {
		config.Model = defaultOpenAIModel
	}

	return &OpenAIClient{
		config:     config,
		httpClient: completionHTTPClient,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if c.config.APIKey == "" {
		return "", apperrors.Configuration(req.Op, "OPENAI_API_KEY is not configured")
	}

	model := req.Model
	if model == "" {
		model = c.config.Model
	}

	messages := make([]Message, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: req.SystemPrompt})
	}

	messages = append(messages, req.Messages...)

	body := chatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	headers := map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", c.config.APIKey),
	}

	var resp chatCompletionResponse
	url := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"

	if err := postJSON(ctx, c.httpClient, string(ProviderOpenAI), req.Op, url, headers, body, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
