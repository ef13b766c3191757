package llm

import "context"

// represents different chat completion providers
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// one chat completion call
type ChatRequest struct {
	// pipeline stage name, used for error classification and metrics
	Op           string
	Model        string
	SystemPrompt string
	Messages     []Message
	Temperature  float32
	MaxTokens    int
}

// produces a single completion; empty content is returned as "" without error
type Completer interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

type Config struct {
	Provider Provider
	APIKey   string
	Model    string // used when a request does not name one
	BaseURL  string
}
