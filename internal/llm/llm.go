package llm

import (
	"fmt"
)

// creates the completer for the configured provider
func New(config Config) (Completer, error) {
	switch config.Provider {
	case ProviderOpenAI, "":
		return NewOpenAIClient(config), nil
	case ProviderAnthropic:
		return NewAnthropicClient(config), nil
	default:
		return nil, fmt.Errorf("unsupported text provider: %s", config.Provider)
	}
}
