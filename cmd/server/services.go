package main

import (
	"fmt"

	"codeberg.org/aiam/server/internal/audiocache"
	"codeberg.org/aiam/server/internal/credits"
	"codeberg.org/aiam/server/internal/imagegen"
	"codeberg.org/aiam/server/internal/llm"
	"codeberg.org/aiam/server/internal/orchestrator"
	"codeberg.org/aiam/server/internal/rehost"
	"codeberg.org/aiam/server/internal/textgen"
	"codeberg.org/aiam/server/internal/voice"
)

// creates and configures all service clients
func InitializeServices(s *Server) (*Services, error) {
	cfg := s.config

	llmConfig := llm.Config{
		Provider: llm.Provider(cfg.TextProvider),
		APIKey:   cfg.OpenAI.APIKey,
		Model:    cfg.OpenAI.AffirmationModel,
		BaseURL:  cfg.OpenAI.BaseURL,
	}
	promptModel := cfg.OpenAI.ImagePromptModel

	if llmConfig.Provider == llm.ProviderAnthropic {
		llmConfig.APIKey = cfg.Anthropic.APIKey
		llmConfig.Model = cfg.Anthropic.Model
		llmConfig.BaseURL = cfg.Anthropic.BaseURL
		promptModel = cfg.Anthropic.Model
	}

	completer, err := llm.New(llmConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	text := textgen.New(completer, textgen.Config{Model: llmConfig.Model})

	images := imagegen.New(completer, imagegen.Config{
		PromptModel: promptModel,
		BaseModel:   cfg.Replicate.Model,
		Version:     cfg.Replicate.Version,
		APIToken:    cfg.Replicate.APIToken,
		BaseURL:     cfg.Replicate.BaseURL,
	})

	speech := voice.NewClient(voice.Config{
		APIKey:  cfg.ElevenLabs.APIKey,
		Model:   cfg.ElevenLabs.TTSModel,
		BaseURL: cfg.ElevenLabs.BaseURL,
	})

	assets := rehost.New(s.blobs)
	audio := audiocache.New(s.affirmationRepo, s.redis)
	ledger := credits.NewGuard(s.userRepo)

	orch := orchestrator.New(orchestrator.Dependencies{
		Affirmations: s.affirmationRepo,
		Profiles:     s.userRepo,
		Ledger:       ledger,
		Text:         text,
		Images:       images,
		Speech:       speech,
		Assets:       assets,
		AudioCache:   audio,
		Tasks:        s.tasks,
	})

	return &Services{
		Text:         text,
		Images:       images,
		Voice:        speech,
		Assets:       assets,
		AudioCache:   audio,
		Ledger:       ledger,
		Orchestrator: orch,
	}, nil
}
