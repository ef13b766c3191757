package voices

import (
	"context"

	"codeberg.org/aiam/server/aiam/users"
	"codeberg.org/aiam/server/internal/voice"
)

const (
	// upper bound for an uploaded voice sample
	maxSampleBytes = 25 << 20

	maxSpeechChars = 1000
)

type Cloner interface {
	Clone(ctx context.Context, sample []byte, name string) (*voice.Clone, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// profile writes for the stored clone
type ProfileVoices interface {
	SetVoiceClone(ctx context.Context, userID, voiceID, voiceName string) (*users.Profile, error)
	ClearVoiceClone(ctx context.Context, userID string) (*users.Profile, error)
}

type ListResponse struct {
	Voices []voice.Voice `json:"voices"`
}

type CloneResponse struct {
	VoiceID   string `json:"voiceId"`
	VoiceName string `json:"voiceName"`
}

// SpeechRequest is the body of POST /voices/speech
type SpeechRequest struct {
	Text    string `json:"text" binding:"required"`
	VoiceID string `json:"voiceId"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
