package voice

import (
	"net/http"
	"time"
)

const (
	defaultBaseURL      = "https://api.elevenlabs.io/v1"
	defaultModel        = "eleven_multilingual_v2"
	defaultCloneName    = "AiAm Voice Clone"
	cloneFileName       = "voice-reference.webm"
	cloneTimeout        = 60 * time.Second
	synthesisTimeout    = 30 * time.Second
	unusualActivity     = "detected_unusual_activity"
	maxErrorBody        = 4096
	providerElevenLabs  = "elevenlabs"
	audioContentTypeMP3 = "audio/mpeg"
)

// MinSampleBytes approximates thirty seconds of recorded audio
const MinSampleBytes = 30000

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// ElevenLabs voice cloning and text-to-speech
type Client struct {
	apiKey           string
	model            string
	baseURL          string
	httpClient       *http.Client
	cloneTimeout     time.Duration
	synthesisTimeout time.Duration
}

// a newly created voice clone
type Clone struct {
	VoiceID   string `json:"voiceId"`
	VoiceName string `json:"voiceName"`
}

type cloneResponse struct {
	VoiceID    string `json:"voice_id"`
	VoiceIDAlt string `json:"voiceId"`
	Name       string `json:"name"`
}

type speechRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// error body shape used by elevenlabs for policy rejections
type errorBody struct {
	Detail struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"detail"`
}
