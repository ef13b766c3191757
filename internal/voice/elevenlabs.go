package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	apperrors "codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/metrics"
	"golang.org/x/time/rate"
)

var voiceHTTPClient = &http.Client{
	Timeout: 90 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

var voiceRateLimiter = rate.NewLimiter(10, 5)

func NewClient(config Config) *Client {
	if config.Model == "" {
		config.Model = defaultModel
	}

	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}

	return &Client{
		apiKey:           config.APIKey,
		model:            config.Model,
		baseURL:          strings.TrimRight(config.BaseURL, "/"),
		httpClient:       voiceHTTPClient,
		cloneTimeout:     cloneTimeout,
		synthesisTimeout: synthesisTimeout,
	}
}

// submits an audio sample for instant voice cloning
func (c *Client) Clone(ctx context.Context, sample []byte, name string) (*Clone, error) {
	op := apperrors.OpVoiceCloneFailed

	if c.apiKey == "" {
		return nil, apperrors.Configuration(op, "ELEVENLABS_API_KEY is not configured")
	}

	if len(sample) < MinSampleBytes {
		return nil, apperrors.Invalid(op, "record at least 30 seconds of audio to clone your voice")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultCloneName
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	if err := form.WriteField("name", name); err != nil {
		return nil, fmt.Errorf("failed to write form field: %w", err)
	}

	part, err := form.CreateFormFile("files", cloneFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := part.Write(sample); err != nil {
		return nil, fmt.Errorf("failed to write sample: %w", err)
	}

	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to close form: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cloneTimeout)
	defer cancel()

	respBody, err := c.send(ctx, op, c.baseURL+"/voices/add", form.FormDataContentType(), "application/json", &body)
	if err != nil {
		return nil, err
	}

	var resp cloneResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, apperrors.NewGeneration(apperrors.KindProviderTransient, op, "unreadable provider response", err)
	}

	voiceID := resp.VoiceID
	if voiceID == "" {
		voiceID = resp.VoiceIDAlt
	}

	if voiceID == "" {
		return nil, apperrors.NewGeneration(apperrors.KindProviderRejected, op, "the provider returned no voice identifier", nil)
	}

	voiceName := resp.Name
	if voiceName == "" {
		voiceName = name
	}

	return &Clone{VoiceID: voiceID, VoiceName: voiceName}, nil
}

// renders text as mp3 audio in the given voice
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	op := apperrors.OpSpeechSynthesisFailed

	if c.apiKey == "" {
		return nil, apperrors.Configuration(op, "ELEVENLABS_API_KEY is not configured")
	}

	text = strings.TrimSpace(text)
	if text == "" || voiceID == "" {
		return nil, apperrors.Invalid(op, "text and voiceId are required")
	}

	jsonData, err := json.Marshal(speechRequest{Text: text, ModelID: c.model})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.synthesisTimeout)
	defer cancel()

	return c.send(ctx, op, c.baseURL+"/text-to-speech/"+voiceID, "application/json", audioContentTypeMP3, bytes.NewReader(jsonData))
}

func (c *Client) send(ctx context.Context, op, url, contentType, accept string, body io.Reader) ([]byte, error) {
	start := time.Now()

	data, err := c.doSend(ctx, op, url, contentType, accept, body)

	outcome := "success"
	if err != nil {
		outcome = string(apperrors.KindOf(err))
	}

	metrics.RecordProviderCall(providerElevenLabs, op, outcome, time.Since(start))

	return data, err
}

func (c *Client) doSend(ctx context.Context, op, url, contentType, accept string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", accept)

	if err := voiceRateLimiter.Wait(ctx); err != nil {
		return nil, apperrors.FromTransport(op, fmt.Errorf("rate limiter: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.FromTransport(op, err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck
		return nil, classifyFailure(op, resp.StatusCode, respBody)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.FromTransport(op, err)
	}

	return data, nil
}

// surfaces the "unusual activity" block as a rate limit the user can act on
func classifyFailure(op string, status int, body []byte) error {
	var parsed errorBody
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail.Status == unusualActivity {
		e := apperrors.NewGeneration(apperrors.KindProviderRateLimited, op,
			"voice service flagged unusual activity, wait a bit or use a preset voice",
			fmt.Errorf("provider responded with status %d", status))
		e.Detail = unusualActivity
		return e
	}

	return apperrors.FromProviderStatus(op, status, string(body))
}
