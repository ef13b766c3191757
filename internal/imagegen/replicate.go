package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/metrics"
	"golang.org/x/time/rate"
)

var replicateHTTPClient = &http.Client{
	Timeout: 90 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// caps outbound replicate traffic, polling included
var replicateRateLimiter = rate.NewLimiter(20, 5)

const maxErrorBody = 4096

// resolves the configured model specifier to a version id, once per request
func (g *Generator) resolveVersion(ctx context.Context) (string, error) {
	configured := strings.TrimSpace(g.version)

	switch {
	case configured == "":
		return g.latestVersion(ctx, g.baseModel)
	case strings.Contains(configured, ":"):
		model, version, _ := strings.Cut(configured, ":")
		if !strings.Contains(model, "/") || version == "" {
			return "", apperrors.Configuration(apperrors.OpImageGenerationFailed,
				fmt.Sprintf("configured model %q must include an owner and name", configured))
		}

		return version, nil
	case strings.Contains(configured, "/"):
		return g.latestVersion(ctx, configured)
	default:
		return configured, nil
	}
}

func (g *Generator) latestVersion(ctx context.Context, model string) (string, error) {
	owner, name, ok := strings.Cut(model, "/")
	if !ok || owner == "" || name == "" {
		return "", apperrors.Configuration(apperrors.OpImageGenerationFailed,
			fmt.Sprintf("model identifier %q must be in the format owner/name", model))
	}

	var info modelInfo
	if err := g.do(ctx, http.MethodGet, g.baseURL+"/models/"+owner+"/"+name, nil, &info); err != nil {
		return "", err
	}

	if info.LatestVersion == nil || info.LatestVersion.ID == "" {
		return "", apperrors.Configuration(apperrors.OpImageGenerationFailed,
			fmt.Sprintf("unable to resolve a version for the model %q", model))
	}

	return info.LatestVersion.ID, nil
}

// creates a prediction and waits for it to settle
func (g *Generator) runPrediction(ctx context.Context, version string, input predictionInput) (*prediction, error) {
	var p prediction

	err := g.do(ctx, http.MethodPost, g.baseURL+"/predictions", predictionRequest{Version: version, Input: input}, &p)
	if err != nil {
		return nil, err
	}

	for !terminal(p.Status) {
		if p.URLs.Get == "" {
			return nil, apperrors.NewGeneration(apperrors.KindProviderTransient, apperrors.OpImageGenerationFailed,
				"prediction has no status URL", nil)
		}

		select {
		case <-ctx.Done():
			return nil, apperrors.FromTransport(apperrors.OpImageGenerationFailed, ctx.Err())
		case <-time.After(g.pollInterval):
		}

		if err := g.do(ctx, http.MethodGet, p.URLs.Get, nil, &p); err != nil {
			return nil, err
		}
	}

	switch p.Status {
	case "failed":
		e := apperrors.NewGeneration(apperrors.KindProviderRejected, apperrors.OpImageGenerationFailed,
			"the image model could not produce an image", nil)
		e.Detail = fmt.Sprint(p.Error)
		return nil, e
	case "canceled":
		return nil, apperrors.NewGeneration(apperrors.KindProviderTransient, apperrors.OpImageGenerationFailed,
			"the image prediction was canceled", nil)
	}

	return &p, nil
}

func terminal(status string) bool {
	return status == "succeeded" || status == "failed" || status == "canceled"
}

func (g *Generator) do(ctx context.Context, method, url string, body, out any) error {
	start := time.Now()

	err := g.doRequest(ctx, method, url, body, out)

	outcome := "success"
	if err != nil {
		outcome = string(apperrors.KindOf(err))
	}

	metrics.RecordProviderCall("replicate", apperrors.OpImageGenerationFailed, outcome, time.Since(start))

	return err
}

func (g *Generator) doRequest(ctx context.Context, method, url string, body, out any) error {
	op := apperrors.OpImageGenerationFailed

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}

		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+g.apiToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "wait")
	}

	if err := replicateRateLimiter.Wait(ctx); err != nil {
		return apperrors.FromTransport(op, fmt.Errorf("rate limiter: %w", err))
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return apperrors.FromTransport(op, err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck
		return apperrors.FromProviderStatus(op, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewGeneration(apperrors.KindProviderTransient, op, "unreadable provider response",
			fmt.Errorf("failed to decode response: %w", err))
	}

	return nil
}
