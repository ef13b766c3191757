package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/metrics"
	"golang.org/x/time/rate"
)

// shared HTTP client for completion calls; per-call deadlines come from ctx
var completionHTTPClient = &http.Client{
	Timeout: 60 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// caps outbound completion traffic (50 requests/second, burst 10)
var completionRateLimiter = rate.NewLimiter(50, 10)

const maxErrorBody = 4096

// posts a JSON body and decodes a 200 response into out
func postJSON(ctx context.Context, httpClient *http.Client, provider, op, url string, headers map[string]string, body, out any) error {
	start := time.Now()

	err := doPostJSON(ctx, httpClient, op, url, headers, body, out)

	outcome := "success"
	if err != nil {
		outcome = string(apperrors.KindOf(err))
	}

	metrics.RecordProviderCall(provider, op, outcome, time.Since(start))

	return err
}

func doPostJSON(ctx context.Context, httpClient *http.Client, op, url string, headers map[string]string, body, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if err := completionRateLimiter.Wait(ctx); err != nil {
		return apperrors.FromTransport(op, fmt.Errorf("rate limiter: %w", err))
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return apperrors.FromTransport(op, err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck
		return apperrors.FromProviderStatus(op, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewGeneration(apperrors.KindProviderTransient, op, "unreadable provider response",
			fmt.Errorf("failed to decode response: %w", err))
	}

	return nil
}
