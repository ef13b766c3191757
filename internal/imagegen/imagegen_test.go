package imagegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperrors "codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCompleter struct {
	completeFunc func(ctx context.Context, req llm.ChatRequest) (string, error)
	lastRequest  llm.ChatRequest
}

func (m *mockCompleter) Complete(ctx context.Context, req llm.ChatRequest) (string, error) {
	m.lastRequest = req
	return m.completeFunc(ctx, req)
}

func staticPrompt(prompt string) *mockCompleter {
	return &mockCompleter{
		completeFunc: func(ctx context.Context, req llm.ChatRequest) (string, error) {
			return prompt, nil
		},
	}
}

// fake replicate API; the prediction settles after one poll
type fakeReplicate struct {
	server      *httptest.Server
	output      string
	finalStatus string
	modelCalls  atomic.Int32
	polls       atomic.Int32
	created     predictionRequest
}

func newFakeReplicate(t *testing.T, output string) *fakeReplicate {
	f := &fakeReplicate{output: output, finalStatus: "succeeded"}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /models/google/nano-banana", func(w http.ResponseWriter, r *http.Request) {
		f.modelCalls.Add(1)
		w.Write([]byte(`{"latest_version":{"id":"v-latest"}}`)) //nolint:errcheck
	})
	mux.HandleFunc("POST /predictions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer r8-token", r.Header.Get("Authorization"))
		assert.Equal(t, "wait", r.Header.Get("Prefer"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.created))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"p1","status":"processing","urls":{"get":"` + f.server.URL + `/predictions/p1"}}`)) //nolint:errcheck
	})
	mux.HandleFunc("GET /predictions/p1", func(w http.ResponseWriter, r *http.Request) {
		f.polls.Add(1)
		w.Write([]byte(`{"id":"p1","status":"` + f.finalStatus + `","output":` + f.output + `,"error":"nsfw"}`)) //nolint:errcheck
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)

	return f
}

func newTestGenerator(completer llm.Completer, baseURL, version string) *Generator {
	g := New(completer, Config{APIToken: "r8-token", BaseURL: baseURL, Version: version})
	g.pollInterval = time.Millisecond
	return g
}

func TestGenerate_ResolvesLatestVersionAndPolls(t *testing.T) {
	fake := newFakeReplicate(t, `["https://replicate.delivery/out-0.jpg"]`)
	g := newTestGenerator(staticPrompt("A sunrise over calm water."), fake.server.URL, "")

	result, err := g.Generate(context.Background(), Request{Affirmation: "I am calm.", Category: "Joy & Happiness", AspectRatio: "9:16"})

	require.NoError(t, err)
	assert.Equal(t, "https://replicate.delivery/out-0.jpg", result.URL)
	assert.Equal(t, "A sunrise over calm water.", result.Prompt)
	assert.Equal(t, int32(1), fake.modelCalls.Load())
	assert.Equal(t, int32(1), fake.polls.Load())
	assert.Equal(t, "v-latest", fake.created.Version)
	assert.Equal(t, "jpg", fake.created.Input.OutputFormat)
	assert.Equal(t, "9:16", fake.created.Input.AspectRatio)
	assert.Empty(t, fake.created.Input.ImageInput)
}

func TestGenerate_SendsReferencePhotosWhenPersonal(t *testing.T) {
	fake := newFakeReplicate(t, `{"url":"https://replicate.delivery/personal.jpg"}`)
	g := newTestGenerator(staticPrompt("A portrait in golden light."), fake.server.URL, "google/nano-banana:v-pinned")

	result, err := g.Generate(context.Background(), Request{
		Affirmation:     "I am radiant.",
		UseUserImages:   true,
		ReferencePhotos: ReferencePhotos{Portrait: "https://cdn/p.jpg", FullBody: "https://cdn/f.jpg"},
	})

	require.NoError(t, err)
	assert.Equal(t, "https://replicate.delivery/personal.jpg", result.URL)
	assert.Equal(t, int32(0), fake.modelCalls.Load(), "pinned versions skip the models lookup")
	assert.Equal(t, "v-pinned", fake.created.Version)
	assert.Equal(t, []string{"https://cdn/p.jpg", "https://cdn/f.jpg"}, fake.created.Input.ImageInput)
	assert.Equal(t, defaultAspectRatio, fake.created.Input.AspectRatio)
}

func TestGenerate_EmptyPromptStopsBeforeReplicate(t *testing.T) {
	fake := newFakeReplicate(t, `"https://replicate.delivery/x.jpg"`)
	g := newTestGenerator(staticPrompt("   "), fake.server.URL, "")

	_, err := g.Generate(context.Background(), Request{Affirmation: "I am calm."})

	assert.Equal(t, apperrors.OpPromptSynthesisFailed, apperrors.OpOf(err))
	assert.Equal(t, int32(0), fake.modelCalls.Load())
	assert.Empty(t, fake.created.Version)
}

func TestGenerate_NoOutput(t *testing.T) {
	fake := newFakeReplicate(t, `[]`)
	g := newTestGenerator(staticPrompt("scene"), fake.server.URL, "bare-version")

	_, err := g.Generate(context.Background(), Request{Affirmation: "I am calm."})

	assert.Equal(t, apperrors.OpImageGenerationFailed, apperrors.OpOf(err))
	assert.Equal(t, "bare-version", fake.created.Version)
}

func TestGenerate_FailedPrediction(t *testing.T) {
	fake := newFakeReplicate(t, `null`)
	fake.finalStatus = "failed"
	g := newTestGenerator(staticPrompt("scene"), fake.server.URL, "bare-version")

	_, err := g.Generate(context.Background(), Request{Affirmation: "I am calm."})

	var genErr *apperrors.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, apperrors.KindProviderRejected, genErr.Kind)
	assert.Equal(t, "nsfw", genErr.Detail)
}

func TestGenerate_MissingTokenFailsClosed(t *testing.T) {
	completer := &mockCompleter{
		completeFunc: func(ctx context.Context, req llm.ChatRequest) (string, error) {
			t.Fatal("no prompt synthesis without an image provider")
			return "", nil
		},
	}

	_, err := New(completer, Config{}).Generate(context.Background(), Request{Affirmation: "I am calm."})

	assert.Equal(t, apperrors.KindConfiguration, apperrors.KindOf(err))
}

func TestResolveVersion_InvalidSpecifier(t *testing.T) {
	g := New(staticPrompt("x"), Config{Version: "nano:v1"})

	_, err := g.resolveVersion(context.Background())

	assert.Equal(t, apperrors.KindConfiguration, apperrors.KindOf(err))
}

func TestPredictionOutput_URL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"https://a/1.jpg"`, "https://a/1.jpg"},
		{`["https://a/2.jpg","https://a/3.jpg"]`, "https://a/2.jpg"},
		{`[{"url":"https://a/4.jpg"}]`, "https://a/4.jpg"},
		{`{"url":"https://a/5.jpg"}`, "https://a/5.jpg"},
		{`{}`, ""},
		{`null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var out predictionOutput
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &out))
			assert.Equal(t, tt.want, out.URL())
		})
	}
}

func TestBuildPromptMessage(t *testing.T) {
	t.Run("demographics when photos are off", func(t *testing.T) {
		msg := buildPromptMessage(Request{
			Affirmation:  "I am strong.",
			Category:     "Health & Vitality",
			Demographics: Demographics{Gender: "female", AgeRange: "25-34", Ethnicity: preferNotToSay},
		})

		assert.Contains(t, msg, "Affirmation:\nI am strong.\nCategory: Health & Vitality\n")
		assert.Contains(t, msg, "align their appearance with these user preferences: gender: female, age: 25-34.")
		assert.NotContains(t, msg, "ethnicity")
		assert.NotContains(t, msg, "reference photos")
	})

	t.Run("photos replace demographics", func(t *testing.T) {
		msg := buildPromptMessage(Request{
			Affirmation:     "I am strong.",
			UseUserImages:   true,
			ReferencePhotos: ReferencePhotos{Portrait: "https://cdn/p.jpg", FullBody: "https://cdn/f.jpg"},
			Demographics:    Demographics{Gender: "male"},
		})

		assert.Contains(t, msg, "Portrait reference: https://cdn/p.jpg\nFull-body reference: https://cdn/f.jpg.")
		assert.NotContains(t, msg, "user preferences")
		assert.NotContains(t, msg, "Category:")
	})

	t.Run("no context without data", func(t *testing.T) {
		msg := buildPromptMessage(Request{Affirmation: "I am strong."})

		assert.NotContains(t, msg, "\n\n")
	})
}
