package affirmations

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/aiam/server/aiam/affirmations"
	"codeberg.org/aiam/server/aiam/users"
	"codeberg.org/aiam/server/api/rest/caller"
	"codeberg.org/aiam/server/api/rest/validation"
	"codeberg.org/aiam/server/internal/credits"
	apperrors "codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/orchestrator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const affID = "3f1c2a9e-7b4d-4c1e-9a2f-5d6e7f8a9b0c"

type mockFlows struct {
	createFunc  func(ctx context.Context, sess *orchestrator.Session, req orchestrator.CreateRequest) (*orchestrator.CreateResult, error)
	addImageFn  func(ctx context.Context, sess *orchestrator.Session, id string, req orchestrator.AddImageRequest) (*orchestrator.AddImageResult, error)
	speakFunc   func(ctx context.Context, sess *orchestrator.Session, id, voiceID string) (*orchestrator.SpeakResult, error)
	playAllFunc func(ctx context.Context, sess *orchestrator.Session, req orchestrator.PlayAllRequest) (string, []orchestrator.PlayItem, error)
}

func (m *mockFlows) CreateAffirmation(ctx context.Context, sess *orchestrator.Session, req orchestrator.CreateRequest) (*orchestrator.CreateResult, error) {
	return m.createFunc(ctx, sess, req)
}

func (m *mockFlows) AddImage(ctx context.Context, sess *orchestrator.Session, id string, req orchestrator.AddImageRequest) (*orchestrator.AddImageResult, error) {
	return m.addImageFn(ctx, sess, id, req)
}

func (m *mockFlows) Speak(ctx context.Context, sess *orchestrator.Session, id, voiceID string) (*orchestrator.SpeakResult, error) {
	return m.speakFunc(ctx, sess, id, voiceID)
}

func (m *mockFlows) PlayAll(ctx context.Context, sess *orchestrator.Session, req orchestrator.PlayAllRequest) (string, []orchestrator.PlayItem, error) {
	return m.playAllFunc(ctx, sess, req)
}

type mockLibrary struct {
	items      []affirmations.Affirmation
	lastFilter affirmations.ListFilter
}

func (m *mockLibrary) Get(_ context.Context, id, userID string) (*affirmations.Affirmation, error) {
	for i := range m.items {
		if m.items[i].ID == id && m.items[i].UserID == userID {
			return &m.items[i], nil
		}
	}

	return nil, affirmations.ErrAffirmationNotFound
}

func (m *mockLibrary) List(_ context.Context, userID string, filter affirmations.ListFilter) ([]affirmations.Affirmation, int, error) {
	m.lastFilter = filter
	return m.items, len(m.items), nil
}

func (m *mockLibrary) ListCategories(context.Context, string) ([]affirmations.Category, error) {
	return []affirmations.Category{{ID: "joy-happiness", Title: "Joy & Happiness"}}, nil
}

func (m *mockLibrary) ToggleFavorite(ctx context.Context, id, userID string) (*affirmations.Affirmation, error) {
	a, err := m.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	a.IsFavorite = !a.IsFavorite

	return a, nil
}

func setupRouter(t *testing.T, flows Flows, library Library) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.Register())

	router := gin.New()
	public := router.Group("/api/v1")
	protected := router.Group("/api/v1", func(c *gin.Context) {
		caller.Set(c, &orchestrator.Session{UserID: "user-1", Profile: &users.Profile{ID: "user-1"}})
	})

	RegisterRoutes(public, protected, flows, library, func(c *gin.Context) { c.Next() })

	return router
}

func do(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		payload, _ := json.Marshal(body) //nolint:errcheck
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestCreateHandler(t *testing.T) {
	var got orchestrator.CreateRequest
	flows := &mockFlows{createFunc: func(ctx context.Context, sess *orchestrator.Session, req orchestrator.CreateRequest) (*orchestrator.CreateResult, error) {
		got = req
		return &orchestrator.CreateResult{
			Affirmation: &affirmations.Affirmation{ID: affID, Text: "I am enough."},
			Charged:     20,
			Credits:     credits.Summarize(80),
		}, nil
	}}

	w := do(setupRouter(t, flows, &mockLibrary{}), http.MethodPost, "/api/v1/affirmations", map[string]any{
		"category":      "Joy & Happiness",
		"generateImage": false,
		"draftId":       "draft-1",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Joy & Happiness", got.Category)
	require.NotNil(t, got.GenerateImage)
	assert.False(t, *got.GenerateImage)
	assert.Equal(t, "draft-1", got.DraftID)
	assert.Contains(t, w.Body.String(), `"remainingAffirmations":4`)
}

func TestCreateHandler_InsufficientCredits(t *testing.T) {
	flows := &mockFlows{createFunc: func(ctx context.Context, sess *orchestrator.Session, req orchestrator.CreateRequest) (*orchestrator.CreateResult, error) {
		return nil, apperrors.InsufficientCredits(20, 15)
	}}

	w := do(setupRouter(t, flows, &mockLibrary{}), http.MethodPost, "/api/v1/affirmations", map[string]any{"category": "Joy & Happiness"})

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "purchase_required")
}

func TestCreateHandler_PersistenceFailureCarriesText(t *testing.T) {
	flows := &mockFlows{createFunc: func(ctx context.Context, sess *orchestrator.Session, req orchestrator.CreateRequest) (*orchestrator.CreateResult, error) {
		return nil, apperrors.Persistence(apperrors.OpPersist, map[string]string{"affirmation": "I am enough."}, assert.AnError)
	}}

	w := do(setupRouter(t, flows, &mockLibrary{}), http.MethodPost, "/api/v1/affirmations", map[string]any{"category": "Joy & Happiness"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"artifact":{"affirmation":"I am enough."}`)
}

func TestCreateHandler_RejectsBadAspectRatio(t *testing.T) {
	w := do(setupRouter(t, &mockFlows{}, &mockLibrary{}), http.MethodPost, "/api/v1/affirmations", map[string]any{
		"category":    "Joy & Happiness",
		"aspectRatio": "2:1",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListHandler_Filters(t *testing.T) {
	library := &mockLibrary{items: []affirmations.Affirmation{{ID: affID, UserID: "user-1"}}}

	w := do(setupRouter(t, &mockFlows{}, library), http.MethodGet, "/api/v1/affirmations?favorites=true&category=Joy%20%26%20Happiness&limit=500", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, library.lastFilter.FavoritesOnly)
	assert.Equal(t, "joy-happiness", library.lastFilter.CategoryID)
	assert.Equal(t, maxPageSize, library.lastFilter.Limit)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Pagination.Total)
	assert.False(t, resp.Pagination.HasMore)
}

func TestListHandler_UnknownCategory(t *testing.T) {
	w := do(setupRouter(t, &mockFlows{}, &mockLibrary{}), http.MethodGet, "/api/v1/affirmations?category=astrology", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogAndCategories(t *testing.T) {
	router := setupRouter(t, &mockFlows{}, &mockLibrary{})

	w := do(router, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var catalog CategoriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catalog))
	assert.Len(t, catalog.Categories, len(affirmations.Categories))

	w = do(router, http.MethodGet, "/api/v1/affirmations/categories", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "joy-happiness")
}

func TestGetAndFavorite(t *testing.T) {
	library := &mockLibrary{items: []affirmations.Affirmation{{ID: affID, UserID: "user-1", Text: "I am loved."}}}
	router := setupRouter(t, &mockFlows{}, library)

	w := do(router, http.MethodGet, "/api/v1/affirmations/"+affID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodPost, "/api/v1/affirmations/"+affID+"/favorite", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isFavorite":true`)

	w = do(router, http.MethodGet, "/api/v1/affirmations/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodGet, "/api/v1/affirmations/00000000-0000-4000-8000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddImageHandler_Conflict(t *testing.T) {
	flows := &mockFlows{addImageFn: func(ctx context.Context, sess *orchestrator.Session, id string, req orchestrator.AddImageRequest) (*orchestrator.AddImageResult, error) {
		assert.True(t, req.UsePersonalImage)
		return nil, apperrors.NewGeneration(apperrors.KindConflict, apperrors.OpImageGenerationFailed, "this affirmation already has an image", nil)
	}}

	w := do(setupRouter(t, flows, &mockLibrary{}), http.MethodPost, "/api/v1/affirmations/"+affID+"/image", map[string]any{"usePersonalImage": true})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSpeakHandler_CachedReturnsURL(t *testing.T) {
	flows := &mockFlows{speakFunc: func(ctx context.Context, sess *orchestrator.Session, id, voiceID string) (*orchestrator.SpeakResult, error) {
		return &orchestrator.SpeakResult{VoiceID: "v1", AudioURL: "https://cdn/a.mp3", Cached: true}, nil
	}}

	w := do(setupRouter(t, flows, &mockLibrary{}), http.MethodPost, "/api/v1/affirmations/"+affID+"/speak", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"voiceId":"v1","audioUrl":"https://cdn/a.mp3","cached":true,"charged":0}`, w.Body.String())
}

func TestSpeakHandler_MissStreamsAudio(t *testing.T) {
	flows := &mockFlows{speakFunc: func(ctx context.Context, sess *orchestrator.Session, id, voiceID string) (*orchestrator.SpeakResult, error) {
		assert.Equal(t, "clone-1", voiceID)
		return &orchestrator.SpeakResult{VoiceID: voiceID, Audio: []byte("ID3"), ContentType: "audio/mpeg", Charged: 20}, nil
	}}

	w := do(setupRouter(t, flows, &mockLibrary{}), http.MethodPost, "/api/v1/affirmations/"+affID+"/speak", SpeakRequest{VoiceID: "clone-1"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "20", w.Header().Get("X-Aiams-Charged"))
	assert.Equal(t, "ID3", w.Body.String())
}

func TestPlayAllHandler(t *testing.T) {
	flows := &mockFlows{playAllFunc: func(ctx context.Context, sess *orchestrator.Session, req orchestrator.PlayAllRequest) (string, []orchestrator.PlayItem, error) {
		assert.True(t, req.FavoritesOnly)
		return "v1", []orchestrator.PlayItem{{AffirmationID: affID, AudioURL: "https://cdn/a.mp3", Cached: true}}, nil
	}}

	w := do(setupRouter(t, flows, &mockLibrary{}), http.MethodPost, "/api/v1/affirmations/play-all", PlayAllRequest{FavoritesOnly: true})

	require.Equal(t, http.StatusOK, w.Code)

	var resp PlayAllResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "v1", resp.VoiceID)
	assert.Len(t, resp.Items, 1)
}
