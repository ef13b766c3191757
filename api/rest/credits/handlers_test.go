package credits

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codeberg.org/aiam/server/aiam/users"
	"codeberg.org/aiam/server/api/rest/caller"
	apperrors "codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/orchestrator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	public := router.Group("/api/v1")
	protected := router.Group("/api/v1", func(c *gin.Context) {
		caller.Set(c, &orchestrator.Session{UserID: "user-1", Profile: &users.Profile{ID: "user-1", Credits: 30}})
	})

	RegisterRoutes(public, protected)

	return router
}

func TestSummaryHandler(t *testing.T) {
	w := httptest.NewRecorder()
	setupRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"balance":30,"remainingAffirmations":1,"lowOnCredits":true,"lastAffirmation":true}`, w.Body.String())
}

func TestPacksHandler(t *testing.T) {
	w := httptest.NewRecorder()
	setupRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/credits/packs", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"visionary"`)
}

func TestPurchaseHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/credits/purchase", strings.NewReader(`{"packId":"starter"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	setupRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.CodeInvalidOperation)
}
