package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDebit(t *testing.T) {
	before := testutil.ToFloat64(creditsDebitedTotal.WithLabelValues("test_debit"))

	RecordDebit("test_debit", 20)
	RecordDebit("test_debit", 10)

	after := testutil.ToFloat64(creditsDebitedTotal.WithLabelValues("test_debit"))
	assert.Equal(t, float64(30), after-before)
}

func TestRecordProviderCall(t *testing.T) {
	RecordProviderCall("openai", "test_op", "success", 120*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(providerRequestsTotal.WithLabelValues("openai", "test_op", "success")))
}

func TestHandlerServesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	RecordAudioCacheLookup("hit")

	router := gin.New()
	router.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "aiam_audio_cache_lookups_total")
}
