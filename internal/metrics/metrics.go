package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "aiam"

var (
	providerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Outbound generation provider calls by outcome",
		},
		[]string{"provider", "operation", "outcome"},
	)

	providerRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Duration of outbound generation provider calls",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "operation"},
	)

	creditsDebitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credits_debited_total",
			Help:      "Credits debited from user balances",
		},
		[]string{"reason"},
	)

	creditsRefundedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credits_refunded_total",
			Help:      "Credits returned to user balances by compensation",
		},
		[]string{"reason"},
	)

	audioCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_cache_lookups_total",
			Help:      "Audio cache lookups by result",
		},
		[]string{"result"},
	)

	backgroundTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "background_tasks_total",
			Help:      "Detached background tasks by outcome",
		},
		[]string{"task", "outcome"},
	)
)

// records one provider call; outcome is "success" or an error kind
func RecordProviderCall(provider, operation, outcome string, duration time.Duration) {
	providerRequestsTotal.WithLabelValues(provider, operation, outcome).Inc()
	providerRequestDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

func RecordDebit(reason string, amount int) {
	creditsDebitedTotal.WithLabelValues(reason).Add(float64(amount))
}

func RecordRefund(reason string, amount int) {
	creditsRefundedTotal.WithLabelValues(reason).Add(float64(amount))
}

// result is "hit" or "miss"
func RecordAudioCacheLookup(result string) {
	audioCacheLookupsTotal.WithLabelValues(result).Inc()
}

func RecordBackgroundTask(task, outcome string) {
	backgroundTasksTotal.WithLabelValues(task, outcome).Inc()
}

// exposes the default registry for scraping
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
