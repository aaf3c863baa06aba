package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	recommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Recommendation computations by mode and outcome status",
		},
		[]string{"mode", "status"},
	)

	recommendationItems = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_items",
			Help:    "Number of courses returned per recommendation result",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"mode"},
	)

	recommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time spent computing a recommendation result, store reads included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	eventFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_event_failures_total",
			Help: "Recommendation events that could not be written",
		},
	)

	catalogCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_requests_total",
			Help: "Catalog cache lookups by result",
		},
		[]string{"result"},
	)

	workerMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_worker_messages_total",
			Help: "Queue messages handled by the event worker by outcome",
		},
		[]string{"outcome"},
	)

	httpPanicsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_panics_total",
			Help: "Handler panics recovered by the HTTP middleware",
		},
	)
)

// ObserveRecommendation records one computed result.
func ObserveRecommendation(mode, status string, items int, elapsed time.Duration) {
	recommendationsTotal.WithLabelValues(mode, status).Inc()
	recommendationItems.WithLabelValues(mode).Observe(float64(items))
	recommendationDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// IncEventFailures counts a dropped recommendation event.
func IncEventFailures() {
	eventFailuresTotal.Inc()
}

// IncCatalogCache counts a catalog cache lookup; result is "hit", "miss" or "error".
func IncCatalogCache(result string) {
	catalogCacheTotal.WithLabelValues(result).Inc()
}

// IncWorkerMessages counts a worker message outcome such as "received", "stored" or "dropped".
func IncWorkerMessages(outcome string) {
	workerMessagesTotal.WithLabelValues(outcome).Inc()
}

// IncPanics counts a recovered handler panic.
func IncPanics() {
	httpPanicsTotal.Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
