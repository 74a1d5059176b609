package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "variant_editor",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "variant_editor",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "variant_editor",
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Editing sessions currently held in memory",
		},
	)

	ExpiredSessions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "variant_editor",
			Subsystem: "sessions",
			Name:      "expired_total",
			Help:      "Sessions removed by the idle sweeper",
		},
	)

	EditorOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "variant_editor",
			Subsystem: "editor",
			Name:      "operations_total",
			Help:      "Editor operations applied, by operation name",
		},
		[]string{"operation"},
	)

	GeneratedVariants = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "variant_editor",
			Subsystem: "editor",
			Name:      "variants",
			Help:      "Variant count after each applied operation",
			Buckets:   []float64{0, 1, 4, 16, 64, 256, 1024, 4096},
		},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPDuration,
			HTTPRequests,
			ActiveSessions,
			ExpiredSessions,
			EditorOperations,
			GeneratedVariants,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
