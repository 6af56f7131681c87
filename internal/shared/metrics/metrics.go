package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector exposed on /metrics.
var Registry = prometheus.NewRegistry()

var (
	analysisRequests = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_requests_total",
			Help: "Total analyses by outcome",
		},
		[]string{"outcome"},
	)

	analysisDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_duration_seconds",
			Help:    "Duration of the model call plus parsing in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider"},
	)

	analysisFallbacks = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "analysis_fallbacks_total",
			Help: "Total responses served from the fallback policy",
		},
	)

	httpPanics = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_panics_total",
			Help: "Total handler panics recovered, by route",
		},
		[]string{"route"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveAnalysis records one finished analysis.
func ObserveAnalysis(provider, outcome string, elapsed time.Duration) {
	if provider == "" {
		provider = "unknown"
	}
	analysisRequests.WithLabelValues(outcome).Inc()
	analysisDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// CountOutcome records an analysis that never reached the provider, so no
// latency is observed.
func CountOutcome(outcome string) {
	analysisRequests.WithLabelValues(outcome).Inc()
}

// IncPanic counts a recovered panic. Unmatched routes are labelled "unmatched".
func IncPanic(route string) {
	if route == "" {
		route = "unmatched"
	}
	httpPanics.WithLabelValues(route).Inc()
}

// IncFallback counts a placeholder response.
func IncFallback() {
	analysisFallbacks.Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
