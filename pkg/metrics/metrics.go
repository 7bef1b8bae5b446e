package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// RequestsTotal counts proxy requests by operation type and result code.
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "design_proxy",
		Subsystem: "proxy",
		Name:      "requests_total",
		Help:      "Total number of proxy requests, labeled by operation type and result code.",
	}, []string{"type", "code"})

	// UpstreamDurationSeconds is time spent waiting on the Gemini API per operation.
	UpstreamDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "design_proxy",
		Subsystem: "upstream",
		Name:      "duration_seconds",
		Help:      "Time spent on the upstream Gemini call, labeled by operation type.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"type"})

	// RateLimitedTotal counts requests rejected by the rate limiter.
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "design_proxy",
		Subsystem: "proxy",
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the per-client rate limiter.",
	})
)

// Register registers proxy metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			UpstreamDurationSeconds,
			RateLimitedTotal,
		)
	})
}

// ObserveUpstream records the elapsed time since start for the given operation type.
func ObserveUpstream(opType string, start time.Time) {
	UpstreamDurationSeconds.WithLabelValues(opType).Observe(time.Since(start).Seconds())
}
