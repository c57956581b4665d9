package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kjstillabower/weather-predict-service/internal/traffic"
)

var (
	registry *prometheus.Registry

	// HTTP request rate. Watch for: sudden drops (service down) or spikes (traffic surge).
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request. Watch for: p95/p99 latency increases, SLO breaches.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight. Watch for: saturation, capacity limits.
	HTTPRequestsInFlight prometheus.Gauge

	// Prediction outcomes (success, cache_hit, unavailable, inference_error).
	// Watch for: unavailable > 0 means the process is running without artifacts.
	PredictionsTotal *prometheus.CounterVec

	// Predicted class distribution. Watch for: drift toward a single label.
	PredictionsByLabelTotal *prometheus.CounterVec

	// Scaler+classifier latency per row. Inference is local and CPU-bound;
	// anything above a millisecond is suspicious.
	PredictionDuration prometheus.Histogram

	// Prediction cache hits by backend. Misses = predictionsTotal{outcome=success}.
	CacheHitsTotal *prometheus.CounterVec

	// Cache backend errors by operation. Nonzero with memcached means connectivity trouble.
	CacheErrorsTotal *prometheus.CounterVec

	// Rate limit denials. Watch for: overload, capacity exceeded.
	RateLimitDeniedTotal prometheus.Counter

	// Artifact load failures at startup, by artifact (model, scaler).
	ArtifactLoadFailuresTotal *prometheus.CounterVec

	// 1 when the artifact deserialized cleanly at startup, 0 otherwise.
	artifactLoadedGauge *prometheus.GaugeVec

	shutdownInFlightGauge prometheus.Gauge

	rateLimitGaugesOnce sync.Once
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictionsTotal",
			Help: "Total number of prediction attempts by outcome",
		},
		[]string{"outcome"},
	)
	PredictionsByLabelTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictionsByLabelTotal",
			Help: "Predicted class labels; distribution drift indicator",
		},
		[]string{"label"},
	)
	PredictionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "predictionDurationSeconds",
			Help:    "Scaler transform + classifier predict latency in seconds",
			Buckets: []float64{.00001, .0001, .001, .01, .1, 1},
		},
	)
	CacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cacheHitsTotal",
			Help: "Total number of prediction cache hits",
		},
		[]string{"cacheType"},
	)
	CacheErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cacheErrorsTotal",
			Help: "Prediction cache backend errors by operation",
		},
		[]string{"operation"},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)
	ArtifactLoadFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artifactLoadFailuresTotal",
			Help: "Artifact deserialization failures at startup",
		},
		[]string{"artifact"},
	)
	artifactLoadedGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "artifactLoaded",
			Help: "1 when the artifact is loaded and usable, 0 otherwise",
		},
		[]string{"artifact"},
	)
	shutdownInFlightGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "shutdownInFlightRequests",
			Help: "In-flight requests observed when graceful shutdown began",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		PredictionsTotal, PredictionsByLabelTotal, PredictionDuration,
		CacheHitsTotal, CacheErrorsTotal,
		RateLimitDeniedTotal,
		ArtifactLoadFailuresTotal, artifactLoadedGauge,
		shutdownInFlightGauge,
	)
}

// RegisterRateLimitGauges registers load and rejects gauges for the predict
// path. Call from main after config load; uses the lifecycle overload window.
func RegisterRateLimitGauges(window time.Duration) {
	rateLimitGaugesOnce.Do(func() {
		registry.MustRegister(
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "rateLimitRequestsInWindow",
					Help: "Requests hitting the predict path in sliding window; load/capacity planning",
				},
				func() float64 { return float64(traffic.RequestCount(window)) },
			),
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "rateLimitRejectsInWindow",
					Help: "429 responses in sliding window; are we rejecting requests",
				},
				func() float64 { return float64(traffic.DenialCount(window)) },
			),
		)
	})
}

// RecordArtifactLoadFailure records one failed artifact load.
func RecordArtifactLoadFailure(artifact string) {
	ArtifactLoadFailuresTotal.WithLabelValues(artifact).Inc()
}

// SetArtifactLoaded records whether the artifact is usable.
func SetArtifactLoaded(artifact string, loaded bool) {
	v := 0.0
	if loaded {
		v = 1.0
	}
	artifactLoadedGauge.WithLabelValues(artifact).Set(v)
}

// RecordPrediction records one prediction outcome with its label and latency.
func RecordPrediction(label int, duration time.Duration) {
	PredictionsTotal.WithLabelValues("success").Inc()
	PredictionsByLabelTotal.WithLabelValues(strconv.Itoa(label)).Inc()
	PredictionDuration.Observe(duration.Seconds())
}

// RecordShutdownInFlight records the in-flight count at shutdown start.
func RecordShutdownInFlight(count int64) {
	shutdownInFlightGauge.Set(float64(count))
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
