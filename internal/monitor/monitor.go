package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gateway metrics
var (
	GatewayHotCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "telemetryhub",
		Subsystem: "gateway",
		Name:      "hot_cache_hits_total",
		Help:      "Total number of session loads served from the Redis hot cache",
	})

	GatewayLoadLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "telemetryhub",
		Subsystem: "gateway",
		Name:      "load_latency_seconds",
		Help:      "Latency of session loads that went past the hot cache",
		Buckets:   []float64{0.01, 0.05, 0.25, 1, 2.5, 5, 10, 30, 60},
	})

	GatewayLoadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "telemetryhub",
		Subsystem: "gateway",
		Name:      "load_errors_total",
		Help:      "Total number of failed session loads",
	})
)

// Provider metrics
var (
	ProviderDiskCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "telemetryhub",
		Subsystem: "provider",
		Name:      "disk_cache_hits_total",
		Help:      "Total number of session loads served from the on-disk cache",
	})

	ProviderUpstreamFetches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "telemetryhub",
		Subsystem: "provider",
		Name:      "upstream_fetches_total",
		Help:      "Total number of full session fetches from the upstream timing API",
	})

	ProviderUpstreamErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "telemetryhub",
		Subsystem: "provider",
		Name:      "upstream_errors_total",
		Help:      "Total number of upstream request failures",
	})
)

// Prefetch metrics
var (
	PrefetchTasksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "telemetryhub",
		Subsystem: "prefetch",
		Name:      "tasks_total",
		Help:      "Total number of processed prefetch tasks",
	})

	PrefetchSessionErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "telemetryhub",
		Subsystem: "prefetch",
		Name:      "session_errors_total",
		Help:      "Total number of sessions that failed to warm during prefetch",
	})
)

// API metrics
var (
	ActiveEventStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "telemetryhub",
		Subsystem: "api",
		Name:      "active_event_streams",
		Help:      "Number of currently open SSE progress streams",
	})
)
