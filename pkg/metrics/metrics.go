package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Chat metrics
	ChatIntents    *prometheus.CounterVec
	LLMRequests    *prometheus.CounterVec
	LLMLatency     prometheus.Histogram
	LLMVerified    prometheus.Counter

	// Directory metrics
	DirectorySearches     prometheus.Counter
	DirectoryFetchFailed  prometheus.Counter
	DirectoryFetchLatency prometheus.Histogram

	// Geocoding metrics
	GeocodeLookups   *prometheus.CounterVec
	GeocodeCacheHits prometheus.Counter

	// Outbreak metrics
	OutbreakAlertsPublished prometheus.Counter
	OutbreakAlertsFailed    prometheus.Counter
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		ChatIntents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "chat_intents_total",
			Help:      "Total number of classified chat intents by type",
		}, []string{"intent"}),
		LLMRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "llm_requests_total",
			Help:      "Total number of LLM completion requests by outcome",
		}, []string{"outcome"}),
		LLMLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "llm_request_duration_seconds",
			Help:      "Time spent waiting on the LLM completion endpoint",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		LLMVerified: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "llm_verified_responses_total",
			Help:      "Total number of LLM responses carrying a recognized citation",
		}),
		DirectorySearches: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "directory_searches_total",
			Help:      "Total number of doctor directory searches",
		}),
		DirectoryFetchFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "directory_record_fetch_failures_total",
			Help:      "Total number of per-doctor record fetches dropped from results",
		}),
		DirectoryFetchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "directory_search_duration_seconds",
			Help:      "Time spent assembling a ranked doctor list",
			Buckets:   prometheus.DefBuckets,
		}),
		GeocodeLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "geocode_lookups_total",
			Help:      "Total number of geocoding lookups by outcome",
		}, []string{"outcome"}),
		GeocodeCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "geocode_cache_hits_total",
			Help:      "Total number of geocoding lookups served from cache",
		}),
		OutbreakAlertsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbreak_alerts_published_total",
			Help:      "Total number of outbreak alerts published to the broker",
		}),
		OutbreakAlertsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbreak_alerts_failed_total",
			Help:      "Total number of outbreak alerts that failed to publish",
		}),
	}
}
