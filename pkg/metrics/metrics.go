package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GeocodeLookups counts external geocoder calls by outcome: found, not_found, error.
	GeocodeLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tips",
		Name:      "geocode_lookups_total",
		Help:      "External geocoding lookups by outcome.",
	}, []string{"outcome"})

	// GeocodeCache counts place cache lookups by result: hit, miss.
	GeocodeCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tips",
		Name:      "geocode_cache_total",
		Help:      "Geocode cache lookups by result.",
	}, []string{"result"})

	GeocodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tips",
		Name:      "geocode_lookup_duration_seconds",
		Help:      "Latency of external geocoding lookups.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	BackfilledTips = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tips",
		Name:      "backfilled_total",
		Help:      "Tips that received coordinates from geocoding.",
	})

	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tips",
		Name:      "store_errors_total",
		Help:      "Failed store operations by operation name.",
	}, []string{"operation"})

	DashboardSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tips",
		Name:      "dashboard_sessions",
		Help:      "Open dashboard sessions.",
	})
)
