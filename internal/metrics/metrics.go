package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sync metrics
var (
	SyncRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "holisync_runs_total",
			Help: "Total number of synchronization runs",
		},
	)

	SyncRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "holisync_run_duration_seconds",
			Help:    "Synchronization run duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SyncLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "holisync_last_run_timestamp_seconds",
			Help: "Unix timestamp of the last completed synchronization run",
		},
	)

	PlaylistOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "holisync_playlist_outcomes_total",
			Help: "Number of processed playlists by outcome",
		},
		[]string{"outcome"},
	)
)

// Upstream metrics
var (
	HolidaysLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "holisync_holidays_loaded",
			Help: "Number of holidays in the table of the last run",
		},
	)

	UpstreamErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "holisync_upstream_errors_total",
			Help: "Number of failed calls to external services",
		},
		[]string{"service", "operation"},
	)
)

// Label values for UpstreamErrorsTotal.
const (
	ServiceHolidays = "holidays"
	ServiceSignage  = "signage"
	OpList          = "list"
	OpUpdate        = "update"
)
