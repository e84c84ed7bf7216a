package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run metrics
var (
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_upkeep_runs_total",
			Help: "Total number of command runs",
		},
		[]string{"command", "status"},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_upkeep_run_duration_seconds",
			Help:    "Duration of command runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 300, 900, 1800, 3600},
		},
		[]string{"command"},
	)

	LastRunTimestamp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_upkeep_last_run_timestamp",
			Help: "Unix timestamp of the last completed run",
		},
		[]string{"command"},
	)
)

// Thumbnail metrics
var (
	ThumbnailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_upkeep_thumbnails_total",
			Help: "Total number of video files processed by the thumbnail generator",
		},
		[]string{"result"}, // "generated", "skipped", "failed"
	)

	FFmpegAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_upkeep_ffmpeg_attempts_total",
			Help: "Total number of ffmpeg frame extraction attempts",
		},
		[]string{"seek", "status"},
	)

	FFmpegDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_upkeep_ffmpeg_duration_seconds",
			Help:    "Duration of ffmpeg frame extraction in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	ThumbnailEncodeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_upkeep_thumbnail_encode_total",
			Help: "Total number of thumbnail encodes by backend",
		},
		[]string{"backend", "status"}, // backend: "vips", "imaging"
	)
)

// Duration scan metrics
var (
	TracksScannedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_upkeep_tracks_scanned_total",
			Help: "Total number of audio tracks scanned for duration",
		},
		[]string{"result"}, // "ok", "unreadable"
	)

	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_upkeep_probe_duration_seconds",
			Help:    "Duration of ffprobe metadata reads in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)
)

// Patch metrics
var (
	EntriesPatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_upkeep_entries_patched_total",
			Help: "Total number of playlist track entries seen by the patcher",
		},
		[]string{"result"}, // "updated", "not_found"
	)
)

// Filesystem metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_upkeep_filesystem_retry_attempts_total",
			Help: "Total number of filesystem operation retries after ESTALE",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_upkeep_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_upkeep_filesystem_stale_errors_total",
			Help: "Total number of ESTALE errors seen",
		},
		[]string{"operation"},
	)
)

// History database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_upkeep_db_queries_total",
			Help: "Total number of history database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_upkeep_db_query_duration_seconds",
			Help:    "Duration of history database queries",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"operation"},
	)
)
