// Package metrics declares the Prometheus metrics recorded by the upkeep
// commands.
//
// The commands are short-lived batch jobs, so metrics are not scraped. After
// a run the default registry is written to a file in the text exposition
// format (METRICS_TEXTFILE), which the node_exporter textfile collector picks
// up:
//
//	metrics.InitializeMetrics()
//	defer metrics.WriteTextfile("/var/lib/node_exporter/textfile/upkeep.prom")
//
// # Metric Families
//
//   - media_upkeep_runs_total, media_upkeep_run_duration_seconds,
//     media_upkeep_last_run_timestamp: one series per command
//   - media_upkeep_thumbnails_total, media_upkeep_ffmpeg_*: thumbnail generation
//   - media_upkeep_tracks_scanned_total, media_upkeep_probe_duration_seconds:
//     duration scanning
//   - media_upkeep_entries_patched_total: playlist patching
//   - media_upkeep_filesystem_*: ESTALE retries
//   - media_upkeep_db_queries_total, media_upkeep_db_query_duration_seconds:
//     run history database
package metrics
