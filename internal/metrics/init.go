package metrics

// InitializeMetrics pre-populates the expected label combinations so that a
// textfile written after a run contains every series, including zeros.
func InitializeMetrics() {
	for _, result := range []string{"generated", "skipped", "failed"} {
		ThumbnailsTotal.WithLabelValues(result)
	}

	for _, seek := range []string{"1s", "0s"} {
		for _, status := range []string{"success", "error"} {
			FFmpegAttemptsTotal.WithLabelValues(seek, status)
		}
	}

	for _, backend := range []string{"vips", "imaging"} {
		for _, status := range []string{"success", "error"} {
			ThumbnailEncodeTotal.WithLabelValues(backend, status)
		}
	}

	for _, result := range []string{"ok", "unreadable"} {
		TracksScannedTotal.WithLabelValues(result)
	}

	for _, result := range []string{"updated", "not_found"} {
		EntriesPatchedTotal.WithLabelValues(result)
	}

	for _, op := range []string{"stat", "read", "write"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
	}
}
