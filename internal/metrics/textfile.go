package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ObserveRun records the outcome of a command run.
func ObserveRun(command string, started time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RunsTotal.WithLabelValues(command, status).Inc()
	RunDuration.WithLabelValues(command).Observe(time.Since(started).Seconds())
	LastRunTimestamp.WithLabelValues(command).SetToCurrentTime()
}

// WriteTextfile writes all registered metrics to path in the text exposition
// format, for collection by the node_exporter textfile collector.
func WriteTextfile(path string) error {
	return WriteTextfileFrom(path, prometheus.DefaultGatherer)
}

// WriteTextfileFrom writes the metrics gathered by g to path.
func WriteTextfileFrom(path string, g prometheus.Gatherer) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
