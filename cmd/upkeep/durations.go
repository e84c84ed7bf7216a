package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"

	"media-upkeep/internal/durations"
	"media-upkeep/internal/logging"
	"media-upkeep/internal/progress"
)

func runDurations(ctx context.Context, a *app, args []string) (outcome, error) {
	fs := flag.NewFlagSet("durations", flag.ContinueOnError)
	output := fs.String("o", a.cfg.DurationsFile, "output JSON file")
	if err := parseFlags(fs, a, args); err != nil {
		return outcome{}, err
	}

	scanner := durations.NewScanner(a.cfg.TracksDir, durations.NewFFprobe(a.cfg.FFprobePath))
	files, err := scanner.Files()
	if err != nil {
		return outcome{}, err
	}
	logging.Info("Found %d audio tracks in %s", len(files), a.cfg.TracksDir)

	bar := progress.New(len(files), "Probing tracks")
	result, err := scanner.ScanFiles(ctx, files, func(string) { bar.Add(1) })
	bar.Finish()
	if err != nil {
		return outcome{}, err
	}

	for _, rel := range result.Skipped {
		logging.Warn("Could not read duration: %s", rel)
	}
	logging.Info("Track types: %s", formatCounts(result.FileTypes))

	if err := durations.WriteJSON(*output, result.Durations); err != nil {
		return outcome{}, err
	}

	summary := fmt.Sprintf("Wrote durations for %d tracks to %s", len(result.Durations), *output)
	fmt.Fprintln(a.stdout, summary)
	if len(result.Skipped) > 0 {
		summary += fmt.Sprintf(" (%d unreadable)", len(result.Skipped))
	}

	return outcome{summary: summary}, nil
}

// formatCounts renders counts as "flac=2 mp3=5" in key order.
func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}
