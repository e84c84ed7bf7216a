package main

import (
	"context"
	"flag"
	"fmt"

	"media-upkeep/internal/filesystem"
	"media-upkeep/internal/logging"
	"media-upkeep/internal/metrics"
	"media-upkeep/internal/patcher"
)

func runPatch(ctx context.Context, a *app, args []string) (outcome, error) {
	fs := flag.NewFlagSet("patch", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "report changes without writing the playlist")
	mappingPath := fs.String("mapping", a.cfg.DurationsFile, "duration mapping JSON file")
	playlistPath := fs.String("playlist", a.cfg.PlaylistFile, "playlist document to patch")
	if err := parseFlags(fs, a, args); err != nil {
		return outcome{}, err
	}

	retry := filesystem.DefaultRetryConfig()

	data, err := filesystem.ReadFileWithRetry(*mappingPath, retry)
	if err != nil {
		return outcome{}, fmt.Errorf("failed to read duration mapping: %w", err)
	}
	mapping, err := patcher.ParseMapping(data)
	if err != nil {
		return outcome{}, fmt.Errorf("%s: %w", *mappingPath, err)
	}
	logging.Debug("Loaded %d durations from %s", mapping.Len(), *mappingPath)

	info, err := filesystem.StatWithRetry(*playlistPath, retry)
	if err != nil {
		return outcome{}, fmt.Errorf("failed to stat playlist: %w", err)
	}
	doc, err := filesystem.ReadFileWithRetry(*playlistPath, retry)
	if err != nil {
		return outcome{}, fmt.Errorf("failed to read playlist: %w", err)
	}

	p, err := patcher.New(a.cfg.TrackURLPrefix)
	if err != nil {
		return outcome{}, err
	}

	if err := ctx.Err(); err != nil {
		return outcome{}, err
	}

	patched, report := p.Apply(string(doc), mapping)
	metrics.EntriesPatchedTotal.WithLabelValues("updated").Add(float64(report.Updated))
	metrics.EntriesPatchedTotal.WithLabelValues("not_found").Add(float64(len(report.NotFound)))

	if *dryRun {
		logging.Info("Dry run: %s not written", *playlistPath)
	} else if err := filesystem.WriteFileAtomic(*playlistPath, []byte(patched), info.Mode().Perm()); err != nil {
		return outcome{}, fmt.Errorf("failed to write playlist: %w", err)
	}

	fmt.Fprintf(a.stdout, "Updated %d track durations.\n", report.Updated)
	if len(report.NotFound) > 0 {
		fmt.Fprintf(a.stdout, "Could not find durations for %d tracks:\n", len(report.NotFound))
		for _, path := range report.NotFound {
			fmt.Fprintf(a.stdout, "  - %s\n", path)
		}
	}

	summary := fmt.Sprintf("Updated: %d, Not found: %d", report.Updated, len(report.NotFound))
	if *dryRun {
		summary += " (dry run)"
	}
	return outcome{summary: summary, missing: report.NotFound}, nil
}
