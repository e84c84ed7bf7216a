package main

import (
	"context"
	"flag"
	"fmt"

	"media-upkeep/internal/logging"
	"media-upkeep/internal/media"
)

func runThumbnails(ctx context.Context, a *app, args []string) (outcome, error) {
	fs := flag.NewFlagSet("thumbnails", flag.ContinueOnError)
	if err := parseFlags(fs, a, args); err != nil {
		return outcome{}, err
	}

	media.InitVips()

	gen := media.NewThumbnailGenerator(media.ThumbnailOptions{
		VideoDir: a.cfg.VideoDir,
		ThumbDir: a.cfg.ThumbDir,
		Width:    a.cfg.ThumbWidth,
		Quality:  a.cfg.ThumbQuality,
	}, media.NewFFmpegExtractor(a.cfg.FFmpegPath, a.cfg.FFmpegTimeout))

	logging.Info("Generating thumbnails for %s", a.cfg.VideoDir)

	report, err := gen.Run(ctx, func(r media.Result) {
		switch r.Outcome {
		case media.OutcomeGenerated:
			fmt.Fprintf(a.stdout, "  OK: %s\n", r.Name)
		case media.OutcomeFallback:
			fmt.Fprintf(a.stdout, "  OK (%ss): %s\n", media.FormatSeek(r.Seek), r.Name)
		case media.OutcomeFailed:
			fmt.Fprintf(a.stdout, "  FAIL: %s - %v\n", r.Name, r.Err)
		}
	})
	if err != nil {
		return outcome{}, err
	}

	summary := fmt.Sprintf("Generated: %d, Skipped (exists): %d, Failed: %d", report.Generated, report.Skipped, report.Failed)
	fmt.Fprintf(a.stdout, "\nDone! %s\n", summary)
	fmt.Fprintf(a.stdout, "Thumbnails saved to: %s\n", a.cfg.ThumbDir)

	return outcome{summary: summary}, nil
}
