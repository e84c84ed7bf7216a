package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"media-upkeep/internal/filesystem"
	"media-upkeep/internal/logging"
	"media-upkeep/internal/mediatypes"
	"media-upkeep/internal/metrics"
)

// DefaultSeeks are the frame positions tried in order: one second in, then
// the very first frame for videos shorter than that.
var DefaultSeeks = []time.Duration{time.Second, 0}

// Outcome is what happened to a single video.
type Outcome string

const (
	OutcomeGenerated Outcome = "generated"
	// OutcomeFallback means the thumbnail came from a later seek position.
	OutcomeFallback Outcome = "generated-fallback"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFailed   Outcome = "failed"
)

// Result describes the processing of one video.
type Result struct {
	Name    string        `json:"name"`
	Outcome Outcome       `json:"outcome"`
	Seek    time.Duration `json:"seek"`
	Err     error         `json:"-"`
}

// Report summarises a thumbnail run.
type Report struct {
	Generated int      `json:"generated"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Results   []Result `json:"-"`
}

// ThumbnailOptions configures a ThumbnailGenerator.
type ThumbnailOptions struct {
	VideoDir string
	ThumbDir string
	Width    int
	Quality  int
	Seeks    []time.Duration
}

// ThumbnailGenerator writes one JPEG thumbnail per video in a directory.
type ThumbnailGenerator struct {
	opts      ThumbnailOptions
	extractor FrameExtractor
}

// NewThumbnailGenerator creates a generator. Seeks defaults to DefaultSeeks.
func NewThumbnailGenerator(opts ThumbnailOptions, extractor FrameExtractor) *ThumbnailGenerator {
	if len(opts.Seeks) == 0 {
		opts.Seeks = DefaultSeeks
	}
	return &ThumbnailGenerator{opts: opts, extractor: extractor}
}

// ThumbnailPath returns where the thumbnail for a video file name is written.
func (t *ThumbnailGenerator) ThumbnailPath(videoName string) string {
	return filepath.Join(t.opts.ThumbDir, mediatypes.ThumbnailName(videoName))
}

// Run processes every video in VideoDir in name order. onResult, if not nil,
// is called after each video. Per-video failures are recorded in the report;
// only an unreadable directory or cancellation stops the run.
func (t *ThumbnailGenerator) Run(ctx context.Context, onResult func(Result)) (Report, error) {
	var report Report

	entries, err := os.ReadDir(t.opts.VideoDir)
	if err != nil {
		return report, fmt.Errorf("failed to read video directory: %w", err)
	}

	if err := os.MkdirAll(t.opts.ThumbDir, 0755); err != nil {
		return report, fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !mediatypes.IsVideo(entry.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result := t.Generate(ctx, entry.Name())
		switch result.Outcome {
		case OutcomeGenerated, OutcomeFallback:
			report.Generated++
		case OutcomeSkipped:
			report.Skipped++
		case OutcomeFailed:
			report.Failed++
		}
		metrics.ThumbnailsTotal.WithLabelValues(resultLabel(result.Outcome)).Inc()
		report.Results = append(report.Results, result)

		if onResult != nil {
			onResult(result)
		}
	}

	return report, nil
}

func resultLabel(o Outcome) string {
	if o == OutcomeFallback {
		return string(OutcomeGenerated)
	}
	return string(o)
}

// Generate creates the thumbnail for one video file name in VideoDir, unless
// it already exists. Each seek position is tried in turn until a frame is
// extracted, encoded and written.
func (t *ThumbnailGenerator) Generate(ctx context.Context, name string) Result {
	result := Result{Name: name}
	thumbPath := t.ThumbnailPath(name)

	if filesystem.Exists(thumbPath) {
		logging.Debug("Thumbnail exists, skipping: %s", thumbPath)
		result.Outcome = OutcomeSkipped
		return result
	}

	videoPath := filepath.Join(t.opts.VideoDir, name)
	var firstErr error

	for i, seek := range t.opts.Seeks {
		err := t.attempt(ctx, videoPath, thumbPath, seek)
		if err == nil {
			result.Seek = seek
			result.Outcome = OutcomeGenerated
			if i > 0 {
				result.Outcome = OutcomeFallback
			}
			return result
		}

		logging.Debug("Thumbnail attempt at %s failed for %s: %v", FormatSeek(seek), name, err)
		if firstErr == nil {
			firstErr = err
		}
		if ctx.Err() != nil {
			break
		}
	}

	result.Outcome = OutcomeFailed
	result.Err = firstErr
	return result
}

func (t *ThumbnailGenerator) attempt(ctx context.Context, videoPath, thumbPath string, seek time.Duration) error {
	frame, err := t.extractor.ExtractFrame(ctx, videoPath, seek)
	if err != nil {
		return err
	}

	data, err := EncodeThumbnail(frame, t.opts.Width, t.opts.Quality)
	if err != nil {
		return err
	}

	if err := filesystem.WriteFileAtomic(thumbPath, data, 0644); err != nil {
		return err
	}

	if !filesystem.Exists(thumbPath) {
		return errors.New("thumbnail missing after write")
	}
	return nil
}
