package durations

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"media-upkeep/internal/metrics"

	"github.com/floostack/transcoder/ffmpeg"
)

// Prober reads the playing time of a media file.
type Prober interface {
	Probe(ctx context.Context, path string) (time.Duration, error)
}

// FFprobe reads durations from the container metadata reported by ffprobe.
type FFprobe struct {
	binPath string
}

// NewFFprobe creates a prober running binPath.
func NewFFprobe(binPath string) *FFprobe {
	if binPath == "" {
		binPath = "ffprobe"
	}
	return &FFprobe{binPath: binPath}
}

// Probe returns the duration ffprobe reports for path.
func (p *FFprobe) Probe(ctx context.Context, path string) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	start := time.Now()
	cfg := &ffmpeg.Config{FfprobeBinPath: p.binPath}
	metadata, err := ffmpeg.New(cfg).Input(path).GetMetadata()
	metrics.ProbeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, fmt.Errorf("failed to extract file metadata information using ffprobe: %w", err)
	}

	return ParseSeconds(metadata.GetFormat().GetDuration())
}

// ParseSeconds converts ffprobe's decimal seconds ("187.345000") to a Duration.
func ParseSeconds(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return 0, fmt.Errorf("no duration reported")
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if secs < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// FormatDuration renders d as minutes and zero-padded seconds ("3:07").
// Fractional seconds are truncated and minutes are not capped at 59.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
