package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"media-upkeep/internal/logging"
	"media-upkeep/internal/metrics"
)

// ErrNoFrame is returned when ffmpeg exits cleanly but produces no image,
// which happens when the seek position is past the end of a short video.
var ErrNoFrame = errors.New("ffmpeg produced no frame")

// maxStderr bounds how much ffmpeg stderr is kept in error messages.
const maxStderr = 200

// FrameExtractor pulls a single still frame out of a video.
type FrameExtractor interface {
	ExtractFrame(ctx context.Context, videoPath string, seek time.Duration) ([]byte, error)
}

// FFmpegExtractor extracts frames by running ffmpeg and reading a PNG from
// its stdout.
type FFmpegExtractor struct {
	binPath string
	timeout time.Duration
}

// NewFFmpegExtractor creates an extractor running binPath with a per-call timeout.
func NewFFmpegExtractor(binPath string, timeout time.Duration) *FFmpegExtractor {
	if binPath == "" {
		binPath = "ffmpeg"
	}
	return &FFmpegExtractor{binPath: binPath, timeout: timeout}
}

// FormatSeek renders a seek offset the way ffmpeg's -ss expects it, in seconds.
func FormatSeek(seek time.Duration) string {
	return strconv.FormatFloat(seek.Seconds(), 'f', -1, 64)
}

// Args returns the ffmpeg arguments for extracting one frame at seek.
func (f *FFmpegExtractor) Args(videoPath string, seek time.Duration) []string {
	return []string{
		"-y",
		"-ss", FormatSeek(seek),
		"-i", videoPath,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	}
}

// ExtractFrame runs ffmpeg once and returns the encoded PNG frame.
func (f *FFmpegExtractor) ExtractFrame(ctx context.Context, videoPath string, seek time.Duration) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	seekLabel := FormatSeek(seek) + "s"
	cmd := exec.CommandContext(ctx, f.binPath, f.Args(videoPath, seek)...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	metrics.FFmpegDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.FFmpegAttemptsTotal.WithLabelValues(seekLabel, "error").Inc()
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("ffmpeg timed out after %v", f.timeout)
		}
		return nil, fmt.Errorf("ffmpeg failed: %v, stderr: %s", err, tail(stderr.String(), maxStderr))
	}

	if stdout.Len() == 0 {
		metrics.FFmpegAttemptsTotal.WithLabelValues(seekLabel, "error").Inc()
		return nil, fmt.Errorf("%w at %s: %s", ErrNoFrame, seekLabel, tail(stderr.String(), maxStderr))
	}

	metrics.FFmpegAttemptsTotal.WithLabelValues(seekLabel, "success").Inc()
	logging.Debug("FFmpeg output size: %d bytes (seek %s)", stdout.Len(), seekLabel)
	return stdout.Bytes(), nil
}

// tail returns at most the last n bytes of s, trimmed of surrounding space.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}
