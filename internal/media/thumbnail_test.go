package media

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupVideoDir(t *testing.T, names ...string) (videoDir, thumbDir string) {
	t.Helper()
	root := t.TempDir()
	videoDir = filepath.Join(root, "Video Files")
	thumbDir = filepath.Join(root, "video_thumbs")
	require.NoError(t, os.MkdirAll(videoDir, 0755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(videoDir, name), []byte("video"), 0644))
	}
	return videoDir, thumbDir
}

func newTestGenerator(videoDir, thumbDir string, extractor FrameExtractor) *ThumbnailGenerator {
	return NewThumbnailGenerator(ThumbnailOptions{
		VideoDir: videoDir,
		ThumbDir: thumbDir,
		Width:    320,
		Quality:  85,
	}, extractor)
}

func TestNewThumbnailGeneratorDefaultSeeks(t *testing.T) {
	gen := NewThumbnailGenerator(ThumbnailOptions{}, &fakeExtractor{})
	assert.Equal(t, []time.Duration{time.Second, 0}, gen.opts.Seeks)
}

func TestThumbnailPath(t *testing.T) {
	gen := newTestGenerator("/v", "/thumbs", &fakeExtractor{})
	assert.Equal(t, filepath.Join("/thumbs", "clip.jpg"), gen.ThumbnailPath("clip.MKV"))
}

func TestRunGeneratesThumbnails(t *testing.T) {
	videoDir, thumbDir := setupVideoDir(t, "b.mov", "a.mp4", "notes.txt")
	extractor := &fakeExtractor{frames: map[time.Duration][]byte{time.Second: pngFrame(t, 640, 360)}}
	gen := newTestGenerator(videoDir, thumbDir, extractor)

	var seen []string
	report, err := gen.Run(context.Background(), func(r Result) { seen = append(seen, r.Name) })
	require.NoError(t, err)

	assert.Equal(t, 2, report.Generated)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, []string{"a.mp4", "b.mov"}, seen, "videos are processed in name order")

	for _, name := range []string{"a.jpg", "b.jpg"} {
		data, err := os.ReadFile(filepath.Join(thumbDir, name))
		require.NoError(t, err)
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 320, cfg.Width)
		assert.Equal(t, 180, cfg.Height)
	}

	_, err = os.Stat(filepath.Join(thumbDir, "notes.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunSkipsExistingThumbnails(t *testing.T) {
	videoDir, thumbDir := setupVideoDir(t, "a.mp4")
	require.NoError(t, os.MkdirAll(thumbDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(thumbDir, "a.jpg"), []byte("existing"), 0644))
	extractor := &fakeExtractor{}
	gen := newTestGenerator(videoDir, thumbDir, extractor)

	report, err := gen.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, extractor.calls, "ffmpeg is not run for existing thumbnails")

	data, err := os.ReadFile(filepath.Join(thumbDir, "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}

func TestRunFallsBackToFirstFrame(t *testing.T) {
	videoDir, thumbDir := setupVideoDir(t, "short.webm")
	extractor := &fakeExtractor{frames: map[time.Duration][]byte{0: pngFrame(t, 320, 240)}}
	gen := newTestGenerator(videoDir, thumbDir, extractor)

	report, err := gen.Run(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, OutcomeFallback, report.Results[0].Outcome)
	assert.Equal(t, time.Duration(0), report.Results[0].Seek)
	assert.Equal(t, 1, report.Generated)
	require.Len(t, extractor.calls, 2)
	assert.Equal(t, time.Second, extractor.calls[0].seek)
	assert.Equal(t, time.Duration(0), extractor.calls[1].seek)
	assert.Equal(t, filepath.Join(videoDir, "short.webm"), extractor.calls[0].path)
}

func TestRunRecordsFailures(t *testing.T) {
	videoDir, thumbDir := setupVideoDir(t, "broken.avi", "good.mp4")
	firstErr := errors.New("ffmpeg failed: exit status 1, stderr: moov atom not found")
	extractor := &fakeExtractor{
		errs: map[time.Duration]error{time.Second: firstErr, 0: errors.New("second failure")},
	}
	gen := newTestGenerator(videoDir, thumbDir, extractor)

	report, err := gen.Run(context.Background(), nil)
	require.NoError(t, err, "per-file failures do not fail the run")

	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, 0, report.Generated)
	assert.ErrorIs(t, report.Results[0].Err, firstErr, "the first attempt's error is reported")

	_, err = os.Stat(filepath.Join(thumbDir, "broken.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunUndecodableFrameFails(t *testing.T) {
	videoDir, thumbDir := setupVideoDir(t, "a.mkv")
	extractor := &fakeExtractor{frames: map[time.Duration][]byte{
		time.Second: []byte("garbage"),
		0:           []byte("garbage"),
	}}
	gen := newTestGenerator(videoDir, thumbDir, extractor)

	report, err := gen.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
}

func TestRunMissingVideoDir(t *testing.T) {
	root := t.TempDir()
	gen := newTestGenerator(filepath.Join(root, "missing"), filepath.Join(root, "thumbs"), &fakeExtractor{})

	_, err := gen.Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	videoDir, thumbDir := setupVideoDir(t, "a.mp4", "b.mp4")
	extractor := &fakeExtractor{frames: map[time.Duration][]byte{time.Second: pngFrame(t, 64, 36)}}
	gen := newTestGenerator(videoDir, thumbDir, extractor)

	ctx, cancel := context.WithCancel(context.Background())
	report, err := gen.Run(ctx, func(Result) { cancel() })

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, report.Generated)
}

func TestRunSkipsDirectories(t *testing.T) {
	videoDir, thumbDir := setupVideoDir(t)
	require.NoError(t, os.Mkdir(filepath.Join(videoDir, "folder.mp4"), 0755))
	extractor := &fakeExtractor{}
	gen := newTestGenerator(videoDir, thumbDir, extractor)

	report, err := gen.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.Empty(t, extractor.calls)
}
