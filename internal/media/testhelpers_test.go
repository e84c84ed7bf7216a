package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"
)

// pngFrame returns a PNG-encoded solid image of the given size.
func pngFrame(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test frame: %v", err)
	}
	return buf.Bytes()
}

type extractCall struct {
	path string
	seek time.Duration
}

// fakeExtractor returns canned frames or errors keyed by seek position.
type fakeExtractor struct {
	mu     sync.Mutex
	frames map[time.Duration][]byte
	errs   map[time.Duration]error
	calls  []extractCall
}

func (f *fakeExtractor) ExtractFrame(_ context.Context, videoPath string, seek time.Duration) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, extractCall{path: videoPath, seek: seek})
	if err := f.errs[seek]; err != nil {
		return nil, err
	}
	if frame, ok := f.frames[seek]; ok {
		return frame, nil
	}
	return nil, ErrNoFrame
}
