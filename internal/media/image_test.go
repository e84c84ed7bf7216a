package media

import (
	"bytes"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaledHeight(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		width      int
		expected   int
	}{
		{"16:9 downscale", 1920, 1080, 320, 180},
		{"4:3 downscale", 640, 480, 320, 240},
		{"portrait", 1080, 1920, 320, 569},
		{"upscale", 160, 90, 320, 180},
		{"very wide stays at least one pixel", 10000, 1, 320, 1},
		{"invalid source", 0, 0, 320, 320},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scaledHeight(tt.srcW, tt.srcH, tt.width))
		})
	}
}

func TestEncodeThumbnailWithImaging(t *testing.T) {
	if IsVipsAvailable() {
		t.Skip("libvips is running")
	}

	data, err := EncodeThumbnail(pngFrame(t, 640, 360), 320, 85)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 180, img.Bounds().Dy())
}

func TestEncodeThumbnailUpscales(t *testing.T) {
	data, err := EncodeThumbnail(pngFrame(t, 100, 50), 320, 85)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 160, cfg.Height)
}

func TestEncodeThumbnailErrors(t *testing.T) {
	_, err := EncodeThumbnail([]byte("not an image"), 320, 85)
	assert.Error(t, err)

	_, err = EncodeThumbnail(pngFrame(t, 10, 10), 0, 85)
	assert.Error(t, err)
}
