package media

import (
	"bytes"
	"fmt"
	"math"

	"media-upkeep/internal/logging"
	"media-upkeep/internal/metrics"

	"github.com/disintegration/imaging"
)

// scaledHeight returns the height that keeps the aspect ratio of a
// srcW x srcH image scaled to width.
func scaledHeight(srcW, srcH, width int) int {
	if srcW <= 0 || srcH <= 0 {
		return width
	}
	h := int(math.Round(float64(srcH) * float64(width) / float64(srcW)))
	if h < 1 {
		h = 1
	}
	return h
}

// EncodeThumbnail scales an encoded frame (PNG from ffmpeg) to width, keeping
// the aspect ratio, and encodes it as JPEG at quality. libvips is used when it
// has been initialised; imaging is the fallback.
func EncodeThumbnail(frame []byte, width, quality int) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("invalid thumbnail width: %d", width)
	}

	if IsVipsAvailable() {
		data, err := encodeWithVips(frame, width, quality)
		if err == nil {
			metrics.ThumbnailEncodeTotal.WithLabelValues("vips", "success").Inc()
			return data, nil
		}
		metrics.ThumbnailEncodeTotal.WithLabelValues("vips", "error").Inc()
		logging.Debug("vips encode failed, falling back to imaging: %v", err)
	}

	data, err := encodeWithImaging(frame, width, quality)
	if err != nil {
		metrics.ThumbnailEncodeTotal.WithLabelValues("imaging", "error").Inc()
		return nil, err
	}
	metrics.ThumbnailEncodeTotal.WithLabelValues("imaging", "success").Inc()
	return data, nil
}

func encodeWithImaging(frame []byte, width, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}

	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
