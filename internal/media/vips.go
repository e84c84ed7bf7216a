package media

import (
	"fmt"
	"sync"

	"media-upkeep/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool
	// libvips cannot be started again once shut down.
	vipsShutdown bool
)

// vipsLogSettings maps the application log level onto the libvips level and a
// handler that forwards libvips messages to our logger.
func vipsLogSettings(appLevel logging.LogLevel) (vips.LogLevel, func(string, vips.LogLevel, string)) {
	switch appLevel {
	case logging.LevelDebug:
		return vips.LogLevelInfo, func(domain string, level vips.LogLevel, msg string) {
			switch level {
			case vips.LogLevelError, vips.LogLevelCritical:
				logging.Error("[%s] %s", domain, msg)
			case vips.LogLevelWarning:
				logging.Warn("[%s] %s", domain, msg)
			default:
				logging.Debug("[%s] %s", domain, msg)
			}
		}
	case logging.LevelInfo, logging.LevelWarn:
		return vips.LogLevelWarning, func(domain string, level vips.LogLevel, msg string) {
			switch level {
			case vips.LogLevelError, vips.LogLevelCritical:
				logging.Error("[%s] %s", domain, msg)
			case vips.LogLevelWarning:
				logging.Warn("[%s] %s", domain, msg)
			}
		}
	default:
		return vips.LogLevelCritical, func(domain string, level vips.LogLevel, msg string) {
			if level >= vips.LogLevelCritical {
				logging.Error("[%s] %s", domain, msg)
			}
		}
	}
}

// InitVips initializes the libvips library.
// It is safe to call more than once; only the first call starts libvips.
// After ShutdownVips it does nothing and encoding falls back to imaging.
func InitVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return
	}
	if vipsShutdown {
		logging.Debug("libvips already shut down, using imaging")
		return
	}

	level, handler := vipsLogSettings(logging.GetLevel())
	vips.LoggingSettings(handler, level)

	// Thumbnails are made one at a time; keep libvips small.
	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      16 * 1024 * 1024,
		MaxCacheSize:     16,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Debug("libvips initialized (version: %s)", vips.Version)
}

// ShutdownVips cleans up libvips resources
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		vipsShutdown = true
		logging.Debug("libvips shutdown complete")
	}
}

// IsVipsAvailable returns whether libvips is initialized and available
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// encodeWithVips scales an encoded frame to width and exports it as JPEG
// using libvips.
func encodeWithVips(frame []byte, width, quality int) ([]byte, error) {
	ref, err := vips.NewImageFromBuffer(frame)
	if err != nil {
		return nil, fmt.Errorf("vips failed to load frame: %w", err)
	}
	defer ref.Close()

	height := scaledHeight(ref.Width(), ref.Height(), width)
	if err := ref.Thumbnail(width, height, vips.InterestingNone); err != nil {
		return nil, fmt.Errorf("vips resize failed: %w", err)
	}

	params := vips.NewJpegExportParams()
	params.Quality = quality
	params.StripMetadata = true
	params.OptimizeCoding = true

	data, _, err := ref.ExportJpeg(params)
	if err != nil {
		return nil, fmt.Errorf("vips export failed: %w", err)
	}
	return data, nil
}
