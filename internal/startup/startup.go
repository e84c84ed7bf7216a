package startup

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"runtime"
	"strings"
	"time"

	"media-upkeep/internal/logging"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mitchellh/go-homedir"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

var validate = newValidator()

// ConfigEnv names the environment variable holding an optional YAML config path.
const ConfigEnv = "UPKEEP_CONFIG"

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all upkeep configuration. Values come from an optional YAML
// file, then the environment, then the env-default tags.
type Config struct {
	VideoDir      string `yaml:"video_dir" env:"VIDEO_DIR" env-default:"Video Files" env-description:"Directory of video files to thumbnail"`
	ThumbDir      string `yaml:"thumb_dir" env:"THUMB_DIR" env-default:"video_thumbs" env-description:"Directory thumbnails are written to"`
	TracksDir     string `yaml:"tracks_dir" env:"TRACKS_DIR" env-default:"tracks" env-description:"Root of the audio track tree"`
	DurationsFile string `yaml:"durations_file" env:"DURATIONS_FILE" env-default:"track_durations.json" env-description:"JSON file of track durations"`
	PlaylistFile  string `yaml:"playlist_file" env:"PLAYLIST_FILE" env-default:"trackList.js" env-description:"Playlist document patched with durations"`

	TrackURLPrefix string `yaml:"track_url_prefix" env:"TRACK_URL_PREFIX" env-default:"https://media.githubusercontent.com/media/DrTHunter/AudioOasis/refs/heads/main/tracks/" env-description:"URL prefix of track entries in the playlist" validate:"notblank"`

	ThumbWidth    int           `yaml:"thumb_width" env:"THUMB_WIDTH" env-default:"320" env-description:"Thumbnail width in pixels" validate:"gt=0"`
	ThumbQuality  int           `yaml:"thumb_quality" env:"THUMB_QUALITY" env-default:"85" env-description:"Thumbnail JPEG quality (1-100)" validate:"min=1,max=100"`
	FFmpegPath    string        `yaml:"ffmpeg_path" env:"FFMPEG_PATH" env-default:"ffmpeg" env-description:"ffmpeg executable"`
	FFprobePath   string        `yaml:"ffprobe_path" env:"FFPROBE_PATH" env-default:"ffprobe" env-description:"ffprobe executable"`
	FFmpegTimeout time.Duration `yaml:"ffmpeg_timeout" env:"FFMPEG_TIMEOUT" env-default:"30s" env-description:"Timeout for each ffmpeg invocation" validate:"gt=0"`

	NoHistory       bool   `yaml:"no_history" env:"NO_HISTORY" env-description:"Do not record runs in the history database"`
	DatabasePath    string `yaml:"database_path" env:"DATABASE_PATH" env-default:"upkeep.db" env-description:"SQLite run history database" validate:"required_unless=NoHistory true"`
	MetricsTextfile string `yaml:"metrics_textfile" env:"METRICS_TEXTFILE" env-description:"Prometheus textfile written after each run (empty disables)"`
}

// LoadConfig reads configuration from path (if non-empty, or from
// UPKEEP_CONFIG) and the environment, expands ~ in paths and validates it.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}

	var config Config
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path: %w", err)
		}
		logging.Debug("Loading configuration from %s", expanded)
		if err := cleanenv.ReadConfig(expanded, &config); err != nil {
			return nil, fmt.Errorf("failed to load configuration from %s: %w", expanded, err)
		}
	} else if err := cleanenv.ReadEnv(&config); err != nil {
		return nil, fmt.Errorf("failed to load configuration from environment: %w", err)
	}

	if err := config.expandPaths(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{
		&c.VideoDir, &c.ThumbDir, &c.TracksDir, &c.DurationsFile,
		&c.PlaylistFile, &c.DatabasePath, &c.MetricsTextfile,
	} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("failed to expand path %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate checks that the configuration values are usable
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make([]error, len(fieldErrs))
	for i, fe := range fieldErrs {
		errs[i] = describeFieldError(fe)
	}
	return errors.Join(errs...)
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by the environment variable that sets them.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("env")
	})
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
	return v
}

func describeFieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "notblank":
		return fmt.Errorf("%s must not be empty", fe.Field())
	case "required_unless":
		return fmt.Errorf("%s must not be empty unless NO_HISTORY is set", fe.Field())
	case "gt":
		return fmt.Errorf("%s must be positive, got %v", fe.Field(), fe.Value())
	case "min", "max":
		return fmt.Errorf("%s must be between 1 and 100, got %v", fe.Field(), fe.Value())
	default:
		return fmt.Errorf("%s is invalid (%s %s)", fe.Field(), fe.Tag(), fe.Param())
	}
}

// HistoryEnabled reports whether runs are recorded in the history database.
func (c *Config) HistoryEnabled() bool {
	return !c.NoHistory
}

// Usage returns a description of the supported environment variables
func Usage() string {
	var config Config
	text, err := cleanenv.GetDescription(&config, nil)
	if err != nil {
		return ""
	}
	return text
}

// LogConfig writes the effective configuration at debug level
func LogConfig(c *Config) {
	logging.Debug("------------------------------------------------------------")
	logging.Debug("CONFIGURATION")
	logging.Debug("------------------------------------------------------------")
	logging.Debug("  VIDEO_DIR:          %s", c.VideoDir)
	logging.Debug("  THUMB_DIR:          %s", c.ThumbDir)
	logging.Debug("  TRACKS_DIR:         %s", c.TracksDir)
	logging.Debug("  DURATIONS_FILE:     %s", c.DurationsFile)
	logging.Debug("  PLAYLIST_FILE:      %s", c.PlaylistFile)
	logging.Debug("  TRACK_URL_PREFIX:   %s", c.TrackURLPrefix)
	logging.Debug("  THUMB_WIDTH:        %d", c.ThumbWidth)
	logging.Debug("  THUMB_QUALITY:      %d", c.ThumbQuality)
	logging.Debug("  FFMPEG_PATH:        %s", c.FFmpegPath)
	logging.Debug("  FFPROBE_PATH:       %s", c.FFprobePath)
	logging.Debug("  FFMPEG_TIMEOUT:     %s", c.FFmpegTimeout)
	if c.HistoryEnabled() {
		logging.Debug("  DATABASE_PATH:      %s", c.DatabasePath)
	} else {
		logging.Debug("  DATABASE_PATH:      %s", valueOrDisabled(""))
	}
	logging.Debug("  METRICS_TEXTFILE:   %s", valueOrDisabled(c.MetricsTextfile))
	logging.Debug("  LOG_LEVEL:          %s", logging.GetLevel())
}

func valueOrDisabled(s string) string {
	if s == "" {
		return "(disabled)"
	}
	return s
}
