package durations

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"media-upkeep/internal/logging"
	"media-upkeep/internal/mediatypes"
	"media-upkeep/internal/metrics"

	"github.com/dhowden/tag"
)

// unknownFileType labels tracks whose container could not be identified.
const unknownFileType = "unknown"

// Track is one scanned audio file.
type Track struct {
	Path     string        `json:"path"`
	Duration time.Duration `json:"duration"`
	FileType string        `json:"fileType"`
}

// Result is the outcome of a scan.
type Result struct {
	// Durations maps slash-separated relative path to "M:SS".
	Durations map[string]string `json:"durations"`
	Tracks    []Track           `json:"-"`
	// Skipped lists tracks whose duration could not be read.
	Skipped   []string       `json:"skipped"`
	FileTypes map[string]int `json:"fileTypes"`
}

// Scanner finds audio tracks under a root directory and probes their durations.
type Scanner struct {
	root   string
	prober Prober
}

// NewScanner creates a scanner for root.
func NewScanner(root string, prober Prober) *Scanner {
	return &Scanner{root: root, prober: prober}
}

// Files returns the relative, slash-separated paths of all audio tracks
// under the root, in walk order.
func (s *Scanner) Files() ([]string, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read tracks directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("tracks path is not a directory: %s", s.root)
	}

	var files []string
	err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.Warn("Skipping unreadable path %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !mediatypes.IsAudio(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		files = append(files, mediatypes.SlashPath(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk tracks directory: %w", err)
	}
	return files, nil
}

// Scan probes every audio track. onTrack, if not nil, is called after each
// track with its relative path. A track that cannot be probed is listed in
// Result.Skipped; only a missing root or cancellation stops the scan.
func (s *Scanner) Scan(ctx context.Context, onTrack func(string)) (*Result, error) {
	files, err := s.Files()
	if err != nil {
		return nil, err
	}
	return s.ScanFiles(ctx, files, onTrack)
}

// ScanFiles probes the given relative paths.
func (s *Scanner) ScanFiles(ctx context.Context, files []string, onTrack func(string)) (*Result, error) {
	result := &Result{
		Durations: make(map[string]string, len(files)),
		Skipped:   []string{},
		FileTypes: make(map[string]int),
	}

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fullPath := filepath.Join(s.root, filepath.FromSlash(rel))
		d, err := s.prober.Probe(ctx, fullPath)
		if err != nil {
			logging.Debug("Could not read duration of %s: %v", rel, err)
			metrics.TracksScannedTotal.WithLabelValues("unreadable").Inc()
			result.Skipped = append(result.Skipped, rel)
		} else {
			fileType := identify(fullPath)
			track := Track{Path: rel, Duration: d, FileType: fileType}
			logging.Debug("Track %s: %s (%s)", rel, FormatDuration(d), fileType)

			metrics.TracksScannedTotal.WithLabelValues("ok").Inc()
			result.Tracks = append(result.Tracks, track)
			result.Durations[rel] = FormatDuration(d)
			result.FileTypes[fileType]++
		}

		if onTrack != nil {
			onTrack(rel)
		}
	}

	return result, nil
}

// identify sniffs the container of an audio file from its header.
func identify(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return unknownFileType
	}
	defer f.Close()

	_, fileType, err := tag.Identify(f)
	if err != nil || fileType == tag.UnknownFileType {
		return unknownFileType
	}
	return strings.ToLower(string(fileType))
}
