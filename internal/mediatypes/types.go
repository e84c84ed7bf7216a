package mediatypes

import (
	"path/filepath"
	"strings"
)

// FileType represents the kind of media file.
type FileType string

const (
	// FileTypeVideo represents a video file a thumbnail can be made for.
	FileTypeVideo FileType = "video"
	// FileTypeAudio represents an audio track with a duration.
	FileTypeAudio FileType = "audio"
	// FileTypeOther represents an unknown or unsupported file type.
	FileTypeOther FileType = "other"
)

// VideoExtensions maps file extensions to whether they are thumbnailed.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
}

// AudioExtensions maps file extensions to whether they are scanned for a duration.
var AudioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".m4a":  true,
	".opus": true,
}

// ThumbnailExtension is the extension of generated thumbnails.
const ThumbnailExtension = ".jpg"

// GetFileType returns the type for a file name or path, by extension.
func GetFileType(name string) FileType {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case VideoExtensions[ext]:
		return FileTypeVideo
	case AudioExtensions[ext]:
		return FileTypeAudio
	default:
		return FileTypeOther
	}
}

// IsVideo reports whether name has a video extension.
func IsVideo(name string) bool {
	return GetFileType(name) == FileTypeVideo
}

// IsAudio reports whether name has an audio extension.
func IsAudio(name string) bool {
	return GetFileType(name) == FileTypeAudio
}

// ThumbnailName returns the thumbnail file name for a video: the same base
// name with a .jpg extension.
func ThumbnailName(videoName string) string {
	return strings.TrimSuffix(videoName, filepath.Ext(videoName)) + ThumbnailExtension
}

// SlashPath converts a relative path to forward slashes, the form used as
// the key of duration mappings.
func SlashPath(rel string) string {
	return strings.ReplaceAll(filepath.ToSlash(rel), `\`, "/")
}
