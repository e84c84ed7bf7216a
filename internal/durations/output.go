package durations

import (
	"bytes"
	"encoding/json"
	"fmt"

	"media-upkeep/internal/filesystem"
)

// MarshalMapping encodes durations as a two-space indented JSON object with
// keys in sorted order.
func MarshalMapping(durations map[string]string) ([]byte, error) {
	if durations == nil {
		durations = map[string]string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(durations); err != nil {
		return nil, fmt.Errorf("failed to encode durations: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteJSON writes durations to path, replacing any existing file.
func WriteJSON(path string, durations map[string]string) error {
	data, err := MarshalMapping(durations)
	if err != nil {
		return err
	}
	if err := filesystem.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write durations file: %w", err)
	}
	return nil
}
