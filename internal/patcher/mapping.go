package patcher

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedInput is returned when a Duration Mapping is not a flat JSON
// object of string keys to string values.
var ErrMalformedInput = errors.New("malformed duration mapping")

// Entry is one path/duration pair of a Duration Mapping.
type Entry struct {
	Path     string
	Duration string
}

// Mapping is a Duration Mapping in source order.
type Mapping struct {
	entries []Entry
}

// NewMapping builds a Mapping from entries. Order is preserved.
func NewMapping(entries ...Entry) *Mapping {
	m := &Mapping{entries: make([]Entry, len(entries))}
	copy(m.entries, entries)
	return m
}

// ParseMapping decodes a JSON object of relative paths to duration strings.
// Keys keep the order they have in data so that duplicate resolution in
// Lookup is deterministic.
func ParseMapping(data []byte) (*Mapping, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: expected object, got %v", ErrMalformedInput, tok)
	}

	m := &Mapping{}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected key %v", ErrMalformedInput, tok)
		}

		tok, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		value, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: value for %q is not a string", ErrMalformedInput, key)
		}

		m.entries = append(m.entries, Entry{Path: key, Duration: value})
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedInput)
	}

	return m, nil
}

// Len returns the number of entries, duplicates included.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns a copy of the entries in source order.
func (m *Mapping) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Lookup returns the mapping keyed by lowercased path. When two paths differ
// only by case the later entry wins.
func (m *Mapping) Lookup() map[string]string {
	lookup := make(map[string]string, m.Len())
	if m == nil {
		return lookup
	}
	for _, e := range m.entries {
		lookup[strings.ToLower(e.Path)] = e.Duration
	}
	return lookup
}
