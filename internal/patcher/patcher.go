package patcher

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultURLPrefix is the remote media host and tracks/ root that playlist
// entries are published under.
const DefaultURLPrefix = "https://media.githubusercontent.com/media/DrTHunter/AudioOasis/refs/heads/main/tracks/"

// Capture groups of the entry pattern.
const (
	groupPath     = 2
	groupDuration = 4
)

// Report summarises one Apply call.
type Report struct {
	Updated  int      `json:"updated"`
	NotFound []string `json:"notFound"`
}

// Patcher rewrites track entry durations for a single URL prefix.
type Patcher struct {
	prefix  string
	pattern *regexp.Regexp
}

// New compiles the track entry pattern for prefix.
func New(prefix string) (*Patcher, error) {
	if prefix == "" {
		return nil, fmt.Errorf("url prefix must not be empty")
	}

	expr := `(src:\s*"` + regexp.QuoteMeta(prefix) + `)` +
		`([^"?]+)` +
		`(\?raw=true"[^}]*?duration:\s*")` +
		`([^"]*)` +
		`(")`

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to compile entry pattern: %w", err)
	}

	return &Patcher{prefix: prefix, pattern: re}, nil
}

// Prefix returns the URL prefix entries are matched against.
func (p *Patcher) Prefix() string {
	return p.prefix
}

// Apply replaces the duration of every entry in doc whose path is present in
// m. Matches are handled left to right and never overlap; text outside the
// replaced duration values is copied verbatim.
func (p *Patcher) Apply(doc string, m *Mapping) (string, Report) {
	lookup := m.Lookup()
	report := Report{NotFound: []string{}}

	matches := p.pattern.FindAllStringSubmatchIndex(doc, -1)
	if len(matches) == 0 {
		return doc, report
	}

	var b strings.Builder
	b.Grow(len(doc))
	last := 0

	for _, loc := range matches {
		relPath := doc[loc[2*groupPath]:loc[2*groupPath+1]]
		durStart, durEnd := loc[2*groupDuration], loc[2*groupDuration+1]

		duration, ok := lookup[strings.ToLower(relPath)]
		if !ok {
			report.NotFound = append(report.NotFound, relPath)
			continue
		}

		b.WriteString(doc[last:durStart])
		b.WriteString(duration)
		last = durEnd
		report.Updated++
	}

	b.WriteString(doc[last:])
	return b.String(), report
}
