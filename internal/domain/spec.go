package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxResultsWanted caps the result count a single search may request.
const MaxResultsWanted = 500

// DefaultResultsWanted applies when a spec leaves ResultsWanted unset.
const DefaultResultsWanted = 15

// SearchSpec is the immutable input to one engine run. It is constructed
// once per invocation and read-only afterwards.
type SearchSpec struct {
	SearchTerm    string
	Location      string
	Sites         []Source
	ResultsWanted int
	// HoursOld drops postings older than this many hours. Zero means no
	// age cutoff.
	HoursOld int
	// FetchDescription enables the secondary per-job description fetch
	// on sources that need one. It multiplies request volume.
	FetchDescription bool
	Country          string
	Format           DescriptionFormat

	// Proxy configuration, passed through unmodified to each source's
	// session. Empty means direct connection.
	Proxies []string
	// CACert is an optional root certificate path for sources reached
	// through a TLS-intercepting proxy.
	CACert string

	Verbose int
}

// MaxAge returns the oldest acceptable posting time, or the zero time
// when no age cutoff was requested.
func (s SearchSpec) MaxAge(now time.Time) time.Time {
	if s.HoursOld <= 0 {
		return time.Time{}
	}
	return now.Add(-time.Duration(s.HoursOld) * time.Hour)
}

// Normalize fills defaults the caller left unset.
func (s SearchSpec) Normalize() SearchSpec {
	if s.ResultsWanted == 0 {
		s.ResultsWanted = DefaultResultsWanted
	}
	if s.Format == "" {
		s.Format = FormatMarkdown
	}
	return s
}

// Validate checks the spec against the set of registered source
// identifiers. Any violation is a configuration error: nothing runs.
func (s SearchSpec) Validate(registered []Source) error {
	if strings.TrimSpace(s.SearchTerm) == "" {
		return fmt.Errorf("search term must not be empty")
	}
	if len(s.Sites) == 0 {
		return fmt.Errorf("at least one source must be requested")
	}
	if s.ResultsWanted < 0 || s.ResultsWanted > MaxResultsWanted {
		return fmt.Errorf("results wanted %d out of range (1-%d)", s.ResultsWanted, MaxResultsWanted)
	}
	switch s.Format {
	case "", FormatMarkdown, FormatHTML, FormatPlain:
	default:
		return fmt.Errorf("unknown description format %q", s.Format)
	}
	known := make(map[Source]bool, len(registered))
	for _, src := range registered {
		known[src] = true
	}
	for _, site := range s.Sites {
		if !known[site] {
			return fmt.Errorf("unknown source %q", site)
		}
	}
	return nil
}
