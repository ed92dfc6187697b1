// Package extractor provides selector-driven HTML extraction for
// sources that only expose rendered listing pages.
package extractor

import "time"

// Selectors defines the CSS selectors one source uses for its listing
// cards. Empty selectors are skipped.
type Selectors struct {
	// List page
	JobItem string
	JobLink string

	// Per-card fields
	Title    string
	Company  string
	Location string
	Salary   string

	// Detail page
	Description string
}

// Config holds common extractor configuration.
type Config struct {
	UserAgent string
	// Delay paces page visits; colly adds random jitter of half the
	// delay on top.
	Delay time.Duration
}
