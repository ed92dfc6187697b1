package domain

import "time"

// Source identifies one external job-posting provider
type Source string

const (
	SourceGupy      Source = "gupy"
	SourceWellfound Source = "wellfound"
)

// JobType is the canonical employment-type enumeration.
// Source-native strings (including non-English terms) are mapped onto
// these values by the normalizer; anything unrecognized becomes
// JobTypeUnknown instead of failing the record.
type JobType string

const (
	JobTypeFullTime   JobType = "fulltime"
	JobTypePartTime   JobType = "parttime"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeTemporary  JobType = "temporary"
	JobTypeUnknown    JobType = "unknown"
)

// DescriptionFormat selects how job descriptions are rendered
type DescriptionFormat string

const (
	FormatMarkdown DescriptionFormat = "markdown"
	FormatHTML     DescriptionFormat = "html"
	FormatPlain    DescriptionFormat = "plain"
)

// CompensationInterval is the pay period a salary figure refers to.
// Values are preserved in the interval the source reported; no unit
// conversion is performed.
type CompensationInterval string

const (
	IntervalYearly  CompensationInterval = "yearly"
	IntervalMonthly CompensationInterval = "monthly"
	IntervalWeekly  CompensationInterval = "weekly"
	IntervalDaily   CompensationInterval = "daily"
	IntervalHourly  CompensationInterval = "hourly"
)

// Location is a structured job location with a free-text fallback.
// Raw keeps the original string verbatim when parsing fails.
type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	Raw     string `json:"raw,omitempty"`
}

// Display returns a human-readable "City, State, Country" string,
// falling back to the raw text when nothing structured was parsed.
func (l Location) Display() string {
	out := ""
	for _, part := range []string{l.City, l.State, l.Country} {
		if part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += part
	}
	if out == "" {
		return l.Raw
	}
	return out
}

// Compensation holds salary bounds as reported (or extracted) from one
// posting. Invariant: either the whole struct is absent (nil pointer on
// JobPost) or MinAmount <= MaxAmount and Currency is set.
type Compensation struct {
	MinAmount float64              `json:"min_amount"`
	MaxAmount float64              `json:"max_amount"`
	Currency  string               `json:"currency"`
	Interval  CompensationInterval `json:"interval"`
}

// Valid reports whether the compensation satisfies its invariant.
func (c *Compensation) Valid() bool {
	if c == nil {
		return true
	}
	return c.Currency != "" && c.MinAmount <= c.MaxAmount
}

// JobPost is one normalized job posting, the canonical record every
// source converges to. Instances are immutable once normalized.
type JobPost struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Company      string            `json:"company"`
	Location     Location          `json:"location"`
	JobTypes     []JobType         `json:"job_types,omitempty"`
	DatePosted   *time.Time        `json:"date_posted,omitempty"`
	JobURL       string            `json:"job_url"`
	JobURLDirect string            `json:"job_url_direct,omitempty"`
	Description  string            `json:"description,omitempty"`
	Format       DescriptionFormat `json:"description_format,omitempty"`
	Compensation *Compensation     `json:"compensation,omitempty"`
	Source       Source            `json:"source"`
	Emails       []string          `json:"emails,omitempty"`
	IsRemote     bool              `json:"is_remote"`
}

// RawJob is a source-native record before normalization. Adapters fill
// whatever their source exposes and leave the rest for the normalizer.
// A RawJob is owned by the task that produced it and never shared.
type RawJob struct {
	ID          string
	Source      Source
	Title       string
	Company     string
	LocationRaw string
	// Structured location when the source provides it directly
	City    string
	State   string
	Country string

	JobTypeRaw  string
	DatePosted  *time.Time
	JobURL      string
	DirectURL   string
	Description string // HTML as fetched
	SalaryText  string // free-text salary from the listing, if any

	// Structured compensation when the source reports it
	SalaryMin      float64
	SalaryMax      float64
	SalaryCurrency string
	SalaryInterval string

	RemoteHint  bool
	ExtractedAt time.Time
}
