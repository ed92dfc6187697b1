// Package normalizer converts source-native raw records into canonical
// job postings. It is a pure function set: no network, no shared state,
// and it never fails a record — any field that cannot be mapped is set
// to its unspecified value and the record is still emitted.
package normalizer

import (
	"fmt"
	"hash/fnv"
	"html"

	"github.com/project-tktt/go-jobspy/internal/common/cleaner"
	"github.com/project-tktt/go-jobspy/internal/domain"
)

// Normalizer maps RawJob records onto the canonical JobPost schema.
type Normalizer struct {
	cleaner *cleaner.Cleaner
}

func NewNormalizer() *Normalizer {
	return &Normalizer{cleaner: cleaner.NewCleaner()}
}

// Normalize converts one raw record. The description is rendered in the
// spec's requested format; salary is taken structured when the source
// reported it, otherwise extracted from salary text or the description.
func (n *Normalizer) Normalize(raw domain.RawJob, spec domain.SearchSpec) domain.JobPost {
	format := spec.Format
	if format == "" {
		format = domain.FormatMarkdown
	}

	job := domain.JobPost{
		ID:           raw.ID,
		Title:        NormalizeTitle(html.UnescapeString(raw.Title)),
		Company:      NormalizeCompany(html.UnescapeString(raw.Company)),
		JobTypes:     ExtractJobTypes(raw.JobTypeRaw),
		DatePosted:   raw.DatePosted,
		JobURL:       raw.JobURL,
		JobURLDirect: raw.DirectURL,
		Source:       raw.Source,
		Format:       format,
	}
	if job.ID == "" {
		job.ID = fmt.Sprintf("%s-%d", raw.Source, hashString(raw.JobURL))
	}

	job.Location = n.normalizeLocation(raw, spec)

	descText := ""
	if raw.Description != "" {
		job.Description = n.cleaner.Render(raw.Description, format)
		descText = n.cleaner.CleanToText(raw.Description)
		job.Emails = ExtractEmails(descText)
	}

	job.Compensation = n.normalizeCompensation(raw, descText)
	job.IsRemote = raw.RemoteHint || IsRemote(raw.LocationRaw, raw.Title, descText)

	return job
}

func (n *Normalizer) normalizeLocation(raw domain.RawJob, spec domain.SearchSpec) domain.Location {
	if raw.City != "" || raw.State != "" || raw.Country != "" {
		loc := domain.Location{
			City:    CleanText(raw.City),
			State:   CleanText(raw.State),
			Country: CleanText(raw.Country),
			Raw:     CleanText(raw.LocationRaw),
		}
		if loc.Country == "" {
			loc.Country = spec.Country
		}
		return loc
	}
	return ParseLocation(raw.LocationRaw, spec.Country)
}

// normalizeCompensation prefers source-structured salary and falls back
// to the regex extraction pass over the salary text, then the
// description. It upholds the compensation invariant: either nil or
// min <= max with a currency.
func (n *Normalizer) normalizeCompensation(raw domain.RawJob, descText string) *domain.Compensation {
	if raw.SalaryMin > 0 || raw.SalaryMax > 0 {
		// Structured figures without a currency would violate the
		// invariant; treat them as unusable rather than guessing.
		if raw.SalaryCurrency == "" {
			return nil
		}
		low, high := raw.SalaryMin, raw.SalaryMax
		if high == 0 {
			high = low
		}
		if low > high {
			low, high = high, low
		}
		return &domain.Compensation{
			MinAmount: low,
			MaxAmount: high,
			Currency:  raw.SalaryCurrency,
			Interval:  MapInterval(raw.SalaryInterval),
		}
	}

	if comp := ExtractCompensation(raw.SalaryText); comp != nil {
		return comp
	}
	return ExtractCompensation(descText)
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
