// Package dedup removes duplicate postings within a single merged
// result set. The key is the normalized (title, company, location)
// tuple; the first occurrence in source-iteration order wins. State
// lives only for one invocation — cross-run dedup is deliberately not a
// thing here.
package dedup

import (
	"strings"

	"github.com/project-tktt/go-jobspy/internal/domain"
)

// Deduplicator tracks seen posting keys for one aggregation pass.
type Deduplicator struct {
	seen    map[string]bool
	dropped int
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]bool)}
}

// Check records the posting and reports whether it is the first
// occurrence of its key. Later duplicates return false and increment
// the dropped counter.
func (d *Deduplicator) Check(job domain.JobPost) bool {
	key := Key(job)
	if d.seen[key] {
		d.dropped++
		return false
	}
	d.seen[key] = true
	return true
}

// Dropped returns how many duplicates were removed so far.
func (d *Deduplicator) Dropped() int { return d.dropped }

// Key builds the dedup key: title, company and display location,
// case-folded with whitespace collapsed, so cosmetic differences
// between sources do not defeat the match.
func Key(job domain.JobPost) string {
	return fold(job.Title) + "|" + fold(job.Company) + "|" + fold(job.Location.Display())
}

func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
