package engine

import (
	"sort"

	"github.com/project-tktt/go-jobspy/internal/common/dedup"
	"github.com/project-tktt/go-jobspy/internal/common/normalizer"
	"github.com/project-tktt/go-jobspy/internal/domain"
	"github.com/project-tktt/go-jobspy/internal/scraper"
)

// aggregate merges the per-source raw results into the final posting
// list: normalize, deduplicate keeping the first occurrence in
// source-request order, order by source then recency, and truncate to
// the requested count.
func aggregate(spec domain.SearchSpec, raws []scraper.RawResult) ([]domain.JobPost, int) {
	norm := normalizer.NewNormalizer()
	dd := dedup.NewDeduplicator()

	var jobs []domain.JobPost
	for _, raw := range raws {
		for _, rj := range raw.Jobs {
			job := norm.Normalize(rj, spec)
			if dd.Check(job) {
				jobs = append(jobs, job)
			}
		}
	}

	// Source groups in identifier order; within a group newest first,
	// postings without a date after dated ones. The sort is stable so
	// undated postings keep their extraction order.
	sort.SliceStable(jobs, func(i, j int) bool {
		if jobs[i].Source != jobs[j].Source {
			return jobs[i].Source < jobs[j].Source
		}
		di, dj := jobs[i].DatePosted, jobs[j].DatePosted
		switch {
		case di == nil && dj == nil:
			return false
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.After(*dj)
		}
	})

	if spec.ResultsWanted > 0 && len(jobs) > spec.ResultsWanted {
		jobs = jobs[:spec.ResultsWanted]
	}
	return jobs, dd.Dropped()
}
