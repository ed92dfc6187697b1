package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/project-tktt/go-jobspy/internal/domain"
	"github.com/project-tktt/go-jobspy/internal/engine"
	"github.com/project-tktt/go-jobspy/internal/scraper"
	"github.com/project-tktt/go-jobspy/internal/session"
)

// fakeScraper is a canned adapter for orchestration tests.
type fakeScraper struct {
	src        domain.Source
	jobs       []domain.RawJob
	err        *scraper.SourceError
	waitForCtx bool
}

func (f *fakeScraper) Scrape(ctx context.Context, _ domain.SearchSpec, _ *session.Session) scraper.RawResult {
	if f.waitForCtx {
		<-ctx.Done()
	}
	return scraper.RawResult{Source: f.src, Jobs: f.jobs, Err: f.err, Pages: 1, Requests: 1}
}

func (f *fakeScraper) Source() domain.Source { return f.src }

func register(r *scraper.Registry, f *fakeScraper) {
	r.Register(f.src, func(*zap.Logger) scraper.Scraper { return f })
}

func newEngine(t *testing.T, fakes ...*fakeScraper) *engine.Engine {
	t.Helper()

	registry := scraper.NewRegistry()
	for _, f := range fakes {
		register(registry, f)
	}
	return engine.New(registry, engine.Config{
		Session: session.Config{RequestDelay: time.Millisecond},
	}, zap.NewNop())
}

func rawJob(src domain.Source, title, company string, posted *time.Time) domain.RawJob {
	return domain.RawJob{
		Source:     src,
		Title:      title,
		Company:    company,
		JobURL:     "https://example.com/" + string(src) + "/" + title,
		DatePosted: posted,
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func baseSpec() domain.SearchSpec {
	return domain.SearchSpec{
		SearchTerm:    "engineer",
		Sites:         []domain.Source{domain.SourceGupy, domain.SourceWellfound},
		ResultsWanted: 10,
	}
}

func TestRun_Completed(t *testing.T) {
	t.Parallel()

	older := timePtr(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	newer := timePtr(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	eng := newEngine(t,
		&fakeScraper{src: domain.SourceGupy, jobs: []domain.RawJob{
			rawJob(domain.SourceGupy, "Backend Dev", "Acme", older),
			rawJob(domain.SourceGupy, "Data Engineer", "Beta", newer),
		}},
		&fakeScraper{src: domain.SourceWellfound, jobs: []domain.RawJob{
			rawJob(domain.SourceWellfound, "Platform Engineer", "Gamma", nil),
		}},
	)

	result, err := eng.Run(context.Background(), baseSpec())
	require.NoError(t, err)

	assert.Equal(t, engine.StatusCompleted, result.Status)
	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Jobs, 3)

	// Source groups in identifier order, newest first within a group.
	assert.Equal(t, "Data Engineer", result.Jobs[0].Title)
	assert.Equal(t, "Backend Dev", result.Jobs[1].Title)
	assert.Equal(t, "Platform Engineer", result.Jobs[2].Title)

	assert.Equal(t, 2, result.Sources[domain.SourceGupy].Jobs)
	assert.Equal(t, 1, result.Sources[domain.SourceWellfound].Jobs)
	assert.Empty(t, result.Sources[domain.SourceGupy].Error)
}

func TestRun_DeduplicatesAcrossSources(t *testing.T) {
	t.Parallel()

	eng := newEngine(t,
		&fakeScraper{src: domain.SourceGupy, jobs: []domain.RawJob{
			rawJob(domain.SourceGupy, "Backend Dev", "Acme", nil),
		}},
		&fakeScraper{src: domain.SourceWellfound, jobs: []domain.RawJob{
			rawJob(domain.SourceWellfound, "Backend Dev", "Acme", nil),
		}},
	)

	result, err := eng.Run(context.Background(), baseSpec())
	require.NoError(t, err)

	require.Len(t, result.Jobs, 1)
	assert.Equal(t, domain.SourceGupy, result.Jobs[0].Source, "first occurrence in request order wins")
	assert.Equal(t, 1, result.Duplicates)
}

func TestRun_Truncation(t *testing.T) {
	t.Parallel()

	var jobs []domain.RawJob
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		jobs = append(jobs, rawJob(domain.SourceGupy, title, "Acme", nil))
	}
	eng := newEngine(t, &fakeScraper{src: domain.SourceGupy, jobs: jobs})

	spec := baseSpec()
	spec.Sites = []domain.Source{domain.SourceGupy}
	spec.ResultsWanted = 2

	result, err := eng.Run(context.Background(), spec)
	require.NoError(t, err)
	assert.Len(t, result.Jobs, 2)
}

func TestRun_PartialFailure(t *testing.T) {
	t.Parallel()

	eng := newEngine(t,
		&fakeScraper{src: domain.SourceGupy, jobs: []domain.RawJob{
			rawJob(domain.SourceGupy, "Backend Dev", "Acme", nil),
		}},
		&fakeScraper{
			src: domain.SourceWellfound,
			err: scraper.NewError(domain.SourceWellfound, scraper.KindBlocked, context.DeadlineExceeded),
		},
	)

	result, err := eng.Run(context.Background(), baseSpec())
	require.NoError(t, err)

	assert.Equal(t, engine.StatusPartiallyFailed, result.Status)
	assert.Len(t, result.Jobs, 1)
	assert.Equal(t, scraper.KindBlocked, result.Sources[domain.SourceWellfound].Kind)
	assert.NotEmpty(t, result.Sources[domain.SourceWellfound].Error)
}

func TestRun_AllSourcesFailed(t *testing.T) {
	t.Parallel()

	eng := newEngine(t,
		&fakeScraper{src: domain.SourceGupy, err: scraper.NewError(domain.SourceGupy, scraper.KindNetwork, context.DeadlineExceeded)},
		&fakeScraper{src: domain.SourceWellfound, err: scraper.NewError(domain.SourceWellfound, scraper.KindBlocked, context.DeadlineExceeded)},
	)

	_, err := eng.Run(context.Background(), baseSpec())
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrAllSourcesFailed)
}

func TestRun_PartialJobsFromFailedSourcesAreKept(t *testing.T) {
	t.Parallel()

	// Both sources failed, but one got jobs out before failing; the run
	// still produces a result.
	eng := newEngine(t,
		&fakeScraper{
			src:  domain.SourceGupy,
			jobs: []domain.RawJob{rawJob(domain.SourceGupy, "Backend Dev", "Acme", nil)},
			err:  scraper.NewError(domain.SourceGupy, scraper.KindBlocked, context.DeadlineExceeded),
		},
		&fakeScraper{src: domain.SourceWellfound, err: scraper.NewError(domain.SourceWellfound, scraper.KindBlocked, context.DeadlineExceeded)},
	)

	result, err := eng.Run(context.Background(), baseSpec())
	require.NoError(t, err)
	assert.Equal(t, engine.StatusPartiallyFailed, result.Status)
	assert.Len(t, result.Jobs, 1)
}

func TestRun_InvalidSpec(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, &fakeScraper{src: domain.SourceGupy})

	tests := []struct {
		name   string
		mutate func(*domain.SearchSpec)
	}{
		{"empty term", func(s *domain.SearchSpec) { s.SearchTerm = "" }},
		{"unknown source", func(s *domain.SearchSpec) { s.Sites = []domain.Source{"monster"} }},
		{"bad proxy", func(s *domain.SearchSpec) { s.Proxies = []string{"::"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			spec := baseSpec()
			spec.Sites = []domain.Source{domain.SourceGupy}
			tt.mutate(&spec)

			_, err := eng.Run(context.Background(), spec)
			require.Error(t, err)
			assert.ErrorIs(t, err, engine.ErrInvalidSpec)
		})
	}
}

func TestRun_SourceTimeout(t *testing.T) {
	t.Parallel()

	registry := scraper.NewRegistry()
	register(registry, &fakeScraper{src: domain.SourceGupy, waitForCtx: true})

	eng := engine.New(registry, engine.Config{
		SourceTimeout: 20 * time.Millisecond,
		Session:       session.Config{RequestDelay: time.Millisecond},
	}, zap.NewNop())

	spec := baseSpec()
	spec.Sites = []domain.Source{domain.SourceGupy}

	_, err := eng.Run(context.Background(), spec)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrAllSourcesFailed)
}

func TestRun_SourceTimeoutKindRecorded(t *testing.T) {
	t.Parallel()

	registry := scraper.NewRegistry()
	register(registry, &fakeScraper{src: domain.SourceGupy, waitForCtx: true})
	register(registry, &fakeScraper{src: domain.SourceWellfound, jobs: []domain.RawJob{
		rawJob(domain.SourceWellfound, "Backend Dev", "Acme", nil),
	}})

	eng := engine.New(registry, engine.Config{
		SourceTimeout: 20 * time.Millisecond,
		Session:       session.Config{RequestDelay: time.Millisecond},
	}, zap.NewNop())

	result, err := eng.Run(context.Background(), baseSpec())
	require.NoError(t, err)

	assert.Equal(t, engine.StatusPartiallyFailed, result.Status)
	assert.Equal(t, scraper.KindTimeout, result.Sources[domain.SourceGupy].Kind)
	assert.Len(t, result.Jobs, 1)
}
