// Package engine orchestrates one search run: it fans the spec out to
// every requested source concurrently, gives each source its own
// session, and merges what comes back into a single deduplicated,
// ordered result set.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/project-tktt/go-jobspy/internal/domain"
	"github.com/project-tktt/go-jobspy/internal/scraper"
	"github.com/project-tktt/go-jobspy/internal/session"
)

// Run-level failures. Per-source failures never surface here; they ride
// on the result's source stats.
var (
	ErrInvalidSpec      = errors.New("invalid search spec")
	ErrAllSourcesFailed = errors.New("all sources failed")
)

// Status summarizes how a run ended when it produced a result at all.
type Status string

const (
	StatusCompleted       Status = "completed"
	StatusPartiallyFailed Status = "partially_failed"
)

// SourceStats is the per-source accounting attached to a result.
type SourceStats struct {
	Jobs     int           `json:"jobs"`
	Pages    int           `json:"pages"`
	Requests int           `json:"requests"`
	Elapsed  time.Duration `json:"elapsed"`
	Error    string        `json:"error,omitempty"`
	Kind     scraper.Kind  `json:"error_kind,omitempty"`
}

// Result is the outcome of one run.
type Result struct {
	RunID      string                        `json:"run_id"`
	Status     Status                        `json:"status"`
	Jobs       []domain.JobPost              `json:"jobs"`
	Duplicates int                           `json:"duplicates"`
	Elapsed    time.Duration                 `json:"elapsed"`
	Sources    map[domain.Source]SourceStats `json:"sources"`
	Proxy      session.Counters              `json:"proxy"`
}

// Config holds engine-level knobs shared by every run.
type Config struct {
	// SourceTimeout bounds each source task. Zero disables the per-source
	// deadline and leaves only the caller's context.
	SourceTimeout time.Duration
	// Session is the base network configuration; the spec's proxies and
	// CA cert are layered on top per run.
	Session session.Config
}

// Engine runs searches against its registry of source adapters.
type Engine struct {
	registry *scraper.Registry
	cfg      Config
	log      *zap.Logger
}

func New(registry *scraper.Registry, cfg Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{registry: registry, cfg: cfg, log: log}
}

// Run executes one search. The spec is validated up front and rejected
// with ErrInvalidSpec before any network traffic; after that every
// source runs to completion regardless of sibling failures, and only a
// run where no source succeeded returns ErrAllSourcesFailed.
func (e *Engine) Run(ctx context.Context, spec domain.SearchSpec) (*Result, error) {
	spec = spec.Normalize()
	if err := spec.Validate(e.registry.Sources()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	if _, err := session.ParseProxies(spec.Proxies); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}

	runID := uuid.NewString()
	log := e.log.With(zap.String("run_id", runID))
	log.Info("run starting",
		zap.String("search_term", spec.SearchTerm),
		zap.String("location", spec.Location),
		zap.Int("sources", len(spec.Sites)),
		zap.Int("results_wanted", spec.ResultsWanted))

	started := time.Now()
	raws := make([]scraper.RawResult, len(spec.Sites))
	elapsed := make([]time.Duration, len(spec.Sites))
	sessions := make([]*session.Session, len(spec.Sites))

	g, gctx := errgroup.WithContext(ctx)
	for i, site := range spec.Sites {
		g.Go(func() error {
			raws[i], sessions[i], elapsed[i] = e.runSource(gctx, site, spec, log)
			return nil
		})
	}
	// Tasks never return errors; Wait is just the join point.
	_ = g.Wait()

	result := &Result{
		RunID:   runID,
		Status:  StatusCompleted,
		Sources: make(map[domain.Source]SourceStats, len(spec.Sites)),
		Elapsed: time.Since(started),
	}

	failures := 0
	for i, site := range spec.Sites {
		raw := raws[i]
		stats := SourceStats{
			Jobs:     len(raw.Jobs),
			Pages:    raw.Pages,
			Requests: raw.Requests,
			Elapsed:  elapsed[i],
		}
		if raw.Err != nil {
			failures++
			stats.Error = raw.Err.Error()
			stats.Kind = raw.Err.Kind
			log.Warn("source failed",
				zap.String("source", string(site)),
				zap.String("kind", string(raw.Err.Kind)),
				zap.Error(raw.Err.Err))
		}
		result.Sources[site] = stats
		if sessions[i] != nil {
			c := sessions[i].Counters()
			result.Proxy.Requests += c.Requests
			result.Proxy.Rotations += c.Rotations
			result.Proxy.Blocked += c.Blocked
		}
	}

	result.Jobs, result.Duplicates = aggregate(spec, raws)

	if failures > 0 {
		result.Status = StatusPartiallyFailed
	}
	if failures == len(spec.Sites) && len(result.Jobs) == 0 {
		return nil, fmt.Errorf("%w: %d sources, 0 postings", ErrAllSourcesFailed, failures)
	}

	log.Info("run finished",
		zap.String("status", string(result.Status)),
		zap.Int("jobs", len(result.Jobs)),
		zap.Int("duplicates", result.Duplicates),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

// runSource executes one source task: fresh session, optional deadline,
// and the adapter's Scrape. A session construction failure is reported
// like any other source failure so siblings keep running.
func (e *Engine) runSource(ctx context.Context, site domain.Source, spec domain.SearchSpec, log *zap.Logger) (scraper.RawResult, *session.Session, time.Duration) {
	started := time.Now()

	factory, ok := e.registry.Lookup(site)
	if !ok {
		// Validate checked registration; this only fires on a racy
		// registry mutation, which Register's contract forbids.
		return scraper.RawResult{
			Source: site,
			Err:    scraper.NewError(site, scraper.KindNetwork, fmt.Errorf("source %q not registered", site)),
		}, nil, time.Since(started)
	}

	sessCfg := e.cfg.Session
	sessCfg.Proxies = spec.Proxies
	if spec.CACert != "" {
		sessCfg.CACert = spec.CACert
	}
	sess, err := session.New(sessCfg, log.With(zap.String("source", string(site))))
	if err != nil {
		return scraper.RawResult{
			Source: site,
			Err:    scraper.NewError(site, scraper.KindNetwork, err),
		}, nil, time.Since(started)
	}

	if e.cfg.SourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.SourceTimeout)
		defer cancel()
	}

	raw := factory(log).Scrape(ctx, spec, sess)
	if raw.Err == nil && ctx.Err() != nil {
		raw.Err = scraper.NewError(site, scraper.KindTimeout, ctx.Err())
	}
	// A timed-out task reports the timeout, not a partial result. Other
	// failure kinds keep whatever was fetched before the failure.
	if raw.Err != nil && raw.Err.Kind == scraper.KindTimeout {
		raw.Jobs = nil
	}
	return raw, sess, time.Since(started)
}
