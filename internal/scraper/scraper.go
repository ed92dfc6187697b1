package scraper

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/project-tktt/go-jobspy/internal/domain"
	"github.com/project-tktt/go-jobspy/internal/session"
)

// RawResult is one source's payload before normalization: the raw
// records plus an optional typed failure when the fetch was partial or
// failed outright. It is owned by the task that produced it.
type RawResult struct {
	Source domain.Source
	Jobs   []domain.RawJob
	Err    *SourceError

	// Fetch accounting for the stats summary
	Pages    int
	Requests int
}

// Scraper is the per-source adapter contract. Each variant owns its
// pagination strategy, request construction, response parsing, and
// blocked-detection heuristic. Scrape never panics and never returns a
// bare error: failures ride on RawResult.Err so sibling sources keep
// running.
type Scraper interface {
	Scrape(ctx context.Context, spec domain.SearchSpec, sess *session.Session) RawResult
	Source() domain.Source
}

// Factory builds a fresh adapter instance for one invocation.
type Factory func(log *zap.Logger) Scraper

// Registry is the closed set of known source adapters. Adding a source
// means adding a variant package and one Register call, never touching
// the orchestrator.
type Registry struct {
	factories map[domain.Source]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[domain.Source]Factory)}
}

// Register adds a source variant. Last registration wins.
func (r *Registry) Register(src domain.Source, f Factory) {
	r.factories[src] = f
}

// Lookup returns the factory for src, or false when unknown.
func (r *Registry) Lookup(src domain.Source) (Factory, bool) {
	f, ok := r.factories[src]
	return f, ok
}

// Sources lists registered source identifiers in sorted order.
func (r *Registry) Sources() []domain.Source {
	out := make([]domain.Source, 0, len(r.factories))
	for src := range r.factories {
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
