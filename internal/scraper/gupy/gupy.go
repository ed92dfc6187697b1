// Package gupy scrapes Gupy.io, the Brazilian ATS portal, through its
// public job-search API. Postings come back newest-first, which makes
// the age cutoff a valid early-exit signal during pagination.
package gupy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/project-tktt/go-jobspy/internal/domain"
	"github.com/project-tktt/go-jobspy/internal/scraper"
	"github.com/project-tktt/go-jobspy/internal/session"
)

const (
	defaultBaseURL     = "https://employability-portal.gupy.io"
	defaultMaxRequests = 10
	defaultPageLimit   = 50
	defaultCountry     = "Brasil"
)

// Scraper implements the structured-API adapter variant for Gupy.
type Scraper struct {
	cfg Config
	log *zap.Logger
}

// New builds a Gupy scraper with default configuration.
func New(log *zap.Logger) scraper.Scraper {
	return NewWithConfig(Config{}, log)
}

func NewWithConfig(cfg Config, log *zap.Logger) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = defaultMaxRequests
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = defaultPageLimit
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scraper{cfg: cfg, log: log.With(zap.String("source", string(domain.SourceGupy)))}
}

func (s *Scraper) Source() domain.Source { return domain.SourceGupy }

// Scrape pages through the search API until it has the requested result
// count, hits an empty page, crosses the age cutoff, or exhausts the
// request budget.
func (s *Scraper) Scrape(ctx context.Context, spec domain.SearchSpec, sess *session.Session) scraper.RawResult {
	result := scraper.RawResult{Source: domain.SourceGupy}

	limit := s.cfg.PageLimit
	if spec.ResultsWanted < limit {
		limit = spec.ResultsWanted
	}
	cutoff := spec.MaxAge(time.Now())
	seen := make(map[string]bool)

	offset := 0
	for req := 0; req < s.cfg.MaxRequests && len(result.Jobs) < spec.ResultsWanted; req++ {
		s.log.Debug("fetching page", zap.Int("offset", offset), zap.Int("limit", limit))

		page, err := s.fetchPage(ctx, spec, sess, offset, limit)
		result.Requests++
		if err != nil {
			result.Err = s.classify(ctx, err)
			break
		}
		result.Pages++

		if len(page.Data) == 0 {
			s.log.Debug("empty page, stopping", zap.Int("offset", offset))
			break
		}

		crossedCutoff := false
		for _, item := range page.Data {
			posted := item.publishedAt()
			if !cutoff.IsZero() && posted != nil && posted.Before(cutoff) {
				// Source-ordered newest-first, so everything after
				// this point is older still.
				crossedCutoff = true
				break
			}

			raw, ok := s.toRawJob(item, posted)
			if !ok || seen[raw.JobURL] {
				continue
			}
			seen[raw.JobURL] = true

			if !matchesLocation(spec.Location, item) {
				continue
			}

			if spec.FetchDescription && raw.Description == "" {
				raw.Description = s.fetchDescription(ctx, sess, raw.JobURL)
			}

			result.Jobs = append(result.Jobs, raw)
			if len(result.Jobs) >= spec.ResultsWanted {
				break
			}
		}
		if crossedCutoff {
			s.log.Debug("age cutoff crossed, stopping")
			break
		}

		offset += limit
	}

	s.log.Info("scrape finished",
		zap.Int("jobs", len(result.Jobs)), zap.Int("pages", result.Pages))
	return result
}

func (s *Scraper) fetchPage(ctx context.Context, spec domain.SearchSpec, sess *session.Session, offset, limit int) (*apiResponse, error) {
	params := url.Values{}
	params.Set("jobName", spec.SearchTerm)
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("offset", fmt.Sprintf("%d", offset))

	resp, err := sess.Get(ctx, s.cfg.BaseURL+"/api/v1/jobs?"+params.Encode(), map[string]string{
		"Accept":          "application/json",
		"Accept-Language": "pt-BR,pt;q=0.9,en;q=0.8",
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var page apiResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, &parseError{err}
	}
	return &page, nil
}

// toRawJob converts one API record. Records without a title or any way
// to reach the posting are dropped.
func (s *Scraper) toRawJob(item apiJob, posted *time.Time) (domain.RawJob, bool) {
	if strings.TrimSpace(item.Name) == "" || item.JobURL == "" {
		return domain.RawJob{}, false
	}

	country := item.Country
	if country == "" {
		country = defaultCountry
	}

	jobTypeRaw := item.Type
	if jobTypeRaw == "" {
		jobTypeRaw = item.WorkplaceType
	}

	return domain.RawJob{
		ID:          fmt.Sprintf("gupy-%d", item.ID),
		Source:      domain.SourceGupy,
		Title:       item.Name,
		Company:     item.CareerPageName,
		City:        item.City,
		State:       item.State,
		Country:     country,
		LocationRaw: strings.TrimSpace(strings.Join([]string{item.City, item.State}, " ")),
		JobTypeRaw:  jobTypeRaw,
		DatePosted:  posted,
		JobURL:      item.JobURL,
		DirectURL:   item.CareerPageURL,
		Description: item.Description,
		RemoteHint:  item.IsRemoteWork || isRemoteWorkplace(item.WorkplaceType),
		ExtractedAt: time.Now(),
	}, true
}

// fetchDescription is the optional secondary fetch: one extra request
// per posting, so it only runs when the caller asked for it.
func (s *Scraper) fetchDescription(ctx context.Context, sess *session.Session, jobURL string) string {
	resp, err := sess.Get(ctx, jobURL, nil)
	if err != nil {
		s.log.Debug("description fetch failed", zap.String("url", jobURL), zap.Error(err))
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	for _, sel := range []string{
		"[data-testid='text-section']",
		"div[class*='description']",
		"section[class*='description']",
		"div[class*='content']",
	} {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if html, err := node.Html(); err == nil && strings.TrimSpace(html) != "" {
				return html
			}
		}
	}
	return ""
}

func (s *Scraper) classify(ctx context.Context, err error) *scraper.SourceError {
	switch {
	case ctx.Err() != nil:
		return scraper.NewError(domain.SourceGupy, scraper.KindTimeout, ctx.Err())
	case errors.Is(err, session.ErrBlocked):
		return scraper.NewError(domain.SourceGupy, scraper.KindBlocked, err)
	case isParseError(err):
		return scraper.NewError(domain.SourceGupy, scraper.KindParse, err)
	case strings.Contains(err.Error(), "unexpected status"):
		return scraper.NewError(domain.SourceGupy, scraper.KindStatus, err)
	default:
		return scraper.NewError(domain.SourceGupy, scraper.KindNetwork, err)
	}
}

// matchesLocation applies the client-side location filter: the search
// API has no location parameter, so filtering happens here. Broad
// country searches accept everything (Gupy is Brazil-wide by default).
func matchesLocation(wanted string, item apiJob) bool {
	wanted = strings.ToLower(strings.TrimSpace(wanted))
	if wanted == "" || wanted == "brasil" || wanted == "brazil" {
		return true
	}
	for _, field := range []string{item.City, item.State, item.City + " " + item.State} {
		if field != "" && strings.Contains(strings.ToLower(field), wanted) {
			return true
		}
	}
	return false
}

func isRemoteWorkplace(workplace string) bool {
	switch strings.ToLower(workplace) {
	case "remote", "remoto":
		return true
	}
	return false
}

type parseError struct{ err error }

func (e *parseError) Error() string { return fmt.Sprintf("parse response: %v", e.err) }
func (e *parseError) Unwrap() error { return e.err }

func isParseError(err error) bool {
	var pe *parseError
	return errors.As(err, &pe)
}
