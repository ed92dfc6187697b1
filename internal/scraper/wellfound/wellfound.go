// Package wellfound scrapes Wellfound (formerly AngelList Talent)
// listing pages. The site renders search results as HTML behind
// DataDome protection, so this adapter watches for block interstitials
// and reports them so the session can rotate its identity.
package wellfound

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/project-tktt/go-jobspy/internal/common/extractor"
	"github.com/project-tktt/go-jobspy/internal/domain"
	"github.com/project-tktt/go-jobspy/internal/scraper"
	"github.com/project-tktt/go-jobspy/internal/session"
)

const (
	defaultBaseURL   = "https://wellfound.com"
	defaultMaxPages  = 5
	defaultPageDelay = 2 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	descriptionSelector = `div[class*="description"]`
)

// Config holds Wellfound-specific knobs.
type Config struct {
	BaseURL   string
	MaxPages  int
	UserAgent string
	PageDelay time.Duration
}

type Scraper struct {
	cfg Config
	log *zap.Logger
}

// New builds a Wellfound scraper with default configuration.
func New(log *zap.Logger) scraper.Scraper {
	return NewWithConfig(Config{}, log)
}

func NewWithConfig(cfg Config, log *zap.Logger) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.PageDelay <= 0 {
		cfg.PageDelay = defaultPageDelay
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scraper{cfg: cfg, log: log.With(zap.String("source", string(domain.SourceWellfound)))}
}

func (s *Scraper) Source() domain.Source { return domain.SourceWellfound }

// Scrape walks the paginated listing for the search. Listing cards
// carry no posting date, so there is no age-based early exit here; the
// walk stops on the detected last page, the page cap, or once enough
// jobs are collected.
func (s *Scraper) Scrape(ctx context.Context, spec domain.SearchSpec, sess *session.Session) scraper.RawResult {
	result := scraper.RawResult{Source: domain.SourceWellfound}

	ext, err := extractor.NewCollyExtractor(domain.SourceWellfound, extractor.Selectors{
		Description: descriptionSelector,
	}, extractor.Config{
		UserAgent: s.cfg.UserAgent,
		Delay:     s.cfg.PageDelay,
	}, sess)
	if err != nil {
		result.Err = scraper.NewError(domain.SourceWellfound, scraper.KindNetwork, err)
		return result
	}

	base := searchURL(s.cfg.BaseURL, spec.SearchTerm, spec.Location)
	s.log.Debug("search url", zap.String("url", base))

	seen := make(map[string]bool)
	totalPages := s.cfg.MaxPages

	for page := 1; page <= totalPages && len(result.Jobs) < spec.ResultsWanted; page++ {
		listing, err := ext.ExtractList(ctx, pageURL(base, page))
		result.Requests++
		sess.CountRequest()
		if err != nil {
			result.Err = s.classify(ctx, sess, err, listing)
			break
		}
		result.Pages++

		if blocked(listing) {
			sess.MarkBlocked()
			result.Err = scraper.NewError(domain.SourceWellfound, scraper.KindBlocked,
				fmt.Errorf("block interstitial on page %d", page))
			break
		}

		if page == 1 {
			_, detected := parsePagination(listing.Body)
			if detected < totalPages {
				totalPages = detected
			}
			s.log.Debug("pagination detected", zap.Int("total_pages", detected))
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(listing.Body))
		if err != nil {
			result.Err = scraper.NewError(domain.SourceWellfound, scraper.KindParse, err)
			break
		}

		jobs := parseJobs(doc, s.cfg.BaseURL)
		if len(jobs) == 0 {
			s.log.Debug("no job cards on page, stopping", zap.Int("page", page))
			break
		}

		for _, job := range jobs {
			if seen[job.JobURL] {
				continue
			}
			seen[job.JobURL] = true

			if spec.FetchDescription {
				desc, err := ext.ExtractDescription(ctx, job.JobURL)
				result.Requests++
				sess.CountRequest()
				if err == nil {
					job.Description = desc
				}
			}

			result.Jobs = append(result.Jobs, job)
			if len(result.Jobs) >= spec.ResultsWanted {
				break
			}
		}
	}

	s.log.Info("scrape finished",
		zap.Int("jobs", len(result.Jobs)), zap.Int("pages", result.Pages))
	return result
}

func (s *Scraper) classify(ctx context.Context, sess *session.Session, err error, listing extractor.ListPage) *scraper.SourceError {
	switch {
	case ctx.Err() != nil:
		return scraper.NewError(domain.SourceWellfound, scraper.KindTimeout, ctx.Err())
	case listing.StatusCode == 403 || listing.StatusCode == 429:
		sess.MarkBlocked()
		return scraper.NewError(domain.SourceWellfound, scraper.KindBlocked, err)
	case listing.StatusCode >= 400:
		return scraper.NewError(domain.SourceWellfound, scraper.KindStatus, err)
	default:
		return scraper.NewError(domain.SourceWellfound, scraper.KindNetwork, err)
	}
}

// blocked detects a DataDome interstitial served with a 200: a page
// carrying the vendor markers but none of the listing content.
func blocked(listing extractor.ListPage) bool {
	body := strings.ToLower(listing.Body)
	if !strings.Contains(body, "datadome") && !strings.Contains(body, "captcha-delivery") {
		return false
	}
	return !strings.Contains(body, "results total")
}
