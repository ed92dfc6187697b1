package extractor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/project-tktt/go-jobspy/internal/domain"
	"github.com/project-tktt/go-jobspy/internal/session"
)

// CollyExtractor scrapes listing pages with Colly. Egress goes through
// the owning source task's session so proxy rotation and cooldowns
// apply to rendered-page sources too.
type CollyExtractor struct {
	collector *colly.Collector
	source    domain.Source
	selectors Selectors
}

// NewCollyExtractor builds an extractor bound to one source's selectors
// and session.
func NewCollyExtractor(source domain.Source, selectors Selectors, cfg Config, sess *session.Session) (*CollyExtractor, error) {
	opts := []colly.CollectorOption{colly.AllowURLRevisit()}
	if cfg.UserAgent != "" {
		opts = append(opts, colly.UserAgent(cfg.UserAgent))
	}
	c := colly.NewCollector(opts...)

	if cfg.Delay > 0 {
		err := c.Limit(&colly.LimitRule{
			DomainGlob:  "*",
			Delay:       cfg.Delay,
			RandomDelay: cfg.Delay / 2,
		})
		if err != nil {
			return nil, fmt.Errorf("configure rate limit: %w", err)
		}
	}
	if sess != nil {
		c.SetProxyFunc(sess.ProxyFunc)
	}

	return &CollyExtractor{collector: c, source: source, selectors: selectors}, nil
}

// ListPage is the outcome of one listing-page visit: the extracted
// cards plus the page body for source-specific inspection (pagination
// markers, block interstitials).
type ListPage struct {
	Jobs       []domain.RawJob
	Body       string
	StatusCode int
}

// ExtractList visits one listing page and extracts its job cards.
func (e *CollyExtractor) ExtractList(ctx context.Context, pageURL string) (ListPage, error) {
	if err := ctx.Err(); err != nil {
		return ListPage{}, err
	}

	var page ListPage
	var visitErr error

	collector := e.collector.Clone()
	// Ties the in-flight fetch to the caller's deadline.
	collector.Context = ctx

	collector.OnResponse(func(r *colly.Response) {
		page.Body = string(r.Body)
		page.StatusCode = r.StatusCode
	})

	if e.selectors.JobItem != "" {
		collector.OnHTML(e.selectors.JobItem, func(el *colly.HTMLElement) {
			link := el.ChildAttr(e.selectors.JobLink, "href")
			if link == "" {
				link = el.Attr("href")
			}
			if link != "" && !strings.HasPrefix(link, "http") {
				link = el.Request.AbsoluteURL(link)
			}

			job := domain.RawJob{
				Source:      e.source,
				JobURL:      link,
				ExtractedAt: time.Now(),
			}
			if e.selectors.Title != "" {
				job.Title = strings.TrimSpace(el.ChildText(e.selectors.Title))
			}
			if e.selectors.Company != "" {
				job.Company = strings.TrimSpace(el.ChildText(e.selectors.Company))
			}
			if e.selectors.Location != "" {
				job.LocationRaw = strings.TrimSpace(el.ChildText(e.selectors.Location))
			}
			if e.selectors.Salary != "" {
				job.SalaryText = strings.TrimSpace(el.ChildText(e.selectors.Salary))
			}

			page.Jobs = append(page.Jobs, job)
		})
	}

	collector.OnError(func(r *colly.Response, err error) {
		page.StatusCode = r.StatusCode
		if r.Body != nil {
			page.Body = string(r.Body)
		}
		visitErr = fmt.Errorf("fetch %s: %w (status %d)", pageURL, err, r.StatusCode)
	})

	if err := collector.Visit(pageURL); err != nil && visitErr == nil {
		visitErr = fmt.Errorf("visit %s: %w", pageURL, err)
	}
	collector.Wait()

	return page, visitErr
}

// ExtractDescription visits a detail page and returns the description
// HTML selected by the source's Description selector.
func (e *CollyExtractor) ExtractDescription(ctx context.Context, pageURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if e.selectors.Description == "" {
		return "", nil
	}

	var desc string
	var visitErr error

	collector := e.collector.Clone()
	collector.Context = ctx
	collector.OnHTML(e.selectors.Description, func(el *colly.HTMLElement) {
		if desc == "" {
			html, _ := el.DOM.Html()
			desc = html
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		visitErr = fmt.Errorf("fetch %s: %w (status %d)", pageURL, err, r.StatusCode)
	})

	if err := collector.Visit(pageURL); err != nil && visitErr == nil {
		visitErr = fmt.Errorf("visit %s: %w", pageURL, err)
	}
	collector.Wait()

	return desc, visitErr
}
