package wellfound

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/project-tktt/go-jobspy/internal/domain"
)

const resultsPerPage = 25

var (
	jobLinkRe   = regexp.MustCompile(`/jobs/(\d+)-`)
	slugCleanRe = regexp.MustCompile(`[^\w\s-]`)
	slugDashRe  = regexp.MustCompile(`[\s-]+`)

	// Wellfound renders "Page 2 of 5" with React comment nodes spliced
	// between the words, so match with and without them.
	pageCountRe   = regexp.MustCompile(`Page\s*(?:<!--[^>]*-->\s*)?(\d+)\s*(?:<!--[^>]*-->\s*)?of\s*(?:<!--[^>]*-->\s*)?(\d+)`)
	resultTotalRe = regexp.MustCompile(`(\d+)\s+results\s+total`)

	salaryTextRe = regexp.MustCompile(`[$€£]\s?\d`)
)

// slugify turns free text into the dash-separated form Wellfound URLs
// use ("Software Engineer" -> "software-engineer").
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugCleanRe.ReplaceAllString(s, "")
	s = slugDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// searchURL builds the listing URL for a search. Remote searches use
// the /remote/ path, everything else the role-plus-location path.
func searchURL(baseURL, searchTerm, location string) string {
	title := slugify(searchTerm)
	if title == "" {
		title = "software-engineer"
	}

	loc := slugify(location)
	if strings.Contains(strings.ToLower(location), "remote") {
		return fmt.Sprintf("%s/remote/%s-jobs", baseURL, title)
	}
	if loc == "" {
		return fmt.Sprintf("%s/role/%s", baseURL, title)
	}
	return fmt.Sprintf("%s/role/l/%s/%s", baseURL, title, loc)
}

func pageURL(base string, page int) string {
	if page <= 1 {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%spage=%d", base, sep, page)
}

// parsePagination reads the page counter out of a listing page. When
// the counter is missing it estimates from the result total, and when
// that is missing too it assumes a single page.
func parsePagination(body string) (current, total int) {
	if m := pageCountRe.FindStringSubmatch(body); m != nil {
		current, _ = strconv.Atoi(m[1])
		total, _ = strconv.Atoi(m[2])
		return current, total
	}
	if m := resultTotalRe.FindStringSubmatch(body); m != nil {
		results, _ := strconv.Atoi(m[1])
		total = (results + resultsPerPage - 1) / resultsPerPage
		if total < 1 {
			total = 1
		}
		return 1, total
	}
	return 1, 1
}

// parseJobs extracts job cards from a listing page. Wellfound groups
// several postings under one company block, so each job link walks up
// the tree to find its company and nearby detail spans.
func parseJobs(doc *goquery.Document, baseURL string) []domain.RawJob {
	var jobs []domain.RawJob
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		m := jobLinkRe.FindStringSubmatch(href)
		if m == nil || seen[m[1]] {
			return
		}
		seen[m[1]] = true

		title := cleanCardText(link.Text())
		if title == "" {
			return
		}

		job := domain.RawJob{
			ID:          "wellfound-" + m[1],
			Source:      domain.SourceWellfound,
			Title:       title,
			JobURL:      absoluteURL(baseURL, href),
			ExtractedAt: time.Now(),
		}

		job.Company = companyForJob(link)
		fillCardDetails(link, &job)
		jobs = append(jobs, job)
	})

	return jobs
}

// companyForJob walks up from a job link looking for the company link
// of the surrounding company block.
func companyForJob(link *goquery.Selection) string {
	container := link.Parent()
	for depth := 0; depth < 10 && container.Length() > 0; depth++ {
		name := ""
		container.Find(`a[href^="/company/"]`).EachWithBreak(func(_ int, c *goquery.Selection) bool {
			if text := cleanCardText(c.Text()); text != "" {
				name = text
				return false
			}
			if h2 := c.Find("h2").First(); h2.Length() > 0 {
				if text := cleanCardText(h2.Text()); text != "" {
					name = text
					return false
				}
			}
			return true
		})
		if name != "" {
			return name
		}
		container = container.Parent()
	}
	return ""
}

// fillCardDetails scans the card container around a job link for the
// short detail spans Wellfound renders next to the title: location,
// employment type and the compensation band.
func fillCardDetails(link *goquery.Selection, job *domain.RawJob) {
	container := link.Parent()
	for depth := 0; depth < 5 && container.Length() > 0; depth++ {
		container.Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
			text := cleanCardText(span.Text())
			if text == "" || len(text) > 80 {
				return true
			}
			switch {
			case job.JobTypeRaw == "" && isJobTypeText(text):
				job.JobTypeRaw = text
			case job.SalaryText == "" && salaryTextRe.MatchString(text):
				job.SalaryText = text
			case job.LocationRaw == "" && spanIsLocation(span):
				job.LocationRaw = text
				if strings.Contains(strings.ToLower(text), "remote") {
					job.RemoteHint = true
				}
			}
			return job.LocationRaw == "" || job.JobTypeRaw == "" || job.SalaryText == ""
		})
		if job.LocationRaw != "" && job.JobTypeRaw != "" && job.SalaryText != "" {
			return
		}
		container = container.Parent()
	}
}

func spanIsLocation(span *goquery.Selection) bool {
	class, _ := span.Attr("class")
	return strings.Contains(class, "pl-1")
}

func isJobTypeText(text string) bool {
	switch strings.ToLower(text) {
	case "full-time", "part-time", "contract", "internship":
		return true
	}
	return false
}

func cleanCardText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func absoluteURL(baseURL, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
