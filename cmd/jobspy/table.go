package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/project-tktt/go-jobspy/internal/domain"
	"github.com/project-tktt/go-jobspy/internal/engine"
)

// printTable renders the run result as two tables: the postings and a
// per-source stats summary.
func printTable(w io.Writer, result *engine.Result) {
	jobs := table.NewWriter()
	jobs.SetOutputMirror(w)
	jobs.AppendHeader(table.Row{"#", "Source", "Title", "Company", "Location", "Posted", "Salary", "URL"})
	jobs.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: 40},
		{Name: "Company", WidthMax: 25},
		{Name: "Location", WidthMax: 25},
		{Name: "URL", WidthMax: 50},
	})

	for i, job := range result.Jobs {
		jobs.AppendRow(table.Row{
			i + 1,
			job.Source,
			job.Title,
			job.Company,
			displayLocation(job),
			displayDate(job),
			displaySalary(job.Compensation),
			job.JobURL,
		})
	}
	jobs.SetStyle(table.StyleLight)
	jobs.Render()

	stats := table.NewWriter()
	stats.SetOutputMirror(w)
	stats.AppendHeader(table.Row{"Source", "Jobs", "Pages", "Requests", "Elapsed", "Error"})

	sources := make([]domain.Source, 0, len(result.Sources))
	for src := range result.Sources {
		sources = append(sources, src)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })

	for _, src := range sources {
		s := result.Sources[src]
		errText := ""
		if s.Kind != "" {
			errText = string(s.Kind)
		}
		stats.AppendRow(table.Row{src, s.Jobs, s.Pages, s.Requests, s.Elapsed.Round(10 * time.Millisecond), errText})
	}
	stats.AppendFooter(table.Row{
		"total", len(result.Jobs), "", "",
		result.Elapsed.Round(10 * time.Millisecond),
		fmt.Sprintf("%d duplicates dropped", result.Duplicates),
	})
	stats.SetStyle(table.StyleLight)
	stats.Style().Format.Footer = text.FormatDefault
	stats.Render()

	fmt.Fprintf(w, "run %s: %s\n", result.RunID, result.Status)
}

func displayLocation(job domain.JobPost) string {
	loc := job.Location.Display()
	if job.IsRemote {
		if loc == "" {
			return "Remote"
		}
		return loc + " (Remote)"
	}
	return loc
}

func displayDate(job domain.JobPost) string {
	if job.DatePosted == nil {
		return ""
	}
	return job.DatePosted.Format("2006-01-02")
}

func displaySalary(c *domain.Compensation) string {
	if c == nil {
		return ""
	}
	out := ""
	if c.MinAmount == c.MaxAmount {
		out = fmt.Sprintf("%s %.0f", c.Currency, c.MinAmount)
	} else {
		out = fmt.Sprintf("%s %.0f-%.0f", c.Currency, c.MinAmount, c.MaxAmount)
	}
	if c.Interval != "" {
		out += "/" + intervalShort(c.Interval)
	}
	return out
}

func intervalShort(i domain.CompensationInterval) string {
	switch i {
	case domain.IntervalYearly:
		return "yr"
	case domain.IntervalMonthly:
		return "mo"
	case domain.IntervalWeekly:
		return "wk"
	case domain.IntervalDaily:
		return "day"
	case domain.IntervalHourly:
		return "hr"
	}
	return string(i)
}
