package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/project-tktt/go-jobspy/internal/config"
	"github.com/project-tktt/go-jobspy/internal/domain"
	"github.com/project-tktt/go-jobspy/internal/engine"
	"github.com/project-tktt/go-jobspy/internal/logger"
	"github.com/project-tktt/go-jobspy/internal/scraper"
	"github.com/project-tktt/go-jobspy/internal/scraper/gupy"
	"github.com/project-tktt/go-jobspy/internal/scraper/wellfound"
	"github.com/project-tktt/go-jobspy/internal/session"
)

type options struct {
	searchTerm       string
	location         string
	sites            []string
	results          int
	hoursOld         int
	fetchDescription bool
	country          string
	format           string
	proxies          []string
	caCert           string
	output           string
	verbose          int
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "jobspy",
		Short: "Search job postings across multiple sources",
		Long: `jobspy runs one search against every requested job source
concurrently, merges the postings into a single deduplicated list and
prints it as a table or JSON.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.searchTerm, "search", "s", "", "search term (required)")
	flags.StringVarP(&opts.location, "location", "l", "", "location filter")
	flags.StringSliceVar(&opts.sites, "sites", nil, "sources to search (default: all registered)")
	flags.IntVarP(&opts.results, "results", "n", domain.DefaultResultsWanted, "number of postings wanted")
	flags.IntVar(&opts.hoursOld, "hours-old", 0, "drop postings older than this many hours (0 = no cutoff)")
	flags.BoolVar(&opts.fetchDescription, "fetch-description", false, "fetch full descriptions (one extra request per posting)")
	flags.StringVar(&opts.country, "country", "", "default country for postings without one")
	flags.StringVar(&opts.format, "format", string(domain.FormatMarkdown), "description format: markdown, html or plain")
	flags.StringSliceVar(&opts.proxies, "proxy", nil, "proxy (repeatable); host:port, user:pass@host:port or host:port:user:pass")
	flags.StringVar(&opts.caCert, "ca-cert", "", "root certificate path for TLS-intercepting proxies")
	flags.StringVarP(&opts.output, "output", "o", "table", "output format: table or json")
	flags.CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (-v info, -vv debug)")

	_ = cmd.MarkFlagRequired("search")
	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	cfg := config.Load()
	log := logger.New(logger.Config{Verbose: opts.verbose, Encoding: cfg.Log.Encoding})
	defer log.Sync()

	registry := scraper.NewRegistry()
	registry.Register(domain.SourceGupy, gupy.New)
	registry.Register(domain.SourceWellfound, wellfound.New)

	sites := make([]domain.Source, 0, len(opts.sites))
	for _, s := range opts.sites {
		sites = append(sites, domain.Source(strings.ToLower(strings.TrimSpace(s))))
	}
	if len(sites) == 0 {
		sites = registry.Sources()
	}

	proxies := opts.proxies
	if len(proxies) == 0 {
		proxies = cfg.Session.Proxies
	}
	caCert := opts.caCert
	if caCert == "" {
		caCert = cfg.Session.CACert
	}

	spec := domain.SearchSpec{
		SearchTerm:       opts.searchTerm,
		Location:         opts.location,
		Sites:            sites,
		ResultsWanted:    opts.results,
		HoursOld:         opts.hoursOld,
		FetchDescription: opts.fetchDescription,
		Country:          opts.country,
		Format:           domain.DescriptionFormat(opts.format),
		Proxies:          proxies,
		CACert:           caCert,
		Verbose:          opts.verbose,
	}

	eng := engine.New(registry, engine.Config{
		SourceTimeout: cfg.Engine.SourceTimeout,
		Session: session.Config{
			UserAgent:    cfg.Session.UserAgent,
			MaxAttempts:  cfg.Session.MaxAttempts,
			RequestDelay: cfg.Session.RequestDelay,
			BackoffBase:  cfg.Session.BackoffBase,
			BackoffCap:   cfg.Session.BackoffCap,
			Timeout:      cfg.Session.Timeout,
		},
	}, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := eng.Run(ctx, spec)
	if err != nil {
		return err
	}

	switch opts.output {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "table":
		printTable(os.Stdout, result)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", opts.output)
	}
}
