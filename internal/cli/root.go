// Package cli implements the seoaudit command, a one-shot terminal front end
// to the analysis pipeline.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/analyzer"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/model"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/platform/config"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/platform/logger"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/platform/metrics"
)

// ProviderFactory builds the analysis engine for a resolved configuration.
type ProviderFactory func(cfg config.Config) analyzer.PageInsightProvider

type rootOptions struct {
	rendered bool
	report   string
	top      int
	timeout  time.Duration
	noBanner bool
}

// NewRootCmd returns the seoaudit command. Configuration is read the same way
// the API server reads it; flags override it for this run.
func NewRootCmd(newProvider ProviderFactory) *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "seoaudit <url>",
		Short:         "Analyse the on-page SEO of a single URL",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), newProvider, opts, args[0], cmd.Flags().Changed)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&opts.rendered, "rendered", "r", false, "render the page in headless Chrome before analysing")
	f.StringVarP(&opts.report, "report", "o", "", "write the text report to this path (default from REPORT_PATH)")
	f.IntVarP(&opts.top, "top", "n", 0, "number of top keywords to report (default from KEYWORD_TOP_N)")
	f.DurationVarP(&opts.timeout, "timeout", "t", 90*time.Second, "overall deadline for the analysis")
	f.BoolVar(&opts.noBanner, "no-banner", false, "skip the ASCII banner")

	return cmd
}

func run(ctx context.Context, out io.Writer, newProvider ProviderFactory, opts rootOptions, target string, changed func(string) bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if changed("report") {
		cfg.ReportPath = opts.report
	}
	if changed("top") {
		cfg.KeywordTopN = opts.top
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	mode := model.FetchMode(cfg.FetchMode)
	if opts.rendered {
		mode = model.FetchRendered
	}

	log := logger.New(logger.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	svc := analyzer.NewService(newProvider(cfg), metrics.New(prometheus.NewRegistry()), log, analyzer.Options{
		DefaultMode: mode,
		ReportPath:  cfg.ReportPath,
	})

	if !opts.noBanner {
		printBanner(out)
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	res, err := svc.Analyze(ctx, target, mode)
	if err != nil {
		return fmt.Errorf("analyse %s: %w", target, err)
	}

	printSummary(out, res)
	if cfg.ReportPath != "" {
		fmt.Fprintf(out, "\nReport saved to %s\n", cfg.ReportPath)
	}
	return nil
}
