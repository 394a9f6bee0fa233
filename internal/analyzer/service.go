package analyzer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/model"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/platform/errs"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/platform/metrics"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/platform/requestid"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/report"
)

// Options configures a Service.
type Options struct {
	// DefaultMode is used when a request names no fetch mode.
	DefaultMode model.FetchMode
	// ReportPath receives the text report of every successful analysis.
	// Empty disables persistence.
	ReportPath string
	// ScreenshotDir holds the rendered-mode screenshots served under
	// /static/. Empty disables the route.
	ScreenshotDir string
}

// Service runs analyses through a PageInsightProvider, records metrics,
// persists the latest report and logs every outcome.
type Service struct {
	provider PageInsightProvider
	metrics  *metrics.Metrics
	logger   *slog.Logger
	opts     Options
}

// NewService creates a Service backed by the given provider.
func NewService(provider PageInsightProvider, m *metrics.Metrics, logger *slog.Logger, opts Options) *Service {
	if opts.DefaultMode == "" {
		opts.DefaultMode = model.FetchStatic
	}
	return &Service{provider: provider, metrics: m, logger: logger, opts: opts}
}

// ScreenshotDir is where rendered-mode screenshots are written.
func (s *Service) ScreenshotDir() string {
	return s.opts.ScreenshotDir
}

// ReportPath is where the latest report is persisted.
func (s *Service) ReportPath() string {
	return s.opts.ReportPath
}

// Analyze delegates to the provider and handles the side effects of the
// outcome. A report that cannot be written is logged but does not fail the
// analysis.
func (s *Service) Analyze(ctx context.Context, targetURL string, mode model.FetchMode) (*model.AnalysisResult, error) {
	if mode == "" {
		mode = s.opts.DefaultMode
	}
	logger := s.logger.With("url", targetURL, "mode", mode, requestid.Attr(ctx))

	start := time.Now()
	result, err := s.provider.Analyze(ctx, targetURL, mode)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = &errs.AppError{
				Kind:    errs.Timeout,
				Message: "Analysis timed out. The target URL may be slow to respond.",
				Cause:   err,
			}
		}
		s.metrics.RecordAnalysis(string(mode), metrics.OutcomeError, elapsed)

		attrs := []any{"error", err, "fetch_error", errs.IsFetchError(err)}
		var appErr *errs.AppError
		if errors.As(err, &appErr) {
			attrs = append(attrs, "kind", appErr.Kind.String())
			if appErr.UpstreamStatus != 0 {
				attrs = append(attrs, "target_status", appErr.UpstreamStatus)
			}
		}
		logger.Error("analysis failed", attrs...)
		return nil, err
	}

	s.metrics.RecordAnalysis(string(mode), metrics.OutcomeSuccess, elapsed)
	s.metrics.RecordScore(result.Score)
	s.metrics.RecordLinkCheck(result.LinksChecked, len(result.BrokenLinks))

	if s.opts.ReportPath != "" {
		if err := report.WriteFile(s.opts.ReportPath, result); err != nil {
			logger.Warn("report not persisted", "error", err, "path", s.opts.ReportPath)
		}
	}

	logger.Info("analysis complete",
		"score", result.Score,
		"title", result.Title,
		"bad", len(result.Bad),
		"internal_links", result.LinkRatio.Internal,
		"external_links", result.LinkRatio.External,
		"total_links", result.TotalLinks,
		"broken_links", len(result.BrokenLinks),
		"load_time_seconds", result.LoadTimeSeconds,
		"duration", elapsed.String(),
	)
	return result, nil
}
