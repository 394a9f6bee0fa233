package analyzer

import (
	"context"

	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/model"
)

// PageInsightProvider defines the contract for any analysis engine.
type PageInsightProvider interface {
	Analyze(ctx context.Context, targetURL string, mode model.FetchMode) (*model.AnalysisResult, error)
}
