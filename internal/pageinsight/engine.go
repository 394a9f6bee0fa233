package pageinsight

import (
	"context"
	"net/url"

	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/model"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/platform/errs"
)

// linkChecker defines how the engine validates link liveness.
type linkChecker interface {
	CheckLinks(ctx context.Context, links []string) LinkCheckResult
}

// Fetchers maps each supported fetch mode to its implementation.
type Fetchers map[model.FetchMode]Fetcher

// Engine runs the analysis pipeline: fetch, parse, extract, check links and
// score.
type Engine struct {
	fetchers    Fetchers
	linkChecker linkChecker
	keywords    KeywordConfig
}

// NewEngine returns an Engine using the given fetchers, link checker and
// keyword configuration.
func NewEngine(fetchers Fetchers, lc linkChecker, keywords KeywordConfig) *Engine {
	return &Engine{
		fetchers:    fetchers,
		linkChecker: lc,
		keywords:    keywords,
	}
}

// Analyze fetches rawURL with the fetcher registered for mode and scores the
// page. Fetch failures abort the analysis; every other anomaly only degrades
// the affected finding.
func (e *Engine) Analyze(ctx context.Context, rawURL string, mode model.FetchMode) (*model.AnalysisResult, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	fetcher, ok := e.fetchers[mode]
	if !ok {
		return nil, &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "Unsupported fetch mode " + string(mode) + ". Use static or rendered.",
		}
	}

	fetched, err := fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(target)
	if err != nil {
		return nil, &errs.AppError{Kind: errs.InvalidInput, Message: invalidURLMessage, Cause: err}
	}
	if fetched.URL != "" {
		if final, err := url.Parse(fetched.URL); err == nil && final.Host != "" {
			base = final
		}
	}

	doc := Parse(fetched.HTML)
	title := ExtractTitle(doc)

	signals := Signals{
		URL:           target,
		Mode:          mode,
		Fetch:         fetched,
		HTMLVersion:   DetectHTMLVersion(doc),
		Title:         title,
		Description:   ExtractDescription(doc),
		Canonical:     ExtractCanonical(doc),
		Headings:      ExtractHeadings(doc),
		Images:        ExtractImages(doc),
		Keywords:      ExtractKeywords(doc, e.keywords),
		TitleKeywords: ExtractTitleKeywords(title.Title, e.keywords),
		Mobile:        CheckMobile(doc),
		SchemaTypes:   ExtractSchemaTypes(doc),
		Anchors:       ExtractAnchors(doc),
		LinkRatio:     ExtractLinkRatio(doc, base),
		SocialIssues:  CheckSocialMeta(doc),
	}
	signals.LinkCheck = e.linkChecker.CheckLinks(ctx, CollectLinks(doc, base))

	return Score(signals), nil
}
