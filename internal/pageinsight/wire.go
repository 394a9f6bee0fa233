package pageinsight

import (
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/model"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/platform/config"
)

// NewEngineFromConfig wires both fetch modes, the link checker and the
// keyword settings described by cfg.
func NewEngineFromConfig(cfg config.Config) *Engine {
	fetchers := Fetchers{
		model.FetchStatic:   NewStaticFetcher(cfg.FetchTimeout, cfg.AllowPrivateNetworks),
		model.FetchRendered: NewRenderedFetcher(cfg.RenderTimeout, cfg.ChromePath, cfg.ScreenshotDir),
	}
	checker := NewLinkChecker(LinkCheckerOptions{
		Concurrency:  cfg.LinkCheckConcurrency,
		Timeout:      cfg.LinkCheckTimeout,
		MaxLinks:     cfg.LinkCheckMaxLinks,
		RPS:          cfg.LinkCheckRPS,
		AllowPrivate: cfg.AllowPrivateNetworks,
	})
	return NewEngine(fetchers, checker, NewKeywordConfig(cfg.ExtraStopWords, cfg.KeywordTopN))
}
