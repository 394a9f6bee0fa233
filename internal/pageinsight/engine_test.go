package pageinsight

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/model"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/platform/errs"
)

var errConnectionRefused = errors.New("connection refused")

// mockFetcher implements Fetcher for testing.
type mockFetcher struct {
	result     *model.FetchResult
	err        error
	requested  string
	fetchCalls int
}

func (m *mockFetcher) Fetch(_ context.Context, url string) (*model.FetchResult, error) {
	m.fetchCalls++
	m.requested = url
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockLinkChecker implements linkChecker for testing.
type mockLinkChecker struct {
	broken       []string
	receivedURLs []string
}

func (m *mockLinkChecker) CheckLinks(_ context.Context, links []string) LinkCheckResult {
	m.receivedURLs = links
	return LinkCheckResult{Checked: len(links), Broken: m.broken}
}

func staticEngine(f Fetcher, lc linkChecker) *Engine {
	return NewEngine(Fetchers{model.FetchStatic: f}, lc, NewKeywordConfig(nil, 10))
}

func TestEngine_Analyze_Success(t *testing.T) {
	html := `<!DOCTYPE html><html><head>
	<title>Gopher Garden</title>
	<meta name="description" content="A friendly garden of gophers where every gopher learns Go from other gophers.">
	<meta name="viewport" content="width=device-width">
	<script type="application/ld+json">{"@type":"WebPage"}</script>
	</head><body>
	<h1>Gophers</h1><h2>Garden</h2>
	<p>Gophers dig. Gophers plant. Garden gophers.</p>
	<img src="/g.png" alt="A gopher">
	<a href="/about">About</a>
	</body></html>`

	f := &mockFetcher{result: &model.FetchResult{HTML: html, LoadTimeSeconds: 0.5}}
	lc := &mockLinkChecker{}
	result, err := staticEngine(f, lc).Analyze(context.Background(), "example.com", model.FetchStatic)
	require.NoError(t, err)

	assert.Equal(t, "http://example.com", f.requested)
	assert.Equal(t, "http://example.com", result.URL)
	assert.Equal(t, model.FetchStatic, result.Mode)
	assert.Equal(t, "HTML5", result.HTMLVersion)
	assert.Equal(t, "Gopher Garden", result.Title)
	assert.Equal(t, []string{"Gophers"}, result.Headings["h1"])
	assert.Equal(t, []string{"gopher", "garden"}, result.TitleKeywords)
	require.NotEmpty(t, result.Keywords)
	assert.Equal(t, "gophers", result.Keywords[0].Word)
	assert.Equal(t, []string{"WebPage"}, result.SchemaTypes)
	assert.Equal(t, model.LinkRatio{Internal: 1}, result.LinkRatio)
	assert.Equal(t, []string{"http://example.com/about"}, lc.receivedURLs)
	assert.Equal(t, BaselineScore, result.Score)
	assert.Len(t, result.SocialMetaIssues, 3)
	assert.InDelta(t, 0.5, result.LoadTimeSeconds, 1e-9)
}

func TestEngine_Analyze_EmptyPageDegrades(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	lc := &mockLinkChecker{}
	engine := staticEngine(newStaticFetcher(5*time.Second, ts.Client().Transport), lc)
	result, err := engine.Analyze(context.Background(), ts.URL, model.FetchStatic)
	require.NoError(t, err)

	assert.Contains(t, result.Bad, "Missing title tag")
	assert.Contains(t, result.Bad, "Missing meta description")
	assert.Contains(t, result.Bad, "No H1 heading found")
	assert.Equal(t, BaselineScore-PenaltyMissingTitle-PenaltyWeakDescription-PenaltyMissingH1-PenaltyNoViewport, result.Score)
	assert.Empty(t, result.Keywords)
	assert.Zero(t, result.TotalLinks)
	assert.Empty(t, lc.receivedURLs)
}

func TestEngine_Analyze_FetchErrorAborts(t *testing.T) {
	fetchErr := &errs.AppError{Kind: errs.Unreachable, Message: "down", Cause: errConnectionRefused}
	lc := &mockLinkChecker{}

	result, err := staticEngine(&mockFetcher{err: fetchErr}, lc).Analyze(context.Background(), "https://down.example.com", model.FetchStatic)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errs.IsFetchError(err))
	assert.Nil(t, lc.receivedURLs)
}

func TestEngine_Analyze_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	engine := staticEngine(newStaticFetcher(2*time.Second, http.DefaultTransport), &mockLinkChecker{})
	result, err := engine.Analyze(context.Background(), "http://"+addr, model.FetchStatic)

	assert.Nil(t, result)
	var appErr *errs.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errs.Unreachable, appErr.Kind)
	assert.True(t, errs.IsFetchError(err))
}

func TestEngine_Analyze_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		url  string
		mode model.FetchMode
	}{
		{name: "empty url", url: "", mode: model.FetchStatic},
		{name: "non-http scheme", url: "ftp://example.com/file", mode: model.FetchStatic},
		{name: "unconfigured mode", url: "https://example.com", mode: model.FetchRendered},
		{name: "unknown mode", url: "https://example.com", mode: "psychic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &mockFetcher{result: &model.FetchResult{}}
			_, err := staticEngine(f, &mockLinkChecker{}).Analyze(context.Background(), tt.url, tt.mode)

			var appErr *errs.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, errs.InvalidInput, appErr.Kind)
			assert.Zero(t, f.fetchCalls)
		})
	}
}

func TestEngine_Analyze_BrokenLinksScored(t *testing.T) {
	html := `<!DOCTYPE html><html><head><title>T</title></head><body>
	<a href="https://example.com/a">A</a>
	<a href="https://other.com/b">B</a>
	<a href="https://example.com/a">A again</a>
	<a href="mailto:team@example.com">Mail</a>
	<a>placeholder</a>
	<img src="/x.png" alt="x"><img alt="no source">
	</body></html>`

	lc := &mockLinkChecker{broken: []string{"https://other.com/b"}}
	result, err := staticEngine(&mockFetcher{result: &model.FetchResult{HTML: html}}, lc).
		Analyze(context.Background(), "https://example.com", model.FetchStatic)
	require.NoError(t, err)

	assert.Equal(t, model.LinkRatio{Internal: 2, External: 1}, result.LinkRatio)
	assert.Equal(t, 5, result.TotalLinks)
	assert.Equal(t, []string{
		"https://example.com/a", "https://other.com/b", "https://example.com/a", "mailto:team@example.com",
	}, result.Links)
	assert.Equal(t, 2, result.TotalImages)
	assert.Equal(t, []string{"/x.png"}, result.Images)
	assert.Len(t, lc.receivedURLs, 3)
	assert.Equal(t, []string{"https://other.com/b"}, result.BrokenLinks)
	assert.Contains(t, result.Bad, "Broken link: https://other.com/b")
}

func TestEngine_Analyze_ResolvesAgainstFinalURL(t *testing.T) {
	html := `<html><body><a href="docs">Docs</a><a href="https://example.com/">Home</a></body></html>`
	f := &mockFetcher{result: &model.FetchResult{URL: "https://www.example.com/guide/", HTML: html}}
	lc := &mockLinkChecker{}

	result, err := staticEngine(f, lc).Analyze(context.Background(), "https://example.com", model.FetchStatic)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://www.example.com/guide/docs", "https://example.com/"}, lc.receivedURLs)
	assert.Equal(t, model.LinkRatio{Internal: 1, External: 1}, result.LinkRatio)
}

func TestEngine_Analyze_RenderedModeCarriesScreenshots(t *testing.T) {
	rendered := &mockFetcher{result: &model.FetchResult{
		HTML:                  "<html><head><title>R</title></head><body></body></html>",
		LoadTimeSeconds:       1.25,
		DesktopScreenshotPath: "static/desktop.png",
		MobileScreenshotPath:  "static/mobile.png",
	}}
	engine := NewEngine(Fetchers{
		model.FetchStatic:   &mockFetcher{err: errConnectionRefused},
		model.FetchRendered: rendered,
	}, &mockLinkChecker{}, NewKeywordConfig(nil, 10))

	result, err := engine.Analyze(context.Background(), "https://example.com", model.FetchRendered)
	require.NoError(t, err)

	assert.Equal(t, model.FetchRendered, result.Mode)
	assert.Equal(t, "static/desktop.png", result.DesktopScreenshotPath)
	assert.Equal(t, "static/mobile.png", result.MobileScreenshotPath)
	assert.Equal(t, 1, rendered.fetchCalls)
}
