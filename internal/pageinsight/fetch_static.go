package pageinsight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/model"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/platform/errs"
)

// Fetcher retrieves a page snapshot and its load time.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*model.FetchResult, error)
}

const (
	maxRedirects    = 5
	maxResponseBody = 10 << 20
	userAgent       = "SEOAnalyserBot/1.0"
	defaultScheme   = "http://"
)

var (
	errTooManyRedirects = errors.New("too many redirects")
	errBlockedRedirect  = errors.New("redirect to non-http(s) scheme blocked")
)

const invalidURLMessage = "Invalid URL format. Please ensure you entered a valid URL (e.g., https://example.com)."

// NormalizeURL trims the input, prefixes http:// when no scheme is given and
// rejects anything that is not an absolute http(s) URL.
func NormalizeURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", &errs.AppError{Kind: errs.InvalidInput, Message: "URL is required."}
	}

	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		if strings.Contains(lower, "://") {
			return "", &errs.AppError{Kind: errs.InvalidInput, Message: "Only http and https URLs are supported."}
		}
		s = defaultScheme + s
	}

	parsed, err := url.Parse(s)
	if err != nil {
		return "", &errs.AppError{Kind: errs.InvalidInput, Message: invalidURLMessage, Cause: err}
	}
	if parsed.Host == "" || parsed.Hostname() == "" {
		return "", &errs.AppError{Kind: errs.InvalidInput, Message: invalidURLMessage}
	}
	return parsed.String(), nil
}

// StaticFetcher implements Fetcher with a single HTTP GET.
type StaticFetcher struct {
	client *http.Client
}

// NewStaticFetcher returns a StaticFetcher bounded by timeout. Unless
// allowPrivate is set, the transport refuses to dial private or reserved
// addresses, which also covers every hop of a redirect chain.
func NewStaticFetcher(timeout time.Duration, allowPrivate bool) *StaticFetcher {
	return newStaticFetcher(timeout, &http.Transport{
		DialContext:         newDialer(allowPrivate).DialContext,
		MaxConnsPerHost:     10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	})
}

func newStaticFetcher(timeout time.Duration, transport http.RoundTripper) *StaticFetcher {
	return &StaticFetcher{
		client: &http.Client{
			Timeout:       timeout,
			Transport:     transport,
			CheckRedirect: safeRedirectPolicy,
		},
	}
}

func safeRedirectPolicy(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("%w: stopped after %d", errTooManyRedirects, maxRedirects)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("%w: %s", errBlockedRedirect, req.URL.Scheme)
	}
	return nil
}

// Fetch downloads the page, decodes it to UTF-8 and measures the wall-clock
// time until the body has been fully read.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string) (*model.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, &errs.AppError{Kind: errs.InvalidInput, Message: invalidURLMessage, Cause: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyFetchError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, &errs.AppError{
			Kind:           errs.Unreachable,
			UpstreamStatus: resp.StatusCode,
			Message:        "The provided URL returned an error status.",
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, classifyFetchError(err)
	}
	loadTime := roundTo2(time.Since(start).Seconds())

	return &model.FetchResult{
		URL:             resp.Request.URL.String(),
		StatusCode:      resp.StatusCode,
		HTML:            decodeBody(data, resp.Header.Get("Content-Type")),
		LoadTimeSeconds: loadTime,
	}, nil
}

// decodeBody converts data to UTF-8 using the Content-Type charset, a BOM or
// a <meta charset> in the first KiB. Bytes that cannot be decoded are kept
// as they are; an empty body is an empty document.
func decodeBody(data []byte, contentType string) string {
	if len(data) == 0 {
		return ""
	}
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

func classifyFetchError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &errs.AppError{
			Kind:    errs.Timeout,
			Message: "The provided URL took too long to respond.",
			Cause:   err,
		}
	}
	return &errs.AppError{
		Kind:    errs.Unreachable,
		Message: "The provided URL could not be reached. Check the address.",
		Cause:   err,
	}
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
