package pageinsight

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LinkCheckerOptions configures a LinkChecker.
type LinkCheckerOptions struct {
	Concurrency  int
	Timeout      time.Duration
	MaxLinks     int
	RPS          float64 // request starts per second, 0 means unlimited
	AllowPrivate bool
}

// DefaultLinkCheckerOptions returns the pool size, request timeout and link
// cap used when nothing is configured.
func DefaultLinkCheckerOptions() LinkCheckerOptions {
	return LinkCheckerOptions{
		Concurrency: 10,
		Timeout:     3 * time.Second,
		MaxLinks:    1000,
	}
}

// LinkCheckResult is the outcome of probing a page's links.
type LinkCheckResult struct {
	Checked int
	Broken  []string
}

// LinkChecker checks links for liveness with a bounded worker pool.
type LinkChecker struct {
	client      *http.Client
	concurrency int
	maxLinks    int
	limiter     *rate.Limiter
}

// NewLinkChecker returns a LinkChecker whose requests do not follow redirects
// and, unless AllowPrivate is set, refuse private and reserved addresses.
func NewLinkChecker(opts LinkCheckerOptions) *LinkChecker {
	return newLinkChecker(opts, &http.Transport{
		DialContext:         newDialer(opts.AllowPrivate).DialContext,
		MaxConnsPerHost:     opts.Concurrency,
		MaxIdleConnsPerHost: opts.Concurrency,
		IdleConnTimeout:     90 * time.Second,
	})
}

func newLinkChecker(opts LinkCheckerOptions, transport http.RoundTripper) *LinkChecker {
	def := DefaultLinkCheckerOptions()
	if opts.Concurrency < 1 {
		opts.Concurrency = def.Concurrency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxLinks < 1 {
		opts.MaxLinks = def.MaxLinks
	}

	lc := &LinkChecker{
		concurrency: opts.Concurrency,
		maxLinks:    opts.MaxLinks,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	if opts.RPS > 0 {
		lc.limiter = rate.NewLimiter(rate.Limit(opts.RPS), opts.Concurrency)
	}
	return lc
}

// linkOutcome is the result of checking one link.
type linkOutcome struct {
	checked bool
	broken bool
}

// checkLink issues a HEAD request and reports whether it was sent and
// whether the link is broken. A link is left unchecked when the rate limiter
// cannot admit it before ctx ends or when the request fails only because
// ctx was cancelled.
func (lc *LinkChecker) checkLink(ctx context.Context, link string) linkOutcome {
	if lc.limiter != nil {
		if err := lc.limiter.Wait(ctx); err != nil {
			return linkOutcome{}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, link, nil)
	if err != nil {
		return linkOutcome{checked: true, broken: true}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := lc.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return linkOutcome{}
		}
		return linkOutcome{checked: true, broken: true}
	}
	defer func() { _ = resp.Body.Close() }()

	return linkOutcome{checked: true, broken: resp.StatusCode >= 400}
}

// CheckLinks checks the distinct links, at most MaxLinks of them, and
// returns the broken ones in the order they were given. Checked counts only
// the links that were actually requested.
func (lc *LinkChecker) CheckLinks(ctx context.Context, links []string) LinkCheckResult {
	unique := dedupe(links)
	if len(unique) > lc.maxLinks {
		unique = unique[:lc.maxLinks]
	}
	if len(unique) == 0 {
		return LinkCheckResult{}
	}

	// Each worker writes only the slots of the indices it receives.
	outcomes := make([]linkOutcome, len(unique))
	jobs := make(chan int, len(unique))

	var wg sync.WaitGroup
	for range min(len(unique), lc.concurrency) {
		wg.Go(func() {
			for i := range jobs {
				outcomes[i] = lc.checkLink(ctx, unique[i])
			}
		})
	}

	for i := range unique {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var res LinkCheckResult
	for i, o := range outcomes {
		if o.checked {
			res.Checked++
		}
		if o.broken {
			res.Broken = append(res.Broken, unique[i])
		}
	}
	return res
}

func dedupe(links []string) []string {
	seen := make(map[string]struct{}, len(links))
	out := make([]string, 0, len(links))
	for _, l := range links {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
