package pageinsight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/model"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/platform/errs"
)

const (
	desktopWidth  = 1920
	desktopHeight = 1080
	mobileWidth   = 375
	mobileHeight  = 812
)

// Screenshot file names inside the screenshot directory. Each rendered
// analysis overwrites both.
const (
	DesktopScreenshotFile = "desktop.png"
	MobileScreenshotFile  = "mobile.png"
)

// loadTimingJS resolves to loadEventEnd - navigationStart in milliseconds.
// It waits for the load event when it has not fired yet and gives up after
// five seconds, in which case the result may be zero or negative.
const loadTimingJS = `new Promise((resolve) => {
	const measure = () => {
		const t = performance.timing;
		resolve(t.loadEventEnd - t.navigationStart);
	};
	if (document.readyState === 'complete' && performance.timing.loadEventEnd > 0) {
		measure();
		return;
	}
	window.addEventListener('load', () => setTimeout(measure, 0));
	setTimeout(measure, 5000);
})`

// RenderedFetcher implements Fetcher with a headless Chrome session. Each
// call launches its own browser and tears it down before returning.
type RenderedFetcher struct {
	timeout       time.Duration
	execPath      string
	screenshotDir string
}

// NewRenderedFetcher returns a RenderedFetcher. An empty execPath lets
// chromedp locate Chrome on the host.
func NewRenderedFetcher(timeout time.Duration, execPath, screenshotDir string) *RenderedFetcher {
	return &RenderedFetcher{
		timeout:       timeout,
		execPath:      execPath,
		screenshotDir: screenshotDir,
	}
}

func (f *RenderedFetcher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("mute-audio", true),
		chromedp.UserAgent(userAgent),
	)
	if f.execPath != "" {
		opts = append(opts, chromedp.ExecPath(f.execPath))
	}
	return opts
}

// Fetch navigates to targetURL, reads the navigation timing and the rendered
// DOM, then captures a desktop and a mobile screenshot.
func (f *RenderedFetcher) Fetch(ctx context.Context, targetURL string) (*model.FetchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, f.allocatorOptions()...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	if err := chromedp.Run(browserCtx); err != nil {
		return nil, renderError(ctx, "The headless browser could not be started.", err)
	}

	start := time.Now()
	resp, err := chromedp.RunResponse(browserCtx,
		emulation.SetDeviceMetricsOverride(desktopWidth, desktopHeight, 1, false),
		chromedp.Navigate(targetURL),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, timeoutError(err)
		}
		return nil, &errs.AppError{
			Kind:    errs.Unreachable,
			Message: "The provided URL could not be reached. Check the address.",
			Cause:   err,
		}
	}
	if resp != nil && resp.Status >= 400 {
		return nil, &errs.AppError{
			Kind:           errs.Unreachable,
			UpstreamStatus: int(resp.Status),
			Message:        "The provided URL returned an error status.",
		}
	}

	var (
		loadMillis float64
		finalURL   string
		html       string
		desktopPNG []byte
		mobilePNG  []byte
	)
	err = chromedp.Run(browserCtx,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(loadTimingJS, &loadMillis, awaitPromise),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.CaptureScreenshot(&desktopPNG),
		emulation.SetDeviceMetricsOverride(mobileWidth, mobileHeight, 2, true),
		chromedp.CaptureScreenshot(&mobilePNG),
	)
	if err != nil {
		return nil, renderError(ctx, "The page could not be rendered.", err)
	}

	desktopPath, mobilePath, err := f.saveScreenshots(desktopPNG, mobilePNG)
	if err != nil {
		return nil, renderError(ctx, "Screenshots could not be saved.", err)
	}

	var status int
	if resp != nil {
		status = int(resp.Status)
	}

	return &model.FetchResult{
		URL:                   finalURL,
		StatusCode:            status,
		HTML:                  html,
		LoadTimeSeconds:       navigationSeconds(loadMillis, time.Since(start)),
		DesktopScreenshotPath: desktopPath,
		MobileScreenshotPath:  mobilePath,
	}, nil
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

func (f *RenderedFetcher) saveScreenshots(desktop, mobile []byte) (string, string, error) {
	if err := os.MkdirAll(f.screenshotDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create screenshot dir: %w", err)
	}

	desktopPath := filepath.Join(f.screenshotDir, DesktopScreenshotFile)
	if err := os.WriteFile(desktopPath, desktop, 0o644); err != nil {
		return "", "", fmt.Errorf("write desktop screenshot: %w", err)
	}

	mobilePath := filepath.Join(f.screenshotDir, MobileScreenshotFile)
	if err := os.WriteFile(mobilePath, mobile, 0o644); err != nil {
		return "", "", fmt.Errorf("write mobile screenshot: %w", err)
	}

	return desktopPath, mobilePath, nil
}

// navigationSeconds converts a navigation-timing delta to seconds, falling
// back to the measured wall clock when the browser reported nothing usable.
func navigationSeconds(millis float64, wall time.Duration) float64 {
	if millis <= 0 {
		return roundTo2(wall.Seconds())
	}
	return roundTo2(millis / 1000)
}

func renderError(ctx context.Context, msg string, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return timeoutError(err)
	}
	return &errs.AppError{Kind: errs.RenderFailed, Message: msg, Cause: err}
}

func timeoutError(err error) error {
	return &errs.AppError{
		Kind:    errs.Timeout,
		Message: "The provided URL took too long to render.",
		Cause:   err,
	}
}
