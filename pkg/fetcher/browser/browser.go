// Package browser provides a headless-browser fallback fetcher for pages
// that the static fetcher cannot retrieve (JavaScript-rendered content,
// basic bot challenges). It is a process-singleton: chromedp keeps a
// single browser allocator alive and callers serialize through a mutex,
// per spec.md §5.
package browser

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/jmylchreest/prodcrawl/internal/logger"
	"github.com/jmylchreest/prodcrawl/pkg/fetcher"
)

// challengeMarkers are the case-insensitive substrings that mark a
// rendered page as a bot challenge rather than real content, per spec.md
// §4.1's fallback policy.
var challengeMarkers = []string{"captcha", "robot", "access denied"}

// Fetcher renders pages with a headless Chrome instance. A single browser
// allocator is shared across calls; Fetch serializes through mu so only
// one page is rendered at a time, matching the process-singleton browser
// session spec.md requires.
type Fetcher struct {
	opts fetcher.Options

	mu        sync.Mutex
	allocCtx  context.Context
	cancelCtx context.CancelFunc

	challengeHits int
}

// New creates a browser fallback fetcher. The underlying Chrome process is
// started lazily on the first Fetch call.
func New(opts fetcher.Options) *Fetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = fetcher.DefaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = 45 * time.Second
	}
	return &Fetcher{opts: opts}
}

func (f *Fetcher) ensureAllocator() {
	if f.allocCtx != nil {
		return
	}
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], stealthExecAllocatorOptions()...)
	if chromePath := FindChromePath(); chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(chromePath))
	}
	allocOpts = append(allocOpts, chromedp.UserAgent(f.opts.UserAgent))

	f.allocCtx, f.cancelCtx = chromedp.NewExecAllocator(context.Background(), allocOpts...)
}

// Fetch renders targetURL in the shared headless browser, clears the
// navigator.webdriver flag, simulates a randomized vertical scroll, and
// treats a rendered page containing "captcha", "robot", or "access denied"
// (case-insensitive) as a failed fetch. Cookies are cleared after the
// second such hit and the caller may retry. Failures of any kind return
// ErrNoContent, never a raw browser error.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (fetcher.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ensureAllocator()

	result := fetcher.Content{URL: targetURL, FetchedAt: time.Now()}

	browserCtx, cancel := chromedp.NewContext(f.allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		logger.Debug("chromedp", "msg", fmt.Sprintf(format, args...))
	}))
	defer cancel()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, f.opts.Timeout)
	defer cancelTimeout()

	var html string
	actions := []chromedp.Action{
		injectStealthScript(),
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body"),
	}
	actions = append(actions, simulatedScroll()...)
	actions = append(actions, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(timeoutCtx, actions...); err != nil {
		logger.Warn("browser fetch failed", "url", targetURL, "error", err)
		return fetcher.Content{}, fetcher.ErrNoContent
	}

	result.HTML = html
	result.StatusCode = 200

	if isChallengePage(html) {
		f.challengeHits++
		logger.Warn("challenge page detected", "url", targetURL, "hits", f.challengeHits)
		if f.challengeHits >= 2 {
			f.clearCookies(timeoutCtx)
			f.challengeHits = 0
		}
		return fetcher.Content{}, fetcher.ErrNoContent
	}

	return result, nil
}

// simulatedScroll returns a sequence of scroll-by actions with randomized
// step sizes and pauses, approximating human scroll behavior so lazy-loaded
// content renders and simple scroll-pattern bot checks are less likely to
// trigger.
func simulatedScroll() []chromedp.Action {
	steps := 3 + rand.Intn(3)
	actions := make([]chromedp.Action, 0, steps*2)
	for i := 0; i < steps; i++ {
		px := 200 + rand.Intn(400)
		actions = append(actions,
			chromedp.Evaluate(fmt.Sprintf("window.scrollBy(0, %d)", px), nil),
			chromedp.Sleep(time.Duration(150+rand.Intn(250))*time.Millisecond),
		)
	}
	return actions
}

func isChallengePage(html string) bool {
	lower := strings.ToLower(html)
	for _, marker := range challengeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func (f *Fetcher) clearCookies(ctx context.Context) {
	if err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.ClearBrowserCookies().Do(ctx)
	})); err != nil {
		logger.Debug("failed to clear browser cookies", "error", err)
	}
}

// Close tears down the shared browser allocator.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelCtx != nil {
		f.cancelCtx()
	}
	return nil
}

// Type identifies this fetcher.
func (f *Fetcher) Type() string { return "browser" }
