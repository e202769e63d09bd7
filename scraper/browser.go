package scraper

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// Browser wraps a single headless Chrome instance shared by all scraping
// jobs. The instance is started lazily on first use; Shutdown waits for open
// pages to finish before releasing it.
type Browser struct {
	userAgent string

	mu            sync.Mutex
	started       bool
	closed        bool
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	pages sync.WaitGroup
}

var ErrBrowserClosed = errors.New("browser has been shut down")

func NewBrowser(userAgent string) *Browser {
	return &Browser{userAgent: userAgent}
}

// acquire lazily starts the browser and registers one open page. Init is
// idempotent: concurrent callers share the same instance.
func (b *Browser) acquire() (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBrowserClosed
	}

	if !b.started {
		chromePath := os.Getenv("CHROME_PATH")
		if chromePath == "" {
			chromePath = "/usr/bin/chromium-browser" // Docker/Linux default
		}

		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.ExecPath(chromePath),
			chromedp.UserAgent(b.userAgent),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-crashpad", true),
			chromedp.Flag("disable-breakpad", true),
			chromedp.Flag("no-first-run", true),
			chromedp.Flag("no-default-browser-check", true),
			chromedp.Flag("disable-extensions", true),
			chromedp.Flag("headless", true),
		)

		allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
		browserCtx, browserCancel := chromedp.NewContext(allocCtx)

		b.allocCancel = allocCancel
		b.browserCtx = browserCtx
		b.browserCancel = browserCancel
		b.started = true
	}

	b.pages.Add(1)
	return b.browserCtx, nil
}

func (b *Browser) release() {
	b.pages.Done()
}

// RenderHTML navigates to the URL in a fresh tab, waits for the DOM to
// settle, and returns the rendered document. The tab is always closed.
func (b *Browser) RenderHTML(url string, timeout time.Duration) (string, error) {
	browserCtx, err := b.acquire()
	if err != nil {
		return "", err
	}
	defer b.release()

	tabCtx, cancel := chromedp.NewContext(browserCtx)
	defer cancel()
	tabCtx, cancel = context.WithTimeout(tabCtx, timeout)
	defer cancel()

	var htmlContent string
	err = chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1*time.Second),
		chromedp.OuterHTML("html", &htmlContent),
	)
	if err != nil {
		return "", err
	}
	return htmlContent, nil
}

// Shutdown drains open pages and releases the browser instance. Safe to call
// more than once; after the first call every RenderHTML fails.
func (b *Browser) Shutdown() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	started := b.started
	b.mu.Unlock()

	b.pages.Wait()

	if started {
		b.browserCancel()
		b.allocCancel()
	}
}
