// Package headless starts Chrome through chromedp for page rendering and PDF printing.
// Requires Chrome/Chromium to be installed on the system.
package headless

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultTimeout bounds a single browser session.
const DefaultTimeout = 30 * time.Second

// Options returns the allocator flags used for every session.
func Options() []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
}

// NewContext returns a browser context bounded by timeout (DefaultTimeout when
// zero). The cancel func shuts the browser down and must always be called.
func NewContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, Options()...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)

	return timeoutCtx, func() {
		cancelTimeout()
		cancelBrowser()
		cancelAlloc()
	}
}
