package ingestion

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonathan/cv-keyword-matcher/internal/fetch"
)

// FormatURL is the Metadata.Format of documents fetched from the web.
const FormatURL = "url"

// URLOptions configures IngestFromURL.
type URLOptions struct {
	// UseBrowser retries in headless Chrome when the HTTP page is too thin,
	// which is typical for single-page job boards.
	UseBrowser     bool
	BrowserTimeout time.Duration
	Fetcher        *fetch.Fetcher
	Logger         *slog.Logger
}

// IngestFromURL fetches a job posting and returns its cleaned text with metadata.
// Platform-specific selectors are applied for known job boards.
func IngestFromURL(ctx context.Context, urlStr string, opts URLOptions) (string, *Metadata, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = fetch.New(&fetch.Options{Logger: logger})
	}

	platform := fetch.DetectPlatform(urlStr)
	logger.Debug("ingesting job posting", "url", urlStr, "platform", platform)

	result, err := fetcher.Get(ctx, urlStr)
	if err != nil {
		return "", nil, &ExtractionError{Format: FormatURL, Source: urlStr, Message: "HTTP request failed", Cause: err}
	}

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	html := result.HTML
	text, err := fetch.ExtractMainText(html, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", nil, &ExtractionError{Format: FormatURL, Source: urlStr, Message: "content extraction failed", Cause: err}
	}

	rendered := false
	if opts.UseBrowser && fetch.ShouldUseBrowser(text) {
		logger.Info("page content too short, falling back to browser rendering",
			"url", urlStr, "chars", len(text), "min", fetch.MinContentLength)

		browserHTML, browserErr := fetch.RenderPage(ctx, urlStr, opts.BrowserTimeout, logger)
		if browserErr != nil {
			// The HTTP content is still usable.
			logger.Warn("browser rendering failed, using HTTP content", "url", urlStr, "error", browserErr)
		} else if browserText, err := fetch.ExtractMainText(browserHTML, contentSelectors, noiseSelectors...); err == nil {
			html, text, rendered = browserHTML, browserText, true
		} else {
			logger.Warn("browser content extraction failed", "url", urlStr, "error", err)
		}
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return "", nil, &ExtractionError{Format: FormatURL, Source: urlStr, Message: "no text extracted", Cause: ErrEmptyDocument}
	}

	metadata := NewMetadata(cleaned, urlStr, FormatURL)
	metadata.Platform = string(platform)
	metadata.Title = fetch.ExtractTitle(html)
	metadata.Rendered = rendered

	logger.Debug("ingested job posting", "url", urlStr, "chars", len(cleaned), "rendered", rendered)
	return cleaned, metadata, nil
}
