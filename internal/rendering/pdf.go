package rendering

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/cv-keyword-matcher/internal/headless"
)

// PDFTimeout bounds one headless print job.
const PDFTimeout = 45 * time.Second

// GeneratePDF prints html to a PDF file at outPath with headless Chrome and
// returns outPath. Requires Chrome/Chromium to be installed on the system.
func GeneratePDF(ctx context.Context, html, outPath string) (string, error) {
	if outPath == "" {
		return "", &RenderingError{Stage: StagePDF, Message: "output path is empty"}
	}

	browserCtx, cancel := headless.NewContext(ctx, PDFTimeout)
	defer cancel()

	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("get frame tree: %w", err)
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return "", &RenderingError{Stage: StagePDF, Message: "error generating PDF", Cause: err}
	}

	if err := writeOutput(outPath, buf); err != nil {
		return "", err
	}
	return outPath, nil
}

// CreateUpdatedCV renders doc to HTML and prints it to outPath.
func CreateUpdatedCV(ctx context.Context, doc Document, templatePath, outPath string) (string, error) {
	html, err := RenderHTML(doc, templatePath)
	if err != nil {
		return "", err
	}
	return GeneratePDF(ctx, html, outPath)
}

// WriteFile writes rendered content to path, creating parent directories.
func WriteFile(path, content string) error {
	return writeOutput(path, []byte(content))
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &RenderingError{Stage: StageWrite, Message: "failed to create output directory", Cause: err}
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &RenderingError{Stage: StageWrite, Message: fmt.Sprintf("failed to write %s", path), Cause: err}
	}
	return nil
}
