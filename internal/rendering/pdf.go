package rendering

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-editor/internal/types"
)

// DefaultPDFTimeout bounds a headless browser print
const DefaultPDFTimeout = 30 * time.Second

// RenderPDF prints the HTML rendering of the document through headless Chrome.
// Requires Chrome/Chromium to be installed on the system.
func RenderPDF(ctx context.Context, doc *types.ResumeDocument, contactOrder []string, timeout time.Duration) ([]byte, error) {
	content, err := RenderHTML(doc, contactOrder)
	if err != nil {
		return nil, err
	}
	return PrintHTML(ctx, content, timeout)
}

// PrintHTML loads an HTML page into headless Chrome and prints it to US letter PDF
func PrintHTML(ctx context.Context, content string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, content).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, &RenderError{Format: "pdf", Message: "browser printing failed", Cause: err}
	}
	return pdf, nil
}
