package document

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/yanqian/summarizer-backend/internal/domain/export"
)

// ChromePDFRenderer prints HTML to PDF with a headless Chrome instance
// started per render.
type ChromePDFRenderer struct {
	execPath string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewChromePDFRenderer constructs the renderer. An empty execPath lets
// chromedp locate the browser.
func NewChromePDFRenderer(execPath string, timeout time.Duration, logger *slog.Logger) *ChromePDFRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromePDFRenderer{
		execPath: execPath,
		timeout:  timeout,
		logger:   logger.With("component", "document.pdf"),
	}
}

// RenderPDF loads the page into a blank tab and prints it on A4.
func (r *ChromePDFRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	browserCtx, timeoutCancel := context.WithTimeout(browserCtx, r.timeout)
	defer timeoutCancel()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	r.logger.Debug("pdf rendered", "bytes", len(pdf), "elapsed", time.Since(start))
	return pdf, nil
}

var _ export.PDFRenderer = (*ChromePDFRenderer)(nil)
