package rendering

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second

	// A4 paper in inches; Chrome's PrintToPDF works in inches.
	a4WidthInches  = 210.0 / 25.4
	a4HeightInches = 297.0 / 25.4
)

// ChromedpConfig contains configuration for the chromedp converter
type ChromedpConfig struct {
	// DefaultTimeout for rendering operations
	DefaultTimeout time.Duration
	// RemoteURL is the URL of a remote Chrome/Chromium instance (optional)
	// If empty, chromedp will launch a new browser instance
	RemoteURL string
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Logger for debug output
	Logger *zap.Logger
}

// ChromedpConverter renders HTML to PDF using Chrome DevTools Protocol.
// The receipt is a fixed A4 portrait document; page geometry beyond that is
// owned by the template's CSS.
type ChromedpConverter struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpConverter creates a new chromedp-based PDF converter
func NewChromedpConverter(config *ChromedpConfig) (*ChromedpConverter, error) {
	if config == nil {
		config = &ChromedpConfig{}
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultChromeTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	converter := &ChromedpConverter{
		config: config,
		logger: logger,
	}
	converter.initAllocator()

	return converter, nil
}

// initAllocator initializes the Chrome allocator
func (r *ChromedpConverter) initAllocator() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("font-render-hinting", "none"),
	)

	if r.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	if r.config.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), r.config.RemoteURL)
	} else {
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
}

// Convert renders an HTML document to PDF bytes. It satisfies the
// pipeline's PDFConverter port.
func (r *ChromedpConverter) Convert(ctx context.Context, html, title string) ([]byte, error) {
	result, err := r.Render(ctx, &RenderRequest{HTML: html, Title: title})
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

// Render converts HTML content to PDF
func (r *ChromedpConverter) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}

	startTime := time.Now()

	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.config.DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	html := buildCompleteHTML(req)

	var pdfData []byte
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
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4WidthInches).
				WithPaperHeight(a4HeightInches).
				WithMarginTop(0).
				WithMarginRight(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithScale(1.0).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		}
		if ctx.Err() == context.Canceled {
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}

		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed: "+err.Error(), err)
	}

	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	renderDuration := time.Since(startTime)
	r.logger.Info("PDF rendered successfully",
		zap.Int("bytes", len(pdfData)),
		zap.Duration("duration", renderDuration))

	return &RenderResult{
		PDFData:        pdfData,
		RenderDuration: renderDuration,
	}, nil
}

// Close releases resources held by the converter
func (r *ChromedpConverter) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

// buildCompleteHTML wraps bare fragments in a full document. Documents that
// already carry a DOCTYPE or html tag are passed through untouched.
func buildCompleteHTML(req *RenderRequest) string {
	lower := strings.ToLower(req.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return req.HTML
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head>")
	b.WriteString(`<meta charset="UTF-8">`)
	if req.Title != "" {
		b.WriteString("<title>")
		b.WriteString(req.Title)
		b.WriteString("</title>")
	}
	b.WriteString("</head><body>")
	b.WriteString(req.HTML)
	b.WriteString("</body></html>")
	return b.String()
}
