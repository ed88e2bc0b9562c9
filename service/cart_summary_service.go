package service

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"iwingmobile-store/cart"
	"iwingmobile-store/utils"
)

//go:embed templates/cart_summary.html
var cartSummaryTemplate string

// CartSummaryService renders printable cart summaries
type CartSummaryService struct {
	tmpl       *template.Template
	chromePath string
	timeout    time.Duration
	log        *zap.Logger
	now        func() time.Time
}

type summaryLine struct {
	Name     string
	Brand    string
	ImageURL string
	ImageAlt string
	Price    string
	Quantity int
	Subtotal string
}

type summaryData struct {
	GeneratedAt string
	Lines       []summaryLine
	ItemCount   int
	Total       string
}

// NewCartSummaryService creates a new CartSummaryService.
// chromePath may be empty; common install locations are tried instead.
func NewCartSummaryService(chromePath string, log *zap.Logger) (*CartSummaryService, error) {
	tmpl, err := template.New("cart_summary").Parse(cartSummaryTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &CartSummaryService{
		tmpl:       tmpl,
		chromePath: chromePath,
		timeout:    30 * time.Second,
		log:        log.With(zap.String("component", "cart_summary_service")),
		now:        time.Now,
	}, nil
}

// detectChromePath returns the configured Chrome/Chromium path if it exists,
// then checks common installation paths
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// RenderHTML renders the cart summary HTML
func (s *CartSummaryService) RenderHTML(state cart.State) (string, error) {
	data := summaryData{
		GeneratedAt: s.now().Format("Jan 2, 2006 15:04"),
		ItemCount:   state.ItemCount(),
		Total:       utils.FormatUSD(state.Total()),
	}
	for _, item := range state.Items {
		line := summaryLine{
			Name:     item.Name,
			Brand:    item.Brand,
			Price:    utils.FormatUSD(item.Price),
			Quantity: item.Quantity,
			Subtotal: utils.FormatUSD(item.LineTotal()),
		}
		if img, ok := item.PrimaryImage(); ok {
			line.ImageURL = img.URL
			line.ImageAlt = img.Alt
		}
		data.Lines = append(data.Lines, line)
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GeneratePDF renders the cart summary and prints it to PDF with headless Chrome
func (s *CartSummaryService) GeneratePDF(ctx context.Context, state cart.State) ([]byte, error) {
	html, err := s.RenderHTML(state)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	} else {
		s.log.Warn("⚠️  GeneratePDF: No Chrome binary found, relying on chromedp auto-detection")
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	var pdfBuf []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// US Letter, margins come from the @page rule
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		s.log.Error("❌ GeneratePDF: Error printing cart summary", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	s.log.Debug("✅ GeneratePDF: Cart summary printed", zap.Int("bytes", len(pdfBuf)))
	return pdfBuf, nil
}
