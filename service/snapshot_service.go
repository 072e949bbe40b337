package service

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Snapshot formats
const (
	SnapshotPNG = "png"
	SnapshotPDF = "pdf"
)

const (
	snapshotTimeout  = 60 * time.Second
	snapshotViewport = 1280
	screenshotQual   = 90
)

// imagesSettledJS resolves once fonts are ready and every image has loaded
// or failed, so placeholder swaps are part of the snapshot
const imagesSettledJS = `
	(function() {
		return Promise.all([
			document.fonts.ready,
			Promise.all(Array.from(document.querySelectorAll('img')).map(img => {
				return new Promise((resolve) => {
					if (img.complete) {
						resolve();
						return;
					}
					const timeout = setTimeout(() => resolve(), 5000);
					img.addEventListener('load', () => { clearTimeout(timeout); resolve(); });
					img.addEventListener('error', () => { clearTimeout(timeout); resolve(); });
				});
			}))
		]);
	})();
`

// DetectChromePath detects the path to Chrome/Chromium executable
// Checks CHROME_PATH env var first, then common installation paths
func DetectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SnapshotService renders storefront pages in headless Chrome
type SnapshotService struct {
	baseURL string
	logger  *zap.Logger
}

// NewSnapshotService creates a SnapshotService for the storefront at baseURL
func NewSnapshotService(baseURL string, logger *zap.Logger) *SnapshotService {
	return &SnapshotService{baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// PageURL returns the absolute URL of a storefront path
func (s *SnapshotService) PageURL(path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := url.Parse(s.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("invalid page path %q: %w", path, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("base url must be http or https, got %q", s.baseURL)
	}
	return u.String(), nil
}

// Capture renders path and returns a full-page PNG or a PDF
func (s *SnapshotService) Capture(ctx context.Context, path, format string) ([]byte, error) {
	if format != SnapshotPNG && format != SnapshotPDF {
		return nil, fmt.Errorf("unsupported snapshot format %q", format)
	}

	pageURL, err := s.PageURL(path)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := DetectChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	} else {
		s.logger.Warn("⚠️  No Chrome found, letting chromedp search PATH")
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	s.logger.Info("📸 Capturing page", zap.String("url", pageURL), zap.String("format", format))

	var buf []byte
	capture := chromedp.FullScreenshot(&buf, screenshotQual)
	if format == SnapshotPDF {
		capture = chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		})
	}

	err = chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(snapshotViewport, 900),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(imagesSettledJS, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		capture,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture %s: %w", pageURL, err)
	}

	s.logger.Info("✓ Page captured", zap.Int("bytes", len(buf)))
	return buf, nil
}
