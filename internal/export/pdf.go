package export

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// ErrNoBrowser is returned when no Chrome or Chromium binary is installed.
var ErrNoBrowser = errors.New("no Chrome or Chromium browser found")

// PrintPDF loads the HTML file at htmlPath in headless Chrome and saves the
// printed page to pdfPath.
func PrintPDF(ctx context.Context, htmlPath, pdfPath string, logger *logrus.Logger) error {
	if !isChromeAvailable() {
		return ErrNoBrowser
	}

	target, err := fileURL(htmlPath)
	if err != nil {
		return err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	timeoutCtx, cancelTimeout := context.WithTimeout(allocCtx, time.Minute)
	defer cancelTimeout()

	browserCtx, cancelBrowser := chromedp.NewContext(timeoutCtx, chromedp.WithLogf(logger.Printf))
	defer cancelBrowser()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to print PDF: %w", err)
	}

	if err := os.WriteFile(pdfPath, pdf, 0644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	logger.Infof("Wrote %d bytes to %s", len(pdf), pdfPath)
	return nil
}

func fileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

func isChromeAvailable() bool {
	paths := []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser"}
	for _, path := range paths {
		if _, err := exec.LookPath(path); err == nil {
			return true
		}
	}
	return false
}
