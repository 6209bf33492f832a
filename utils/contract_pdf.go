package utils

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// RenderHTMLToPDF renders the given HTML document to an A4 portrait PDF via a
// headless browser and writes the file under dirPath. The HTML is served from
// a throwaway local HTTP server so relative assets resolve. Returns the
// relative path of the written file.
func RenderHTMLToPDF(htmlContent, dirPath, filename string) (string, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(htmlContent))
	})

	server := &http.Server{Handler: mux}
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return "", err
	}
	defer listener.Close()

	go server.Serve(listener)
	defer server.Close()

	port := listener.Addr().(*net.TCPAddr).Port
	url := fmt.Sprintf("http://localhost:%d", port)

	var buf []byte
	err = chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.4).
				WithMarginBottom(0.4).
				WithMarginLeft(0.4).
				WithMarginRight(0.4).
				WithLandscape(false).
				WithPreferCSSPageSize(false).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", err
	}
	fullPath := filepath.Join(dirPath, filename)
	if err := os.WriteFile(fullPath, buf, 0644); err != nil {
		return "", err
	}
	return filepath.ToSlash(fullPath), nil
}

// WriteHTMLFile persists a rendered HTML document under dirPath and returns
// the relative path of the written file.
func WriteHTMLFile(htmlContent, dirPath, filename string) (string, error) {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", err
	}
	fullPath := filepath.Join(dirPath, filename)
	if err := os.WriteFile(fullPath, []byte(htmlContent), 0644); err != nil {
		return "", err
	}
	return filepath.ToSlash(fullPath), nil
}
