package tex2html

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// defaultPDFTimeout bounds page load and rendering for PDF export.
const defaultPDFTimeout = 30 * time.Second

// PDF page dimensions in inches (US Letter).
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
	marginInches      = 0.5
)

// pdfExporter renders HTML to PDF using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type pdfExporter struct {
	browser *rod.Browser
	timeout time.Duration
}

// newPDFExporter creates a pdfExporter with the given timeout.
func newPDFExporter(timeout time.Duration) *pdfExporter {
	if timeout <= 0 {
		timeout = defaultPDFTimeout
	}
	return &pdfExporter{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (e *pdfExporter) ensureBrowser() error {
	if e.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use a pre-installed browser if specified (Docker/containerized setups).
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	e.browser = rod.New().ControlURL(u)
	if err := e.browser.Connect(); err != nil {
		e.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (e *pdfExporter) Close() error {
	if e.browser != nil {
		err := e.browser.Close()
		e.browser = nil
		return err
	}
	return nil
}

// Render writes htmlContent to a temporary file, opens it in headless
// Chrome, and renders it to PDF.
func (e *pdfExporter) Render(ctx context.Context, htmlContent string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.ensureBrowser(); err != nil {
		return nil, err
	}

	tmpFile, err := os.CreateTemp("", "tex2html-*.html")
	if err != nil {
		return nil, fmt.Errorf("%w: creating temp file: %v", ErrPDFGeneration, err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.WriteString(htmlContent); err != nil {
		_ = tmpFile.Close()
		return nil, fmt.Errorf("%w: writing temp file: %v", ErrPDFGeneration, err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("%w: closing temp file: %v", ErrPDFGeneration, err)
	}

	page, err := e.browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := e.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(e.buildPDFOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

// buildPDFOptions constructs the print settings for a Letter page.
func (e *pdfExporter) buildPDFOptions() *proto.PagePrintToPDF {
	width := float64(paperWidthInches)
	height := float64(paperHeightInches)
	margin := float64(marginInches)

	return &proto.PagePrintToPDF{
		PaperWidth:      &width,
		PaperHeight:     &height,
		MarginTop:       &margin,
		MarginBottom:    &margin,
		MarginLeft:      &margin,
		MarginRight:     &margin,
		PrintBackground: true,
	}
}
