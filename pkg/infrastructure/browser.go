package infrastructure

import (
	"context"
	"errors"
)

// ErrBrowserUnavailable is returned when no usable browser instance could be
// obtained, either because launching failed or the pool was shut down.
var ErrBrowserUnavailable = errors.New("browser unavailable")

// PDFOptions controls page geometry. Sizes are in inches.
type PDFOptions struct {
	PaperWidth      float64
	PaperHeight     float64
	MarginTop       float64
	MarginBottom    float64
	MarginLeft      float64
	MarginRight     float64
	PrintBackground bool
}

// A4 is 210mm x 297mm with uniform margins and backgrounds printed.
func A4(margin float64) PDFOptions {
	return PDFOptions{
		PaperWidth:      8.27,
		PaperHeight:     11.69,
		MarginTop:       margin,
		MarginBottom:    margin,
		MarginLeft:      margin,
		MarginRight:     margin,
		PrintBackground: true,
	}
}

// Letter is 8.5in x 11in.
func Letter(margin float64) PDFOptions {
	o := A4(margin)
	o.PaperWidth, o.PaperHeight = 8.5, 11
	return o
}

// Page is a single browser tab.
type Page interface {
	// Load replaces the page content with html and returns once the
	// network has gone idle for that navigation.
	Load(ctx context.Context, html string) error
	PrintPDF(ctx context.Context, opts PDFOptions) ([]byte, error)
	Close() error
}

// Browser is a running headless browser process.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	// Ping reports whether the process still answers protocol calls.
	Ping(ctx context.Context) error
	Close() error
}

// Launcher starts a new browser. The returned instance must outlive ctx;
// ctx only bounds the startup.
type Launcher func(ctx context.Context) (Browser, error)
