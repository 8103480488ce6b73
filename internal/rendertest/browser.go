// Package rendertest provides an in-memory browser for exercising the
// render pipeline without Chrome.
package rendertest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"resume-renderer/pkg/infrastructure"

	"github.com/PuerkitoBio/goquery"
)

var errClosed = errors.New("rendertest: browser closed")

// Launcher hands out fake browsers whose pages "print" the visible text of
// the loaded document into a minimal PDF. Failures can be injected per call.
type Launcher struct {
	mu           sync.Mutex
	browsers     []*Browser
	launchErrs   []error
	loadErrs     []error
	printErrs    []error
	corruptPrint int
	loadDelay    time.Duration
	lastOptions  infrastructure.PDFOptions
}

func NewLauncher() *Launcher { return &Launcher{} }

// Launch satisfies infrastructure.Launcher.
func (l *Launcher) Launch(ctx context.Context) (infrastructure.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := pop(&l.launchErrs); err != nil {
		return nil, err
	}
	b := &Browser{l: l}
	l.browsers = append(l.browsers, b)
	return b, nil
}

// FailLaunch makes the next launch return err.
func (l *Launcher) FailLaunch(err error) { l.queue(&l.launchErrs, err) }

// FailLoad makes the next page load return err.
func (l *Launcher) FailLoad(err error) { l.queue(&l.loadErrs, err) }

// FailPrint makes the next print return err.
func (l *Launcher) FailPrint(err error) { l.queue(&l.printErrs, err) }

// CorruptPrint makes the next print return bytes that are not a PDF.
func (l *Launcher) CorruptPrint() {
	l.mu.Lock()
	l.corruptPrint++
	l.mu.Unlock()
}

// SetLoadDelay slows down every page load.
func (l *Launcher) SetLoadDelay(d time.Duration) {
	l.mu.Lock()
	l.loadDelay = d
	l.mu.Unlock()
}

func (l *Launcher) queue(q *[]error, err error) {
	l.mu.Lock()
	*q = append(*q, err)
	l.mu.Unlock()
}

// Launches reports how many browsers were started.
func (l *Launcher) Launches() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.browsers)
}

// Running reports how many started browsers have not been closed.
func (l *Launcher) Running() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, b := range l.browsers {
		if !b.Closed() {
			n++
		}
	}
	return n
}

// Browser returns the i-th launched browser.
func (l *Launcher) Browser(i int) *Browser {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.browsers[i]
}

// LastOptions returns the geometry of the most recent print.
func (l *Launcher) LastOptions() infrastructure.PDFOptions {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastOptions
}

func pop(q *[]error) error {
	if len(*q) == 0 {
		return nil
	}
	err := (*q)[0]
	*q = (*q)[1:]
	return err
}

type Browser struct {
	l      *Launcher
	mu     sync.Mutex
	closed bool
	pages  int
}

func (b *Browser) NewPage(ctx context.Context) (infrastructure.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, errClosed
	}
	b.pages++
	return &Page{b: b}, nil
}

func (b *Browser) Ping(ctx context.Context) error {
	if b.Closed() {
		return errClosed
	}
	return nil
}

func (b *Browser) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}

// Crash simulates the process dying underneath the pool.
func (b *Browser) Crash() { _ = b.Close() }

func (b *Browser) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Pages reports how many pages were opened on this browser.
func (b *Browser) Pages() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pages
}

type Page struct {
	b    *Browser
	html string
}

func (p *Page) Load(ctx context.Context, html string) error {
	l := p.b.l
	l.mu.Lock()
	err := pop(&l.loadErrs)
	delay := l.loadDelay
	l.mu.Unlock()
	if err != nil {
		return err
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if p.b.Closed() {
		return errClosed
	}
	p.html = html
	return nil
}

func (p *Page) PrintPDF(ctx context.Context, opts infrastructure.PDFOptions) ([]byte, error) {
	l := p.b.l
	l.mu.Lock()
	l.lastOptions = opts
	err := pop(&l.printErrs)
	corrupt := l.corruptPrint > 0
	if corrupt {
		l.corruptPrint--
	}
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if p.b.Closed() {
		return nil, errClosed
	}
	if corrupt {
		return []byte("<html>not a pdf</html>"), nil
	}
	return MinimalPDF(VisibleLines(p.html)), nil
}

func (p *Page) Close() error { return nil }

// VisibleLines returns the non-empty text lines of the document body.
func VisibleLines(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	var out []string
	for _, line := range strings.Split(doc.Find("body").Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
