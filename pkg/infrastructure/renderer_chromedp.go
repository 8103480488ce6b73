package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
)

// ChromeOptions configures the headless Chrome launcher.
type ChromeOptions struct {
	// ExecPath overrides the Chrome binary, usually from CHROME_PATH.
	ExecPath string
	// TempDir holds the HTML files handed to Chrome. Defaults to os.TempDir().
	TempDir string
}

// NewChromeLauncher returns a Launcher starting headless Chrome with the
// flags needed to run inside containers.
func NewChromeLauncher(opts ChromeOptions) Launcher {
	return func(ctx context.Context) (Browser, error) {
		b, err := launchChrome(ctx, opts)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}

type chromeBrowser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	dir         string
	closeOnce   sync.Once
}

func launchChrome(ctx context.Context, opts ChromeOptions) (*chromeBrowser, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("no-zygote", true),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	dir, err := os.MkdirTemp(opts.TempDir, "resume-render-")
	if err != nil {
		return nil, fmt.Errorf("create render dir: %w", err)
	}

	// The process is shared across requests, so it hangs off Background and
	// ctx only bounds the startup below.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	bctx, cancel := chromedp.NewContext(allocCtx)

	stop := context.AfterFunc(ctx, cancel)
	err = chromedp.Run(bctx)
	if !stop() && err == nil {
		err = ctx.Err()
	}
	if err != nil {
		cancel()
		allocCancel()
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("launch chrome: %w", err)
	}
	return &chromeBrowser{ctx: bctx, cancel: cancel, allocCancel: allocCancel, dir: dir}, nil
}

func (b *chromeBrowser) NewPage(ctx context.Context) (Page, error) {
	if err := b.ctx.Err(); err != nil {
		return nil, fmt.Errorf("browser closed: %w", err)
	}
	tctx, cancel := chromedp.NewContext(b.ctx)

	// The first Run creates the tab and binds its event loop to the context
	// it is given, so it must run on tctx itself.
	stop := context.AfterFunc(ctx, cancel)
	err := chromedp.Run(tctx)
	if !stop() && err == nil {
		err = ctx.Err()
	}
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open tab: %w", err)
	}
	return &chromePage{ctx: tctx, cancel: cancel, dir: b.dir}, nil
}

func (b *chromeBrowser) Ping(ctx context.Context) error {
	if err := b.ctx.Err(); err != nil {
		return err
	}
	c := chromedp.FromContext(b.ctx)
	if c == nil || c.Browser == nil {
		return errors.New("browser not started")
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, _, _, _, _, err := browser.GetVersion().Do(cdp.WithExecutor(pctx, c.Browser))
	return err
}

func (b *chromeBrowser) Close() error {
	var err error
	b.closeOnce.Do(func() {
		err = chromedp.Cancel(b.ctx)
		b.cancel()
		b.allocCancel()
		_ = os.RemoveAll(b.dir)
	})
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}

type chromePage struct {
	ctx    context.Context
	cancel context.CancelFunc
	dir    string
}

// run executes actions on the tab while honouring the caller's ctx. The
// tab context cannot be derived from ctx, so cancellation is bridged.
func (p *chromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(p.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (p *chromePage) Load(ctx context.Context, html string) error {
	path := filepath.Join(p.dir, uuid.NewString()+".html")
	if err := os.WriteFile(path, []byte(html), 0o600); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	defer os.Remove(path)

	lctx, stopListening := context.WithCancel(p.ctx)
	defer stopListening()
	idle := make(chan cdp.LoaderID, 8)
	chromedp.ListenTarget(lctx, func(ev any) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" {
			select {
			case idle <- e.LoaderID:
			default:
			}
		}
	})

	return p.run(ctx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, loaderID, errText, err := page.Navigate("file://" + path).Do(ctx)
			if err != nil {
				return err
			}
			if errText != "" {
				return fmt.Errorf("navigate: %s", errText)
			}
			for {
				select {
				case id := <-idle:
					if id == loaderID {
						return nil
					}
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}),
	)
}

func (p *chromePage) PrintPDF(ctx context.Context, o PDFOptions) ([]byte, error) {
	var buf []byte
	err := p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, _, err = page.PrintToPDF().
			WithPrintBackground(o.PrintBackground).
			WithPaperWidth(o.PaperWidth).
			WithPaperHeight(o.PaperHeight).
			WithMarginTop(o.MarginTop).
			WithMarginBottom(o.MarginBottom).
			WithMarginLeft(o.MarginLeft).
			WithMarginRight(o.MarginRight).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func (p *chromePage) Close() error {
	err := chromedp.Cancel(p.ctx)
	p.cancel()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}
