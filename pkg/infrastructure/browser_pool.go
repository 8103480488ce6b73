package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const DefaultIdleTimeout = 5 * time.Minute

// PoolStats is a snapshot of the pool state.
type PoolStats struct {
	Running       bool   `json:"running"`
	ActivePages   int    `json:"activePages"`
	Generation    uint64 `json:"generation"`
	Launches      uint64 `json:"launches"`
	Discards      uint64 `json:"discards"`
	IdleShutdowns uint64 `json:"idleShutdowns"`
}

// BrowserPool shares one lazily launched browser between callers. Each
// caller gets its own page. The browser is closed after a period without
// acquisitions and whenever a caller reports it as broken; the next Acquire
// launches a fresh one.
type BrowserPool struct {
	launch      Launcher
	idleTimeout time.Duration

	mu      sync.Mutex
	browser Browser
	gen     uint64
	active  int
	timer   *time.Timer
	closed  bool

	launches      uint64
	discards      uint64
	idleShutdowns uint64
}

// PooledPage is a page handed out by the pool. Return it with Release or
// Discard exactly once; further calls are ignored.
type PooledPage struct {
	Page
	gen  uint64
	done sync.Once
}

func NewBrowserPool(launch Launcher, idleTimeout time.Duration) *BrowserPool {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &BrowserPool{launch: launch, idleTimeout: idleTimeout}
}

// Acquire opens a page on the shared browser, launching or relaunching it
// when needed.
func (p *BrowserPool) Acquire(ctx context.Context) (*PooledPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: pool shut down", ErrBrowserUnavailable)
	}
	b, gen, err := p.ensureLocked(ctx)
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	p.active++
	p.armLocked()
	p.mu.Unlock()

	pg, err := b.NewPage(ctx)
	if err != nil {
		p.mu.Lock()
		p.active--
		p.mu.Unlock()
		p.discardGen(gen, err)
		return nil, fmt.Errorf("%w: open page: %v", ErrBrowserUnavailable, err)
	}
	return &PooledPage{Page: pg, gen: gen}, nil
}

// ensureLocked returns the current browser, replacing it when it no longer
// answers. Launching happens under the lock so concurrent callers share a
// single instance.
func (p *BrowserPool) ensureLocked(ctx context.Context) (Browser, uint64, error) {
	if p.browser != nil {
		err := p.browser.Ping(ctx)
		if err == nil {
			return p.browser, p.gen, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, ctxErr
		}
		slog.Warn("Browser stopped responding, relaunching", "generation", p.gen, "error", err)
		stale := p.browser
		p.browser = nil
		go closeBrowser(stale, p.gen, "unresponsive")
	}

	b, err := p.launch(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, ctxErr
		}
		return nil, 0, fmt.Errorf("%w: %v", ErrBrowserUnavailable, err)
	}
	p.gen++
	p.launches++
	p.browser = b
	slog.Info("Browser launched", "generation", p.gen)
	return b, p.gen, nil
}

// armLocked restarts the idle countdown.
func (p *BrowserPool) armLocked() {
	if p.timer != nil {
		p.timer.Stop()
	}
	gen := p.gen
	p.timer = time.AfterFunc(p.idleTimeout, func() { p.onIdle(gen) })
}

func (p *BrowserPool) onIdle(gen uint64) {
	p.mu.Lock()
	if p.closed || p.browser == nil || p.gen != gen {
		p.mu.Unlock()
		return
	}
	if p.active > 0 {
		// Never pull the browser from under a running render.
		p.armLocked()
		p.mu.Unlock()
		return
	}
	b := p.browser
	p.browser = nil
	p.idleShutdowns++
	p.timer = nil
	p.mu.Unlock()

	closeBrowser(b, gen, "idle")
}

// Release closes the page and keeps the browser for reuse.
func (p *BrowserPool) Release(pg *PooledPage) {
	if pg == nil {
		return
	}
	pg.done.Do(func() {
		if err := pg.Page.Close(); err != nil {
			slog.Debug("Closing page failed", "error", err)
		}
		p.mu.Lock()
		p.active--
		p.mu.Unlock()
	})
}

// Discard closes the page and, if the page's browser is still the current
// one, closes that browser too so the next Acquire starts from scratch.
func (p *BrowserPool) Discard(pg *PooledPage, cause error) {
	if pg == nil {
		return
	}
	pg.done.Do(func() {
		_ = pg.Page.Close()
		p.mu.Lock()
		p.active--
		p.mu.Unlock()
		p.discardGen(pg.gen, cause)
	})
}

func (p *BrowserPool) discardGen(gen uint64, cause error) {
	p.mu.Lock()
	if p.browser == nil || p.gen != gen {
		p.mu.Unlock()
		return
	}
	b := p.browser
	p.browser = nil
	p.discards++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()

	slog.Warn("Discarding browser after failure", "generation", gen, "error", cause)
	closeBrowser(b, gen, "discarded")
}

// Shutdown closes the browser and rejects further acquisitions. It is safe
// to call more than once.
func (p *BrowserPool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	b, gen := p.browser, p.gen
	p.browser = nil
	p.mu.Unlock()

	if b != nil {
		closeBrowser(b, gen, "shutdown")
	}
}

func (p *BrowserPool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PoolStats{
		Running:       p.browser != nil,
		ActivePages:   p.active,
		Generation:    p.gen,
		Launches:      p.launches,
		Discards:      p.discards,
		IdleShutdowns: p.idleShutdowns,
	}
}

func closeBrowser(b Browser, gen uint64, reason string) {
	if err := b.Close(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("Closing browser failed", "generation", gen, "reason", reason, "error", err)
		return
	}
	slog.Info("Browser closed", "generation", gen, "reason", reason)
}
