// Package rodpage drives a Chromium page through go-rod and exposes it as a
// toggle document.
package rodpage

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/entrhq/togglekit/pkg/dom"
	"github.com/entrhq/togglekit/pkg/toggle"
)

// Config controls how the browser is started.
type Config struct {
	// RemoteURL is the DevTools WebSocket URL of a running Chrome. Empty
	// launches a local one.
	RemoteURL string

	Headless bool

	// Stealth opens pages with go-rod/stealth evasions applied.
	Stealth bool

	// NavigationTimeout bounds Navigate and WaitLoad. Default: 30s.
	NavigationTimeout time.Duration
}

// Page is a browser tab usable as a toggle.Document and toggle.Detector.
type Page struct {
	cfg     Config
	browser *rod.Browser
	lnch    *launcher.Launcher
	page    *rod.Page
}

var (
	_ toggle.Document = (*Page)(nil)
	_ toggle.Detector = (*Page)(nil)
)

// Open starts or connects to a browser and opens a blank tab.
func Open(ctx context.Context, cfg Config) (*Page, error) {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 30 * time.Second
	}

	p := &Page{cfg: cfg}

	wsURL := cfg.RemoteURL
	if wsURL == "" {
		l := launcher.New().Headless(cfg.Headless)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
		wsURL = u
		p.lnch = l
	}

	b := rod.New().ControlURL(wsURL).Context(ctx)
	if err := b.Connect(); err != nil {
		p.cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	p.browser = b

	var err error
	if cfg.Stealth {
		p.page, err = stealth.Page(b)
	} else {
		p.page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		p.cleanup()
		return nil, fmt.Errorf("failed to create tab: %w", err)
	}
	return p, nil
}

// Wrap uses an existing rod page. Close does not close its browser.
func Wrap(page *rod.Page) *Page {
	return &Page{page: page}
}

// Navigate loads url and waits for the load event.
func (p *Page) Navigate(ctx context.Context, url string) error {
	timeout := p.cfg.NavigationTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.page.Context(navCtx).Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := p.page.Context(navCtx).WaitLoad(); err != nil {
		return fmt.Errorf("failed waiting for %s to load: %w", url, err)
	}
	return nil
}

// SetContent replaces the page's document with html.
func (p *Page) SetContent(ctx context.Context, html string) error {
	if err := p.page.Context(ctx).SetDocumentContent(html); err != nil {
		return fmt.Errorf("failed to set page content: %w", err)
	}
	return nil
}

// Find runs the query as a single CSS selector.
func (p *Page) Find(ctx context.Context, q toggle.Query) ([]toggle.Element, error) {
	css, err := q.CSS()
	if err != nil {
		return nil, err
	}
	elems, err := p.page.Context(ctx).Elements(css)
	if err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", css, err)
	}

	out := make([]toggle.Element, len(elems))
	for i, el := range elems {
		out[i] = &Element{el: el}
	}
	return out, nil
}

// DetectBrowser classifies the page's user agent.
func (p *Page) DetectBrowser(ctx context.Context) (toggle.Browser, error) {
	res, err := p.page.Context(ctx).Eval(dom.UserAgentScript)
	if err != nil {
		return toggle.BrowserOther, fmt.Errorf("failed to read user agent: %w", err)
	}
	return toggle.ClassifyUserAgent(res.Value.Str()), nil
}

// HTML returns the current outer HTML of the document element.
func (p *Page) HTML(ctx context.Context) (string, error) {
	res, err := p.page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("failed to read page html: %w", err)
	}
	return res.Value.Str(), nil
}

// Screenshot captures the full page as PNG.
func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	img, err := p.page.Context(ctx).Screenshot(true, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to take screenshot: %w", err)
	}
	return img, nil
}

// Close closes the tab and, when Open started it, the browser.
func (p *Page) Close() error {
	var err error
	if p.page != nil {
		err = p.page.Close()
		p.page = nil
	}
	p.cleanup()
	return err
}

func (p *Page) cleanup() {
	if p.browser != nil {
		_ = p.browser.Close()
		p.browser = nil
	}
	if p.lnch != nil {
		p.lnch.Cleanup()
		p.lnch = nil
	}
}

// Element is a live element handle.
type Element struct {
	el *rod.Element
}

var _ toggle.Element = (*Element)(nil)

// Visible uses rod's layout-based visibility check.
func (e *Element) Visible(ctx context.Context) (bool, error) {
	v, err := e.el.Context(ctx).Visible()
	if err != nil {
		return false, fmt.Errorf("failed to check visibility: %w", err)
	}
	return v, nil
}

func (e *Element) SetVisible(ctx context.Context, visible bool) error {
	script := dom.HideScript
	if visible {
		script = dom.ShowScript
	}
	if _, err := e.el.Context(ctx).Eval(dom.AsMethod(script)); err != nil {
		return fmt.Errorf("failed to set visibility: %w", err)
	}
	return nil
}

func (e *Element) Box(ctx context.Context) (toggle.Box, error) {
	res, err := e.el.Context(ctx).Eval(dom.AsMethod(dom.BoxScript))
	if err != nil {
		return toggle.Box{}, fmt.Errorf("failed to measure element: %w", err)
	}
	v := res.Value
	return toggle.Box{
		X:      v.Get("x").Num(),
		Y:      v.Get("y").Num(),
		Width:  v.Get("width").Num(),
		Height: v.Get("height").Num(),
	}, nil
}
