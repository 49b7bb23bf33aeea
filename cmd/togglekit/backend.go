package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	appconfig "github.com/entrhq/togglekit/pkg/config"
	"github.com/entrhq/togglekit/pkg/dom/htmldoc"
	"github.com/entrhq/togglekit/pkg/dom/rodpage"
	"github.com/entrhq/togglekit/pkg/logging"
	"github.com/entrhq/togglekit/pkg/toggle"
	"github.com/entrhq/togglekit/pkg/tools/browser"
)

// backend is a loaded page the engine can toggle.
type backend interface {
	Document() toggle.Document

	// Detector returns nil when the browser is unknown.
	Detector() toggle.Detector

	// Save writes the page as HTML when path ends in .html or .htm, and as
	// a PNG screenshot otherwise.
	Save(ctx context.Context, path string) error

	Close() error
}

func openBackend(ctx context.Context, cfg *CLIConfig, s appconfig.BrowserSettings, logger *logging.Logger) (backend, error) {
	if cfg.HTMLFile != "" && cfg.URL != "" {
		return nil, fmt.Errorf("-html and -url are mutually exclusive")
	}
	if cfg.HTMLFile == "" && cfg.URL == "" {
		return nil, fmt.Errorf("a page is required: give -html or -url")
	}

	logger.Infof("opening %s backend", s.Engine)
	switch s.Engine {
	case "", appconfig.EngineStatic:
		if cfg.URL != "" {
			return nil, fmt.Errorf("the static engine reads files only; use -engine playwright or rod for -url")
		}
		doc, err := htmldoc.Open(cfg.HTMLFile)
		if err != nil {
			return nil, err
		}
		return &staticBackend{doc: doc}, nil

	case appconfig.EnginePlaywright:
		return openPlaywright(cfg, s)

	case appconfig.EngineRod:
		if s.Browser != "" && s.Browser != browser.EngineChromium {
			logger.Warnf("rod drives chromium only; ignoring browser %q", s.Browser)
		}
		return openRod(ctx, cfg, s)
	}
	return nil, fmt.Errorf("unknown engine %q (must be static, playwright or rod)", s.Engine)
}

func isHTMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

type staticBackend struct {
	doc *htmldoc.Document
}

func (b *staticBackend) Document() toggle.Document { return b.doc }
func (b *staticBackend) Detector() toggle.Detector { return nil }
func (b *staticBackend) Close() error              { return nil }

func (b *staticBackend) Save(_ context.Context, path string) error {
	if !isHTMLPath(path) {
		return fmt.Errorf("the static engine can only write HTML, got %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := b.doc.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type playwrightBackend struct {
	manager *browser.SessionManager
	session *browser.Session
}

func openPlaywright(cfg *CLIConfig, s appconfig.BrowserSettings) (backend, error) {
	manager := browser.NewSessionManager()
	if err := manager.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	session, err := manager.StartSession("togglekit", browser.SessionOptions{
		Engine:   s.Browser,
		Headless: s.Headless,
		Viewport: &browser.Viewport{Width: s.ViewportWidth, Height: s.ViewportHeight},
	})
	if err != nil {
		_ = manager.Shutdown()
		return nil, err
	}

	if cfg.URL != "" {
		err = session.Navigate(cfg.URL, browser.NavigateOptions{WaitUntil: "load"})
	} else {
		err = setContentFromFile(cfg.HTMLFile, session.SetContent)
	}
	if err != nil {
		_ = manager.Shutdown()
		return nil, err
	}
	return &playwrightBackend{manager: manager, session: session}, nil
}

func (b *playwrightBackend) Document() toggle.Document { return b.session.Document() }
func (b *playwrightBackend) Detector() toggle.Detector { return b.session }
func (b *playwrightBackend) Close() error              { return b.manager.Shutdown() }

func (b *playwrightBackend) Save(_ context.Context, path string) error {
	if !isHTMLPath(path) {
		return b.session.Screenshot(path)
	}
	html, err := b.session.HTML()
	if err != nil {
		return err
	}
	return writeOutput(path, []byte(html))
}

type rodBackend struct {
	page *rodpage.Page
}

func openRod(ctx context.Context, cfg *CLIConfig, s appconfig.BrowserSettings) (backend, error) {
	page, err := rodpage.Open(ctx, rodpage.Config{
		RemoteURL: s.RemoteURL,
		Headless:  s.Headless,
		Stealth:   s.Stealth,
	})
	if err != nil {
		return nil, err
	}

	if cfg.URL != "" {
		err = page.Navigate(ctx, cfg.URL)
	} else {
		err = setContentFromFile(cfg.HTMLFile, func(html string) error {
			return page.SetContent(ctx, html)
		})
	}
	if err != nil {
		_ = page.Close()
		return nil, err
	}
	return &rodBackend{page: page}, nil
}

func (b *rodBackend) Document() toggle.Document { return b.page }
func (b *rodBackend) Detector() toggle.Detector { return b.page }
func (b *rodBackend) Close() error              { return b.page.Close() }

func (b *rodBackend) Save(ctx context.Context, path string) error {
	var (
		data []byte
		err  error
	)
	if isHTMLPath(path) {
		var html string
		html, err = b.page.HTML(ctx)
		data = []byte(html)
	} else {
		data, err = b.page.Screenshot(ctx)
	}
	if err != nil {
		return err
	}
	return writeOutput(path, data)
}

func setContentFromFile(path string, set func(string) error) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read HTML file: %w", err)
	}
	return set(string(data))
}

func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
