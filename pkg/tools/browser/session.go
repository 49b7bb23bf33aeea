package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/togglekit/pkg/dom"
	"github.com/entrhq/togglekit/pkg/toggle"
)

var _ toggle.Detector = (*Session)(nil)

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.LastUsedAt = time.Now()
}

// Navigate navigates the session's page to the specified URL.
func (s *Session) Navigate(url string, opts NavigateOptions) error {
	s.UpdateLastUsed()

	gotoOpts := playwright.PageGotoOptions{}
	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		gotoOpts.WaitUntil = &waitUntil
	}
	if opts.Timeout > 0 {
		gotoOpts.Timeout = &opts.Timeout
	}

	if _, err := s.Page.Goto(url, gotoOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	s.CurrentURL = s.Page.URL()
	return nil
}

// SetContent replaces the page's document with html.
func (s *Session) SetContent(html string) error {
	s.UpdateLastUsed()
	if err := s.Page.SetContent(html); err != nil {
		return fmt.Errorf("failed to set page content: %w", err)
	}
	s.CurrentURL = s.Page.URL()
	return nil
}

// HTML returns the serialized document, including toggled styles.
func (s *Session) HTML() (string, error) {
	s.UpdateLastUsed()
	content, err := s.Page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return content, nil
}

// Screenshot writes a full-page PNG to path.
func (s *Session) Screenshot(path string) error {
	s.UpdateLastUsed()
	img, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	if err := os.WriteFile(path, img, 0644); err != nil {
		return fmt.Errorf("failed to write screenshot: %w", err)
	}
	return nil
}

// Document exposes the session's page to the toggle engine.
func (s *Session) Document() *PageDocument {
	return &PageDocument{session: s}
}

// DetectBrowser reports the family of the session's engine.
func (s *Session) DetectBrowser(ctx context.Context) (toggle.Browser, error) {
	if err := ctx.Err(); err != nil {
		return toggle.BrowserOther, err
	}
	if s.Browser != nil {
		return BrowserForEngine(s.Browser.BrowserType().Name()), nil
	}
	return BrowserForEngine(s.Engine), nil
}

// UserAgent returns navigator.userAgent of the page.
func (s *Session) UserAgent() (string, error) {
	v, err := s.Page.Evaluate(dom.UserAgentScript)
	if err != nil {
		return "", fmt.Errorf("failed to read user agent: %w", err)
	}
	ua, _ := v.(string)
	return ua, nil
}

func (s *Session) close() error {
	var errs []error
	if s.Page != nil {
		errs = append(errs, s.Page.Close())
	}
	if s.Context != nil {
		errs = append(errs, s.Context.Close())
	}
	if s.Browser != nil {
		errs = append(errs, s.Browser.Close())
	}
	return errors.Join(errs...)
}
