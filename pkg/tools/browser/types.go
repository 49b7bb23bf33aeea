package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/togglekit/pkg/toggle"
)

// Session represents an active browser session with its associated resources.
type Session struct {
	// Name is the unique identifier for this session
	Name string

	// Engine is the Playwright browser engine: chromium, firefox or webkit
	Engine string

	// Browser is the Playwright browser instance
	Browser playwright.Browser

	// Context is the browser context (isolated session)
	Context playwright.BrowserContext

	// Page is the current active page
	Page playwright.Page

	// Headless indicates if the browser is running in headless mode
	Headless bool

	// CreatedAt is the timestamp when the session was created
	CreatedAt time.Time

	// LastUsedAt is the timestamp of the last operation on this session
	LastUsedAt time.Time

	// CurrentURL is the URL of the current page
	CurrentURL string
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Engine selects chromium (default), firefox or webkit
	Engine string

	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout sets the default timeout for operations (in milliseconds)
	Timeout float64
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	// WaitUntil specifies when to consider navigation successful
	// Valid values: "load", "domcontentloaded", "networkidle"
	WaitUntil string

	// Timeout in milliseconds (0 means default)
	Timeout float64
}

// SessionInfo contains metadata about a browser session.
type SessionInfo struct {
	Name       string
	Engine     string
	CurrentURL string
	Headless   bool
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// Browser engines.
const (
	EngineChromium = "chromium"
	EngineFirefox  = "firefox"
	EngineWebKit   = "webkit"
)

// Default values for various operations
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultMaxSessions    = 5
	DefaultIdleTimeout    = 300 // 5 minutes in seconds
)

// ValidateEngine checks that name is a Playwright engine, treating "" as
// chromium.
func ValidateEngine(name string) (string, error) {
	switch name {
	case "", EngineChromium:
		return EngineChromium, nil
	case EngineFirefox, EngineWebKit:
		return name, nil
	}
	return "", fmt.Errorf("unknown browser engine %q (must be chromium, firefox or webkit)", name)
}

// BrowserForEngine maps a Playwright engine to the browser family tag
// used for target_browser gating.
func BrowserForEngine(engine string) toggle.Browser {
	switch engine {
	case EngineFirefox:
		return toggle.BrowserFirefox
	case EngineChromium, EngineWebKit:
		return toggle.BrowserWebKit
	}
	return toggle.BrowserOther
}
