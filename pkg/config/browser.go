package config

import (
	"fmt"
	"sync"

	"github.com/entrhq/togglekit/pkg/toggle"
)

const (
	// SectionIDBrowser is the identifier for the browser settings section
	SectionIDBrowser = "browser"

	EngineStatic     = "static"
	EnginePlaywright = "playwright"
	EngineRod        = "rod"

	defaultEngine         = EngineStatic
	defaultBrowserName    = "chromium"
	defaultHeadless       = true
	defaultViewportWidth  = 1280
	defaultViewportHeight = 720
)

// BrowserSection selects the document backend and how live browsers start.
type BrowserSection struct {
	Engine         string `json:"engine"`
	Browser        string `json:"browser"`
	Headless       bool   `json:"headless"`
	ViewportWidth  int    `json:"viewport_width"`
	ViewportHeight int    `json:"viewport_height"`
	RemoteURL      string `json:"remote_url"`
	Stealth        bool   `json:"stealth"`
	UnknownBrowser string `json:"unknown_browser"`
	mu             sync.RWMutex
}

// NewBrowserSection creates a browser section with default settings.
func NewBrowserSection() *BrowserSection {
	s := &BrowserSection{}
	s.reset()
	return s
}

// ID returns the section identifier.
func (s *BrowserSection) ID() string { return SectionIDBrowser }

// Title returns the section title.
func (s *BrowserSection) Title() string { return "Browser Settings" }

// Description returns the section description.
func (s *BrowserSection) Description() string {
	return "Choose the document backend (static, playwright or rod), the browser it drives and how gated toggles treat unidentified browsers."
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"engine":          s.Engine,
		"browser":         s.Browser,
		"headless":        s.Headless,
		"viewport_width":  s.ViewportWidth,
		"viewport_height": s.ViewportHeight,
		"remote_url":      s.RemoteURL,
		"stealth":         s.Stealth,
		"unknown_browser": s.UnknownBrowser,
	}
}

// SetData updates the configuration from the provided data.
func (s *BrowserSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		var err error
		switch key {
		case "engine":
			s.Engine, err = asString(key, value)
		case "browser":
			s.Browser, err = asString(key, value)
		case "remote_url":
			s.RemoteURL, err = asString(key, value)
		case "unknown_browser":
			s.UnknownBrowser, err = asString(key, value)
		case "headless":
			s.Headless, err = asBool(key, value)
		case "stealth":
			s.Stealth, err = asBool(key, value)
		case "viewport_width":
			s.ViewportWidth, err = asInt(key, value)
		case "viewport_height":
			s.ViewportHeight, err = asInt(key, value)
		default:
			// Ignore unknown keys for forward compatibility
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the current configuration.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.Engine {
	case EngineStatic, EnginePlaywright, EngineRod:
	default:
		return fmt.Errorf("engine must be one of static, playwright, rod; got %q", s.Engine)
	}
	switch s.Browser {
	case "chromium", "firefox", "webkit":
	default:
		return fmt.Errorf("browser must be one of chromium, firefox, webkit; got %q", s.Browser)
	}
	if s.ViewportWidth < 100 || s.ViewportWidth > 5000 {
		return fmt.Errorf("viewport_width must be between 100 and 5000 pixels")
	}
	if s.ViewportHeight < 100 || s.ViewportHeight > 5000 {
		return fmt.Errorf("viewport_height must be between 100 and 5000 pixels")
	}
	if _, err := toggle.ParseUnknownBrowserPolicy(s.UnknownBrowser); err != nil {
		return err
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *BrowserSection) reset() {
	s.Engine = defaultEngine
	s.Browser = defaultBrowserName
	s.Headless = defaultHeadless
	s.ViewportWidth = defaultViewportWidth
	s.ViewportHeight = defaultViewportHeight
	s.RemoteURL = ""
	s.Stealth = false
	s.UnknownBrowser = toggle.SkipUnknown.String()
}

// Policy returns the parsed unknown-browser policy, SkipUnknown when the
// stored value is invalid.
func (s *BrowserSection) Policy() toggle.UnknownBrowserPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := toggle.ParseUnknownBrowserPolicy(s.UnknownBrowser)
	if err != nil {
		return toggle.SkipUnknown
	}
	return p
}

// Snapshot returns a copy of the settings safe to read without locking.
func (s *BrowserSection) Snapshot() BrowserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return BrowserSettings{
		Engine:         s.Engine,
		Browser:        s.Browser,
		Headless:       s.Headless,
		ViewportWidth:  s.ViewportWidth,
		ViewportHeight: s.ViewportHeight,
		RemoteURL:      s.RemoteURL,
		Stealth:        s.Stealth,
		UnknownBrowser: s.UnknownBrowser,
	}
}

// BrowserSettings is a plain copy of BrowserSection.
type BrowserSettings struct {
	Engine         string
	Browser        string
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	RemoteURL      string
	Stealth        bool
	UnknownBrowser string
}

func asString(key string, v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("invalid value type for %s: expected string, got %T", key, v)
	}
	return s, nil
}

func asBool(key string, v interface{}) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("invalid value type for %s: expected bool, got %T", key, v)
	}
	return b, nil
}

func asInt(key string, v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		// JSON numbers come as float64
		if n != float64(int(n)) {
			return 0, fmt.Errorf("invalid value for %s: %v is not an integer", key, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("invalid value type for %s: expected number, got %T", key, v)
	}
}
