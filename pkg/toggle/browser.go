package toggle

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Browser is a coarse browser family tag used to gate toggles.
type Browser string

const (
	BrowserFirefox Browser = "ff"
	BrowserIE6     Browser = "ie6"
	BrowserIE7     Browser = "ie7"
	BrowserIE8     Browser = "ie8"
	BrowserWebKit  Browser = "wk"
	BrowserOpera   Browser = "op"
	BrowserOther   Browser = "other"
)

var knownBrowsers = map[Browser]bool{
	BrowserFirefox: true,
	BrowserIE6:     true,
	BrowserIE7:     true,
	BrowserIE8:     true,
	BrowserWebKit:  true,
	BrowserOpera:   true,
	BrowserOther:   true,
}

// ParseBrowser validates a browser tag.
func ParseBrowser(s string) (Browser, error) {
	b := Browser(strings.ToLower(strings.TrimSpace(s)))
	if !knownBrowsers[b] {
		return "", fmt.Errorf("%w: %q", ErrInvalidBrowser, s)
	}
	return b, nil
}

// Detector reports the identity of the browser hosting the document.
type Detector interface {
	DetectBrowser(ctx context.Context) (Browser, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(ctx context.Context) (Browser, error)

// DetectBrowser calls f.
func (f DetectorFunc) DetectBrowser(ctx context.Context) (Browser, error) {
	return f(ctx)
}

// UnknownDetector is the default detector. It never identifies a browser.
type UnknownDetector struct{}

// DetectBrowser always returns BrowserOther.
func (UnknownDetector) DetectBrowser(context.Context) (Browser, error) {
	return BrowserOther, nil
}

// StaticDetector reports a fixed identity.
type StaticDetector Browser

// DetectBrowser returns the configured identity.
func (d StaticDetector) DetectBrowser(context.Context) (Browser, error) {
	return Browser(d), nil
}

// UserAgentDetector classifies a user agent string.
type UserAgentDetector struct {
	UserAgent string
}

// DetectBrowser classifies the stored user agent.
func (d UserAgentDetector) DetectBrowser(context.Context) (Browser, error) {
	return ClassifyUserAgent(d.UserAgent), nil
}

var msieVersion = regexp.MustCompile(`MSIE (\d+)\.`)

// ClassifyUserAgent maps a user agent string to a browser family. Order
// matters: Opera and Chromium builds also advertise AppleWebKit.
func ClassifyUserAgent(ua string) Browser {
	switch {
	case ua == "":
		return BrowserOther
	case strings.Contains(ua, "Opera") || strings.Contains(ua, "OPR/"):
		return BrowserOpera
	case strings.Contains(ua, "MSIE"):
		m := msieVersion.FindStringSubmatch(ua)
		if m == nil {
			return BrowserOther
		}
		switch m[1] {
		case "6":
			return BrowserIE6
		case "7":
			return BrowserIE7
		case "8":
			return BrowserIE8
		}
		return BrowserOther
	case strings.Contains(ua, "AppleWebKit"):
		return BrowserWebKit
	case strings.Contains(ua, "Firefox") || strings.Contains(ua, "Gecko/"):
		return BrowserFirefox
	}
	return BrowserOther
}

// UnknownBrowserPolicy decides what a browser-gated toggle does when the
// detector cannot identify the browser.
type UnknownBrowserPolicy int

const (
	// SkipUnknown treats an unidentified browser as a mismatch.
	SkipUnknown UnknownBrowserPolicy = iota

	// RunUnknown lets gated toggles run when the browser is unidentified.
	RunUnknown
)

// ParseUnknownBrowserPolicy accepts "skip" or "run".
func ParseUnknownBrowserPolicy(s string) (UnknownBrowserPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return SkipUnknown, nil
	case "run":
		return RunUnknown, nil
	}
	return SkipUnknown, fmt.Errorf("unknown browser policy %q: expected skip or run", s)
}

func (p UnknownBrowserPolicy) String() string {
	if p == RunUnknown {
		return "run"
	}
	return "skip"
}
