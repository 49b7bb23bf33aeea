// Package browser drives live pages through Playwright and exposes them to
// the toggle engine and to XML tool calls.
//
// A SessionManager owns the Playwright driver and a set of named sessions.
// Each Session wraps one browser, context and page; Session.Document adapts
// the page to toggle.Document and a Session is itself a toggle.Detector
// that reports the engine's browser family (firefox is ff, chromium and
// webkit are wk).
//
// # Tools
//
//   - start_browser_session launches chromium, firefox or webkit
//   - browser_navigate loads a URL or inline HTML
//   - toggle_elements shows, hides or flips elements
//   - close_browser_session releases the browser
//
// Presets saved through toggle_elements with define_set live in one
// PresetStore shared by every session.
//
// # Example Usage
//
//	manager := browser.NewSessionManager()
//	if err := manager.Initialize(); err != nil {
//	    return err
//	}
//	defer manager.Shutdown()
//
//	session, err := manager.StartSession("main", browser.SessionOptions{Headless: true})
//	if err != nil {
//	    return err
//	}
//	if err := session.Navigate("https://example.com", browser.NavigateOptions{}); err != nil {
//	    return err
//	}
//
//	engine := toggle.New(session.Document(), toggle.WithDetector(session))
//	report, err := engine.Toggle(ctx, toggle.Options{ElementType: toggle.String("select")})
package browser
