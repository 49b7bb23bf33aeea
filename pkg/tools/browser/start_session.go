package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/togglekit/pkg/config"
	"github.com/entrhq/togglekit/pkg/tools"
)

// StartSessionTool creates a new browser session.
type StartSessionTool struct {
	manager *SessionManager
}

// NewStartSessionTool creates a new start session tool.
func NewStartSessionTool(manager *SessionManager) *StartSessionTool {
	return &StartSessionTool{manager: manager}
}

// Name returns the tool name.
func (t *StartSessionTool) Name() string {
	return "start_browser_session"
}

// Description returns the tool description.
func (t *StartSessionTool) Description() string {
	return "Launch a browser and open a named session whose page can then be navigated and toggled."
}

// Schema returns the tool's JSON schema.
func (t *StartSessionTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Unique name for the browser session (e.g., 'main')",
			},
			"engine": map[string]interface{}{
				"type":        "string",
				"description": "Browser engine: 'chromium', 'firefox' or 'webkit'. Default from the browser config section",
			},
			"headless": map[string]interface{}{
				"type":        "boolean",
				"description": "Run browser without a visible window. Default from the browser config section",
			},
			"width": map[string]interface{}{
				"type":        "integer",
				"description": "Browser viewport width in pixels. Default: 1280",
			},
			"height": map[string]interface{}{
				"type":        "integer",
				"description": "Browser viewport height in pixels. Default: 720",
			},
		},
		[]string{"name"},
	)
}

// StartSessionInput defines the input parameters for starting a browser session.
type StartSessionInput struct {
	XMLName  xml.Name `xml:"arguments"`
	Name     string   `xml:"name"`
	Engine   string   `xml:"engine"`
	Headless *bool    `xml:"headless"`
	Width    *int     `xml:"width"`
	Height   *int     `xml:"height"`
}

// Execute starts a new browser session.
func (t *StartSessionTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	input, err := t.parseInput(argsXML)
	if err != nil {
		return "", nil, err
	}

	opts := BuildSessionOptions(input)
	if err := validateViewport(opts.Viewport); err != nil {
		return "", nil, err
	}
	if _, err := ValidateEngine(opts.Engine); err != nil {
		return "", nil, err
	}

	if err := t.manager.Initialize(); err != nil {
		return "", nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	session, err := t.manager.StartSession(input.Name, opts)
	if err != nil {
		return "", nil, fmt.Errorf("failed to start session: %w", err)
	}

	mode := "headed"
	if session.Headless {
		mode = "headless"
	}
	result := fmt.Sprintf(`Browser session created successfully

Session Details:
- Name: %s
- Engine: %s
- Mode: %s
- Viewport: %dx%d pixels

Use browser_navigate to load a page, then toggle_elements to show or hide elements.`,
		session.Name, session.Engine, mode, opts.Viewport.Width, opts.Viewport.Height)

	return result, map[string]interface{}{"session": session.Name, "engine": session.Engine}, nil
}

func (t *StartSessionTool) parseInput(argsXML []byte) (*StartSessionInput, error) {
	var input StartSessionInput
	if err := tools.DecodeArguments(argsXML, &input); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Name == "" {
		return nil, fmt.Errorf("session name is required")
	}
	return &input, nil
}

// BuildSessionOptions applies the input over the browser config section,
// or over built-in defaults when config is not initialized.
func BuildSessionOptions(input *StartSessionInput) SessionOptions {
	opts := SessionOptions{
		Engine:   EngineChromium,
		Headless: true,
		Viewport: &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		},
		Timeout: DefaultTimeout,
	}

	if b := config.GetBrowser(); b != nil {
		snap := b.Snapshot()
		opts.Engine = snap.Browser
		opts.Headless = snap.Headless
		opts.Viewport.Width = snap.ViewportWidth
		opts.Viewport.Height = snap.ViewportHeight
	}

	if input.Engine != "" {
		opts.Engine = input.Engine
	}
	if input.Headless != nil {
		opts.Headless = *input.Headless
	}
	if input.Width != nil {
		opts.Viewport.Width = *input.Width
	}
	if input.Height != nil {
		opts.Viewport.Height = *input.Height
	}
	return opts
}

func validateViewport(vp *Viewport) error {
	if vp.Width < 100 || vp.Width > 5000 {
		return fmt.Errorf("viewport width must be between 100 and 5000 pixels")
	}
	if vp.Height < 100 || vp.Height > 5000 {
		return fmt.Errorf("viewport height must be between 100 and 5000 pixels")
	}
	return nil
}
