package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/togglekit/pkg/tools"
)

// NavigateTool loads a URL or inline HTML into a session's page.
type NavigateTool struct {
	manager *SessionManager
}

// NewNavigateTool creates a new navigate tool.
func NewNavigateTool(manager *SessionManager) *NavigateTool {
	return &NavigateTool{manager: manager}
}

// Name returns the tool name.
func (t *NavigateTool) Name() string {
	return "browser_navigate"
}

// Description returns the tool description.
func (t *NavigateTool) Description() string {
	return "Load a URL, or replace the page with inline HTML, in an active browser session."
}

// Schema returns the tool's JSON schema.
func (t *NavigateTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"session": map[string]interface{}{
				"type":        "string",
				"description": "Name of the browser session to use",
			},
			"url": map[string]interface{}{
				"type":        "string",
				"description": "URL to navigate to (must include protocol, e.g., https://example.com)",
			},
			"html": map[string]interface{}{
				"type":        "string",
				"description": "HTML to load instead of a URL",
			},
			"wait_until": map[string]interface{}{
				"type":        "string",
				"description": "When to consider navigation complete: 'load' (default), 'domcontentloaded', or 'networkidle'",
			},
		},
		[]string{"session"},
	)
}

// NavigateInput represents the parameters for navigation.
type NavigateInput struct {
	XMLName   xml.Name `xml:"arguments"`
	Session   string   `xml:"session"`
	URL       string   `xml:"url"`
	HTML      string   `xml:"html"`
	WaitUntil string   `xml:"wait_until"`
}

var validWaitStates = map[string]bool{
	"load":             true,
	"domcontentloaded": true,
	"networkidle":      true,
}

func (in *NavigateInput) validate() error {
	if in.Session == "" {
		return fmt.Errorf("session name is required")
	}
	if (in.URL == "") == (in.HTML == "") {
		return fmt.Errorf("exactly one of url or html is required")
	}
	if in.WaitUntil == "" {
		in.WaitUntil = "load"
	}
	if !validWaitStates[in.WaitUntil] {
		return fmt.Errorf("invalid wait_until value: %s (must be 'load', 'domcontentloaded', or 'networkidle')", in.WaitUntil)
	}
	return nil
}

// Execute navigates the session.
func (t *NavigateTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input NavigateInput
	if err := tools.DecodeArguments(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if err := input.validate(); err != nil {
		return "", nil, err
	}

	session, err := t.manager.GetSession(input.Session)
	if err != nil {
		return "", nil, err
	}

	if input.HTML != "" {
		err = session.SetContent(input.HTML)
	} else {
		err = session.Navigate(input.URL, NavigateOptions{WaitUntil: input.WaitUntil})
	}
	if err != nil {
		return "", nil, err
	}

	title, err := session.Page.Title()
	if err != nil {
		title = "Unknown"
	}

	result := fmt.Sprintf(`Navigation successful

Page Details:
- URL: %s
- Title: %s
- Session: %s`,
		session.CurrentURL, title, input.Session)

	return result, map[string]interface{}{"url": session.CurrentURL, "title": title}, nil
}
