package browser

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/entrhq/togglekit/pkg/tools"
)

// CloseSessionTool ends a session started by start_browser_session. The
// toggled page state is lost with it.
type CloseSessionTool struct {
	manager *SessionManager
}

func NewCloseSessionTool(manager *SessionManager) *CloseSessionTool {
	return &CloseSessionTool{manager: manager}
}

func (t *CloseSessionTool) Name() string { return "close_browser_session" }

func (t *CloseSessionTool) Description() string {
	return "Close a browser session and release its browser. Reports the sessions still open."
}

func (t *CloseSessionTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{
		"session": map[string]interface{}{
			"type":        "string",
			"description": "Session to close",
		},
	}, []string{"session"})
}

// CloseSessionInput names the session to close.
type CloseSessionInput struct {
	XMLName xml.Name `xml:"arguments"`
	Session string   `xml:"session"`
}

func (t *CloseSessionTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var in CloseSessionInput
	if err := tools.DecodeArguments(argsXML, &in); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	name := strings.TrimSpace(in.Session)
	if name == "" {
		return "", nil, fmt.Errorf("session name is required")
	}
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	if err := t.manager.CloseSession(name); err != nil {
		return "", nil, fmt.Errorf("failed to close session: %w", err)
	}

	open := t.openSessions()
	summary := "no sessions open"
	if len(open) > 0 {
		summary = "still open: " + strings.Join(open, ", ")
	}
	return fmt.Sprintf("closed %q; %s", name, summary), map[string]interface{}{
		"closed":    name,
		"remaining": open,
	}, nil
}

func (t *CloseSessionTool) openSessions() []string {
	infos := t.manager.ListSessions()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}
