package browser

import (
	"github.com/entrhq/togglekit/pkg/toggle"
	"github.com/entrhq/togglekit/pkg/tools"
)

// Tools returns the browser tools sharing manager: session lifecycle,
// navigation and toggling. engineOpts and presets configure the toggle
// tool.
func Tools(manager *SessionManager, presets *toggle.PresetStore, engineOpts ...toggle.Option) []tools.Tool {
	return []tools.Tool{
		NewStartSessionTool(manager),
		NewNavigateTool(manager),
		NewToggleTool(manager, presets, engineOpts...),
		NewCloseSessionTool(manager),
	}
}

// NewRegistry builds a tool registry holding the browser tools.
func NewRegistry(manager *SessionManager, presets *toggle.PresetStore, engineOpts ...toggle.Option) *tools.Registry {
	return tools.NewRegistry(Tools(manager, presets, engineOpts...)...)
}
