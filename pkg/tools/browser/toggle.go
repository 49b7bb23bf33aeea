package browser

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/entrhq/togglekit/pkg/toggle"
	"github.com/entrhq/togglekit/pkg/tools"
)

// ToggleTool shows or hides groups of elements in a session's page.
// Presets defined through it are shared by every session.
type ToggleTool struct {
	manager    *SessionManager
	presets    *toggle.PresetStore
	engineOpts []toggle.Option
}

// NewToggleTool creates the toggle tool. engineOpts configure the engine
// built for each call; presets is shared across calls and may be nil.
func NewToggleTool(manager *SessionManager, presets *toggle.PresetStore, engineOpts ...toggle.Option) *ToggleTool {
	if presets == nil {
		presets = toggle.NewPresetStore()
	}
	return &ToggleTool{
		manager:    manager,
		presets:    presets,
		engineOpts: engineOpts,
	}
}

// Name returns the tool name.
func (t *ToggleTool) Name() string {
	return "toggle_elements"
}

// Description returns the tool description.
func (t *ToggleTool) Description() string {
	return "Show, hide or flip the visibility of elements in a browser session's page. Elements are selected by tag and selector, optionally within a parent and optionally only where they overlap an area or another element. Option sets can be saved with define_set and reused with use_set."
}

// Schema returns the tool's JSON schema.
func (t *ToggleTool) Schema() map[string]interface{} {
	str := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "string", "description": desc}
	}
	num := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "number", "description": desc}
	}

	return tools.BaseToolSchema(
		map[string]interface{}{
			"session":          str("Name of the browser session to use"),
			"toggle_to":        str("'autoSelect' (flip each element, default), 'hidden' or 'shown'"),
			"parent_selector":  str("Only consider descendants of elements matching this CSS selector"),
			"element_type":     str("Tag name of the elements to toggle, e.g. 'select'"),
			"element_selector": str("CSS selector the elements must also match, e.g. '.ad'"),
			"by_element":       str("Only toggle elements overlapping the first element matching this selector"),
			"area": map[string]interface{}{
				"type":        "object",
				"description": "Only toggle elements overlapping this rectangle in page coordinates. All four fields are required.",
				"properties": map[string]interface{}{
					"x":      num("Left edge in pixels"),
					"y":      num("Top edge in pixels"),
					"width":  num("Width in pixels"),
					"height": num("Height in pixels"),
				},
			},
			"target_browser":            str("Only run in this browser family: ff, ie6, ie7, ie8, wk, op or other"),
			"define_set":                str("Save these options under a name instead of toggling"),
			"use_set":                   str("Start from a previously saved option set"),
			"continue_after_define_set": map[string]interface{}{"type": "boolean", "description": "Also toggle after saving with define_set"},
		},
		[]string{"session"},
	)
}

// ToggleInput represents the parameters for a toggle call.
type ToggleInput struct {
	XMLName         xml.Name   `xml:"arguments"`
	Session         string     `xml:"session"`
	ToggleTo        *string    `xml:"toggle_to"`
	ParentSelector  *string    `xml:"parent_selector"`
	ElementType     *string    `xml:"element_type"`
	ElementSelector *string    `xml:"element_selector"`
	ByElement       *string    `xml:"by_element"`
	Area            *AreaInput `xml:"area"`
	TargetBrowser   *string    `xml:"target_browser"`
	DefineSet       *string    `xml:"define_set"`
	UseSet          *string    `xml:"use_set"`
	Continue        *bool      `xml:"continue_after_define_set"`
}

// AreaInput is the optional reference rectangle.
type AreaInput struct {
	X      *float64 `xml:"x"`
	Y      *float64 `xml:"y"`
	Width  *float64 `xml:"width"`
	Height *float64 `xml:"height"`
}

// Options converts the input into toggle options. Blank strings count as
// absent.
func (in *ToggleInput) Options() (toggle.Options, error) {
	opts := toggle.Options{
		ParentSelector:         trimmed(in.ParentSelector),
		ElementType:            trimmed(in.ElementType),
		ElementSelector:        trimmed(in.ElementSelector),
		ByElement:              trimmed(in.ByElement),
		UseSet:                 trimmed(in.UseSet),
		ContinueAfterDefineSet: in.Continue,
	}

	// An empty define_set is an error, not an absent field.
	if in.DefineSet != nil {
		name := strings.TrimSpace(*in.DefineSet)
		opts.DefineSet = &name
	}

	if s := trimmed(in.ToggleTo); s != nil {
		mode, err := toggle.ParseMode(*s)
		if err != nil {
			return opts, err
		}
		opts.ToggleTo = &mode
	}
	if s := trimmed(in.TargetBrowser); s != nil {
		b, err := toggle.ParseBrowser(*s)
		if err != nil {
			return opts, err
		}
		opts.TargetBrowser = &b
	}
	if in.Area != nil {
		opts.ByArea = toggle.Area{X: in.Area.X, Y: in.Area.Y, Width: in.Area.Width, Height: in.Area.Height}
	}
	return opts, opts.Validate()
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Execute resolves the options and toggles elements in the session's page.
func (t *ToggleTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input ToggleInput
	if err := tools.DecodeArguments(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Session == "" {
		return "", nil, fmt.Errorf("session name is required")
	}

	opts, err := input.Options()
	if err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}

	session, err := t.manager.GetSession(input.Session)
	if err != nil {
		return "", nil, err
	}

	engine := toggle.New(session.Document(), t.options(session)...)
	report, err := engine.Toggle(ctx, opts)

	var elemErr *toggle.ElementError
	if err != nil && !errors.As(err, &elemErr) {
		return "", nil, err
	}

	result := FormatReport(input.Session, report)
	if err != nil {
		result += fmt.Sprintf("\n\nSome elements could not be toggled:\n%v", err)
	}
	return result, ReportMetadata(report), nil
}

func (t *ToggleTool) options(session *Session) []toggle.Option {
	opts := []toggle.Option{toggle.WithDetector(session)}
	opts = append(opts, t.engineOpts...)
	return append(opts, toggle.WithPresets(t.presets))
}

// Presets returns the shared preset store.
func (t *ToggleTool) Presets() *toggle.PresetStore {
	return t.presets
}


// FormatReport renders a toggle report as a short human-readable summary.
func FormatReport(session string, r toggle.Report) string {
	var b strings.Builder

	switch r.Skipped {
	case toggle.SkipPresetDefined:
		fmt.Fprintf(&b, "Saved option set %q. Nothing was toggled.", r.Defined)
		return b.String()
	case toggle.SkipNone:
		fmt.Fprintf(&b, "Toggle complete (%s)", r.Mode)
	default:
		fmt.Fprintf(&b, "Nothing toggled: %s", strings.ReplaceAll(string(r.Skipped), "_", " "))
	}

	fmt.Fprintf(&b, "\n\nDetails:\n- Session: %s\n", session)
	if r.Used != "" {
		fmt.Fprintf(&b, "- Option set: %s\n", r.Used)
	}
	if r.Defined != "" {
		fmt.Fprintf(&b, "- Saved option set: %s\n", r.Defined)
	}
	fmt.Fprintf(&b, "- Matched: %d\n- Toggled: %d\n- Already in state: %d\n", r.Matched, r.Toggled, r.Unchanged)
	if r.Filtered {
		fmt.Fprintf(&b, "- Outside area: %d\n", r.Outside)
	}
	if r.Failed > 0 {
		fmt.Fprintf(&b, "- Failed: %d\n", r.Failed)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ReportMetadata flattens a report for tool result metadata.
func ReportMetadata(r toggle.Report) map[string]interface{} {
	return map[string]interface{}{
		"mode":      string(r.Mode),
		"skipped":   string(r.Skipped),
		"defined":   r.Defined,
		"used":      r.Used,
		"filtered":  r.Filtered,
		"matched":   r.Matched,
		"toggled":   r.Toggled,
		"unchanged": r.Unchanged,
		"outside":   r.Outside,
		"failed":    r.Failed,
	}
}
