package browser

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/togglekit/pkg/toggle"
)

const formPage = `<html><body>
<div id="form">
  <select id="a" style="position:absolute;left:10px;top:10px;width:100px;height:20px"></select>
  <select id="b" style="position:absolute;left:400px;top:400px;width:100px;height:20px"></select>
</div>
<div id="popup" style="position:absolute;left:0;top:0;width:200px;height:100px"></div>
</body></html>`

// newLiveManager starts Playwright. Driver installation downloads
// browsers, so it only runs when TOGGLEKIT_PLAYWRIGHT is set.
func newLiveManager(t *testing.T) *SessionManager {
	t.Helper()
	if testing.Short() || os.Getenv("TOGGLEKIT_PLAYWRIGHT") == "" {
		t.Skip("set TOGGLEKIT_PLAYWRIGHT=1 to run Playwright tests")
	}
	m := NewSessionManager()
	if err := m.Initialize(); err != nil {
		t.Skipf("playwright unavailable: %v", err)
	}
	t.Cleanup(func() { _ = m.Shutdown() })
	return m
}

func TestSession_ToggleUnderPopup(t *testing.T) {
	m := newLiveManager(t)
	ctx := context.Background()

	session, err := m.StartSession("main", SessionOptions{Headless: true})
	require.NoError(t, err)
	require.NoError(t, session.SetContent(formPage))

	browser, err := session.DetectBrowser(ctx)
	require.NoError(t, err)
	assert.Equal(t, toggle.BrowserWebKit, browser)

	engine := toggle.New(session.Document(), toggle.WithDetector(session))
	report, err := engine.Toggle(ctx, toggle.Options{
		ParentSelector: toggle.String("#form"),
		ElementType:    toggle.String("select"),
		ByElement:      toggle.String("#popup"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Matched)
	assert.Equal(t, 1, report.Toggled)
	assert.Equal(t, 1, report.Outside)

	html, err := session.HTML()
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(html, "display: none"))

	report, err = engine.Toggle(ctx, toggle.Options{
		ParentSelector: toggle.String("#form"),
		ElementType:    toggle.String("select"),
		ByElement:      toggle.String("#popup"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Toggled)

	html, err = session.HTML()
	require.NoError(t, err)
	assert.NotContains(t, html, "display: none")
}

func TestToggleTool_Execute_Live(t *testing.T) {
	m := newLiveManager(t)
	ctx := context.Background()
	r := NewRegistry(m, nil)

	_, err := r.Dispatch(ctx, `<tool><tool_name>start_browser_session</tool_name><arguments><name>s</name></arguments></tool>`)
	require.NoError(t, err)

	session, err := m.GetSession("s")
	require.NoError(t, err)
	require.NoError(t, session.SetContent(formPage))

	res, err := r.Dispatch(ctx, `<tool><tool_name>toggle_elements</tool_name><arguments>
		<session>s</session>
		<element_type>select</element_type>
		<toggle_to>hidden</toggle_to>
	</arguments></tool>`)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Metadata["toggled"])

	visible, err := session.Page.Locator("#a").IsVisible()
	require.NoError(t, err)
	assert.False(t, visible)

	res, err = r.Dispatch(ctx, `<tool><tool_name>close_browser_session</tool_name><arguments><session>s</session></arguments></tool>`)
	require.NoError(t, err)
	assert.Equal(t, `closed "s"; no sessions open`, res.Output)
	assert.False(t, m.HasSessions())
}
