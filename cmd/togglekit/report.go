package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/entrhq/togglekit/pkg/toggle"
	"github.com/entrhq/togglekit/pkg/tools"
)

// Color palette
var (
	salmonPink  = lipgloss.Color("#FFB3BA")
	mintGreen   = lipgloss.Color("#A8E6CF")
	mutedGray   = lipgloss.Color("#6B7280")
	brightWhite = lipgloss.Color("#F9FAFB")
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Width(12)

	valueStyle = lipgloss.NewStyle().
			Foreground(brightWhite)

	okStyle = lipgloss.NewStyle().
		Foreground(mintGreen)

	skipStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Italic(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedGray).
			Padding(0, 1)
)

func renderReports(w io.Writer, reports []toggle.Report) {
	for i, r := range reports {
		fmt.Fprintln(w, renderReport(i+1, r))
	}
}

func renderReport(step int, r toggle.Report) string {
	var lines []string
	row := func(label string, v interface{}) {
		lines = append(lines, labelStyle.Render(label)+valueStyle.Render(fmt.Sprint(v)))
	}

	lines = append(lines, headerStyle.Render(fmt.Sprintf("Step %d", step)))

	switch r.Skipped {
	case toggle.SkipPresetDefined:
		lines = append(lines, okStyle.Render(fmt.Sprintf("defined %q", r.Defined)))
		return boxStyle.Render(strings.Join(lines, "\n"))
	case toggle.SkipNone:
		row("mode", r.Mode)
	default:
		lines = append(lines, skipStyle.Render("skipped: "+strings.ReplaceAll(string(r.Skipped), "_", " ")))
	}

	if r.Used != "" {
		row("preset", r.Used)
	}
	if r.Defined != "" {
		row("defined", r.Defined)
	}
	if r.Skipped == toggle.SkipNone {
		row("matched", r.Matched)
		row("toggled", okStyle.Render(fmt.Sprint(r.Toggled)))
		row("unchanged", r.Unchanged)
		if r.Filtered {
			row("outside", r.Outside)
		}
		if r.Failed > 0 {
			row("failed", skipStyle.Render(fmt.Sprint(r.Failed)))
		}
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func renderToolResult(res *tools.Result) string {
	return headerStyle.Render(res.Tool) + "\n" + res.Output
}

// highlightJSON writes src, colorized when w is a terminal.
func highlightJSON(w io.Writer, src string) error {
	formatter := "noop"
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		formatter = "terminal256"
	}
	if err := quick.Highlight(w, src+"\n", "json", formatter, "monokai"); err != nil {
		return fmt.Errorf("failed to write options: %w", err)
	}
	return nil
}
