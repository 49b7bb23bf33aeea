// Package main provides the togglekit command, which shows and hides groups
// of page elements in a static HTML file or a live browser page.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/entrhq/togglekit/pkg/toggle"
)

const version = "0.1.0"

// Exit codes.
const (
	exitOK      = 0
	exitError   = 1
	exitPartial = 2
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath  string
	PresetsFile string
	Engine      string
	Browser     string
	Headless    bool
	HTMLFile    string
	URL         string
	Script      string
	ToolCall    string
	Out         string
	Explain     bool
	ListPresets string
	SavePresets bool
	Timeout     time.Duration
	LogLevel    string
	ShowVersion bool

	// Single toggle call.
	Parent        string
	Type          string
	Selector      string
	To            string
	Area          string
	ByElement     string
	TargetBrowser string
	UseSet        string
	DefineSet     string
	Continue      bool

	// set records which flags appeared on the command line.
	set map[string]bool
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(exitError)
	}

	if cfg.ShowVersion {
		fmt.Printf("togglekit v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		cancel()
	}()

	code, err := run(ctx, cfg, os.Stdout)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "togglekit: %v\n", err)
	}
	os.Exit(code)
}

// parseFlags parses args into a CLIConfig. Usage and parse errors go to
// stderr.
func parseFlags(args []string, stderr io.Writer) (*CLIConfig, error) {
	cfg := &CLIConfig{set: make(map[string]bool)}
	fs := flag.NewFlagSet("togglekit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to configuration file (default ~/.togglekit/config.json)")
	fs.StringVar(&cfg.PresetsFile, "presets", "", "Preset file to load (.yaml, .yml or .hcl)")
	fs.StringVar(&cfg.Engine, "engine", "", "Backend: static, playwright or rod (default from config)")
	fs.StringVar(&cfg.Browser, "browser", "", "Playwright browser: chromium, firefox or webkit (default from config)")
	fs.BoolVar(&cfg.Headless, "headless", true, "Run live browsers without a window")
	fs.StringVar(&cfg.HTMLFile, "html", "", "HTML file to load")
	fs.StringVar(&cfg.URL, "url", "", "Page URL to load (live engines only)")
	fs.StringVar(&cfg.Script, "script", "", "Toggle script to run (.yaml, .yml or .hcl)")
	fs.StringVar(&cfg.ToolCall, "tool-call", "", "File of XML tool calls to dispatch to the browser tools, - for stdin")
	fs.StringVar(&cfg.Out, "out", "", "Write the resulting HTML (.html) or a PNG screenshot")
	fs.BoolVar(&cfg.Explain, "explain", false, "Print resolved options instead of toggling")
	fs.StringVar(&cfg.ListPresets, "list-presets", "", "List preset names matching a glob and exit")
	fs.BoolVar(&cfg.SavePresets, "save-presets", false, "Persist presets defined during the run to the config file")
	fs.DurationVar(&cfg.Timeout, "timeout", 2*time.Minute, "Overall timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log file level: debug, info, warn or error")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version and exit")

	fs.StringVar(&cfg.Parent, "parent", "", "Only consider descendants of elements matching this selector")
	fs.StringVar(&cfg.Type, "type", "", "Tag name of the elements to toggle")
	fs.StringVar(&cfg.Selector, "selector", "", "Selector the elements must also match")
	fs.StringVar(&cfg.To, "to", "", "autoSelect, hidden or shown")
	fs.StringVar(&cfg.Area, "area", "", "Reference rectangle as x,y,width,height")
	fs.StringVar(&cfg.ByElement, "by-element", "", "Reference element selector; overrides -area")
	fs.StringVar(&cfg.TargetBrowser, "target-browser", "", "Only toggle in this browser family (ff, ie6, ie7, ie8, wk, op, other)")
	fs.StringVar(&cfg.UseSet, "use-set", "", "Start from this preset")
	fs.StringVar(&cfg.DefineSet, "define-set", "", "Save the options under this name")
	fs.BoolVar(&cfg.Continue, "continue", false, "Toggle after -define-set instead of stopping")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "togglekit - show and hide groups of page elements\n\n")
		fmt.Fprintf(stderr, "Usage: togglekit [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  # Hide every select inside #form that overlaps a popup\n")
		fmt.Fprintf(stderr, "  togglekit -html page.html -parent '#form' -type select -by-element '#popup' -out page.out.html\n\n")
		fmt.Fprintf(stderr, "  # Run a toggle script against a live page\n")
		fmt.Fprintf(stderr, "  togglekit -engine playwright -url https://example.com -script steps.yaml -out shot.png\n\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })

	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
		fmt.Fprintln(stderr, err)
		return nil, err
	}
	return cfg, nil
}

// singleOptions builds a toggle call from the single-call flags. Only flags
// present on the command line are set, so unset ones fall through to
// presets and defaults.
func (c *CLIConfig) singleOptions() (toggle.Options, error) {
	var opts toggle.Options
	str := func(name, v string) *string {
		if !c.set[name] {
			return nil
		}
		return &v
	}

	opts.ParentSelector = str("parent", c.Parent)
	opts.ElementType = str("type", c.Type)
	opts.ElementSelector = str("selector", c.Selector)
	opts.ByElement = str("by-element", c.ByElement)
	opts.UseSet = str("use-set", c.UseSet)
	opts.DefineSet = str("define-set", c.DefineSet)
	if c.set["continue"] {
		opts.ContinueAfterDefineSet = toggle.Bool(c.Continue)
	}

	if c.set["to"] {
		mode, err := toggle.ParseMode(c.To)
		if err != nil {
			return opts, err
		}
		opts.ToggleTo = &mode
	}
	if c.set["target-browser"] {
		b, err := toggle.ParseBrowser(c.TargetBrowser)
		if err != nil {
			return opts, err
		}
		opts.TargetBrowser = &b
	}
	if c.set["area"] {
		area, err := parseArea(c.Area)
		if err != nil {
			return opts, err
		}
		opts.ByArea = area
	}
	return opts, opts.Validate()
}

// hasSingleCall reports whether any single-call flag was given.
func (c *CLIConfig) hasSingleCall() bool {
	for _, name := range []string{
		"parent", "type", "selector", "to", "area", "by-element",
		"target-browser", "use-set", "define-set", "continue",
	} {
		if c.set[name] {
			return true
		}
	}
	return false
}

// parseArea parses "x,y,width,height".
func parseArea(s string) (toggle.Area, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return toggle.Area{}, fmt.Errorf("area must be x,y,width,height, got %q", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return toggle.Area{}, fmt.Errorf("invalid area value %q: %w", p, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return toggle.Area{}, fmt.Errorf("area value %q is not finite", p)
		}
		vals[i] = v
	}
	return toggle.AreaOf(vals[0], vals[1], vals[2], vals[3]), nil
}
