package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	appconfig "github.com/entrhq/togglekit/pkg/config"
	"github.com/entrhq/togglekit/pkg/logging"
	"github.com/entrhq/togglekit/pkg/presetfile"
	"github.com/entrhq/togglekit/pkg/toggle"
)

// run executes one togglekit invocation and returns the exit code.
//
//nolint:gocyclo
func run(ctx context.Context, cfg *CLIConfig, stdout io.Writer) (int, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	if err := appconfig.Initialize(cfg.ConfigPath); err != nil {
		return exitError, fmt.Errorf("failed to initialize configuration: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return exitError, err
	}
	defer logger.Close()
	logger.Infof("togglekit v%s starting", version)

	settings := appconfig.GetBrowser().Snapshot()
	cfg.applyBrowserFlags(&settings)

	store := toggle.NewPresetStore()
	if err := appconfig.GetPresets().LoadInto(store); err != nil {
		return exitError, fmt.Errorf("failed to load stored presets: %w", err)
	}
	steps, err := cfg.loadSteps(store)
	if err != nil {
		return exitError, err
	}

	if cfg.set["list-presets"] {
		return listPresets(stdout, store, cfg.ListPresets)
	}

	engineOpts := []toggle.Option{
		toggle.WithDefaults(appconfig.GetDefaults().Options()),
		toggle.WithPresets(store),
		toggle.WithUnknownBrowserPolicy(appconfig.GetBrowser().Policy()),
		toggle.WithLogger(logger.With("engine")),
		toggle.WithBeforeToggle(func(_ context.Context, opts toggle.Options) error {
			if b, err := json.Marshal(opts); err == nil {
				logger.Debugf("resolved options: %s", b)
			}
			return nil
		}),
	}

	if cfg.ToolCall != "" {
		return runToolCalls(ctx, cfg.ToolCall, store, engineOpts, logger, stdout)
	}

	if len(steps) == 0 {
		return exitError, fmt.Errorf("nothing to do: give -script, -tool-call or single-call flags such as -type")
	}

	if cfg.Explain {
		return explain(stdout, toggle.New(nil, engineOpts...), steps)
	}

	b, err := openBackend(ctx, cfg, settings, logger)
	if err != nil {
		return exitError, err
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warnf("failed to close %s backend: %v", settings.Engine, err)
		}
	}()

	if det := b.Detector(); det != nil {
		engineOpts = append(engineOpts, toggle.WithDetector(det))
	}
	engine := toggle.New(b.Document(), engineOpts...)

	reports, runErr := presetfile.Run(ctx, engine, steps)
	renderReports(stdout, reports)

	var elemErr *toggle.ElementError
	partial := runErr != nil && errors.As(runErr, &elemErr)
	if runErr != nil && !partial {
		return exitError, runErr
	}

	if cfg.Out != "" {
		if err := b.Save(ctx, cfg.Out); err != nil {
			return exitError, err
		}
		logger.Infof("wrote %s", cfg.Out)
	}

	if cfg.SavePresets {
		if err := savePresets(store); err != nil {
			return exitError, err
		}
	}

	if partial {
		return exitPartial, runErr
	}
	return exitOK, nil
}

func newLogger(level string) (*logging.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	// A fallback stderr logger is returned alongside the error; keep it.
	logger, err := logging.NewLogger("togglekit")
	if err != nil {
		logger.Warnf("file logging unavailable: %v", err)
	}
	logger.SetLevel(lvl)
	return logger, nil
}

// applyBrowserFlags overlays command-line browser settings on the config.
func (c *CLIConfig) applyBrowserFlags(s *appconfig.BrowserSettings) {
	if c.set["engine"] {
		s.Engine = c.Engine
	}
	if c.set["browser"] {
		s.Browser = c.Browser
	}
	if c.set["headless"] {
		s.Headless = c.Headless
	}
}

// loadSteps applies preset and script files to store and returns the toggle
// calls to run: the script's steps followed by the single call, if any.
func (c *CLIConfig) loadSteps(store *toggle.PresetStore) ([]toggle.Options, error) {
	var steps []toggle.Options

	for _, path := range []string{c.PresetsFile, c.Script} {
		if path == "" {
			continue
		}
		f, err := presetfile.Load(path)
		if err != nil {
			return nil, err
		}
		if err := f.Apply(store); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if path == c.Script {
			steps = append(steps, f.Steps...)
		}
	}

	if c.hasSingleCall() {
		opts, err := c.singleOptions()
		if err != nil {
			return nil, fmt.Errorf("invalid toggle flags: %w", err)
		}
		steps = append(steps, opts)
	}
	return steps, nil
}

func listPresets(w io.Writer, store *toggle.PresetStore, pattern string) (int, error) {
	names, err := store.Match(pattern)
	if err != nil {
		return exitError, err
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return exitOK, nil
}

// explain prints each step's resolved options as JSON. Definitions land in
// the run's preset store only, so later steps can use them.
func explain(w io.Writer, engine *toggle.Engine, steps []toggle.Options) (int, error) {
	type explained struct {
		Step          int            `json:"step"`
		Used          string         `json:"used_set,omitempty"`
		Defined       string         `json:"defined_set,omitempty"`
		MissingPreset string         `json:"missing_set,omitempty"`
		Halted        bool           `json:"halted,omitempty"`
		Options       toggle.Options `json:"options"`
	}

	out := make([]explained, 0, len(steps))
	for i, step := range steps {
		res, err := engine.Resolve(step)
		if err != nil {
			return exitError, fmt.Errorf("step %d: %w", i+1, err)
		}
		out = append(out, explained{
			Step:          i + 1,
			Used:          res.Used,
			Defined:       res.Defined,
			MissingPreset: res.MissingPreset,
			Halted:        res.Halted,
			Options:       res.Options,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return exitError, fmt.Errorf("failed to encode options: %w", err)
	}
	if err := highlightJSON(w, string(data)); err != nil {
		return exitError, err
	}
	return exitOK, nil
}

func savePresets(store *toggle.PresetStore) error {
	appconfig.GetPresets().Capture(store)
	if err := appconfig.Global().SaveAll(); err != nil {
		return fmt.Errorf("failed to save presets: %w", err)
	}
	return nil
}
