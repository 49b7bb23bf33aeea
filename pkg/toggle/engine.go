package toggle

import (
	"context"
	"sync"
)

// BuiltinDefaults are the defaults an Engine starts with.
func BuiltinDefaults() Options {
	return Options{ToggleTo: ModePtr(ModeAuto)}
}

// BeforeToggleFunc runs after options are resolved and before any element
// is touched. Returning an error aborts the call.
type BeforeToggleFunc func(ctx context.Context, opts Options) error

// Engine owns the defaults, the preset store and the collaborators used by
// Toggle. It replaces process-wide state: callers that want shared presets
// share an Engine (or a PresetStore via WithPresets).
type Engine struct {
	mu       sync.RWMutex
	defaults Options

	presets  *PresetStore
	doc      Document
	detector Detector
	policy   UnknownBrowserPolicy
	before   BeforeToggleFunc
	logger   Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaults replaces the built-in defaults.
func WithDefaults(defaults Options) Option {
	return func(e *Engine) {
		e.defaults = defaults.Clone()
	}
}

// WithPresets shares an existing preset store.
func WithPresets(store *PresetStore) Option {
	return func(e *Engine) {
		if store != nil {
			e.presets = store
		}
	}
}

// WithDetector sets the browser identity source.
func WithDetector(d Detector) Option {
	return func(e *Engine) {
		if d != nil {
			e.detector = d
		}
	}
}

// WithUnknownBrowserPolicy sets what gated toggles do when the browser
// cannot be identified.
func WithUnknownBrowserPolicy(p UnknownBrowserPolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithBeforeToggle installs a hook run before every execution.
func WithBeforeToggle(fn BeforeToggleFunc) Option {
	return func(e *Engine) {
		e.before = fn
	}
}

// WithLogger sets the engine logger.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine operating on doc.
func New(doc Document, opts ...Option) *Engine {
	e := &Engine{
		defaults: BuiltinDefaults(),
		presets:  NewPresetStore(),
		doc:      doc,
		detector: UnknownDetector{},
		logger:   nopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Defaults returns a copy of the current defaults.
func (e *Engine) Defaults() Options {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.defaults.Clone()
}

// SetDefaults replaces the defaults used by subsequent calls.
func (e *Engine) SetDefaults(defaults Options) error {
	if err := defaults.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.defaults = defaults.withoutSetControls().Clone()
	return nil
}

// Presets returns the engine's preset store.
func (e *Engine) Presets() *PresetStore {
	return e.presets
}

// Resolve resolves opts against the engine's defaults and presets without
// executing anything. Note that a DefineSet in opts still stores the preset.
func (e *Engine) Resolve(opts Options) (Resolution, error) {
	res, err := Resolve(opts, e.Defaults(), e.presets)
	if err != nil {
		return res, err
	}
	if res.MissingPreset != "" {
		e.logger.Debugf("preset %q not found, using defaults", res.MissingPreset)
	}
	if res.Defined != "" {
		e.logger.Infof("defined preset %q", res.Defined)
	}
	return res, nil
}

// Toggle resolves opts and applies them to the engine's document.
func (e *Engine) Toggle(ctx context.Context, opts Options) (Report, error) {
	res, err := e.Resolve(opts)
	if err != nil {
		return Report{}, err
	}
	if res.Halted {
		return Report{Defined: res.Defined, Used: res.Used, Skipped: SkipPresetDefined}, nil
	}

	if e.before != nil {
		if err := e.before(ctx, res.Options.Clone()); err != nil {
			return Report{Defined: res.Defined, Used: res.Used}, err
		}
	}

	x := Executor{
		Document:       e.doc,
		Detector:       e.detector,
		UnknownBrowser: e.policy,
		Logger:         e.logger,
	}
	report, err := x.Execute(ctx, res.Options)
	report.Defined = res.Defined
	report.Used = res.Used
	return report, err
}
