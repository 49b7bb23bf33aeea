package toggle

import (
	"context"
	"errors"
	"fmt"
)

// SkipReason explains why a call ended without toggling anything. None of
// these are errors.
type SkipReason string

const (
	SkipNone            SkipReason = ""
	SkipPresetDefined   SkipReason = "preset_defined"
	SkipBrowserMismatch SkipReason = "browser_mismatch"
	SkipScopeNotFound   SkipReason = "scope_not_found"
	SkipNoElements      SkipReason = "no_elements"
	SkipNoReference     SkipReason = "reference_not_found"
)

// Report summarizes one toggle call.
type Report struct {
	Defined string     `json:"defined,omitempty"`
	Used    string     `json:"used,omitempty"`
	Skipped SkipReason `json:"skipped,omitempty"`
	Mode    Mode       `json:"mode,omitempty"`

	// Filtered is true when the call ran in area-filtered mode.
	Filtered bool `json:"filtered"`

	Matched   int `json:"matched"`
	Toggled   int `json:"toggled"`
	Unchanged int `json:"unchanged"`
	Outside   int `json:"outside"`
	Failed    int `json:"failed"`
}

// Logger is the logging surface used by the engine. *logging.Logger
// satisfies it.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}

// Executor applies fully resolved options to a document.
type Executor struct {
	Document       Document
	Detector       Detector
	UnknownBrowser UnknownBrowserPolicy
	Logger         Logger
}

// Execute selects the target elements, filters them by intersection when
// an area or reference element is given, and applies the toggle mode.
//
// Empty scopes, empty match sets, missing reference elements and browser
// mismatches end the call early with Report.Skipped set and a nil error.
// Failures on individual elements do not stop the loop; they are joined
// into the returned error.
func (x *Executor) Execute(ctx context.Context, opts Options) (Report, error) {
	log := x.logger()
	if err := opts.Validate(); err != nil {
		return Report{}, err
	}
	if x.Document == nil {
		return Report{}, fmt.Errorf("execute: no document")
	}

	report := Report{Mode: opts.Mode()}

	if opts.TargetBrowser != nil && !x.browserMatches(ctx, *opts.TargetBrowser) {
		report.Skipped = SkipBrowserMismatch
		return report, nil
	}

	q := Query{
		Scope:  deref(opts.ParentSelector),
		Tag:    deref(opts.ElementType),
		Filter: deref(opts.ElementSelector),
	}

	if q.Scope != "" {
		scopes, err := x.Document.Find(ctx, q.ScopeQuery())
		if err != nil {
			return report, fmt.Errorf("failed to resolve scope %q: %w", q.Scope, err)
		}
		if len(scopes) == 0 {
			log.Debugf("scope %q matched nothing", q.Scope)
			report.Skipped = SkipScopeNotFound
			return report, nil
		}
	}

	elems, err := x.Document.Find(ctx, q)
	if err != nil {
		return report, fmt.Errorf("failed to query %s: %w", q, err)
	}
	if len(elems) == 0 {
		log.Debugf("query %s matched nothing", q)
		report.Skipped = SkipNoElements
		return report, nil
	}
	report.Matched = len(elems)

	ref, filtered, err := x.reference(ctx, opts)
	if err != nil {
		return report, err
	}
	if filtered && ref == nil {
		report.Skipped = SkipNoReference
		return report, nil
	}
	report.Filtered = filtered

	var errs []error
	for i, el := range elems {
		if filtered {
			box, err := el.Box(ctx)
			if err != nil {
				report.Failed++
				errs = append(errs, &ElementError{Index: i, Op: "box", Err: err})
				continue
			}
			if !ref.Intersects(box.Rect()) {
				report.Outside++
				continue
			}
		}

		changed, err := apply(ctx, el, report.Mode)
		if err != nil {
			report.Failed++
			errs = append(errs, &ElementError{Index: i, Op: "toggle", Err: err})
			continue
		}
		if changed {
			report.Toggled++
		} else {
			report.Unchanged++
		}
	}

	log.Debugf("toggle %s mode=%s matched=%d toggled=%d unchanged=%d outside=%d failed=%d",
		q, report.Mode, report.Matched, report.Toggled, report.Unchanged, report.Outside, report.Failed)

	return report, errors.Join(errs...)
}

// browserMatches consults the detector. Detection failures count as an
// unidentified browser.
func (x *Executor) browserMatches(ctx context.Context, target Browser) bool {
	det := x.Detector
	if det == nil {
		det = UnknownDetector{}
	}

	id, err := det.DetectBrowser(ctx)
	if err != nil {
		x.logger().Warnf("browser detection failed: %v", err)
		id = BrowserOther
	}

	if id == target {
		return true
	}
	if id == BrowserOther && x.UnknownBrowser == RunUnknown {
		return true
	}
	x.logger().Debugf("browser %q does not match target %q", id, target)
	return false
}

// reference computes the rectangle elements must intersect. The boolean is
// false in unfiltered mode; a nil rect in filtered mode means the reference
// element was not found.
func (x *Executor) reference(ctx context.Context, opts Options) (*Rect, bool, error) {
	if opts.ByElement != nil {
		refs, err := x.Document.Find(ctx, Query{Filter: *opts.ByElement})
		if err != nil {
			return nil, true, fmt.Errorf("failed to resolve reference element %q: %w", *opts.ByElement, err)
		}
		if len(refs) == 0 {
			x.logger().Debugf("reference element %q not found", *opts.ByElement)
			return nil, true, nil
		}
		box, err := refs[0].Box(ctx)
		if err != nil {
			return nil, true, fmt.Errorf("failed to measure reference element %q: %w", *opts.ByElement, err)
		}
		r := box.Rect()
		return &r, true, nil
	}

	if r, ok := RectFromArea(opts.ByArea); ok {
		return &r, true, nil
	}
	if !opts.ByArea.Empty() {
		x.logger().Warnf("ignoring incomplete area %s: all of x, y, width and height are required", describeArea(opts.ByArea))
	}
	return nil, false, nil
}

// apply performs the transition on one element and reports whether its
// visibility changed.
func apply(ctx context.Context, el Element, mode Mode) (bool, error) {
	visible, err := el.Visible(ctx)
	if err != nil {
		return false, fmt.Errorf("read visibility: %w", err)
	}

	var want bool
	switch mode {
	case ModeAuto:
		want = !visible
	case ModeHidden:
		want = false
	case ModeShown:
		want = true
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidMode, string(mode))
	}

	if want == visible {
		return false, nil
	}
	if err := el.SetVisible(ctx, want); err != nil {
		return false, fmt.Errorf("set visibility: %w", err)
	}
	return true, nil
}

func (x *Executor) logger() Logger {
	if x.Logger == nil {
		return nopLogger{}
	}
	return x.Logger
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func describeArea(a Area) string {
	f := func(p *float64) string {
		if p == nil {
			return "-"
		}
		return fmt.Sprintf("%g", *p)
	}
	return fmt.Sprintf("(x=%s y=%s w=%s h=%s)", f(a.X), f(a.Y), f(a.Width), f(a.Height))
}
