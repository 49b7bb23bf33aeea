// Package toggle shows and hides groups of page elements declaratively.
//
// A call is described by Options. The Engine resolves those options against
// its defaults and, optionally, a named preset, then executes them against a
// Document:
//
//	eng := toggle.New(doc, toggle.WithDefaults(toggle.Options{
//		ToggleTo:    toggle.ModePtr(toggle.ModeAuto),
//		ElementType: toggle.String("select"),
//	}))
//	report, err := eng.Toggle(ctx, toggle.Options{
//		ParentSelector: toggle.String("#form"),
//		ByArea:         toggle.AreaOf(100, 100, 50, 50),
//	})
//
// # Resolution
//
// Precedence from lowest to highest is defaults, preset (UseSet), caller.
// Only fields that are present (non-nil) override; ByArea merges per
// coordinate. DefineSet stores defaults+caller under a name and returns
// without touching the document unless ContinueAfterDefineSet is true.
//
// # Execution
//
// Elements are found with a structured Query (scope, tag, filter). When
// ByElement or a complete ByArea is given, only elements whose box strictly
// intersects the reference rectangle are toggled. Modes are ModeAuto (flip
// each element independently), ModeHidden and ModeShown.
//
// Non-matches (missing scope, no elements, browser mismatch) are reported
// through Report.Skipped and are not errors. Configuration mistakes return
// ErrInvalidMode, ErrMissingSetName or ErrInvalidQuery.
package toggle
