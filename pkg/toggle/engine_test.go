package toggle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectDefaults() Option {
	return WithDefaults(Options{
		ToggleTo:    ModePtr(ModeAuto),
		ElementType: String("select"),
	})
}

func TestEngine_EndToEndArea(t *testing.T) {
	doc := formDoc()
	eng := New(doc, selectDefaults())

	report, err := eng.Toggle(context.Background(), Options{
		ParentSelector: String("#form"),
		ByArea:         AreaOf(100, 100, 50, 50),
	})
	require.NoError(t, err)

	assert.False(t, doc.byID("near").visible, "intersecting select is hidden")
	assert.True(t, doc.byID("far").visible, "distant select is untouched")
	assert.Equal(t, Report{Mode: ModeAuto, Filtered: true, Matched: 2, Toggled: 1, Outside: 1}, report)
	assert.Equal(t, 0, doc.byID("far").sets)
}

func TestEngine_Idempotence(t *testing.T) {
	for _, mode := range []Mode{ModeHidden, ModeShown} {
		t.Run(string(mode), func(t *testing.T) {
			doc := formDoc()
			doc.byID("far").visible = false
			eng := New(doc, selectDefaults())
			want := mode == ModeShown

			for i := 0; i < 2; i++ {
				_, err := eng.Toggle(context.Background(), Options{ToggleTo: ModePtr(mode)})
				require.NoError(t, err)
				assert.Equal(t, want, doc.byID("near").visible)
				assert.Equal(t, want, doc.byID("far").visible)
			}

			// Each element changes at most once across both calls.
			assert.LessOrEqual(t, doc.byID("near").sets, 1)
			assert.LessOrEqual(t, doc.byID("far").sets, 1)
		})
	}
}

func TestEngine_AutoFlipsIndependently(t *testing.T) {
	doc := formDoc()
	doc.byID("far").visible = false
	eng := New(doc, selectDefaults())

	report, err := eng.Toggle(context.Background(), Options{})
	require.NoError(t, err)

	assert.False(t, doc.byID("near").visible)
	assert.True(t, doc.byID("far").visible)
	assert.Equal(t, 2, report.Toggled)
	assert.False(t, report.Filtered)
}

func TestEngine_EmptyScopeIsNoop(t *testing.T) {
	doc := formDoc()
	eng := New(doc, selectDefaults())

	report, err := eng.Toggle(context.Background(), Options{ParentSelector: String("#missing")})
	require.NoError(t, err)

	assert.Equal(t, SkipScopeNotFound, report.Skipped)
	assert.Equal(t, 0, report.Toggled)
	assert.True(t, doc.byID("near").visible)
	assert.Len(t, doc.queries, 1, "element query never runs")
}

func TestEngine_NoElementsIsNoop(t *testing.T) {
	eng := New(formDoc())

	report, err := eng.Toggle(context.Background(), Options{ElementType: String("textarea")})
	require.NoError(t, err)
	assert.Equal(t, SkipNoElements, report.Skipped)
}

func TestEngine_DefineAndHaltHasNoSideEffects(t *testing.T) {
	doc := formDoc()
	eng := New(doc, selectDefaults())

	report, err := eng.Toggle(context.Background(), Options{
		DefineSet: String("hide-near"),
		ToggleTo:  ModePtr(ModeHidden),
		ByArea:    AreaOf(100, 100, 50, 50),
	})
	require.NoError(t, err)
	assert.Equal(t, SkipPresetDefined, report.Skipped)
	assert.Equal(t, "hide-near", report.Defined)
	assert.Empty(t, doc.queries)
	assert.True(t, doc.byID("near").visible)

	report, err = eng.Toggle(context.Background(), Options{UseSet: String("hide-near")})
	require.NoError(t, err)
	assert.Equal(t, "hide-near", report.Used)
	assert.False(t, doc.byID("near").visible)
	assert.True(t, doc.byID("far").visible)
}

func TestEngine_DefineAndContinue(t *testing.T) {
	doc := formDoc()
	eng := New(doc, selectDefaults())

	report, err := eng.Toggle(context.Background(), Options{
		DefineSet:              String("all-hidden"),
		ContinueAfterDefineSet: Bool(true),
		ToggleTo:               ModePtr(ModeHidden),
	})
	require.NoError(t, err)

	assert.Equal(t, "all-hidden", report.Defined)
	assert.Equal(t, 2, report.Toggled)
	assert.Equal(t, []string{"all-hidden"}, eng.Presets().Names())
}

func TestEngine_ByElement(t *testing.T) {
	doc := formDoc()
	doc.elems = append(doc.elems, &fakeElement{
		id: "dropdown", tag: "ul", parent: "form", visible: true,
		box: Box{X: 490, Y: 450, Width: 100, Height: 60},
	})
	eng := New(doc, selectDefaults())

	report, err := eng.Toggle(context.Background(), Options{
		ByElement: String("#dropdown"),
		ByArea:    AreaOf(100, 100, 50, 50),
		ToggleTo:  ModePtr(ModeHidden),
	})
	require.NoError(t, err)

	assert.True(t, doc.byID("near").visible, "by element takes precedence over area")
	assert.False(t, doc.byID("far").visible)
	assert.Equal(t, 1, report.Outside)
}

func TestEngine_MissingReferenceElement(t *testing.T) {
	doc := formDoc()
	eng := New(doc, selectDefaults())

	report, err := eng.Toggle(context.Background(), Options{ByElement: String("#nope")})
	require.NoError(t, err)
	assert.Equal(t, SkipNoReference, report.Skipped)
	assert.True(t, doc.byID("near").visible)
}

func TestEngine_PartialAreaRunsUnfiltered(t *testing.T) {
	doc := formDoc()
	eng := New(doc, selectDefaults())

	report, err := eng.Toggle(context.Background(), Options{
		ByArea:   Area{X: Float(100)},
		ToggleTo: ModePtr(ModeHidden),
	})
	require.NoError(t, err)

	assert.False(t, report.Filtered)
	assert.Equal(t, 2, report.Toggled)
}

func TestEngine_ZeroOriginAreaIsComplete(t *testing.T) {
	doc := formDoc()
	doc.byID("near").box = Box{X: 0, Y: 0, Width: 5, Height: 5}
	eng := New(doc, selectDefaults())

	report, err := eng.Toggle(context.Background(), Options{
		ByArea:   AreaOf(0, 0, 10, 10),
		ToggleTo: ModePtr(ModeHidden),
	})
	require.NoError(t, err)

	assert.True(t, report.Filtered)
	assert.False(t, doc.byID("near").visible)
	assert.True(t, doc.byID("far").visible)
}

func TestEngine_BrowserGate(t *testing.T) {
	tests := []struct {
		name     string
		detector Detector
		policy   UnknownBrowserPolicy
		target   Browser
		wantRun  bool
	}{
		{name: "match", detector: StaticDetector(BrowserIE7), target: BrowserIE7, wantRun: true},
		{name: "mismatch", detector: StaticDetector(BrowserFirefox), target: BrowserIE7, wantRun: false},
		{name: "unknown skips by default", detector: UnknownDetector{}, target: BrowserIE7, wantRun: false},
		{name: "unknown runs with policy", detector: UnknownDetector{}, policy: RunUnknown, target: BrowserIE7, wantRun: true},
		{name: "known mismatch ignores run policy", detector: StaticDetector(BrowserWebKit), policy: RunUnknown, target: BrowserIE7, wantRun: false},
		{
			name: "detector error counts as unknown",
			detector: DetectorFunc(func(context.Context) (Browser, error) {
				return "", errBoom
			}),
			policy:  RunUnknown,
			target:  BrowserFirefox,
			wantRun: true,
		},
		{name: "user agent", detector: UserAgentDetector{UserAgent: "Mozilla/5.0 Gecko/20100101 Firefox/128.0"}, target: BrowserFirefox, wantRun: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := formDoc()
			eng := New(doc, selectDefaults(), WithDetector(tt.detector), WithUnknownBrowserPolicy(tt.policy))

			report, err := eng.Toggle(context.Background(), Options{
				TargetBrowser: BrowserPtr(tt.target),
				ToggleTo:      ModePtr(ModeHidden),
			})
			require.NoError(t, err)

			if tt.wantRun {
				assert.Equal(t, 2, report.Toggled)
				assert.Empty(t, report.Skipped)
			} else {
				assert.Equal(t, SkipBrowserMismatch, report.Skipped)
				assert.Empty(t, doc.queries)
			}
		})
	}
}

func TestEngine_ElementFailuresDoNotAbort(t *testing.T) {
	doc := formDoc()
	doc.byID("near").setErr = errBoom
	eng := New(doc, selectDefaults())

	report, err := eng.Toggle(context.Background(), Options{ToggleTo: ModePtr(ModeHidden)})
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)

	var elemErr *ElementError
	require.True(t, errors.As(err, &elemErr))
	assert.Equal(t, 0, elemErr.Index)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Toggled)
	assert.False(t, doc.byID("far").visible)
}

func TestEngine_BoxFailureInAreaMode(t *testing.T) {
	doc := formDoc()
	doc.byID("far").boxErr = errBoom
	eng := New(doc, selectDefaults())

	report, err := eng.Toggle(context.Background(), Options{ByArea: AreaOf(100, 100, 50, 50)})
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, report.Toggled)
	assert.Equal(t, 1, report.Failed)
}

func TestEngine_QueryFailure(t *testing.T) {
	doc := formDoc()
	doc.findErr = errBoom
	eng := New(doc)

	_, err := eng.Toggle(context.Background(), Options{})
	assert.ErrorIs(t, err, errBoom)
}

func TestEngine_InvalidModeFailsFast(t *testing.T) {
	doc := formDoc()
	eng := New(doc)

	_, err := eng.Toggle(context.Background(), Options{ToggleTo: ModePtr("flip")})
	assert.ErrorIs(t, err, ErrInvalidMode)
	assert.Empty(t, doc.queries)
}

func TestEngine_BeforeToggle(t *testing.T) {
	doc := formDoc()
	var seen []Options
	eng := New(doc, selectDefaults(), WithBeforeToggle(func(_ context.Context, opts Options) error {
		seen = append(seen, opts)
		return nil
	}))

	_, err := eng.Toggle(context.Background(), Options{ToggleTo: ModePtr(ModeShown)})
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "select", *seen[0].ElementType)

	_, err = eng.Toggle(context.Background(), Options{DefineSet: String("x")})
	require.NoError(t, err)
	assert.Len(t, seen, 1, "hook does not run for define-and-halt")

	blocked := New(doc, WithBeforeToggle(func(context.Context, Options) error { return errBoom }))
	_, err = blocked.Toggle(context.Background(), Options{})
	assert.ErrorIs(t, err, errBoom)
}

func TestEngine_Defaults(t *testing.T) {
	eng := New(formDoc())
	assert.Equal(t, BuiltinDefaults(), eng.Defaults())

	require.NoError(t, eng.SetDefaults(Options{ElementType: String("select"), UseSet: String("ignored")}))
	got := eng.Defaults()
	assert.Equal(t, "select", *got.ElementType)
	assert.Nil(t, got.UseSet)

	assert.ErrorIs(t, eng.SetDefaults(Options{ToggleTo: ModePtr("nope")}), ErrInvalidMode)
}

func TestEngine_SharedPresets(t *testing.T) {
	store := NewPresetStore()
	require.NoError(t, store.Define("near-only", Options{ByArea: AreaOf(100, 100, 50, 50), ToggleTo: ModePtr(ModeHidden)}))

	doc := formDoc()
	eng := New(doc, selectDefaults(), WithPresets(store))

	_, err := eng.Toggle(context.Background(), Options{UseSet: String("near-only")})
	require.NoError(t, err)
	assert.False(t, doc.byID("near").visible)
	assert.Same(t, store, eng.Presets())
}
