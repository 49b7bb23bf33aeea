package toggle

import (
	"fmt"
	"strings"
)

// Mode selects the visibility transition applied to each qualifying element.
type Mode string

const (
	// ModeAuto flips each element: visible ones are hidden, hidden ones shown.
	ModeAuto Mode = "autoSelect"

	// ModeHidden forces elements hidden.
	ModeHidden Mode = "hidden"

	// ModeShown forces elements visible.
	ModeShown Mode = "shown"
)

// Valid reports whether m is one of the three known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeAuto, ModeHidden, ModeShown:
		return true
	}
	return false
}

// ParseMode converts a user supplied string into a Mode. Matching is
// case-insensitive and accepts "auto", "hide" and "show" as aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "autoselect", "auto", "toggle":
		return ModeAuto, nil
	case "hidden", "hide":
		return ModeHidden, nil
	case "shown", "show":
		return ModeShown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Area is a reference rectangle given in document coordinates. Each field is
// optional; the area only takes part in filtering once all four are set.
type Area struct {
	X      *float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y      *float64 `json:"y,omitempty" yaml:"y,omitempty"`
	Width  *float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height *float64 `json:"height,omitempty" yaml:"height,omitempty"`
}

// Complete reports whether all four coordinates are present.
func (a Area) Complete() bool {
	return a.X != nil && a.Y != nil && a.Width != nil && a.Height != nil
}

// Empty reports whether no coordinate is present.
func (a Area) Empty() bool {
	return a.X == nil && a.Y == nil && a.Width == nil && a.Height == nil
}

// Options is one toggle request. A nil field means "not provided" and is
// filled from less specific sources during resolution; zero values such as
// 0 or false are real values.
type Options struct {
	// TargetBrowser restricts the toggle to one browser family.
	TargetBrowser *Browser `json:"target_browser,omitempty" yaml:"target_browser,omitempty"`

	// ParentSelector scopes the search. Absent means the whole document.
	ParentSelector *string `json:"parent_selector,omitempty" yaml:"parent_selector,omitempty"`

	// ToggleTo is the transition to apply.
	ToggleTo *Mode `json:"toggle_to,omitempty" yaml:"toggle_to,omitempty"`

	// ElementSelector filters candidate elements (class, id, attribute...).
	ElementSelector *string `json:"element_selector,omitempty" yaml:"element_selector,omitempty"`

	// ElementType is a tag name such as "select" or "div".
	ElementType *string `json:"element_type,omitempty" yaml:"element_type,omitempty"`

	// ByArea restricts toggling to elements intersecting this rectangle.
	ByArea Area `json:"by_area,omitzero" yaml:"by_area,omitempty"`

	// ByElement restricts toggling to elements intersecting the bounds of
	// the first element matching this selector. Takes precedence over ByArea.
	ByElement *string `json:"by_element,omitempty" yaml:"by_element,omitempty"`

	// DefineSet stores the merged options under this name.
	DefineSet *string `json:"define_set,omitempty" yaml:"define_set,omitempty"`

	// UseSet layers a stored preset between the defaults and this call.
	UseSet *string `json:"use_set,omitempty" yaml:"use_set,omitempty"`

	// ContinueAfterDefineSet executes the toggle after defining a set
	// instead of returning immediately.
	ContinueAfterDefineSet *bool `json:"continue_after_define_set,omitempty" yaml:"continue_after_define_set,omitempty"`
}

// String returns a pointer to s.
func String(s string) *string { return &s }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// ModePtr returns a pointer to m.
func ModePtr(m Mode) *Mode { return &m }

// BrowserPtr returns a pointer to b.
func BrowserPtr(b Browser) *Browser { return &b }

// AreaOf builds a complete Area.
func AreaOf(x, y, width, height float64) Area {
	return Area{X: Float(x), Y: Float(y), Width: Float(width), Height: Float(height)}
}

// Mode returns the requested mode, or ModeAuto when none was provided.
func (o Options) Mode() Mode {
	if o.ToggleTo == nil {
		return ModeAuto
	}
	return *o.ToggleTo
}

// Validate checks the fields whose values are constrained. It does not
// require any field to be present.
func (o Options) Validate() error {
	if o.ToggleTo != nil && !o.ToggleTo.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, string(*o.ToggleTo))
	}
	if o.DefineSet != nil && strings.TrimSpace(*o.DefineSet) == "" {
		return ErrMissingSetName
	}
	if o.ElementType != nil {
		if err := validateTag(*o.ElementType); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy so that later mutation of either value cannot
// leak into the other. Presets are stored as clones.
func (o Options) Clone() Options {
	return Options{
		TargetBrowser:          clonePtr(o.TargetBrowser),
		ParentSelector:         clonePtr(o.ParentSelector),
		ToggleTo:               clonePtr(o.ToggleTo),
		ElementSelector:        clonePtr(o.ElementSelector),
		ElementType:            clonePtr(o.ElementType),
		ByArea:                 o.ByArea.clone(),
		ByElement:              clonePtr(o.ByElement),
		DefineSet:              clonePtr(o.DefineSet),
		UseSet:                 clonePtr(o.UseSet),
		ContinueAfterDefineSet: clonePtr(o.ContinueAfterDefineSet),
	}
}

func (a Area) clone() Area {
	return Area{
		X:      clonePtr(a.X),
		Y:      clonePtr(a.Y),
		Width:  clonePtr(a.Width),
		Height: clonePtr(a.Height),
	}
}

// withoutSetControls drops the per-call preset directives. Stored presets
// only carry toggle configuration.
func (o Options) withoutSetControls() Options {
	o.DefineSet = nil
	o.UseSet = nil
	o.ContinueAfterDefineSet = nil
	return o
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
