// Package presetfile loads named toggle presets and toggle scripts from
// YAML or HCL files.
//
// A YAML file has two optional top-level keys:
//
//	presets:
//	  forms:
//	    parent_selector: "#form"
//	    element_type: select
//	    by_area: {x: 0, y: 0, width: 300, height: 200}
//	steps:
//	  - use_set: forms
//	    toggle_to: hidden
//
// The HCL form uses labelled preset blocks and ordered step blocks:
//
//	preset "forms" {
//	  parent_selector = "#form"
//	  element_type    = "select"
//	  area {
//	    x = 0
//	    y = 0
//	    width  = 300
//	    height = 200
//	  }
//	}
//
//	step {
//	  use_set   = "forms"
//	  toggle_to = "hidden"
//	}
package presetfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/entrhq/togglekit/pkg/toggle"
)

// Format identifies a preset file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", fmt.Errorf("unsupported preset file extension %q (want .yaml, .yml or .hcl)", filepath.Ext(path))
}

// File is the decoded content of a preset file.
type File struct {
	// Presets maps a name to its options.
	Presets map[string]toggle.Options

	// Steps are toggle calls to run in order.
	Steps []toggle.Options
}

// Load reads and decodes the file at path.
func Load(path string) (*File, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}
	return Parse(data, path, format)
}

// Parse decodes data. filename only appears in error messages.
func Parse(data []byte, filename string, format Format) (*File, error) {
	var (
		raw *rawFile
		err error
	)
	switch format {
	case FormatYAML:
		raw, err = decodeYAML(data)
	case FormatHCL:
		raw, err = decodeHCL(data, filename)
	default:
		return nil, fmt.Errorf("unsupported preset file format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	f, err := raw.build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return f, nil
}

// Names returns the preset names in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Presets))
	for name := range f.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply defines every preset in store, replacing presets of the same name.
func (f *File) Apply(store *toggle.PresetStore) error {
	for _, name := range f.Names() {
		if err := store.Define(name, f.Presets[name]); err != nil {
			return err
		}
	}
	return nil
}

// rawFile is the format-neutral decode target. Mode and browser stay
// strings until build so that aliases such as "hide" or "IE6" are accepted.
type rawFile struct {
	Presets map[string]rawOptions `yaml:"presets"`
	Steps   []rawOptions          `yaml:"steps"`
}

type rawOptions struct {
	ToggleTo        *string  `yaml:"toggle_to"`
	ParentSelector  *string  `yaml:"parent_selector"`
	ElementType     *string  `yaml:"element_type"`
	ElementSelector *string  `yaml:"element_selector"`
	ByElement       *string  `yaml:"by_element"`
	ByArea          *rawArea `yaml:"by_area"`
	TargetBrowser   *string  `yaml:"target_browser"`
	DefineSet       *string  `yaml:"define_set"`
	UseSet          *string  `yaml:"use_set"`
	Continue        *bool    `yaml:"continue_after_define_set"`
}

type rawArea struct {
	X      *float64 `yaml:"x"`
	Y      *float64 `yaml:"y"`
	Width  *float64 `yaml:"width"`
	Height *float64 `yaml:"height"`
}

func (r *rawFile) build() (*File, error) {
	f := &File{Presets: make(map[string]toggle.Options, len(r.Presets))}

	for name, raw := range r.Presets {
		if strings.TrimSpace(name) == "" {
			return nil, toggle.ErrMissingSetName
		}
		opts, err := raw.options()
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		f.Presets[name] = opts
	}

	for i, raw := range r.Steps {
		opts, err := raw.options()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		f.Steps = append(f.Steps, opts)
	}
	return f, nil
}

func (r rawOptions) options() (toggle.Options, error) {
	opts := toggle.Options{
		ParentSelector:         r.ParentSelector,
		ElementType:            r.ElementType,
		ElementSelector:        r.ElementSelector,
		ByElement:              r.ByElement,
		DefineSet:              r.DefineSet,
		UseSet:                 r.UseSet,
		ContinueAfterDefineSet: r.Continue,
	}
	if r.ToggleTo != nil {
		mode, err := toggle.ParseMode(*r.ToggleTo)
		if err != nil {
			return opts, err
		}
		opts.ToggleTo = &mode
	}
	if r.TargetBrowser != nil {
		b, err := toggle.ParseBrowser(*r.TargetBrowser)
		if err != nil {
			return opts, err
		}
		opts.TargetBrowser = &b
	}
	if r.ByArea != nil {
		opts.ByArea = toggle.Area{X: r.ByArea.X, Y: r.ByArea.Y, Width: r.ByArea.Width, Height: r.ByArea.Height}
	}
	return opts, opts.Validate()
}
