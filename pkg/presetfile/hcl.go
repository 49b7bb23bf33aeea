package presetfile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

type hclFile struct {
	Presets []*hclPreset  `hcl:"preset,block"`
	Steps   []*hclOptions `hcl:"step,block"`
}

// hclPreset keeps its body undecoded until the label is known, so that
// decode errors can name the preset.
type hclPreset struct {
	Name   string   `hcl:"name,label"`
	Remain hcl.Body `hcl:",remain"`
}

type hclOptions struct {
	ToggleTo        *string  `hcl:"toggle_to,optional"`
	ParentSelector  *string  `hcl:"parent_selector,optional"`
	ElementType     *string  `hcl:"element_type,optional"`
	ElementSelector *string  `hcl:"element_selector,optional"`
	ByElement       *string  `hcl:"by_element,optional"`
	TargetBrowser   *string  `hcl:"target_browser,optional"`
	DefineSet       *string  `hcl:"define_set,optional"`
	UseSet          *string  `hcl:"use_set,optional"`
	Continue        *bool    `hcl:"continue_after_define_set,optional"`
	Area            *hclArea `hcl:"area,block"`
}

type hclArea struct {
	X      *float64 `hcl:"x,optional"`
	Y      *float64 `hcl:"y,optional"`
	Width  *float64 `hcl:"width,optional"`
	Height *float64 `hcl:"height,optional"`
}

func decodeHCL(data []byte, filename string) (*rawFile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, diags
	}

	raw := &rawFile{Presets: make(map[string]rawOptions, len(parsed.Presets))}
	for _, p := range parsed.Presets {
		if _, dup := raw.Presets[p.Name]; dup {
			return nil, fmt.Errorf("preset %q is defined more than once", p.Name)
		}
		var opts hclOptions
		if diags := gohcl.DecodeBody(p.Remain, nil, &opts); diags.HasErrors() {
			return nil, fmt.Errorf("preset %q: %w", p.Name, diags)
		}
		raw.Presets[p.Name] = opts.raw()
	}
	for _, s := range parsed.Steps {
		raw.Steps = append(raw.Steps, s.raw())
	}
	return raw, nil
}

func (o *hclOptions) raw() rawOptions {
	r := rawOptions{
		ToggleTo:        o.ToggleTo,
		ParentSelector:  o.ParentSelector,
		ElementType:     o.ElementType,
		ElementSelector: o.ElementSelector,
		ByElement:       o.ByElement,
		TargetBrowser:   o.TargetBrowser,
		DefineSet:       o.DefineSet,
		UseSet:          o.UseSet,
		Continue:        o.Continue,
	}
	if o.Area != nil {
		r.ByArea = &rawArea{X: o.Area.X, Y: o.Area.Y, Width: o.Area.Width, Height: o.Area.Height}
	}
	return r
}
