package toggle

import (
	"fmt"
	"strings"
)

// Resolution is the outcome of resolving one call's options.
type Resolution struct {
	// Options are the finalized options for execution. When Halted is true
	// they are the snapshot that was stored.
	Options Options

	// Defined names the preset stored by this call, if any.
	Defined string

	// Used names the preset layered into Options, if one was requested
	// and found.
	Used string

	// MissingPreset names a requested preset that does not exist.
	MissingPreset string

	// Halted is true when a preset was defined and execution must stop.
	Halted bool
}

// Resolve merges caller options with defaults and, optionally, a stored
// preset. Precedence from lowest to highest is defaults, preset, caller.
//
// A call carrying DefineSet stores defaults+caller under that name and halts
// unless ContinueAfterDefineSet is true. A call carrying UseSet for an
// unknown preset resolves as if no preset had been requested.
func Resolve(caller, defaults Options, store *PresetStore) (Resolution, error) {
	if caller.DefineSet != nil {
		name := strings.TrimSpace(*caller.DefineSet)
		if name == "" {
			return Resolution{}, ErrMissingSetName
		}
		if store == nil {
			return Resolution{}, fmt.Errorf("define set %q: no preset store", name)
		}

		merged := Merge(defaults, caller)
		if err := store.Define(name, merged); err != nil {
			return Resolution{}, err
		}

		res := Resolution{Options: merged.withoutSetControls(), Defined: name}
		if caller.ContinueAfterDefineSet == nil || !*caller.ContinueAfterDefineSet {
			res.Halted = true
			return res, nil
		}
		return res, res.Options.Validate()
	}

	res := Resolution{}
	layers := []Options{defaults}
	if caller.UseSet != nil && *caller.UseSet != "" {
		if preset, ok := lookup(store, *caller.UseSet); ok {
			layers = append(layers, preset)
			res.Used = *caller.UseSet
		} else {
			res.MissingPreset = *caller.UseSet
		}
	}
	layers = append(layers, caller)

	res.Options = Merge(layers...).withoutSetControls()
	if err := res.Options.Validate(); err != nil {
		return Resolution{}, err
	}
	return res, nil
}

func lookup(store *PresetStore, name string) (Options, bool) {
	if store == nil {
		return Options{}, false
	}
	return store.Get(name)
}
