package config

import (
	"encoding/json"
	"fmt"

	"github.com/entrhq/togglekit/pkg/toggle"
)

// optionsToMap converts options to the JSON-shaped map stored in a section.
// Absent fields are left out.
func optionsToMap(opts toggle.Options) (map[string]interface{}, error) {
	raw, err := json.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode options: %w", err)
	}
	out := make(map[string]interface{})
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode options: %w", err)
	}
	return out, nil
}

// optionsFromMap is the inverse of optionsToMap. Unknown keys are ignored
// for forward compatibility; known keys with the wrong type are errors.
func optionsFromMap(m map[string]interface{}) (toggle.Options, error) {
	var opts toggle.Options
	raw, err := json.Marshal(m)
	if err != nil {
		return opts, fmt.Errorf("failed to encode options: %w", err)
	}
	if err := json.Unmarshal(raw, &opts); err != nil {
		return opts, fmt.Errorf("invalid options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}
