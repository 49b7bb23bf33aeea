package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/entrhq/togglekit/pkg/toggle"
)

// SectionIDPresets is the identifier for the persisted presets section
const SectionIDPresets = "presets"

// PresetsSection persists named presets between runs.
type PresetsSection struct {
	mu      sync.RWMutex
	presets map[string]toggle.Options
}

// NewPresetsSection creates an empty presets section.
func NewPresetsSection() *PresetsSection {
	return &PresetsSection{presets: make(map[string]toggle.Options)}
}

// ID returns the section identifier.
func (s *PresetsSection) ID() string { return SectionIDPresets }

// Title returns the section title.
func (s *PresetsSection) Title() string { return "Presets" }

// Description returns the section description.
func (s *PresetsSection) Description() string {
	return "Named toggle configurations available to use_set."
}

// Data returns name -> options map.
func (s *PresetsSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]interface{}, len(s.presets))
	for name, opts := range s.presets {
		m, err := optionsToMap(opts)
		if err != nil {
			continue
		}
		out[name] = m
	}
	return out
}

// SetData replaces all presets.
func (s *PresetsSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	presets := make(map[string]toggle.Options, len(data))
	for name, v := range data {
		m, ok := v.(map[string]interface{})
		if !ok {
			return fmt.Errorf("invalid value type for preset %q: expected object, got %T", name, v)
		}
		opts, err := optionsFromMap(m)
		if err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
		presets[name] = opts
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets = presets
	return nil
}

// Validate checks every preset.
func (s *PresetsSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, name := range s.namesLocked() {
		if name == "" {
			return toggle.ErrMissingSetName
		}
		if err := s.presets[name].Validate(); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return nil
}

// Reset removes all presets.
func (s *PresetsSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets = make(map[string]toggle.Options)
}

// Names returns the preset names in sorted order.
func (s *PresetsSection) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.namesLocked()
}

func (s *PresetsSection) namesLocked() []string {
	names := make([]string, 0, len(s.presets))
	for name := range s.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadInto defines every persisted preset in store.
func (s *PresetsSection) LoadInto(store *toggle.PresetStore) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, name := range s.namesLocked() {
		if err := store.Define(name, s.presets[name]); err != nil {
			return err
		}
	}
	return nil
}

// Capture replaces the persisted presets with the contents of store.
func (s *PresetsSection) Capture(store *toggle.PresetStore) {
	snap := store.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets = snap
}
