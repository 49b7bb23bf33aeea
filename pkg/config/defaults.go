package config

import (
	"fmt"
	"sync"

	"github.com/entrhq/togglekit/pkg/toggle"
)

// SectionIDDefaults is the identifier for the toggle defaults section
const SectionIDDefaults = "defaults"

// DefaultsSection holds the engine defaults applied beneath every call.
type DefaultsSection struct {
	mu   sync.RWMutex
	opts toggle.Options
}

// NewDefaultsSection creates a section holding the built-in defaults.
func NewDefaultsSection() *DefaultsSection {
	return &DefaultsSection{opts: toggle.BuiltinDefaults()}
}

// ID returns the section identifier.
func (s *DefaultsSection) ID() string { return SectionIDDefaults }

// Title returns the section title.
func (s *DefaultsSection) Title() string { return "Toggle Defaults" }

// Description returns the section description.
func (s *DefaultsSection) Description() string {
	return "Options applied to every toggle call before presets and per-call options."
}

// Data returns the defaults as a map.
func (s *DefaultsSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := optionsToMap(s.opts)
	if err != nil {
		return map[string]interface{}{}
	}
	return m
}

// SetData replaces the defaults. Keys not present fall back to the
// built-in defaults.
func (s *DefaultsSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}
	opts, err := optionsFromMap(data)
	if err != nil {
		return fmt.Errorf("defaults: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = toggle.Merge(toggle.BuiltinDefaults(), opts)
	return nil
}

// Validate rejects defaults that carry preset controls.
func (s *DefaultsSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.opts.DefineSet != nil || s.opts.UseSet != nil || s.opts.ContinueAfterDefineSet != nil {
		return fmt.Errorf("defaults cannot define or use presets")
	}
	return s.opts.Validate()
}

// Reset restores the built-in defaults.
func (s *DefaultsSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = toggle.BuiltinDefaults()
}

// Options returns a copy of the defaults.
func (s *DefaultsSection) Options() toggle.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts.Clone()
}

// SetOptions replaces the defaults.
func (s *DefaultsSection) SetOptions(opts toggle.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts.Clone()
	return nil
}
