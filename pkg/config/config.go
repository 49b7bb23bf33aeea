package config

import (
	"sync"
)

var (
	// globalManager is the singleton configuration manager instance
	globalManager *Manager
	globalMu      sync.Mutex
)

// New creates a manager over the file at configPath with the togglekit
// sections registered and loaded.
func New(configPath string) (*Manager, error) {
	store, err := NewFileStore(configPath)
	if err != nil {
		return nil, err
	}

	manager := NewManager(store)
	for _, section := range []Section{
		NewDefaultsSection(),
		NewBrowserSection(),
		NewPresetsSection(),
	} {
		if err := manager.RegisterSection(section); err != nil {
			return nil, err
		}
	}

	if err := manager.LoadAll(); err != nil {
		return nil, err
	}
	return manager, nil
}

// Initialize creates the global configuration manager. Call it once at
// startup; later calls replace the global manager.
func Initialize(configPath string) error {
	manager, err := New(configPath)
	if err != nil {
		return err
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	globalManager = manager
	return nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// Defaults returns the defaults section of m.
func (m *Manager) Defaults() *DefaultsSection {
	return sectionAs[*DefaultsSection](m, SectionIDDefaults)
}

// Browser returns the browser section of m.
func (m *Manager) Browser() *BrowserSection {
	return sectionAs[*BrowserSection](m, SectionIDBrowser)
}

// Presets returns the presets section of m.
func (m *Manager) Presets() *PresetsSection {
	return sectionAs[*PresetsSection](m, SectionIDPresets)
}

// GetBrowser returns the browser section from global config.
// Returns nil if config is not initialized.
func GetBrowser() *BrowserSection {
	if !IsInitialized() {
		return nil
	}
	return Global().Browser()
}

// GetDefaults returns the defaults section from global config.
// Returns nil if config is not initialized.
func GetDefaults() *DefaultsSection {
	if !IsInitialized() {
		return nil
	}
	return Global().Defaults()
}

// GetPresets returns the presets section from global config.
// Returns nil if config is not initialized.
func GetPresets() *PresetsSection {
	if !IsInitialized() {
		return nil
	}
	return Global().Presets()
}

func sectionAs[T Section](m *Manager, id string) T {
	var zero T
	section, ok := m.GetSection(id)
	if !ok {
		return zero
	}
	typed, ok := section.(T)
	if !ok {
		return zero
	}
	return typed
}
