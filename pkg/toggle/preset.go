package toggle

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// PresetStore holds named, fully merged option snapshots. The zero value is
// not usable; create one with NewPresetStore. Safe for concurrent use:
// definitions take an exclusive lock for the duration of the write.
type PresetStore struct {
	mu      sync.RWMutex
	presets map[string]Options
}

// NewPresetStore creates an empty store.
func NewPresetStore() *PresetStore {
	return &PresetStore{
		presets: make(map[string]Options),
	}
}

// Define stores opts under name, replacing any earlier definition.
func (s *PresetStore) Define(name string, opts Options) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrMissingSetName
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("preset %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets[name] = opts.withoutSetControls().Clone()
	return nil
}

// Get returns a copy of the named preset.
func (s *PresetStore) Get(name string) (Options, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	opts, ok := s.presets[name]
	if !ok {
		return Options{}, false
	}
	return opts.Clone(), true
}

// Delete removes a preset. Deleting an unknown name is a no-op.
func (s *PresetStore) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.presets, name)
}

// Len returns the number of stored presets.
func (s *PresetStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.presets)
}

// Names returns all preset names in sorted order.
func (s *PresetStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.presets))
	for name := range s.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Match returns the sorted names matching a glob pattern such as "form-*".
// An empty pattern matches everything.
func (s *PresetStore) Match(pattern string) ([]string, error) {
	if pattern == "" {
		return s.Names(), nil
	}

	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid preset pattern %q: %w", pattern, err)
	}

	var matched []string
	for _, name := range s.Names() {
		if g.Match(name) {
			matched = append(matched, name)
		}
	}
	return matched, nil
}

// Snapshot returns a copy of every preset keyed by name.
func (s *PresetStore) Snapshot() map[string]Options {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Options, len(s.presets))
	for name, opts := range s.presets {
		out[name] = opts.Clone()
	}
	return out
}
