package config

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/togglekit/pkg/toggle"
)

// memStore keeps sections in memory and counts saves.
type memStore struct {
	sections map[string]map[string]interface{}
	loadErr  error
	saveErr  error
	saves    int
}

func newMemStore() *memStore {
	return &memStore{sections: make(map[string]map[string]interface{})}
}

func (m *memStore) Load() error { return m.loadErr }

func (m *memStore) Save() error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	return nil
}

func (m *memStore) GetSection(id string) (map[string]interface{}, error) {
	return m.sections[id], nil
}

func (m *memStore) SetSection(id string, data map[string]interface{}) error {
	m.sections[id] = data
	return nil
}

func newTestManager(t *testing.T, store Store) *Manager {
	t.Helper()
	m := NewManager(store)
	require.NoError(t, m.RegisterSection(NewDefaultsSection()))
	require.NoError(t, m.RegisterSection(NewBrowserSection()))
	require.NoError(t, m.RegisterSection(NewPresetsSection()))
	return m
}

func TestManager_RegisterSection(t *testing.T) {
	m := newTestManager(t, newMemStore())

	err := m.RegisterSection(NewPresetsSection())
	assert.ErrorContains(t, err, `section "presets" already registered`)

	var ids []string
	for _, s := range m.GetSections() {
		ids = append(ids, s.ID())
	}
	assert.Equal(t, []string{SectionIDDefaults, SectionIDBrowser, SectionIDPresets}, ids)

	s, ok := m.GetSection(SectionIDBrowser)
	require.True(t, ok)
	assert.IsType(t, &BrowserSection{}, s)

	_, ok = m.GetSection("ui")
	assert.False(t, ok)
}

func TestManager_SaveAndLoadPresets(t *testing.T) {
	store := newMemStore()
	m := newTestManager(t, store)

	presets := toggle.NewPresetStore()
	require.NoError(t, presets.Define("menus", toggle.Options{
		ElementType: toggle.String("select"),
		ToggleTo:    toggle.ModePtr(toggle.ModeHidden),
		ByArea:      toggle.AreaOf(0, 0, 200, 100),
	}))
	require.NoError(t, presets.Define("banner", toggle.Options{
		ElementSelector: toggle.String(".banner"),
	}))
	m.Presets().Capture(presets)

	require.NoError(t, m.SaveAll())
	assert.Equal(t, 1, store.saves)
	assert.Contains(t, store.sections, SectionIDPresets)
	assert.Contains(t, store.sections, SectionIDBrowser)

	reloaded := newTestManager(t, store)
	require.NoError(t, reloaded.LoadAll())
	assert.Equal(t, []string{"banner", "menus"}, reloaded.Presets().Names())

	into := toggle.NewPresetStore()
	require.NoError(t, reloaded.Presets().LoadInto(into))
	menus, ok := into.Get("menus")
	require.True(t, ok)
	assert.Equal(t, "select", *menus.ElementType)
	assert.Equal(t, toggle.ModeHidden, *menus.ToggleTo)
	assert.Equal(t, toggle.AreaOf(0, 0, 200, 100), menus.ByArea)
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("missing sections keep their defaults", func(t *testing.T) {
		store := newMemStore()
		store.sections[SectionIDBrowser] = map[string]interface{}{"engine": EngineRod}
		m := newTestManager(t, store)

		require.NoError(t, m.LoadAll())
		assert.Equal(t, EngineRod, m.Browser().Snapshot().Engine)
		assert.Equal(t, toggle.BuiltinDefaults(), m.Defaults().Options())
		assert.Empty(t, m.Presets().Names())
	})

	t.Run("store load error", func(t *testing.T) {
		store := newMemStore()
		store.loadErr = errors.New("disk gone")
		err := newTestManager(t, store).LoadAll()
		assert.ErrorContains(t, err, "failed to load config")
	})

	t.Run("bad section data", func(t *testing.T) {
		store := newMemStore()
		store.sections[SectionIDDefaults] = map[string]interface{}{"toggle_to": "sideways"}
		err := newTestManager(t, store).LoadAll()
		assert.ErrorContains(t, err, "failed to load section defaults")
		assert.ErrorIs(t, err, toggle.ErrInvalidMode)
	})
}

func TestManager_SaveAll(t *testing.T) {
	t.Run("invalid section blocks the write", func(t *testing.T) {
		store := newMemStore()
		m := newTestManager(t, store)
		m.Browser().Engine = "selenium"

		err := m.SaveAll()
		assert.ErrorContains(t, err, "invalid section browser")
		assert.Empty(t, store.sections, "nothing is written when validation fails")
		assert.Zero(t, store.saves)
	})

	t.Run("store save error", func(t *testing.T) {
		store := newMemStore()
		store.saveErr = errors.New("read-only")
		err := newTestManager(t, store).SaveAll()
		assert.ErrorContains(t, err, "failed to save config")
	})
}

func TestManager_ResetAll(t *testing.T) {
	m := newTestManager(t, newMemStore())
	require.NoError(t, m.Defaults().SetOptions(toggle.Options{ElementType: toggle.String("input")}))
	require.NoError(t, m.Presets().SetData(map[string]interface{}{
		"inputs": map[string]interface{}{"element_type": "input"},
	}))
	m.Browser().Engine = EnginePlaywright

	m.ResetAll()
	assert.Equal(t, toggle.BuiltinDefaults(), m.Defaults().Options())
	assert.Empty(t, m.Presets().Names())
	assert.Equal(t, EngineStatic, m.Browser().Snapshot().Engine)
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := newTestManager(t, newMemStore())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = m.GetSections()
			_, _ = m.GetSection(SectionIDPresets)
		}()
		go func() {
			defer wg.Done()
			_ = m.Presets().Names()
			_ = m.Browser().Snapshot()
		}()
	}
	wg.Wait()
}
