package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/togglekit/pkg/toggle"
)

func TestBrowserSection(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		s := NewBrowserSection()
		require.NoError(t, s.Validate())
		assert.Equal(t, toggle.SkipUnknown, s.Policy())
		assert.True(t, s.Snapshot().Headless)
	})

	t.Run("accepts JSON numbers", func(t *testing.T) {
		s := NewBrowserSection()
		require.NoError(t, s.SetData(map[string]interface{}{
			"viewport_width":  float64(800),
			"viewport_height": 600,
			"future_setting":  "ignored",
		}))
		snap := s.Snapshot()
		assert.Equal(t, 800, snap.ViewportWidth)
		assert.Equal(t, 600, snap.ViewportHeight)
	})

	t.Run("rejects wrong types", func(t *testing.T) {
		tests := map[string]interface{}{
			"engine":         42,
			"headless":       "yes",
			"viewport_width": "wide",
		}
		for key, value := range tests {
			s := NewBrowserSection()
			assert.Error(t, s.SetData(map[string]interface{}{key: value}), key)
		}
		assert.Error(t, NewBrowserSection().SetData(map[string]interface{}{"viewport_width": 10.5}))
	})

	t.Run("validate", func(t *testing.T) {
		tests := []struct {
			name string
			data map[string]interface{}
		}{
			{"engine", map[string]interface{}{"engine": "selenium"}},
			{"browser", map[string]interface{}{"browser": "netscape"}},
			{"viewport", map[string]interface{}{"viewport_width": 50}},
			{"policy", map[string]interface{}{"unknown_browser": "maybe"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				s := NewBrowserSection()
				require.NoError(t, s.SetData(tt.data))
				assert.Error(t, s.Validate())

				s.Reset()
				assert.NoError(t, s.Validate())
			})
		}
	})
}

func TestDefaultsSection(t *testing.T) {
	s := NewDefaultsSection()
	assert.Equal(t, map[string]interface{}{"toggle_to": "autoSelect"}, s.Data())

	require.NoError(t, s.SetData(map[string]interface{}{
		"element_type": "select",
		"by_area":      map[string]interface{}{"x": float64(10), "width": float64(0)},
	}))
	opts := s.Options()
	assert.Equal(t, toggle.ModeAuto, opts.Mode(), "built-in defaults fill missing keys")
	assert.Equal(t, "select", *opts.ElementType)
	assert.Equal(t, 10.0, *opts.ByArea.X)
	assert.Equal(t, 0.0, *opts.ByArea.Width)
	assert.NoError(t, s.Validate())

	assert.ErrorIs(t, s.SetData(map[string]interface{}{"toggle_to": "sideways"}), toggle.ErrInvalidMode)
	assert.Error(t, s.SetData(map[string]interface{}{"element_type": 7}))

	require.NoError(t, s.SetOptions(toggle.Options{UseSet: toggle.String("nav")}))
	assert.Error(t, s.Validate(), "defaults cannot carry preset controls")

	s.Reset()
	assert.Equal(t, toggle.BuiltinDefaults(), s.Options())
}

func TestPresetsSection(t *testing.T) {
	s := NewPresetsSection()
	require.NoError(t, s.SetData(map[string]interface{}{
		"menus": map[string]interface{}{
			"element_type": "select",
			"toggle_to":    "hidden",
		},
		"banner": map[string]interface{}{
			"element_selector": ".banner",
		},
	}))
	assert.Equal(t, []string{"banner", "menus"}, s.Names())
	require.NoError(t, s.Validate())

	data := s.Data()
	assert.Equal(t, map[string]interface{}{"element_type": "select", "toggle_to": "hidden"}, data["menus"])

	assert.Error(t, s.SetData(map[string]interface{}{"bad": "not an object"}))
	assert.Error(t, s.SetData(map[string]interface{}{"bad": map[string]interface{}{"toggle_to": "up"}}))
	assert.Equal(t, []string{"banner", "menus"}, s.Names(), "failed loads leave presets untouched")

	s.Reset()
	assert.Empty(t, s.Names())
}
