package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Layering(t *testing.T) {
	th := New(
		map[string]any{"border": map[string]any{"width": 4, "active": "#ff0000"}},
		map[string]any{"border": map[string]any{"width": 1}},
		map[string]any{"bar": map[string]any{"font": "sans 9"}},
	)

	assert.Equal(t, 1, th.BorderWidth())
	assert.Equal(t, "#ff0000", th.String("border.active", ""))
	assert.Equal(t, "#333333", th.String("border.inactive", ""))
	assert.Equal(t, "sans 9", th.String("bar.font", ""))
	assert.Equal(t, 20, th.BarHeight())
}

func TestGetters_Defaults(t *testing.T) {
	th := New(map[string]any{"bar": map[string]any{"height": "tall"}})

	assert.Equal(t, 20, th.BarHeight())
	assert.Equal(t, 7, th.Int("missing.path", 7))
	assert.Equal(t, "x", th.String("border.width", "x"))
	_, ok := th.Get("bar.nope")
	assert.False(t, ok)
}

func TestNew_DoesNotShareDefaults(t *testing.T) {
	New(map[string]any{"border": map[string]any{"width": 9}})
	assert.Equal(t, 2, New().BorderWidth())
}
