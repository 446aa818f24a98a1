package window

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/tilestorm/internal/geom"
)

func TestWindow(t *testing.T) {
	w := New(0x400001, 0x100, geom.NewRect(0, 0, 640, 480), 1, false)
	assert.Equal(t, "0x400001", w.String())

	w.Class = "Firefox"
	w.Types = []string{"_NET_WM_WINDOW_TYPE_NORMAL"}
	assert.Equal(t, "0x400001(Firefox)", w.String())
	assert.True(t, w.HasType("_NET_WM_WINDOW_TYPE_NORMAL"))
	assert.False(t, w.HasType("_NET_WM_WINDOW_TYPE_DIALOG"))

	assert.Equal(t, 2, w.EffectiveBorder(2))
	zero := 0
	w.Border = &zero
	assert.Equal(t, 0, w.EffectiveBorder(2))
}
