package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/tilestorm/internal/ext"
	"github.com/dshills/tilestorm/internal/geom"
	"github.com/dshills/tilestorm/internal/window"
)

func windows(n int) []*window.Window {
	out := make([]*window.Window, n)
	for i := range out {
		out[i] = &window.Window{}
	}
	return out
}

func TestRegister(t *testing.T) {
	reg := ext.NewRegistry()
	require.NoError(t, Register(reg))

	m, ok := reg.Module(Module)
	require.True(t, ok)
	assert.Equal(t, []string{"Max", "Stack", "Tile"}, m.Names())
	assert.Equal(t, "examples.Tile", Default().String())
}

func TestTile(t *testing.T) {
	l, err := New(tileClass, nil)
	require.NoError(t, err)
	area := geom.NewRect(0, 20, 1000, 600)

	assert.Empty(t, l.Arrange(area, nil))
	assert.Equal(t, []geom.Rect{area}, l.Arrange(area, windows(1)))
	assert.Equal(t, []geom.Rect{
		{X: 0, Y: 20, Width: 500, Height: 600},
		{X: 500, Y: 20, Width: 500, Height: 300},
		{X: 500, Y: 320, Width: 500, Height: 300},
	}, l.Arrange(area, windows(3)))
}

func TestTile_Ratio(t *testing.T) {
	l, err := New(tileClass, ext.Args{"ratio": 0.6})
	require.NoError(t, err)
	got := l.Arrange(geom.NewRect(0, 0, 1000, 100), windows(2))
	assert.Equal(t, 600, got[0].Width)

	_, err = New(tileClass, ext.Args{"ratio": 2})
	assert.Error(t, err)
	_, err = New(tileClass, ext.Args{"ratio": "wide"})
	assert.Error(t, err)
}

func TestStack_AbsorbsRounding(t *testing.T) {
	l, err := New(stackClass, nil)
	require.NoError(t, err)

	got := l.Arrange(geom.NewRect(0, 0, 100, 100), windows(3))
	require.Len(t, got, 3)
	assert.Equal(t, 33, got[0].Height)
	assert.Equal(t, 34, got[2].Height)
	assert.Equal(t, 100, got[2].Bottom())
}

func TestMax(t *testing.T) {
	l, err := New(maxClass, nil)
	require.NoError(t, err)
	area := geom.NewRect(0, 0, 100, 100)
	assert.Equal(t, []geom.Rect{area, area}, l.Arrange(area, windows(2)))
}

func TestNew_WrongType(t *testing.T) {
	cls := &ext.Class{Name: "Odd", Provides: ext.CapLayout, New: func(ext.Args) (any, error) { return 1, nil }}
	_, err := New(cls, nil)
	assert.ErrorIs(t, err, ext.ErrNotInstantiable)
}
