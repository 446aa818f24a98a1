package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/tilestorm/internal/geom"
	"github.com/dshills/tilestorm/internal/xconn/xconntest"
)

func TestReserve(t *testing.T) {
	m := NewManager([]geom.Rect{geom.NewRect(0, 0, 800, 600)})
	s, ok := m.Screen(0)
	require.True(t, ok)

	updates := 0
	s.Subscribe(func(*Screen) { updates++ })

	top, err := s.Reserve(Top, 20)
	require.NoError(t, err)
	assert.Equal(t, geom.NewRect(0, 0, 800, 20), top.Rect())

	bottom, err := s.Reserve(Bottom, 30)
	require.NoError(t, err)
	assert.Equal(t, geom.NewRect(0, 570, 800, 30), bottom.Rect())

	second, err := s.Reserve(Top, 10)
	require.NoError(t, err)
	assert.Equal(t, geom.NewRect(0, 20, 800, 10), second.Rect())

	assert.Equal(t, geom.NewRect(0, 30, 800, 540), s.Inner())
	assert.Equal(t, 3, updates)

	s.SetBounds(geom.NewRect(800, 0, 1024, 768))
	assert.Equal(t, geom.NewRect(800, 738, 1024, 30), bottom.Rect())
	assert.Equal(t, geom.NewRect(800, 20, 1024, 10), second.Rect())
	assert.Equal(t, 4, updates)

	_, err = s.Reserve("left", 10)
	assert.Error(t, err)
}

func TestManager_Update(t *testing.T) {
	m := NewManager([]geom.Rect{geom.NewRect(0, 0, 100, 100), geom.NewRect(100, 0, 100, 100)})
	first, _ := m.Screen(0)
	_, err := first.Reserve(Top, 10)
	require.NoError(t, err)

	var seen []geom.Rect
	first.Subscribe(func(s *Screen) { seen = append(seen, s.Inner()) })

	m.Update([]geom.Rect{geom.NewRect(0, 0, 200, 100)})
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, []geom.Rect{geom.NewRect(0, 10, 200, 90)}, seen)

	m.Update([]geom.Rect{geom.NewRect(0, 0, 200, 100)})
	assert.Len(t, seen, 1, "unchanged bounds do not notify")

	_, ok := m.Screen(1)
	assert.False(t, ok)
	_, ok = m.Screen(-1)
	assert.False(t, ok)
}

func TestQuery(t *testing.T) {
	conn := xconntest.New(1920, 1080)

	rects, err := Query(conn, true)
	require.NoError(t, err)
	assert.Equal(t, []geom.Rect{geom.NewRect(0, 0, 1920, 1080)}, rects)

	conn.SetScreens([]geom.Rect{}...)
	rects, err = Query(conn, true)
	require.NoError(t, err)
	assert.Equal(t, []geom.Rect{geom.NewRect(0, 0, 1920, 1080)}, rects, "empty screen list falls back to the root")

	conn.SetScreens(geom.NewRect(0, 0, 1280, 1024), geom.NewRect(1280, 0, 640, 480))
	rects, err = Query(conn, true)
	require.NoError(t, err)
	assert.Len(t, rects, 2)

	rects, err = Query(conn, false)
	require.NoError(t, err)
	assert.Equal(t, []geom.Rect{geom.NewRect(0, 0, 1920, 1080)}, rects)
}
