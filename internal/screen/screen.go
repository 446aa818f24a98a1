// Package screen tracks the physical screens and the area left for
// windows once bars have been attached.
package screen

import (
	"fmt"

	"github.com/dshills/tilestorm/internal/geom"
	"github.com/dshills/tilestorm/internal/xconn"
)

// Edge positions a strip reserved on a screen.
const (
	Top    = "top"
	Bottom = "bottom"
)

// Screen is one physical screen.
type Screen struct {
	Index  int
	Bounds geom.Rect

	top, bottom int
	subscribers []func(*Screen)
}

// Inner returns the area left for windows.
func (s *Screen) Inner() geom.Rect {
	_, rest := s.Bounds.CutTop(s.top)
	_, rest = rest.CutBottom(s.bottom)
	return rest
}

// Subscribe registers fn to run whenever the screen geometry changes.
func (s *Screen) Subscribe(fn func(*Screen)) {
	s.subscribers = append(s.subscribers, fn)
}

// Reservation is a strip taken off one edge of a screen.
type Reservation struct {
	screen *Screen
	edge   string
	offset int
	height int
}

// Rect returns the strip in the current screen geometry.
func (r *Reservation) Rect() geom.Rect {
	b := r.screen.Bounds
	if r.edge == Top {
		return geom.NewRect(b.X, b.Y+r.offset, b.Width, r.height)
	}
	return geom.NewRect(b.X, b.Bottom()-r.offset-r.height, b.Width, r.height)
}

// Reserve takes a strip of height pixels off one edge. Strips on the
// same edge stack inwards.
func (s *Screen) Reserve(edge string, height int) (*Reservation, error) {
	inner := s.Inner()
	r := &Reservation{screen: s, edge: edge}
	switch edge {
	case Top:
		strip, _ := inner.CutTop(height)
		r.offset, r.height = s.top, strip.Height
		s.top += strip.Height
	case Bottom:
		strip, _ := inner.CutBottom(height)
		r.offset, r.height = s.bottom, strip.Height
		s.bottom += strip.Height
	default:
		return nil, fmt.Errorf("screen %d: unknown edge %q", s.Index, edge)
	}
	s.updated()
	return r, nil
}

// SetBounds changes the screen geometry, keeping reserved strips.
func (s *Screen) SetBounds(r geom.Rect) {
	if r == s.Bounds {
		return
	}
	s.Bounds = r
	s.updated()
}

func (s *Screen) updated() {
	for _, fn := range s.subscribers {
		fn(s)
	}
}

// Manager owns the screens.
type Manager struct {
	screens []*Screen
}

// NewManager creates a manager with one screen per rectangle.
func NewManager(rects []geom.Rect) *Manager {
	m := &Manager{}
	m.Update(rects)
	return m
}

// Update applies a new screen layout. Existing screens keep their
// subscribers and reservations; surplus screens are dropped.
func (m *Manager) Update(rects []geom.Rect) {
	if len(rects) < len(m.screens) {
		m.screens = m.screens[:len(rects)]
	}
	for i, r := range rects {
		if i < len(m.screens) {
			m.screens[i].SetBounds(r)
			continue
		}
		m.screens = append(m.screens, &Screen{Index: i, Bounds: r})
	}
}

// Screens returns the screens in index order.
func (m *Manager) Screens() []*Screen {
	return append([]*Screen(nil), m.screens...)
}

// Screen returns screen i.
func (m *Manager) Screen(i int) (*Screen, bool) {
	if i < 0 || i >= len(m.screens) {
		return nil, false
	}
	return m.screens[i], true
}

// Len returns the number of screens.
func (m *Manager) Len() int { return len(m.screens) }

// Query returns the screen rectangles: the Xinerama layout when allowed,
// present and non-empty, else the root window size.
func Query(conn xconn.Conn, useXinerama bool) ([]geom.Rect, error) {
	if useXinerama && conn.HasExtension(xconn.ExtXinerama) {
		rects, err := conn.QueryScreens()
		if err != nil {
			return nil, fmt.Errorf("querying screens: %w", err)
		}
		if len(rects) > 0 {
			return rects, nil
		}
	}
	setup := conn.Setup()
	return []geom.Rect{geom.NewRect(0, 0, setup.Width, setup.Height)}, nil
}
