package widget

import (
	"strings"

	"github.com/dshills/tilestorm/internal/geom"
	"github.com/dshills/tilestorm/internal/xconn"
)

// NameProperty is the property a bar publishes its text in.
const NameProperty = "_NET_WM_NAME"

// Bar is a status bar attached to one edge of a screen.
type Bar struct {
	Screen   int
	Position string
	Height   int
	Widgets  []Widget

	Window xconn.Window
	Rect   geom.Rect
}

// NewBar creates a bar. Widgets are given in instantiation order: the
// right-hand ones from the outermost inwards, then the left-hand ones.
func NewBar(screen int, position string, height int, widgets []Widget) *Bar {
	return &Bar{Screen: screen, Position: position, Height: height, Widgets: widgets}
}

// Text renders the bar: left-hand widgets, then right-hand widgets in
// on-screen order.
func (b *Bar) Text(st State) string {
	var left, right []string
	for _, w := range b.Widgets {
		if w.Right() {
			right = append([]string{w.Text(st)}, right...)
		} else {
			left = append(left, w.Text(st))
		}
	}
	if len(right) == 0 {
		return strings.Join(left, " ")
	}
	return strings.Join(left, " ") + "  " + strings.Join(right, " ")
}

// Create creates and maps the bar window at r.
func (b *Bar) Create(conn xconn.Conn, r geom.Rect) error {
	win, err := conn.CreateWindow(r)
	if err != nil {
		return err
	}
	b.Window = win
	b.Rect = r
	return conn.MapWindow(win)
}

// Place moves the bar window to r.
func (b *Bar) Place(conn xconn.Conn, r geom.Rect) error {
	b.Rect = r
	if b.Window == 0 {
		return nil
	}
	return conn.Configure(b.Window, r, 0)
}

// Redraw publishes the rendered text on the bar window.
func (b *Bar) Redraw(conn xconn.Conn, st State) error {
	if b.Window == 0 {
		return nil
	}
	return conn.SetUTF8Strings(b.Window, NameProperty, b.Text(st))
}
