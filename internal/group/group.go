// Package group manages the window groups (virtual desktops) and their
// layouts.
package group

import (
	"github.com/dshills/tilestorm/internal/ext"
	"github.com/dshills/tilestorm/internal/geom"
	"github.com/dshills/tilestorm/internal/layout"
	"github.com/dshills/tilestorm/internal/screen"
	"github.com/dshills/tilestorm/internal/window"
)

// LayoutSpec names a resolved layout class.
type LayoutSpec struct {
	// Name is the name the layout was configured under.
	Name  string
	Class *ext.Class
}

// Spec declares a group.
type Spec struct {
	Name   string
	Layout LayoutSpec
}

// Group is a set of windows shown together on one screen.
type Group struct {
	Name string

	layoutSpec LayoutSpec
	layout     layout.Layout
	tiled      []*window.Window
	floating   []*window.Window
	screen     *screen.Screen
}

// Layout returns the active layout.
func (g *Group) Layout() layout.Layout { return g.layout }

// LayoutName returns the configured name of the active layout.
func (g *Group) LayoutName() string { return g.layoutSpec.Name }

// Class returns the active layout class.
func (g *Group) Class() *ext.Class { return g.layoutSpec.Class }

// Screen returns the screen showing the group, or nil when hidden.
func (g *Group) Screen() *screen.Screen { return g.screen }

// Visible reports whether the group is shown.
func (g *Group) Visible() bool { return g.screen != nil }

// Windows returns the tiled windows followed by the floating ones.
func (g *Group) Windows() []*window.Window {
	out := make([]*window.Window, 0, len(g.tiled)+len(g.floating))
	out = append(out, g.tiled...)
	return append(out, g.floating...)
}

// Tiled returns the windows placed by the layout.
func (g *Group) Tiled() []*window.Window {
	return append([]*window.Window(nil), g.tiled...)
}

func (g *Group) setLayout(ls LayoutSpec) error {
	l, err := layout.New(ls.Class, nil)
	if err != nil {
		return err
	}
	g.layoutSpec = ls
	g.layout = l
	return nil
}

func (g *Group) add(w *window.Window) {
	if w.Floating {
		g.floating = append(g.floating, w)
	} else {
		g.tiled = append(g.tiled, w)
	}
}

func (g *Group) remove(w *window.Window) bool {
	for _, list := range []*[]*window.Window{&g.tiled, &g.floating} {
		for i, have := range *list {
			if have == w {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return true
			}
		}
	}
	return false
}

// placement returns the rectangle of every window of a visible group.
func (g *Group) placement() map[*window.Window]geom.Rect {
	out := make(map[*window.Window]geom.Rect, len(g.tiled)+len(g.floating))
	if g.screen == nil {
		return out
	}
	rects := g.layout.Arrange(g.screen.Inner(), g.tiled)
	for i, w := range g.tiled {
		if i < len(rects) {
			out[w] = rects[i]
		}
	}
	for _, w := range g.floating {
		out[w] = w.Rect
	}
	return out
}
