// Package window holds the record kept for every window the window
// manager knows about.
package window

import (
	"fmt"

	"github.com/dshills/tilestorm/internal/geom"
	"github.com/dshills/tilestorm/internal/xconn"
)

// Window is a client window.
type Window struct {
	ID               xconn.Window
	Parent           xconn.Window
	Rect             geom.Rect
	BorderWidth      int
	OverrideRedirect bool
	Mapped           bool

	// Properties read when the window is mapped.
	Instance string
	Class    string
	Title    string
	Role     string
	Types    []string

	// Set by classification rules.
	Floating    bool
	IgnoreHints bool
	TargetGroup string
	LayoutProps map[string]any
	Border      *int
}

// New creates a window record.
func New(id, parent xconn.Window, r geom.Rect, borderWidth int, overrideRedirect bool) *Window {
	return &Window{
		ID:               id,
		Parent:           parent,
		Rect:             r,
		BorderWidth:      borderWidth,
		OverrideRedirect: overrideRedirect,
	}
}

// HasType reports whether the window declares the given window type atom.
func (w *Window) HasType(name string) bool {
	for _, t := range w.Types {
		if t == name {
			return true
		}
	}
	return false
}

// EffectiveBorder returns the border width to draw, honoring a rule
// override.
func (w *Window) EffectiveBorder(themeWidth int) int {
	if w.Border != nil {
		return *w.Border
	}
	return themeWidth
}

// String implements fmt.Stringer.
func (w *Window) String() string {
	if w.Class != "" {
		return fmt.Sprintf("%s(%s)", w.ID, w.Class)
	}
	return w.ID.String()
}
