// Package widget provides status bar widgets and the bar that holds them.
//
// Bars are not painted; a bar publishes its text as the _NET_WM_NAME of
// its window, which is enough for compositors and tests to observe it.
package widget

import (
	"fmt"
	"time"

	"github.com/dshills/tilestorm/internal/ext"
)

// Module is the name of the bundled widget module.
const Module = "widgets"

// State is the window manager state widgets render.
type State struct {
	Group  string
	Groups []string
	Layout string
	Title  string
	Now    time.Time
}

// Widget produces one piece of bar text.
type Widget interface {
	Name() string
	// Right reports whether the widget sits on the right-hand side.
	Right() bool
	Text(st State) string
}

// side is embedded by widgets to carry the right-hand flag.
type side struct {
	right bool
}

func (s side) Right() bool { return s.right }

func sideOf(args ext.Args) side {
	r, _ := args["right"].(bool)
	return side{right: r}
}

// Register adds the bundled widget module to reg.
func Register(reg *ext.Registry) error {
	return reg.Register(ext.NewModule(Module).Add(
		&ext.Class{Name: "Sep", Provides: ext.CapWidget, New: newSep},
		&ext.Class{Name: "Text", Provides: ext.CapWidget, New: newText},
		&ext.Class{Name: "Clock", Provides: ext.CapWidget, New: newClock},
		&ext.Class{Name: "GroupBox", Provides: ext.CapWidget, New: newGroupBox},
		&ext.Class{Name: "Title", Provides: ext.CapWidget, New: newTitle},
		&ext.Class{Name: "LayoutName", Provides: ext.CapWidget, New: newLayoutName},
	))
}

// New instantiates a widget class.
func New(cls *ext.Class, args ext.Args) (Widget, error) {
	v, err := cls.New(args)
	if err != nil {
		return nil, fmt.Errorf("creating widget %s: %w", cls, err)
	}
	w, ok := v.(Widget)
	if !ok {
		return nil, fmt.Errorf("%w: %s returned %T", ext.ErrNotInstantiable, cls, v)
	}
	return w, nil
}

func stringArg(args ext.Args, key, def string) (string, error) {
	v, ok := args[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q: expected string, got %T", key, v)
	}
	return s, nil
}
