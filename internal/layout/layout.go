// Package layout provides the bundled tiling layouts.
package layout

import (
	"fmt"

	"github.com/dshills/tilestorm/internal/ext"
	"github.com/dshills/tilestorm/internal/geom"
	"github.com/dshills/tilestorm/internal/window"
)

// Module is the name of the bundled layout module.
const Module = "examples"

// Layout positions the tiled windows of a group.
type Layout interface {
	// Name identifies the layout in commands and bars.
	Name() string
	// Arrange returns one rectangle per window, in order.
	Arrange(area geom.Rect, windows []*window.Window) []geom.Rect
}

var (
	tileClass  = &ext.Class{Name: "Tile", Provides: ext.CapLayout, New: newTile}
	stackClass = &ext.Class{Name: "Stack", Provides: ext.CapLayout, New: newStack}
	maxClass   = &ext.Class{Name: "Max", Provides: ext.CapLayout, New: newMax}
)

// Register adds the bundled layout module to reg.
func Register(reg *ext.Registry) error {
	return reg.Register(ext.NewModule(Module).Add(tileClass, stackClass, maxClass))
}

// Default returns the class used when a configured layout cannot be
// resolved.
func Default() *ext.Class {
	return tileClass
}

// New instantiates a layout class.
func New(cls *ext.Class, args ext.Args) (Layout, error) {
	v, err := cls.New(args)
	if err != nil {
		return nil, fmt.Errorf("creating layout %s: %w", cls, err)
	}
	l, ok := v.(Layout)
	if !ok {
		return nil, fmt.Errorf("%w: %s returned %T", ext.ErrNotInstantiable, cls, v)
	}
	return l, nil
}

func floatArg(args ext.Args, key string, def float64) (float64, error) {
	v, ok := args[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("argument %q: expected number, got %T", key, v)
	}
}
