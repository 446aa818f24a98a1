package key

import (
	"strings"

	"github.com/dshills/tilestorm/internal/xconn"
)

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Mod1).
	ModAlt

	// ModSuper indicates the Super or Windows key (Mod4).
	ModSuper
)

// Has returns true if m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns m with mod added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Mask returns the X modifier mask.
func (m Modifier) Mask() uint16 {
	var mask uint16
	if m.Has(ModShift) {
		mask |= xconn.ModShift
	}
	if m.Has(ModCtrl) {
		mask |= xconn.ModControl
	}
	if m.Has(ModAlt) {
		mask |= xconn.Mod1
	}
	if m.Has(ModSuper) {
		mask |= xconn.Mod4
	}
	return mask
}

// FromMask converts an X modifier state. Lock and other modifiers are
// ignored.
func FromMask(state uint16) Modifier {
	var m Modifier
	if state&xconn.ModShift != 0 {
		m |= ModShift
	}
	if state&xconn.ModControl != 0 {
		m |= ModCtrl
	}
	if state&xconn.Mod1 != 0 {
		m |= ModAlt
	}
	if state&xconn.Mod4 != 0 {
		m |= ModSuper
	}
	return m
}

// String returns the modifiers in canonical order, e.g. "W-S-".
func (m Modifier) String() string {
	var b strings.Builder
	if m.Has(ModSuper) {
		b.WriteString("W-")
	}
	if m.Has(ModCtrl) {
		b.WriteString("C-")
	}
	if m.Has(ModAlt) {
		b.WriteString("A-")
	}
	if m.Has(ModShift) {
		b.WriteString("S-")
	}
	return b.String()
}

// ModifierFromName returns the modifier for a name such as "shift" or
// "W". It returns ModNone for unknown names.
func ModifierFromName(name string) Modifier {
	switch strings.ToLower(name) {
	case "s", "shift":
		return ModShift
	case "c", "ctrl", "control":
		return ModCtrl
	case "a", "m", "alt", "meta", "mod1":
		return ModAlt
	case "w", "super", "win", "mod4":
		return ModSuper
	default:
		return ModNone
	}
}
