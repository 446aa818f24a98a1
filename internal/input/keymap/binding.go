package keymap

import (
	"strings"

	"github.com/dshills/tilestorm/internal/input/key"
	"github.com/dshills/tilestorm/internal/xconn"
)

// Binding is a resolved hotkey.
type Binding struct {
	// Spec is the key specification as configured.
	Spec string

	Combo key.Combo

	// Codes are the keycodes grabbed for the binding.
	Codes []xconn.Keycode

	Command []string
}

// String returns the binding in configuration form.
func (b Binding) String() string {
	return b.Spec + ": " + strings.Join(b.Command, " ")
}

type chord struct {
	mods uint16
	code xconn.Keycode
}

// ignoredMods are modifiers that must not affect matching.
const ignoredMods = xconn.ModLock | xconn.Mod2

// modVariants returns mask combined with every subset of ignoredMods.
func modVariants(mask uint16) []uint16 {
	return []uint16{
		mask,
		mask | xconn.ModLock,
		mask | xconn.Mod2,
		mask | xconn.ModLock | xconn.Mod2,
	}
}

// cleanMask drops ignored modifiers and pointer button state.
func cleanMask(state uint16) uint16 {
	return state &^ ignoredMods & 0xff
}
