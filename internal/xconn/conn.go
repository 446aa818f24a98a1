package xconn

import (
	"errors"
	"fmt"

	"github.com/dshills/tilestorm/internal/geom"
)

// Window is an X window id.
type Window uint32

func (w Window) String() string {
	return fmt.Sprintf("0x%x", uint32(w))
}

// Keycode is a physical key code as reported by the server.
type Keycode byte

// Keysym is a key symbol value.
type Keysym uint32

// WindowClass distinguishes visible windows from input-only ones.
type WindowClass uint16

// Window classes, values as defined by the core protocol.
const (
	ClassCopyFromParent WindowClass = 0
	ClassInputOutput    WindowClass = 1
	ClassInputOnly      WindowClass = 2
)

// MapState is the mapping state of a window.
type MapState byte

// Map states, values as defined by the core protocol.
const (
	MapStateUnmapped   MapState = 0
	MapStateUnviewable MapState = 1
	MapStateViewable   MapState = 2
)

// Event masks used by the window manager.
const (
	EventMaskKeyPress             uint32 = 1 << 0
	EventMaskButtonPress          uint32 = 1 << 2
	EventMaskEnterWindow          uint32 = 1 << 4
	EventMaskExposure             uint32 = 1 << 15
	EventMaskStructureNotify      uint32 = 1 << 17
	EventMaskSubstructureNotify   uint32 = 1 << 19
	EventMaskSubstructureRedirect uint32 = 1 << 20
	EventMaskPropertyChange       uint32 = 1 << 22
)

// Modifier masks.
const (
	ModShift   uint16 = 1 << 0
	ModLock    uint16 = 1 << 1
	ModControl uint16 = 1 << 2
	Mod1       uint16 = 1 << 3
	Mod2       uint16 = 1 << 4
	Mod3       uint16 = 1 << 5
	Mod4       uint16 = 1 << 6
	Mod5       uint16 = 1 << 7
)

// Configure request value mask bits.
const (
	ConfigX           uint16 = 1 << 0
	ConfigY           uint16 = 1 << 1
	ConfigWidth       uint16 = 1 << 2
	ConfigHeight      uint16 = 1 << 3
	ConfigBorderWidth uint16 = 1 << 4
)

// ExtXinerama is the protocol extension providing the multi-screen layout.
const ExtXinerama = "XINERAMA"

// ErrClosed is returned by NextEvent once the connection has been closed.
var ErrClosed = errors.New("x connection closed")

// ErrNoExtension is returned when a request needs an extension the server
// did not advertise.
var ErrNoExtension = errors.New("extension not available")

// Setup is the subset of the connection setup data the window manager uses.
type Setup struct {
	Root       Window
	Width      int
	Height     int
	MinKeycode Keycode
	MaxKeycode Keycode
}

// Attributes are the queried attributes of a window.
type Attributes struct {
	Class            WindowClass
	MapState         MapState
	OverrideRedirect bool
	YourEventMask    uint32
}

// Geometry is the queried geometry of a window.
type Geometry struct {
	X           int
	Y           int
	Width       int
	Height      int
	BorderWidth int
}

// Rect returns the geometry as a rectangle without the border.
func (g Geometry) Rect() geom.Rect {
	return geom.NewRect(g.X, g.Y, g.Width, g.Height)
}

// KeyboardMapping maps keycodes to keysyms. Keysyms holds
// KeysymsPerKeycode entries for each keycode starting at MinKeycode.
type KeyboardMapping struct {
	MinKeycode        Keycode
	KeysymsPerKeycode int
	Keysyms           []Keysym
}

// Lookup returns the keycodes whose first column is sym.
func (m KeyboardMapping) Lookup(sym Keysym) []Keycode {
	if m.KeysymsPerKeycode <= 0 {
		return nil
	}
	var codes []Keycode
	for i := 0; i*m.KeysymsPerKeycode < len(m.Keysyms); i++ {
		if m.Keysyms[i*m.KeysymsPerKeycode] == sym {
			codes = append(codes, Keycode(int(m.MinKeycode)+i))
		}
	}
	return codes
}

// Keysym returns the first-column keysym for code, or 0.
func (m KeyboardMapping) Keysym(code Keycode) Keysym {
	idx := (int(code) - int(m.MinKeycode)) * m.KeysymsPerKeycode
	if m.KeysymsPerKeycode <= 0 || idx < 0 || idx >= len(m.Keysyms) {
		return 0
	}
	return m.Keysyms[idx]
}

// Conn is a client connection to the X server.
//
// Conn is not safe for concurrent use except that NextEvent may be called
// from one goroutine while another issues requests.
type Conn interface {
	// Setup returns the connection setup data for the default screen.
	Setup() Setup

	// HasExtension reports whether an optional extension schema was loaded.
	HasExtension(name string) bool

	// QueryScreens returns the multi-screen layout. It returns
	// ErrNoExtension when Xinerama is not present.
	QueryScreens() ([]geom.Rect, error)

	QueryTree(w Window) ([]Window, error)
	WindowAttributes(w Window) (Attributes, error)
	Geometry(w Window) (Geometry, error)

	// SelectInput sets the event mask of a window.
	SelectInput(w Window, mask uint32) error

	KeyboardMapping() (KeyboardMapping, error)
	GrabKey(w Window, mods uint16, code Keycode) error
	GrabButton(w Window, mods uint16, button byte) error

	// CreateWindow creates an override-redirect child of the root window.
	CreateWindow(r geom.Rect) (Window, error)
	MapWindow(w Window) error
	UnmapWindow(w Window) error
	Configure(w Window, r geom.Rect, borderWidth int) error
	Raise(w Window) error
	Focus(w Window) error

	// StringProperty reads a text property (STRING or UTF8_STRING).
	StringProperty(w Window, name string) (string, error)
	// WMClass returns the instance and class parts of WM_CLASS.
	WMClass(w Window) (instance, class string, err error)
	// AtomsProperty reads an ATOM[] property and returns the atom names.
	AtomsProperty(w Window, name string) ([]string, error)

	SetCardinals(w Window, name string, values ...uint32) error
	SetWindows(w Window, name string, values ...Window) error
	SetAtoms(w Window, name string, atoms ...string) error
	SetUTF8Strings(w Window, name string, values ...string) error

	// NextEvent blocks until the next event arrives. It returns ErrClosed
	// once the connection is gone.
	NextEvent() (Event, error)

	Close() error
}
