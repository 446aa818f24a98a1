// Package xconntest provides an in-memory X server for tests.
package xconntest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/tilestorm/internal/geom"
	"github.com/dshills/tilestorm/internal/xconn"
)

// ErrNoWindow is returned for queries on windows the fake does not know.
var ErrNoWindow = errors.New("bad window")

// Window is the fake server-side state of one window.
type Window struct {
	Attributes xconn.Attributes
	Geometry   xconn.Geometry
	Instance   string
	Class      string
	Strings    map[string]string
	Atoms      map[string][]string
}

// Grab records a key or button grab.
type Grab struct {
	Window xconn.Window
	Mods   uint16
	Code   xconn.Keycode
	Button byte
}

// Fake implements xconn.Conn in memory.
type Fake struct {
	mu sync.Mutex

	setup      xconn.Setup
	screens    []geom.Rect
	mapping    xconn.KeyboardMapping
	windows    map[xconn.Window]*Window
	children   []xconn.Window
	nextWindow xconn.Window

	// RedirectTaken simulates another window manager holding
	// substructure-redirect on the root window.
	RedirectTaken bool

	// TreeIncludesRoot makes QueryTree list the root among its own
	// children.
	TreeIncludesRoot bool

	KeyGrabs    []Grab
	ButtonGrabs []Grab
	Created     []xconn.Window
	Mapped      []xconn.Window
	Unmapped    []xconn.Window
	Raised      []xconn.Window
	Focused     xconn.Window
	Configured  map[xconn.Window]geom.Rect
	Masks       map[xconn.Window]uint32
	Properties  map[string]any

	events chan xconn.Event
	closed bool
}

// New creates a fake with a single width x height screen.
func New(width, height int) *Fake {
	root := xconn.Window(0x100)
	return &Fake{
		setup: xconn.Setup{
			Root:       root,
			Width:      width,
			Height:     height,
			MinKeycode: 8,
			MaxKeycode: 255,
		},
		windows: map[xconn.Window]*Window{
			root: {
				Attributes: xconn.Attributes{Class: xconn.ClassInputOutput, MapState: xconn.MapStateViewable},
				Geometry:   xconn.Geometry{Width: width, Height: height},
			},
		},
		nextWindow: 0x2000000,
		Configured: make(map[xconn.Window]geom.Rect),
		Masks:      make(map[xconn.Window]uint32),
		Properties: make(map[string]any),
		events:     make(chan xconn.Event, 256),
	}
}

// SetScreens enables the Xinerama extension with the given screens.
func (f *Fake) SetScreens(screens ...geom.Rect) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.screens = screens
}

// SetKeyboardMapping installs a keyboard mapping with one keysym per code.
func (f *Fake) SetKeyboardMapping(syms map[xconn.Keycode]xconn.Keysym) {
	f.mu.Lock()
	defer f.mu.Unlock()

	min := f.setup.MinKeycode
	n := int(f.setup.MaxKeycode) - int(min) + 1
	keysyms := make([]xconn.Keysym, n)
	for code, sym := range syms {
		keysyms[int(code)-int(min)] = sym
	}
	f.mapping = xconn.KeyboardMapping{MinKeycode: min, KeysymsPerKeycode: 1, Keysyms: keysyms}
}

// AddWindow registers a top-level child of the root window.
func (f *Fake) AddWindow(id xconn.Window, w Window) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if w.Strings == nil {
		w.Strings = make(map[string]string)
	}
	copied := w
	f.windows[id] = &copied
	f.children = append(f.children, id)
}

// Push queues events for NextEvent.
func (f *Fake) Push(events ...xconn.Event) {
	for _, ev := range events {
		f.events <- ev
	}
}

// Property returns a recorded property value of the root window.
func (f *Fake) Property(name string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Properties[name]
}

func (f *Fake) window(w xconn.Window) (*Window, error) {
	win, ok := f.windows[w]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoWindow, w)
	}
	return win, nil
}

func (f *Fake) Setup() xconn.Setup { return f.setup }

func (f *Fake) HasExtension(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return name == xconn.ExtXinerama && f.screens != nil
}

func (f *Fake) QueryScreens() ([]geom.Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.screens == nil {
		return nil, xconn.ErrNoExtension
	}
	return append([]geom.Rect(nil), f.screens...), nil
}

func (f *Fake) QueryTree(w xconn.Window) ([]xconn.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w != f.setup.Root {
		return nil, nil
	}
	out := append([]xconn.Window(nil), f.children...)
	if f.TreeIncludesRoot {
		out = append([]xconn.Window{f.setup.Root}, out...)
	}
	return out, nil
}

func (f *Fake) WindowAttributes(w xconn.Window) (xconn.Attributes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	win, err := f.window(w)
	if err != nil {
		return xconn.Attributes{}, err
	}
	return win.Attributes, nil
}

func (f *Fake) Geometry(w xconn.Window) (xconn.Geometry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	win, err := f.window(w)
	if err != nil {
		return xconn.Geometry{}, err
	}
	return win.Geometry, nil
}

func (f *Fake) SelectInput(w xconn.Window, mask uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	win, err := f.window(w)
	if err != nil {
		return err
	}
	if w == f.setup.Root && f.RedirectTaken {
		mask &^= xconn.EventMaskSubstructureRedirect
	}
	f.Masks[w] = mask
	win.Attributes.YourEventMask = mask
	return nil
}

func (f *Fake) KeyboardMapping() (xconn.KeyboardMapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mapping, nil
}

func (f *Fake) GrabKey(w xconn.Window, mods uint16, code xconn.Keycode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.KeyGrabs = append(f.KeyGrabs, Grab{Window: w, Mods: mods, Code: code})
	return nil
}

func (f *Fake) GrabButton(w xconn.Window, mods uint16, button byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ButtonGrabs = append(f.ButtonGrabs, Grab{Window: w, Mods: mods, Button: button})
	return nil
}

func (f *Fake) CreateWindow(r geom.Rect) (xconn.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextWindow++
	id := f.nextWindow
	f.windows[id] = &Window{
		Attributes: xconn.Attributes{Class: xconn.ClassInputOutput, OverrideRedirect: true},
		Geometry:   xconn.Geometry{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height},
		Strings:    make(map[string]string),
	}
	f.Created = append(f.Created, id)
	return id, nil
}

func (f *Fake) MapWindow(w xconn.Window) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	win, err := f.window(w)
	if err != nil {
		return err
	}
	win.Attributes.MapState = xconn.MapStateViewable
	f.Mapped = append(f.Mapped, w)
	return nil
}

func (f *Fake) UnmapWindow(w xconn.Window) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	win, err := f.window(w)
	if err != nil {
		return err
	}
	win.Attributes.MapState = xconn.MapStateUnmapped
	f.Unmapped = append(f.Unmapped, w)
	return nil
}

func (f *Fake) Configure(w xconn.Window, r geom.Rect, borderWidth int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	win, err := f.window(w)
	if err != nil {
		return err
	}
	win.Geometry = xconn.Geometry{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height, BorderWidth: borderWidth}
	f.Configured[w] = r
	return nil
}

func (f *Fake) Raise(w xconn.Window) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Raised = append(f.Raised, w)
	return nil
}

func (f *Fake) Focus(w xconn.Window) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Focused = w
	return nil
}

func (f *Fake) StringProperty(w xconn.Window, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	win, err := f.window(w)
	if err != nil {
		return "", err
	}
	return win.Strings[name], nil
}

func (f *Fake) WMClass(w xconn.Window) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	win, err := f.window(w)
	if err != nil {
		return "", "", err
	}
	return win.Instance, win.Class, nil
}

func (f *Fake) AtomsProperty(w xconn.Window, name string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	win, err := f.window(w)
	if err != nil {
		return nil, err
	}
	return win.Atoms[name], nil
}

func (f *Fake) set(name string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Properties[name] = value
	return nil
}

func (f *Fake) SetCardinals(_ xconn.Window, name string, values ...uint32) error {
	return f.set(name, values)
}

func (f *Fake) SetWindows(_ xconn.Window, name string, values ...xconn.Window) error {
	return f.set(name, values)
}

func (f *Fake) SetAtoms(_ xconn.Window, name string, atoms ...string) error {
	return f.set(name, atoms)
}

func (f *Fake) SetUTF8Strings(_ xconn.Window, name string, values ...string) error {
	return f.set(name, values)
}

func (f *Fake) NextEvent() (xconn.Event, error) {
	ev, ok := <-f.events
	if !ok {
		return nil, xconn.ErrClosed
	}
	return ev, nil
}

// Close ends the event stream. Further NextEvent calls return ErrClosed.
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.events)
	}
	return nil
}

var _ xconn.Conn = (*Fake)(nil)
