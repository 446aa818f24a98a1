package xconn

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xinerama"
	"github.com/jezek/xgb/xproto"

	"github.com/dshills/tilestorm/internal/geom"
)

// ProtocolError wraps an asynchronous error reply delivered on the event
// stream. It does not mean the connection is unusable.
type ProtocolError struct {
	Err xgb.Error
}

func (e *ProtocolError) Error() string {
	return "x protocol error: " + e.Err.Error()
}

// xgbConn implements Conn on top of github.com/jezek/xgb.
type xgbConn struct {
	X      *xgb.Conn
	screen *xproto.ScreenInfo
	setup  Setup
	exts   map[string]bool

	mu    sync.Mutex
	atoms map[string]xproto.Atom
	names map[xproto.Atom]string
}

// Dial connects to display (empty means $DISPLAY) and loads the schemas of
// the requested optional extensions that the server supports.
func Dial(display string, extensions ...string) (Conn, error) {
	X, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connecting to X server: %w", err)
	}

	info := xproto.Setup(X)
	screen := info.DefaultScreen(X)

	c := &xgbConn{
		X:      X,
		screen: screen,
		setup: Setup{
			Root:       Window(screen.Root),
			Width:      int(screen.WidthInPixels),
			Height:     int(screen.HeightInPixels),
			MinKeycode: Keycode(info.MinKeycode),
			MaxKeycode: Keycode(info.MaxKeycode),
		},
		exts:  make(map[string]bool),
		atoms: make(map[string]xproto.Atom),
		names: make(map[xproto.Atom]string),
	}

	for _, name := range extensions {
		switch strings.ToUpper(name) {
		case ExtXinerama:
			if err := xinerama.Init(X); err == nil {
				c.exts[ExtXinerama] = true
			}
		}
	}

	return c, nil
}

func (c *xgbConn) Setup() Setup { return c.setup }

func (c *xgbConn) HasExtension(name string) bool {
	return c.exts[strings.ToUpper(name)]
}

func (c *xgbConn) QueryScreens() ([]geom.Rect, error) {
	if !c.exts[ExtXinerama] {
		return nil, ErrNoExtension
	}
	reply, err := xinerama.QueryScreens(c.X).Reply()
	if err != nil {
		return nil, err
	}
	rects := make([]geom.Rect, 0, len(reply.ScreenInfo))
	for _, s := range reply.ScreenInfo {
		rects = append(rects, geom.NewRect(int(s.XOrg), int(s.YOrg), int(s.Width), int(s.Height)))
	}
	return rects, nil
}

func (c *xgbConn) QueryTree(w Window) ([]Window, error) {
	reply, err := xproto.QueryTree(c.X, xproto.Window(w)).Reply()
	if err != nil {
		return nil, err
	}
	children := make([]Window, len(reply.Children))
	for i, child := range reply.Children {
		children[i] = Window(child)
	}
	return children, nil
}

func (c *xgbConn) WindowAttributes(w Window) (Attributes, error) {
	reply, err := xproto.GetWindowAttributes(c.X, xproto.Window(w)).Reply()
	if err != nil {
		return Attributes{}, err
	}
	return Attributes{
		Class:            WindowClass(reply.Class),
		MapState:         MapState(reply.MapState),
		OverrideRedirect: reply.OverrideRedirect,
		YourEventMask:    reply.YourEventMask,
	}, nil
}

func (c *xgbConn) Geometry(w Window) (Geometry, error) {
	reply, err := xproto.GetGeometry(c.X, xproto.Drawable(w)).Reply()
	if err != nil {
		return Geometry{}, err
	}
	return Geometry{
		X:           int(reply.X),
		Y:           int(reply.Y),
		Width:       int(reply.Width),
		Height:      int(reply.Height),
		BorderWidth: int(reply.BorderWidth),
	}, nil
}

func (c *xgbConn) SelectInput(w Window, mask uint32) error {
	return xproto.ChangeWindowAttributesChecked(c.X, xproto.Window(w),
		xproto.CwEventMask, []uint32{mask}).Check()
}

func (c *xgbConn) KeyboardMapping() (KeyboardMapping, error) {
	count := int(c.setup.MaxKeycode) - int(c.setup.MinKeycode) + 1
	reply, err := xproto.GetKeyboardMapping(c.X, xproto.Keycode(c.setup.MinKeycode), byte(count)).Reply()
	if err != nil {
		return KeyboardMapping{}, err
	}
	syms := make([]Keysym, len(reply.Keysyms))
	for i, s := range reply.Keysyms {
		syms[i] = Keysym(s)
	}
	return KeyboardMapping{
		MinKeycode:        c.setup.MinKeycode,
		KeysymsPerKeycode: int(reply.KeysymsPerKeycode),
		Keysyms:           syms,
	}, nil
}

func (c *xgbConn) GrabKey(w Window, mods uint16, code Keycode) error {
	return xproto.GrabKeyChecked(c.X, true, xproto.Window(w), mods, xproto.Keycode(code),
		xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
}

func (c *xgbConn) GrabButton(w Window, mods uint16, button byte) error {
	return xproto.GrabButtonChecked(c.X, false, xproto.Window(w),
		uint16(xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease),
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		xproto.WindowNone, xproto.CursorNone, button, mods).Check()
}

func (c *xgbConn) CreateWindow(r geom.Rect) (Window, error) {
	wid, err := xproto.NewWindowId(c.X)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateWindowChecked(c.X, c.screen.RootDepth, wid, c.screen.Root,
		int16(r.X), int16(r.Y), uint16(r.Width), uint16(r.Height), 0,
		xproto.WindowClassInputOutput, c.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{c.screen.BlackPixel, 1, xproto.EventMaskExposure | xproto.EventMaskButtonPress}).Check()
	if err != nil {
		return 0, err
	}
	return Window(wid), nil
}

func (c *xgbConn) MapWindow(w Window) error {
	return xproto.MapWindowChecked(c.X, xproto.Window(w)).Check()
}

func (c *xgbConn) UnmapWindow(w Window) error {
	return xproto.UnmapWindowChecked(c.X, xproto.Window(w)).Check()
}

func (c *xgbConn) Configure(w Window, r geom.Rect, borderWidth int) error {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight | xproto.ConfigWindowBorderWidth)
	values := []uint32{
		uint32(int32(r.X)),
		uint32(int32(r.Y)),
		uint32(r.Width),
		uint32(r.Height),
		uint32(borderWidth),
	}
	return xproto.ConfigureWindowChecked(c.X, xproto.Window(w), mask, values).Check()
}

func (c *xgbConn) Raise(w Window) error {
	return xproto.ConfigureWindowChecked(c.X, xproto.Window(w),
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove}).Check()
}

func (c *xgbConn) Focus(w Window) error {
	return xproto.SetInputFocusChecked(c.X, xproto.InputFocusPointerRoot,
		xproto.Window(w), xproto.TimeCurrentTime).Check()
}

func (c *xgbConn) atom(name string) (xproto.Atom, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if a, ok := c.atoms[name]; ok {
		return a, nil
	}
	reply, err := xproto.InternAtom(c.X, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("interning %s: %w", name, err)
	}
	c.atoms[name] = reply.Atom
	c.names[reply.Atom] = name
	return reply.Atom, nil
}

func (c *xgbConn) atomName(a xproto.Atom) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if name, ok := c.names[a]; ok {
		return name
	}
	reply, err := xproto.GetAtomName(c.X, a).Reply()
	if err != nil {
		return fmt.Sprintf("atom(%d)", a)
	}
	c.names[a] = reply.Name
	c.atoms[reply.Name] = a
	return reply.Name
}

func (c *xgbConn) property(w Window, name string) ([]byte, error) {
	a, err := c.atom(name)
	if err != nil {
		return nil, err
	}
	reply, err := xproto.GetProperty(c.X, false, xproto.Window(w), a,
		xproto.GetPropertyTypeAny, 0, 1<<16).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

func (c *xgbConn) StringProperty(w Window, name string) (string, error) {
	value, err := c.property(w, name)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimRight(value, "\x00")), nil
}

func (c *xgbConn) WMClass(w Window) (string, string, error) {
	value, err := c.property(w, "WM_CLASS")
	if err != nil {
		return "", "", err
	}
	parts := strings.Split(strings.TrimRight(string(value), "\x00"), "\x00")
	switch len(parts) {
	case 0:
		return "", "", nil
	case 1:
		return parts[0], "", nil
	default:
		return parts[0], parts[1], nil
	}
}

func (c *xgbConn) AtomsProperty(w Window, name string) ([]string, error) {
	value, err := c.property(w, name)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(value)/4)
	for i := 0; i+4 <= len(value); i += 4 {
		names = append(names, c.atomName(xproto.Atom(xgb.Get32(value[i:]))))
	}
	return names, nil
}

func (c *xgbConn) changeProperty(w Window, name string, typ xproto.Atom, format byte, count int, data []byte) error {
	a, err := c.atom(name)
	if err != nil {
		return err
	}
	return xproto.ChangePropertyChecked(c.X, xproto.PropModeReplace, xproto.Window(w),
		a, typ, format, uint32(count), data).Check()
}

func (c *xgbConn) SetCardinals(w Window, name string, values ...uint32) error {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		xgb.Put32(buf[i*4:], v)
	}
	return c.changeProperty(w, name, xproto.AtomCardinal, 32, len(values), buf)
}

func (c *xgbConn) SetWindows(w Window, name string, values ...Window) error {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		xgb.Put32(buf[i*4:], uint32(v))
	}
	return c.changeProperty(w, name, xproto.AtomWindow, 32, len(values), buf)
}

func (c *xgbConn) SetAtoms(w Window, name string, atoms ...string) error {
	buf := make([]byte, 4*len(atoms))
	for i, atomName := range atoms {
		a, err := c.atom(atomName)
		if err != nil {
			return err
		}
		xgb.Put32(buf[i*4:], uint32(a))
	}
	return c.changeProperty(w, name, xproto.AtomAtom, 32, len(atoms), buf)
}

func (c *xgbConn) SetUTF8Strings(w Window, name string, values ...string) error {
	utf8, err := c.atom("UTF8_STRING")
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, v := range values {
		buf.WriteString(v)
		buf.WriteByte(0)
	}
	return c.changeProperty(w, name, utf8, 8, buf.Len(), buf.Bytes())
}

func (c *xgbConn) NextEvent() (Event, error) {
	ev, xerr := c.X.WaitForEvent()
	if ev == nil && xerr == nil {
		return nil, ErrClosed
	}
	if xerr != nil {
		return nil, &ProtocolError{Err: xerr}
	}
	return c.convert(ev), nil
}

func (c *xgbConn) convert(ev xgb.Event) Event {
	switch e := ev.(type) {
	case xproto.CreateNotifyEvent:
		return CreateNotify{
			Parent:           Window(e.Parent),
			Window:           Window(e.Window),
			X:                int(e.X),
			Y:                int(e.Y),
			Width:            int(e.Width),
			Height:           int(e.Height),
			BorderWidth:      int(e.BorderWidth),
			OverrideRedirect: e.OverrideRedirect,
		}
	case xproto.MapRequestEvent:
		return MapRequest{Parent: Window(e.Parent), Window: Window(e.Window)}
	case xproto.MapNotifyEvent:
		return MapNotify{Window: Window(e.Window), OverrideRedirect: e.OverrideRedirect}
	case xproto.UnmapNotifyEvent:
		return UnmapNotify{Window: Window(e.Window)}
	case xproto.DestroyNotifyEvent:
		return DestroyNotify{Window: Window(e.Window)}
	case xproto.ConfigureRequestEvent:
		return ConfigureRequest{
			Window:      Window(e.Window),
			X:           int(e.X),
			Y:           int(e.Y),
			Width:       int(e.Width),
			Height:      int(e.Height),
			BorderWidth: int(e.BorderWidth),
			ValueMask:   e.ValueMask,
		}
	case xproto.KeyPressEvent:
		return KeyPress{
			Root:   Window(e.Root),
			Event:  Window(e.Event),
			Child:  Window(e.Child),
			Detail: Keycode(e.Detail),
			State:  e.State,
		}
	case xproto.ButtonPressEvent:
		return ButtonPress{
			Root:   Window(e.Root),
			Event:  Window(e.Event),
			Child:  Window(e.Child),
			Detail: byte(e.Detail),
			State:  e.State,
			RootX:  int(e.RootX),
			RootY:  int(e.RootY),
		}
	case xproto.PropertyNotifyEvent:
		return PropertyNotify{Window: Window(e.Window), Atom: c.atomName(e.Atom)}
	case xproto.EnterNotifyEvent:
		return EnterNotify{Window: Window(e.Event)}
	default:
		kind := strings.TrimSuffix(strings.TrimPrefix(fmt.Sprintf("%T", ev), "xproto."), "Event")
		return Unknown{Kind: kind}
	}
}

func (c *xgbConn) Close() error {
	c.X.Close()
	return nil
}
