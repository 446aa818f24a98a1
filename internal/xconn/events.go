package xconn

import "fmt"

// Event is a decoded protocol event.
type Event interface {
	fmt.Stringer
	// Name is the protocol name of the event, e.g. "CreateNotify".
	Name() string
}

// CreateNotify reports a newly created window. Synthetic marks records
// fabricated for windows that existed before the window manager started.
type CreateNotify struct {
	Parent           Window
	Window           Window
	X                int
	Y                int
	Width            int
	Height           int
	BorderWidth      int
	OverrideRedirect bool
	Synthetic        bool
}

func (CreateNotify) Name() string { return "CreateNotify" }

func (e CreateNotify) String() string {
	return fmt.Sprintf("CreateNotify{window=%s parent=%s %dx%d+%d+%d border=%d override=%t synthetic=%t}",
		e.Window, e.Parent, e.Width, e.Height, e.X, e.Y, e.BorderWidth, e.OverrideRedirect, e.Synthetic)
}

// MapRequest asks the window manager to map a window.
type MapRequest struct {
	Parent    Window
	Window    Window
	Synthetic bool
}

func (MapRequest) Name() string { return "MapRequest" }

func (e MapRequest) String() string {
	return fmt.Sprintf("MapRequest{window=%s parent=%s synthetic=%t}", e.Window, e.Parent, e.Synthetic)
}

// MapNotify reports a window became mapped.
type MapNotify struct {
	Window           Window
	OverrideRedirect bool
}

func (MapNotify) Name() string { return "MapNotify" }

func (e MapNotify) String() string {
	return fmt.Sprintf("MapNotify{window=%s override=%t}", e.Window, e.OverrideRedirect)
}

// UnmapNotify reports a window became unmapped.
type UnmapNotify struct {
	Window Window
}

func (UnmapNotify) Name() string { return "UnmapNotify" }

func (e UnmapNotify) String() string {
	return fmt.Sprintf("UnmapNotify{window=%s}", e.Window)
}

// DestroyNotify reports a window was destroyed.
type DestroyNotify struct {
	Window Window
}

func (DestroyNotify) Name() string { return "DestroyNotify" }

func (e DestroyNotify) String() string {
	return fmt.Sprintf("DestroyNotify{window=%s}", e.Window)
}

// ConfigureRequest asks the window manager to change a window's geometry.
type ConfigureRequest struct {
	Window      Window
	X           int
	Y           int
	Width       int
	Height      int
	BorderWidth int
	ValueMask   uint16
}

func (ConfigureRequest) Name() string { return "ConfigureRequest" }

func (e ConfigureRequest) String() string {
	return fmt.Sprintf("ConfigureRequest{window=%s %dx%d+%d+%d border=%d mask=0x%x}",
		e.Window, e.Width, e.Height, e.X, e.Y, e.BorderWidth, e.ValueMask)
}

// KeyPress reports a grabbed key was pressed.
type KeyPress struct {
	Root   Window
	Event  Window
	Child  Window
	Detail Keycode
	State  uint16
}

func (KeyPress) Name() string { return "KeyPress" }

func (e KeyPress) String() string {
	return fmt.Sprintf("KeyPress{keycode=%d state=0x%x child=%s}", e.Detail, e.State, e.Child)
}

// ButtonPress reports a grabbed pointer button was pressed.
type ButtonPress struct {
	Root   Window
	Event  Window
	Child  Window
	Detail byte
	State  uint16
	RootX  int
	RootY  int
}

func (ButtonPress) Name() string { return "ButtonPress" }

func (e ButtonPress) String() string {
	return fmt.Sprintf("ButtonPress{button=%d state=0x%x child=%s at=%d,%d}",
		e.Detail, e.State, e.Child, e.RootX, e.RootY)
}

// PropertyNotify reports a property change on a window.
type PropertyNotify struct {
	Window Window
	Atom   string
}

func (PropertyNotify) Name() string { return "PropertyNotify" }

func (e PropertyNotify) String() string {
	return fmt.Sprintf("PropertyNotify{window=%s atom=%s}", e.Window, e.Atom)
}

// EnterNotify reports the pointer entered a window.
type EnterNotify struct {
	Window Window
}

func (EnterNotify) Name() string { return "EnterNotify" }

func (e EnterNotify) String() string {
	return fmt.Sprintf("EnterNotify{window=%s}", e.Window)
}

// Unknown wraps events the window manager does not decode.
type Unknown struct {
	Kind string
}

func (e Unknown) Name() string { return e.Kind }

func (e Unknown) String() string {
	return fmt.Sprintf("%s{}", e.Kind)
}
