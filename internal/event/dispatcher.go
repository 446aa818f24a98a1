package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/dshills/tilestorm/internal/event/dispatch"
	"github.com/dshills/tilestorm/internal/ewmh"
	"github.com/dshills/tilestorm/internal/geom"
	"github.com/dshills/tilestorm/internal/group"
	"github.com/dshills/tilestorm/internal/rules"
	"github.com/dshills/tilestorm/internal/widget"
	"github.com/dshills/tilestorm/internal/window"
	"github.com/dshills/tilestorm/internal/xconn"
)

// ErrNoOwner is returned for key and button presses before an owner is
// installed.
var ErrNoOwner = errors.New("event: no command owner installed")

// Owner translates input into commands and runs them.
type Owner interface {
	KeyCommand(ev xconn.KeyPress) ([]string, bool)
	ButtonCommand(ev xconn.ButtonPress) ([]string, bool)
	Call(tokens []string) error
}

// Client window event mask.
const clientMask = xconn.EventMaskPropertyChange | xconn.EventMaskEnterWindow | xconn.EventMaskStructureNotify

// Options configures a Dispatcher.
type Options struct {
	Root       xconn.Window
	Groups     *group.Manager
	Classifier *rules.Classifier
	Hints      *ewmh.Hints

	// BorderWidth is the theme border width used for floating windows.
	BorderWidth int

	// Now returns the time widgets render. Defaults to time.Now.
	Now func() time.Time
}

// Dispatcher handles X events.
type Dispatcher struct {
	log  *zap.Logger
	conn xconn.Conn
	opts Options

	owner   Owner
	bars    []*widget.Bar
	windows map[xconn.Window]*window.Window
	focused *window.Window
}

var _ dispatch.Handler = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher.
func NewDispatcher(log *zap.Logger, conn xconn.Conn, opts Options) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Dispatcher{
		log:     log,
		conn:    conn,
		opts:    opts,
		windows: make(map[xconn.Window]*window.Window),
	}
}

// SetOwner installs the owner of key bindings, button bindings and
// commands.
func (d *Dispatcher) SetOwner(o Owner) {
	d.owner = o
}

// AddBar registers a bar redrawn on state changes.
func (d *Dispatcher) AddBar(b *widget.Bar) {
	d.bars = append(d.bars, b)
}

// Known reports whether a window has been seen.
func (d *Dispatcher) Known(w xconn.Window) bool {
	_, ok := d.windows[w]
	return ok
}

// Window returns the record of a known window.
func (d *Dispatcher) Window(w xconn.Window) (*window.Window, bool) {
	win, ok := d.windows[w]
	return win, ok
}

// Len returns the number of known windows.
func (d *Dispatcher) Len() int {
	return len(d.windows)
}

// Handle implements dispatch.Handler.
func (d *Dispatcher) Handle(_ context.Context, ev xconn.Event) error {
	return d.Dispatch(ev)
}

// Dispatch handles one event.
func (d *Dispatcher) Dispatch(ev xconn.Event) error {
	switch e := ev.(type) {
	case xconn.CreateNotify:
		return d.create(e)
	case xconn.MapRequest:
		return d.mapRequest(e)
	case xconn.MapNotify:
		return d.mapNotify(e)
	case xconn.UnmapNotify:
		return d.unmap(e)
	case xconn.DestroyNotify:
		return d.destroy(e)
	case xconn.ConfigureRequest:
		return d.configureRequest(e)
	case xconn.KeyPress:
		return d.keyPress(e)
	case xconn.ButtonPress:
		return d.buttonPress(e)
	case xconn.PropertyNotify:
		return d.property(e)
	case xconn.EnterNotify:
		return d.enter(e)
	default:
		d.log.Debug("ignoring event", zap.Stringer("event", ev))
		return nil
	}
}

// Refresh publishes the desktop hints and redraws the bars. It is run
// whenever the visible groups change.
func (d *Dispatcher) Refresh() error {
	var err error
	if d.opts.Hints != nil && d.opts.Groups != nil {
		current, names, _ := d.opts.Groups.State()
		err = d.opts.Hints.SetDesktops(names, current)
	}
	return multierr.Append(err, d.redraw())
}

func (d *Dispatcher) redraw() error {
	if len(d.bars) == 0 {
		return nil
	}
	st := widget.State{Now: d.opts.Now()}
	if d.opts.Groups != nil {
		st.Group, st.Groups, st.Layout = d.opts.Groups.State()
	}
	if d.focused != nil {
		st.Title = d.focused.Title
	}

	var err error
	for _, b := range d.bars {
		err = multierr.Append(err, b.Redraw(d.conn, st))
	}
	return err
}

// Tick redraws the bars so time-based widgets stay current.
func (d *Dispatcher) Tick() error {
	return d.redraw()
}

func (d *Dispatcher) isBar(w xconn.Window) bool {
	for _, b := range d.bars {
		if b.Window == w {
			return true
		}
	}
	return false
}

func (d *Dispatcher) call(tokens []string) error {
	if err := d.owner.Call(tokens); err != nil {
		return fmt.Errorf("command %v: %w", tokens, err)
	}
	return nil
}

func (d *Dispatcher) keyPress(e xconn.KeyPress) error {
	if d.owner == nil {
		return ErrNoOwner
	}
	cmd, ok := d.owner.KeyCommand(e)
	if !ok {
		d.log.Debug("unbound key", zap.Stringer("event", e))
		return nil
	}
	return d.call(cmd)
}

func (d *Dispatcher) buttonPress(e xconn.ButtonPress) error {
	if d.owner == nil {
		return ErrNoOwner
	}
	cmd, ok := d.owner.ButtonCommand(e)
	if !ok {
		return nil
	}
	return d.call(cmd)
}

// requestedRect applies the fields of a configure request present in its
// value mask to r.
func requestedRect(r geom.Rect, bw int, e xconn.ConfigureRequest) (geom.Rect, int) {
	if e.ValueMask&xconn.ConfigX != 0 {
		r.X = e.X
	}
	if e.ValueMask&xconn.ConfigY != 0 {
		r.Y = e.Y
	}
	if e.ValueMask&xconn.ConfigWidth != 0 {
		r.Width = e.Width
	}
	if e.ValueMask&xconn.ConfigHeight != 0 {
		r.Height = e.Height
	}
	if e.ValueMask&xconn.ConfigBorderWidth != 0 {
		bw = e.BorderWidth
	}
	return r, bw
}
