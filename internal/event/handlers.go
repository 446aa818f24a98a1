package event

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/dshills/tilestorm/internal/ewmh"
	"github.com/dshills/tilestorm/internal/geom"
	"github.com/dshills/tilestorm/internal/window"
	"github.com/dshills/tilestorm/internal/xconn"
)

func (d *Dispatcher) create(e xconn.CreateNotify) error {
	if e.Window == d.opts.Root || d.isBar(e.Window) {
		return nil
	}
	if _, ok := d.windows[e.Window]; ok {
		return nil
	}

	w := window.New(e.Window, e.Parent, geom.NewRect(e.X, e.Y, e.Width, e.Height), e.BorderWidth, e.OverrideRedirect)
	d.windows[e.Window] = w
	d.log.Debug("window created",
		zap.Stringer("window", w),
		zap.Bool("synthetic", e.Synthetic),
	)
	if w.OverrideRedirect {
		return nil
	}
	if err := d.conn.SelectInput(e.Window, clientMask); err != nil {
		return fmt.Errorf("select input on %s: %w", e.Window, err)
	}
	return nil
}

// mapRequest reads the window properties, classifies the window and
// hands it to its group.
func (d *Dispatcher) mapRequest(e xconn.MapRequest) error {
	w, ok := d.windows[e.Window]
	if !ok {
		// The creation was missed; build the record from the server.
		g, err := d.conn.Geometry(e.Window)
		if err != nil {
			return fmt.Errorf("geometry of %s: %w", e.Window, err)
		}
		w = window.New(e.Window, e.Parent, g.Rect(), g.BorderWidth, false)
		d.windows[e.Window] = w
	}

	if d.opts.Groups != nil {
		if _, managed := d.opts.Groups.Find(w); managed {
			// A managed window asking to be mapped again, e.g. after
			// withdrawing itself.
			return d.opts.Groups.Rearrange()
		}
	}

	if err := d.readProperties(w); err != nil {
		d.log.Warn("cannot read window properties", zap.Stringer("window", w), zap.Error(err))
	}
	if d.opts.Classifier != nil {
		d.opts.Classifier.Apply(w)
	}

	if d.opts.Groups == nil {
		w.Mapped = true
		return d.conn.MapWindow(w.ID)
	}
	err := d.opts.Groups.Add(w)
	if w.Floating && w.Mapped {
		err = multierr.Append(err, d.conn.Raise(w.ID))
	}
	d.log.Debug("window managed",
		zap.Stringer("window", w),
		zap.Bool("floating", w.Floating),
	)
	return err
}

func (d *Dispatcher) readProperties(w *window.Window) error {
	instance, class, err := d.conn.WMClass(w.ID)
	if err != nil {
		return err
	}
	w.Instance, w.Class = instance, class

	title, err := d.title(w.ID)
	if err != nil {
		return err
	}
	w.Title = title

	role, err := d.conn.StringProperty(w.ID, ewmh.ICCCMRole)
	if err != nil {
		return err
	}
	w.Role = role

	types, err := d.conn.AtomsProperty(w.ID, ewmh.WMWindowType)
	if err != nil {
		return err
	}
	w.Types = types
	return nil
}

func (d *Dispatcher) title(w xconn.Window) (string, error) {
	title, err := d.conn.StringProperty(w, ewmh.WMName)
	if err != nil || title != "" {
		return title, err
	}
	return d.conn.StringProperty(w, ewmh.ICCCMName)
}

func (d *Dispatcher) mapNotify(e xconn.MapNotify) error {
	if w, ok := d.windows[e.Window]; ok && w.OverrideRedirect {
		w.Mapped = true
	}
	return nil
}

func (d *Dispatcher) unmap(e xconn.UnmapNotify) error {
	w, ok := d.windows[e.Window]
	if !ok {
		return nil
	}
	if d.opts.Groups != nil && d.opts.Groups.ExpectedUnmap(e.Window) {
		return nil
	}
	w.Mapped = false
	return d.release(w)
}

func (d *Dispatcher) destroy(e xconn.DestroyNotify) error {
	w, ok := d.windows[e.Window]
	if !ok {
		return nil
	}
	delete(d.windows, e.Window)
	return d.release(w)
}

// release stops managing w.
func (d *Dispatcher) release(w *window.Window) error {
	var err error
	if d.opts.Groups != nil {
		_, err = d.opts.Groups.Remove(w)
	}
	if d.focused == w {
		d.focused = nil
		if d.opts.Hints != nil {
			err = multierr.Append(err, d.opts.Hints.SetActive(0))
		}
		err = multierr.Append(err, d.redraw())
	}
	return err
}

// configureRequest grants geometry requests of unmanaged and floating
// windows. Tiled windows are put back where their layout placed them.
func (d *Dispatcher) configureRequest(e xconn.ConfigureRequest) error {
	w, ok := d.windows[e.Window]
	if !ok {
		r, bw := requestedRect(geom.Rect{}, 0, e)
		return d.conn.Configure(e.Window, r, bw)
	}

	if d.opts.Groups != nil && !w.Floating {
		if _, placed := d.opts.Groups.Placement(w); placed {
			return d.conn.Configure(w.ID, w.Rect, w.EffectiveBorder(d.opts.BorderWidth))
		}
	}

	r, bw := requestedRect(w.Rect, w.BorderWidth, e)
	w.Rect, w.BorderWidth = r, bw
	if w.Border != nil {
		bw = *w.Border
	}
	return d.conn.Configure(w.ID, r, bw)
}

func (d *Dispatcher) property(e xconn.PropertyNotify) error {
	if e.Atom != ewmh.WMName && e.Atom != ewmh.ICCCMName {
		return nil
	}
	w, ok := d.windows[e.Window]
	if !ok {
		return nil
	}
	title, err := d.title(w.ID)
	if err != nil {
		return err
	}
	w.Title = title
	if d.focused == w {
		return d.redraw()
	}
	return nil
}

// enter focuses managed windows under the pointer.
func (d *Dispatcher) enter(e xconn.EnterNotify) error {
	w, ok := d.windows[e.Window]
	if !ok || w.OverrideRedirect || d.focused == w {
		return nil
	}
	if d.opts.Groups != nil {
		if _, managed := d.opts.Groups.Find(w); !managed {
			return nil
		}
	}

	d.focused = w
	err := d.conn.Focus(w.ID)
	if d.opts.Hints != nil {
		err = multierr.Append(err, d.opts.Hints.SetActive(w.ID))
	}
	return multierr.Append(err, d.redraw())
}
