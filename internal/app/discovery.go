package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/dshills/tilestorm/internal/xconn"
)

// discover adopts the windows that existed before the window manager
// started by replaying a creation, and a map request for mapped ones,
// through the dispatcher. It returns the number of windows replayed.
func (a *Application) discover(ctx context.Context) int {
	children, err := a.conn.QueryTree(a.root)
	if err != nil {
		a.log.Error("querying window tree", zap.Error(err))
		return 0
	}

	n := 0
	for _, w := range children {
		if w == a.root || a.dispatcher.Known(w) {
			continue
		}
		attrs, err := a.conn.WindowAttributes(w)
		if err != nil {
			a.log.Warn("skipping existing window", zap.Stringer("window", w), zap.Error(err))
			continue
		}
		if attrs.Class == xconn.ClassInputOnly {
			continue
		}
		geo, err := a.conn.Geometry(w)
		if err != nil {
			a.log.Warn("skipping existing window", zap.Stringer("window", w), zap.Error(err))
			continue
		}

		a.handle(ctx, xconn.CreateNotify{
			Parent:           a.root,
			Window:           w,
			X:                geo.X,
			Y:                geo.Y,
			Width:            geo.Width,
			Height:           geo.Height,
			BorderWidth:      geo.BorderWidth,
			OverrideRedirect: attrs.OverrideRedirect,
			Synthetic:        true,
		})
		if attrs.MapState != xconn.MapStateUnmapped && !attrs.OverrideRedirect {
			a.handle(ctx, xconn.MapRequest{Parent: a.root, Window: w, Synthetic: true})
		}
		n++
	}
	return n
}
