// Package dispatch runs event handlers with panic recovery.
//
// The window manager dispatches every X event through an Executor so a
// failing or panicking handler affects only the event being processed:
//
//	exec := dispatch.NewExecutor(
//	    dispatch.WithPanicHandler(func(ev xconn.Event, v any, stack []byte) {
//	        log.Error("handler panicked", zap.Stringer("event", ev), zap.Any("panic", v))
//	    }),
//	)
//	res := exec.Execute(ctx, ev, handler)
//	if err := res.Err(); err != nil {
//	    // log once and continue with the next event
//	}
//
// Executor keeps counters of dispatched, failed and panicked events,
// readable through Stats.
package dispatch
