package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/tilestorm/internal/xconn"
)

const eventBuffer = 64

// incoming is one read from the X connection.
type incoming struct {
	ev  xconn.Event
	err error
}

// pump reads events until the stream ends or stop is closed. It never
// touches the window manager state.
func (a *Application) pump(out chan<- incoming, stop <-chan struct{}) {
	defer close(a.pumpDone)
	for {
		ev, err := a.conn.NextEvent()
		select {
		case out <- incoming{ev: ev, err: err}:
		case <-stop:
			return
		}
		if err != nil && !recoverable(err) {
			return
		}
	}
}

// recoverable reports whether the event stream survives err. Asynchronous
// protocol errors, such as BadWindow for a window that is already gone,
// leave the connection usable.
func recoverable(err error) bool {
	var perr *xconn.ProtocolError
	return errors.As(err, &perr)
}

// loop runs every window manager action on the calling goroutine.
func (a *Application) loop(ctx context.Context) error {
	if a.conn == nil || a.dispatcher == nil {
		return ErrNotBootstrapped
	}

	events := make(chan incoming, eventBuffer)
	stop := make(chan struct{})
	defer close(stop)

	a.pumpDone = make(chan struct{})
	go a.pump(events, stop)

	ticker := time.NewTicker(a.opts.TickInterval)
	defer ticker.Stop()

	a.log.Info("event loop started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case in := <-events:
			if in.err != nil {
				if recoverable(in.err) {
					a.log.Warn("x protocol error", zap.Error(in.err))
					continue
				}
				if errors.Is(in.err, xconn.ErrClosed) {
					return ErrConnectionClosed
				}
				return fmt.Errorf("%w: %w", ErrConnectionClosed, in.err)
			}
			a.handle(ctx, in.ev)

		case c := <-a.control:
			a.log.Info("control request", zap.Stringer("request", c))
			switch c {
			case ControlQuit:
				return ErrQuit
			case ControlRestart:
				return a.restart()
			}

		case <-ticker.C:
			if err := a.dispatcher.Tick(); err != nil {
				a.log.Warn("redrawing bars", zap.Error(err))
			}
		}
	}
}

// handle dispatches one event. A failing or panicking handler produces
// exactly one error entry and never stops the loop.
func (a *Application) handle(ctx context.Context, ev xconn.Event) {
	res := a.executor.Execute(ctx, ev, a.handler)
	if res.IsSuccess() {
		return
	}
	if res.Skipped {
		a.log.Debug("event skipped", zap.Stringer("event", ev), zap.Error(res.Err()))
		return
	}

	fields := []zap.Field{zap.Stringer("event", ev), zap.Error(res.Err())}
	if res.Panicked {
		fields = append(fields, zap.ByteString("stack", res.PanicStack))
	}
	a.log.Error("event handler failed", fields...)
}

// restart replaces the process with a fresh copy of the window manager.
// All state is discarded; windows are adopted again by the new process.
// It only returns when the exec did not happen.
func (a *Application) restart() error {
	path, err := a.opts.Executable()
	if err != nil {
		return fmt.Errorf("%w: locating executable: %w", ErrRestart, err)
	}
	a.log.Info("restarting", zap.String("path", path), zap.Strings("args", a.opts.Args))
	if err := a.opts.Exec(path, a.opts.Args, a.opts.Environ()); err != nil {
		return fmt.Errorf("%w: exec %s: %w", ErrRestart, path, err)
	}
	return ErrRestart
}
