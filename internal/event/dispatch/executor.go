package dispatch

import (
	"context"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/dshills/tilestorm/internal/xconn"
)

// Executor runs handlers with panic recovery and timing.
type Executor struct {
	panicHandler PanicHandler

	dispatched  atomic.Uint64
	failed      atomic.Uint64
	panicked    atomic.Uint64
	skipped     atomic.Uint64
	totalTimeNs atomic.Int64
}

// Option configures an Executor.
type Option func(*Executor)

// WithPanicHandler sets the function called after a handler panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(e *Executor) {
		e.panicHandler = h
	}
}

// NewExecutor creates an executor.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs handler for ev. A panic in the handler is recovered and
// reported in the result.
func (e *Executor) Execute(ctx context.Context, ev xconn.Event, handler Handler) Result {
	e.dispatched.Add(1)

	select {
	case <-ctx.Done():
		e.skipped.Add(1)
		return Result{Error: ctx.Err(), Skipped: true}
	default:
	}

	res := e.run(ctx, ev, handler)
	e.totalTimeNs.Add(res.Duration.Nanoseconds())
	switch {
	case res.Panicked:
		e.panicked.Add(1)
	case res.Error != nil:
		e.failed.Add(1)
	}
	return res
}

func (e *Executor) run(ctx context.Context, ev xconn.Event, handler Handler) (result Result) {
	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)

		if r := recover(); r != nil {
			stack := debug.Stack()
			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = stack

			if e.panicHandler != nil {
				func() {
					// A panicking panic handler must not take the loop down.
					defer func() { _ = recover() }()
					e.panicHandler(ev, r, stack)
				}()
			}
		}
	}()

	result.Error = handler.Handle(ctx, ev)
	return result
}

// Stats are cumulative executor counters.
type Stats struct {
	Dispatched    uint64
	Failed        uint64
	Panicked      uint64
	Skipped       uint64
	TotalDuration time.Duration
}

// Stats returns the counters.
func (e *Executor) Stats() Stats {
	return Stats{
		Dispatched:    e.dispatched.Load(),
		Failed:        e.failed.Load(),
		Panicked:      e.panicked.Load(),
		Skipped:       e.skipped.Load(),
		TotalDuration: time.Duration(e.totalTimeNs.Load()),
	}
}
