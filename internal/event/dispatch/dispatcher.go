package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/dshills/tilestorm/internal/xconn"
)

// Handler handles one event.
type Handler interface {
	Handle(ctx context.Context, ev xconn.Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, ev xconn.Event) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, ev xconn.Event) error {
	return f(ctx, ev)
}

// Result is the outcome of one handler execution.
type Result struct {
	// Error is the error returned by the handler.
	Error error

	// Panicked is true if the handler panicked; PanicValue and PanicStack
	// describe the panic.
	Panicked   bool
	PanicValue any
	PanicStack []byte

	Duration time.Duration

	// Skipped is true if the handler did not run.
	Skipped bool
}

// IsSuccess returns true if the handler ran without error or panic.
func (r Result) IsSuccess() bool {
	return !r.Skipped && !r.Panicked && r.Error == nil
}

// Err folds the result into a single error, nil on success.
func (r Result) Err() error {
	switch {
	case r.Panicked:
		return &PanicError{Value: r.PanicValue, Stack: r.PanicStack}
	case r.Skipped:
		if r.Error != nil {
			return fmt.Errorf("%w: %w", ErrSkipped, r.Error)
		}
		return ErrSkipped
	default:
		return r.Error
	}
}

// PanicHandler is called when a handler panics.
type PanicHandler func(ev xconn.Event, value any, stack []byte)
