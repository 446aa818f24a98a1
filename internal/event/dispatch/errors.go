package dispatch

import (
	"errors"
	"fmt"
)

// ErrSkipped is reported for events not handled because the context was
// already done.
var ErrSkipped = errors.New("dispatch skipped")

// PanicError reports a recovered handler panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
