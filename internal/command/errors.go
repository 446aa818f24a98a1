package command

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownNamespace indicates no namespace has the requested name.
	ErrUnknownNamespace = errors.New("command: unknown namespace")

	// ErrUnknownCommand indicates the namespace has no such command.
	ErrUnknownCommand = errors.New("command: unknown command")

	// ErrIncomplete indicates a command without namespace or name.
	ErrIncomplete = errors.New("command: expected namespace and command name")

	// ErrArguments indicates a wrong number or kind of arguments.
	ErrArguments = errors.New("command: bad arguments")
)

// Error wraps a failure of one command.
type Error struct {
	Command string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("command %s: %v", e.Command, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
