package rules

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKey indicates a rule key that is neither a condition nor
	// an action kind.
	ErrUnknownKey = errors.New("unknown rule key")

	// ErrEmptyActions indicates a rule without actions.
	ErrEmptyActions = errors.New("rule has no actions")

	// ErrBadArguments indicates arguments a condition or action rejects.
	ErrBadArguments = errors.New("bad rule arguments")

	// ErrMalformed indicates a rule list or rule of the wrong shape.
	ErrMalformed = errors.New("malformed rule")
)

// CompileError locates a rule compilation failure.
type CompileError struct {
	Subject string
	Index   int
	Key     string
	Err     error
}

func (e *CompileError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("rules %s[%d]: %v", e.Subject, e.Index, e.Err)
	}
	return fmt.Sprintf("rules %s[%d] %q: %v", e.Subject, e.Index, e.Key, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
