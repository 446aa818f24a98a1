package app

import (
	"errors"
)

// Application errors.
var (
	// ErrQuit signals that the window manager should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrRestart is returned by Run when a restart was requested but the
	// process image was not replaced.
	ErrRestart = errors.New("restart requested")

	// ErrConnectionClosed is returned by Run when the X event stream ends.
	ErrConnectionClosed = errors.New("x connection closed")

	// ErrAnotherWM is reported when substructure redirection on the root
	// window is held by another client.
	ErrAnotherWM = errors.New("another window manager is running")

	// ErrAlreadyRunning indicates Run was called twice.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNotBootstrapped indicates Run was called on an application whose
	// bootstrap failed.
	ErrNotBootstrapped = errors.New("application not bootstrapped")

	// ErrUnknownLogLevel is returned by ParseLogLevel.
	ErrUnknownLogLevel = errors.New("unknown log level")
)

// InitError is a fatal error of one bootstrap step.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
