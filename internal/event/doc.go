// Package event turns X events into window manager actions.
//
// Dispatcher owns the table of known windows. Creation records a window,
// a map request classifies it with the compiled rules and hands it to the
// group manager, and unmap or destroy notifications release it. Key and
// button presses are translated into commands by the Owner, which the
// application installs once all components exist.
//
// Dispatcher is not safe for concurrent use; the event loop calls it from
// a single goroutine.
package event
