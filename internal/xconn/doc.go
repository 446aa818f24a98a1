// Package xconn is the boundary between the window manager and the X server.
//
// The window manager never touches wire-level encoding. It talks to the
// server through the Conn interface, which offers synchronous queries
// (window tree, attributes, geometry, screen layout), a handful of requests
// (grabs, configure, properties) and a blocking event stream of the
// structured records defined in events.go.
//
// Dial returns the production implementation backed by github.com/jezek/xgb.
// The xconntest subpackage provides an in-memory fake for tests.
package xconn
