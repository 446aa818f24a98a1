// Package ewmh publishes the desktop hints pagers and taskbars read from
// the root window.
package ewmh

import (
	"go.uber.org/multierr"

	"github.com/dshills/tilestorm/internal/xconn"
)

// Root window properties maintained by Hints.
const (
	Supported        = "_NET_SUPPORTED"
	NumberOfDesktops = "_NET_NUMBER_OF_DESKTOPS"
	DesktopNames     = "_NET_DESKTOP_NAMES"
	CurrentDesktop   = "_NET_CURRENT_DESKTOP"
	ActiveWindow     = "_NET_ACTIVE_WINDOW"
)

// Client window properties read when a window is managed.
const (
	WMName       = "_NET_WM_NAME"
	WMWindowType = "_NET_WM_WINDOW_TYPE"

	// ICCCM fallbacks.
	ICCCMName = "WM_NAME"
	ICCCMRole = "WM_WINDOW_ROLE"
)

// Hints writes desktop hints on the root window.
type Hints struct {
	conn xconn.Conn
	root xconn.Window
}

// New creates a hints helper.
func New(conn xconn.Conn, root xconn.Window) *Hints {
	return &Hints{conn: conn, root: root}
}

// Init announces the supported hints.
func (h *Hints) Init() error {
	return h.conn.SetAtoms(h.root, Supported,
		Supported, NumberOfDesktops, DesktopNames, CurrentDesktop, ActiveWindow)
}

// SetDesktops publishes the group names and the index of the current
// group.
func (h *Hints) SetDesktops(names []string, current string) error {
	idx := 0
	for i, name := range names {
		if name == current {
			idx = i
		}
	}
	return multierr.Combine(
		h.conn.SetCardinals(h.root, NumberOfDesktops, uint32(len(names))),
		h.conn.SetUTF8Strings(h.root, DesktopNames, names...),
		h.conn.SetCardinals(h.root, CurrentDesktop, uint32(idx)),
	)
}

// SetActive publishes the focused window; 0 means none.
func (h *Hints) SetActive(w xconn.Window) error {
	return h.conn.SetWindows(h.root, ActiveWindow, w)
}
