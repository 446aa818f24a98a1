package app

// Control is a request handled by the event loop between events.
type Control int

// Control requests.
const (
	// ControlRestart re-executes the window manager binary.
	ControlRestart Control = iota + 1
	// ControlQuit ends Run with ErrQuit.
	ControlQuit
)

func (c Control) String() string {
	switch c {
	case ControlRestart:
		return "restart"
	case ControlQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Request posts c to the event loop. The control channel has a single
// slot: while a request is pending further requests are dropped and
// Request reports false.
func (a *Application) Request(c Control) bool {
	select {
	case a.control <- c:
		return true
	default:
		return false
	}
}
