package mouse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dshills/tilestorm/internal/config"
	"github.com/dshills/tilestorm/internal/input/key"
	"github.com/dshills/tilestorm/internal/xconn"
)

// Button is a pointer button number.
type Button byte

// Named buttons.
const (
	ButtonLeft       Button = 1
	ButtonMiddle     Button = 2
	ButtonRight      Button = 3
	ButtonScrollUp   Button = 4
	ButtonScrollDown Button = 5
)

var buttonNames = map[string]Button{
	"left":        ButtonLeft,
	"middle":      ButtonMiddle,
	"right":       ButtonRight,
	"scroll-up":   ButtonScrollUp,
	"up":          ButtonScrollUp,
	"scroll-down": ButtonScrollDown,
	"down":        ButtonScrollDown,
}

var (
	// ErrInvalidButton is returned for an unknown button part.
	ErrInvalidButton = errors.New("mouse: invalid button")

	// ErrEmptyCommand is returned for a binding without a command.
	ErrEmptyCommand = errors.New("mouse: empty command")
)

// Combo is a parsed button specification.
type Combo struct {
	Mods   key.Modifier
	Button Button
}

// String returns the combo in angle-bracket notation.
func (c Combo) String() string {
	return fmt.Sprintf("<%s%d>", c.Mods, c.Button)
}

// Parse parses a button specification.
func Parse(spec string) (Combo, error) {
	mods, last, err := key.SplitSpec(spec)
	if err != nil {
		return Combo{}, err
	}
	if b, ok := buttonNames[strings.ToLower(last)]; ok {
		return Combo{Mods: mods, Button: b}, nil
	}
	n, err := strconv.Atoi(last)
	if err != nil || n < 1 || n > 255 {
		return Combo{}, fmt.Errorf("%w: %q in %q", ErrInvalidButton, last, spec)
	}
	return Combo{Mods: mods, Button: Button(n)}, nil
}

type chord struct {
	mods   uint16
	button Button
}

const ignoredMods = xconn.ModLock | xconn.Mod2

// Registry holds button bindings for one root window.
type Registry struct {
	log     *zap.Logger
	conn    xconn.Conn
	root    xconn.Window
	byChord map[chord][]string
	specs   []string
}

// NewRegistry creates a registry grabbing buttons on root.
func NewRegistry(log *zap.Logger, conn xconn.Conn, root xconn.Window) *Registry {
	return &Registry{
		log:     log,
		conn:    conn,
		root:    root,
		byChord: make(map[chord][]string),
	}
}

// Add parses spec, grabs the button on the root window and binds it to
// command.
func (r *Registry) Add(spec string, command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyCommand, spec)
	}
	combo, err := Parse(spec)
	if err != nil {
		return err
	}

	mask := combo.Mods.Mask()
	for _, mods := range []uint16{mask, mask | xconn.ModLock, mask | xconn.Mod2, mask | ignoredMods} {
		if err := r.conn.GrabButton(r.root, mods, byte(combo.Button)); err != nil {
			return fmt.Errorf("mouse: grab %s: %w", spec, err)
		}
	}
	r.byChord[chord{mods: mask, button: combo.Button}] = command
	r.specs = append(r.specs, spec)
	return nil
}

// AddAll binds every button, logging and skipping the ones that fail.
func (r *Registry) AddAll(buttons []config.Hotkey) int {
	n := 0
	for _, b := range buttons {
		if err := r.Add(b.Key, b.Command); err != nil {
			r.log.Warn("skipping button binding", zap.String("button", b.Key), zap.Error(err))
			continue
		}
		n++
	}
	return n
}

// Lookup returns the command bound to a button press.
func (r *Registry) Lookup(ev xconn.ButtonPress) ([]string, bool) {
	// The state carries pointer button masks above the modifier bits.
	mods := ev.State &^ ignoredMods & 0xff
	cmd, ok := r.byChord[chord{mods: mods, button: Button(ev.Detail)}]
	return cmd, ok
}

// Specs returns the bound specifications in the order they were added.
func (r *Registry) Specs() []string {
	return append([]string(nil), r.specs...)
}
