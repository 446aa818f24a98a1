package keymap

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/tilestorm/internal/config"
	"github.com/dshills/tilestorm/internal/input/key"
	"github.com/dshills/tilestorm/internal/xconn"
)

var (
	// ErrNotInitialized is returned by Add before Init fetched the
	// keyboard mapping.
	ErrNotInitialized = errors.New("keymap: keyboard mapping not loaded")

	// ErrNoKeycode is returned when no key on the keyboard produces the
	// requested keysym.
	ErrNoKeycode = errors.New("keymap: no keycode for key")

	// ErrEmptyCommand is returned for a binding without a command.
	ErrEmptyCommand = errors.New("keymap: empty command")
)

// Registry holds hotkey bindings for one root window.
type Registry struct {
	log   *zap.Logger
	conn  xconn.Conn
	root  xconn.Window
	table *key.Table

	mapping  xconn.KeyboardMapping
	loaded   bool
	bindings []*Binding
	byChord  map[chord]*Binding
}

// NewRegistry creates a registry grabbing keys on root.
func NewRegistry(log *zap.Logger, conn xconn.Conn, root xconn.Window, table *key.Table) *Registry {
	return &Registry{
		log:     log,
		conn:    conn,
		root:    root,
		table:   table,
		byChord: make(map[chord]*Binding),
	}
}

// Init fetches the keyboard mapping.
func (r *Registry) Init() error {
	m, err := r.conn.KeyboardMapping()
	if err != nil {
		return fmt.Errorf("keymap: fetch keyboard mapping: %w", err)
	}
	r.mapping = m
	r.loaded = true
	return nil
}

// Add parses spec, grabs it on the root window and binds it to command.
// A later binding of the same chord replaces the earlier one.
func (r *Registry) Add(spec string, command []string) error {
	if !r.loaded {
		return ErrNotInitialized
	}
	if len(command) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyCommand, spec)
	}

	combo, err := key.Parse(spec, r.table)
	if err != nil {
		return err
	}
	codes := r.mapping.Lookup(combo.Keysym)
	if len(codes) == 0 {
		return fmt.Errorf("%w: %s", ErrNoKeycode, spec)
	}

	b := &Binding{Spec: spec, Combo: combo, Codes: codes, Command: command}
	mask := combo.Mods.Mask()
	for _, code := range codes {
		for _, mods := range modVariants(mask) {
			if err := r.conn.GrabKey(r.root, mods, code); err != nil {
				return fmt.Errorf("keymap: grab %s: %w", spec, err)
			}
		}
		r.byChord[chord{mods: mask, code: code}] = b
	}
	r.bindings = append(r.bindings, b)

	r.log.Debug("hotkey bound",
		zap.String("key", spec),
		zap.Strings("command", command),
	)
	return nil
}

// AddAll binds every hotkey, logging and skipping the ones that fail.
// It returns the number of bindings added.
func (r *Registry) AddAll(hotkeys []config.Hotkey) int {
	n := 0
	for _, s := range hotkeys {
		if err := r.Add(s.Key, s.Command); err != nil {
			r.log.Warn("skipping hotkey", zap.String("key", s.Key), zap.Error(err))
			continue
		}
		n++
	}
	return n
}

// Lookup returns the command bound to a key press.
func (r *Registry) Lookup(ev xconn.KeyPress) ([]string, bool) {
	b, ok := r.byChord[chord{mods: cleanMask(ev.State), code: ev.Detail}]
	if !ok {
		return nil, false
	}
	return b.Command, true
}

// Bindings returns the bindings in the order they were added.
func (r *Registry) Bindings() []Binding {
	out := make([]Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		out = append(out, *b)
	}
	return out
}

// Len returns the number of bindings.
func (r *Registry) Len() int {
	return len(r.bindings)
}
