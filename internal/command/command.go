// Package command routes command token lists such as
// ["groups", "switch", "3"] to namespace handlers.
//
// The first token names the namespace and the second the command inside
// it; the remaining tokens are passed to the handler.
package command

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Handler runs one command.
type Handler func(args []string) error

// Namespace maps command names to handlers.
type Namespace map[string]Handler

// Dispatcher routes commands to registered namespaces.
type Dispatcher struct {
	mu         sync.RWMutex
	namespaces map[string]Namespace
}

// NewDispatcher creates a dispatcher without namespaces.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{namespaces: make(map[string]Namespace)}
}

// RegisterNamespace registers ns under name, replacing any previous
// namespace of that name.
func (d *Dispatcher) RegisterNamespace(name string, ns Namespace) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.namespaces[name] = ns
}

// Namespaces returns the registered namespace names, sorted.
func (d *Dispatcher) Namespaces() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.namespaces))
	for name := range d.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the command named by "namespace.command" exists.
func (d *Dispatcher) Has(name string) bool {
	ns, cmd, ok := strings.Cut(name, ".")
	if !ok {
		return false
	}
	_, err := d.lookup(ns, cmd)
	return err == nil
}

// Call runs the command named by tokens.
func (d *Dispatcher) Call(tokens []string) error {
	if len(tokens) < 2 {
		return &Error{Command: strings.Join(tokens, " "), Err: ErrIncomplete}
	}

	h, err := d.lookup(tokens[0], tokens[1])
	if err != nil {
		return &Error{Command: tokens[0] + "." + tokens[1], Err: err}
	}
	if err := h(tokens[2:]); err != nil {
		return &Error{Command: tokens[0] + "." + tokens[1], Err: err}
	}
	return nil
}

func (d *Dispatcher) lookup(namespace, name string) (Handler, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ns, ok := d.namespaces[namespace]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNamespace, namespace)
	}
	h, ok := ns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return h, nil
}

// ExpectArgs checks the number of command arguments.
func ExpectArgs(args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: want %d, got %d", ErrArguments, n, len(args))
	}
	return nil
}
