// Package gadget provides gadgets: configured objects that contribute a
// command namespace named after the gadget.
package gadget

import (
	"fmt"
	"sort"

	"github.com/dshills/tilestorm/internal/command"
	"github.com/dshills/tilestorm/internal/config"
	"github.com/dshills/tilestorm/internal/ext"
)

// Module is the name of the bundled gadget module.
const Module = "gadgets"

// Gadget contributes commands.
type Gadget interface {
	Commands() command.Namespace
}

// Register adds the bundled gadget module to reg.
func Register(reg *ext.Registry) error {
	return reg.Register(ext.NewModule(Module).Add(
		&ext.Class{Name: "Launcher", Provides: ext.CapGadget, New: newLauncher},
	))
}

// New instantiates a gadget class.
func New(cls *ext.Class, args ext.Args) (Gadget, error) {
	v, err := cls.New(args)
	if err != nil {
		return nil, fmt.Errorf("creating gadget %s: %w", cls, err)
	}
	g, ok := v.(Gadget)
	if !ok {
		return nil, fmt.Errorf("%w: %s returned %T", ext.ErrNotInstantiable, cls, v)
	}
	return g, nil
}

// Launcher starts configured programs by name:
//
//	gadgets:
//	  apps: {"=": Launcher, programs: {term: xterm, web: "firefox --new-window"}}
//
// binds "apps term" and "apps web".
type Launcher struct {
	Env      *command.Env
	Programs map[string][]string
}

func newLauncher(args ext.Args) (any, error) {
	l := &Launcher{Env: command.NewEnv(), Programs: make(map[string][]string)}

	raw, ok := args["programs"]
	if !ok {
		return l, nil
	}
	programs, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("argument \"programs\": expected mapping, got %T", raw)
	}
	for name, v := range programs {
		cmd, err := config.Command(v)
		if err != nil {
			return nil, fmt.Errorf("program %s: %w", name, err)
		}
		if len(cmd) == 0 {
			return nil, fmt.Errorf("program %s: empty command", name)
		}
		l.Programs[name] = cmd
	}
	return l, nil
}

// Names returns the program names, sorted.
func (l *Launcher) Names() []string {
	names := make([]string, 0, len(l.Programs))
	for name := range l.Programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *Launcher) Commands() command.Namespace {
	spawn := l.Env.Namespace()["spawn"]
	ns := make(command.Namespace, len(l.Programs))
	for name, cmd := range l.Programs {
		cmd := cmd
		ns[name] = func(args []string) error {
			return spawn(append(append([]string(nil), cmd...), args...))
		}
	}
	return ns
}
