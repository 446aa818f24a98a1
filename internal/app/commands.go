package app

import (
	"github.com/dshills/tilestorm/internal/command"
)

// wmNamespace is the "wm" command namespace.
func (a *Application) wmNamespace() command.Namespace {
	return command.Namespace{
		"restart": func([]string) error {
			a.Request(ControlRestart)
			return nil
		},
		"quit": func([]string) error {
			a.Request(ControlQuit)
			return nil
		},
		"reload-hint": func([]string) error {
			a.log.Info("configuration is read at startup; run \"wm restart\" to apply changes")
			return nil
		},
	}
}
