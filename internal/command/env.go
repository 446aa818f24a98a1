package command

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// Starter starts a prepared process without waiting for it.
type Starter func(cmd *exec.Cmd) error

// Env is the "env" namespace: it launches programs detached from the
// window manager's session. Exited children are reaped by the SIGCHLD
// handler.
type Env struct {
	Shell string
	Start Starter
}

// NewEnv creates the env namespace with the default shell and starter.
func NewEnv() *Env {
	return &Env{Shell: "/bin/sh", Start: startDetached}
}

// Namespace returns the env commands.
func (e *Env) Namespace() Namespace {
	return Namespace{
		"shell":  e.shell,
		"spawn":  e.spawn,
		"setenv": e.setenv,
	}
}

// shell runs its arguments as one shell command line.
func (e *Env) shell(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: shell needs a command line", ErrArguments)
	}
	return e.Start(exec.Command(e.Shell, "-c", strings.Join(args, " ")))
}

// spawn runs a program directly.
func (e *Env) spawn(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: spawn needs a program", ErrArguments)
	}
	return e.Start(exec.Command(args[0], args[1:]...))
}

func (e *Env) setenv(args []string) error {
	if err := ExpectArgs(args, 2); err != nil {
		return err
	}
	return os.Setenv(args[0], args[1])
}

func startDetached(cmd *exec.Cmd) error {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Path, err)
	}
	return nil
}
