package gadget

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/tilestorm/internal/command"
	"github.com/dshills/tilestorm/internal/ext"
)

func launcherClass(t *testing.T) *ext.Class {
	t.Helper()
	reg := ext.NewRegistry()
	require.NoError(t, Register(reg))
	m, ok := reg.Module(Module)
	require.True(t, ok)
	cls, ok := m.Lookup("Launcher")
	require.True(t, ok)
	return cls
}

func TestLauncher(t *testing.T) {
	g, err := New(launcherClass(t), ext.Args{"programs": map[string]any{
		"term": "xterm",
		"web":  "firefox --new-window",
	}})
	require.NoError(t, err)

	l := g.(*Launcher)
	var started [][]string
	l.Env.Start = func(cmd *exec.Cmd) error {
		started = append(started, cmd.Args)
		return nil
	}
	assert.Equal(t, []string{"term", "web"}, l.Names())

	d := command.NewDispatcher()
	d.RegisterNamespace("apps", g.Commands())
	require.NoError(t, d.Call([]string{"apps", "web", "example.org"}))
	require.NoError(t, d.Call([]string{"apps", "term"}))

	assert.Equal(t, [][]string{
		{"firefox", "--new-window", "example.org"},
		{"xterm"},
	}, started)
	assert.Equal(t, []string{"firefox", "--new-window"}, l.Programs["web"])
}

func TestLauncher_BadArgs(t *testing.T) {
	cls := launcherClass(t)

	_, err := New(cls, ext.Args{"programs": []any{"xterm"}})
	assert.Error(t, err)
	_, err = New(cls, ext.Args{"programs": map[string]any{"x": ""}})
	assert.Error(t, err)

	g, err := New(cls, nil)
	require.NoError(t, err)
	assert.Empty(t, g.Commands())
}
