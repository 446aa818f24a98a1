package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	cli, err := parseFlags([]string{"--display", ":1", "-c", "/etc/tilestorm", "--config-dir", "~/wm", "--log-level", "debug", "-d"})
	require.NoError(t, err)
	assert.Equal(t, ":1", cli.display)
	assert.Equal(t, []string{"/etc/tilestorm", "~/wm"}, cli.configDirs)
	assert.Equal(t, "debug", cli.logLevel)
	assert.True(t, cli.debug)
	assert.False(t, cli.version)
}

func TestParseFlags_Defaults(t *testing.T) {
	cli, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "info", cli.logLevel)
	assert.Empty(t, cli.configDirs)
}

func TestParseFlags_LevelAliases(t *testing.T) {
	for _, level := range []string{"warning", "WARN", "Error"} {
		cli, err := parseFlags([]string{"--log-level", level})
		require.NoError(t, err, level)
		assert.Equal(t, level, cli.logLevel)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad level", []string{"--log-level", "loud"}},
		{"positional", []string{"extra"}},
		{"unknown flag", []string{"--nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestParseFlags_Help(t *testing.T) {
	_, err := parseFlags([]string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestRun_Version(t *testing.T) {
	assert.Equal(t, 0, run([]string{"--version"}))
}
