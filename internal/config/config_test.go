package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/tilestorm/internal/config/layer"
	"github.com/dshills/tilestorm/internal/config/loader"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func load(t *testing.T, opts ...Option) *Config {
	t.Helper()
	opts = append([]Option{WithEnviron([]string{})}, opts...)
	c := New(opts...)
	require.NoError(t, c.Load(context.Background()))
	return c
}

func TestLoad_DefaultsOnly(t *testing.T) {
	c := load(t, WithConfigDirs(t.TempDir()))

	dpi, err := c.GetInt("screen-dpi")
	require.NoError(t, err)
	assert.Equal(t, 96, dpi)
	assert.True(t, c.AutoScreenConfiguration())
	assert.False(t, c.AutoRestart())
	assert.Equal(t, "defaults", c.Source("screen-dpi"))

	_, ok, err := c.Groups()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoad_FirstDirectoryWins(t *testing.T) {
	home, etc := t.TempDir(), t.TempDir()
	writeFile(t, home, "config.yaml", "screen-dpi: 120\n")
	writeFile(t, etc, "config.yaml", "screen-dpi: 144\nauto-restart: true\n")

	c := load(t, WithConfigDirs(home, etc))

	dpi, err := c.GetInt("screen-dpi")
	require.NoError(t, err)
	assert.Equal(t, 120, dpi)
	assert.False(t, c.AutoRestart(), "only the first file found is read")
	assert.True(t, c.AutoScreenConfiguration(), "defaults still apply to missing keys")
	assert.Equal(t, "file", c.Source("screen-dpi"))
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.toml", "screen-dpi = 120\n")

	c := New(WithConfigDirs(dir), WithEnviron([]string{"TILESTORM_SCREEN_DPI=200"}))
	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, 200, c.ScreenDPI())
	assert.Equal(t, "environment", c.Source("screen-dpi"))
}

func TestLoad_ParseErrorIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rules.json", "{ \"global\": [ }")

	c := New(WithConfigDirs(dir), WithEnviron([]string{}))
	err := c.Load(context.Background())

	var perr *loader.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, filepath.Join(dir, "rules.json"), perr.Path)
}

func TestDocument_FallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "hotkeys.yaml", "<W-x>: env shell xterm\n")

	c := load(t, WithConfigDirs(dir))

	hk, err := c.Document(DocHotkeys)
	require.NoError(t, err)
	assert.Equal(t, layer.SourceFile, hk.Source)

	rules, err := c.Document(DocRules)
	require.NoError(t, err)
	assert.Equal(t, layer.SourceBuiltin, rules.Source)
	assert.Contains(t, rules.Data, "global")
}

func TestDocument_BeforeLoad(t *testing.T) {
	_, err := New().Document(DocRules)
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestTypedGetters(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
theme: dark
extra_layouts: [Max, Stack]
auto-restart: "yes"
`)
	c := load(t, WithConfigDirs(dir))

	s, err := c.GetString("theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", s)

	_, err = c.GetInt("theme")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = c.GetBool("auto-restart")
	var terr *TypeError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "string", terr.Actual)

	_, err = c.GetString("missing")
	assert.ErrorIs(t, err, ErrSettingNotFound)

	layouts, err := c.ExtraLayouts()
	require.NoError(t, err)
	assert.Equal(t, []string{"Max", "Stack"}, layouts)
}

func TestWithDefaults(t *testing.T) {
	defaults := fstest.MapFS{
		"config.yaml": {Data: []byte("screen-dpi: 72\n")},
	}
	c := load(t, WithConfigDirs(t.TempDir()), WithDefaults(defaults))

	assert.Equal(t, 72, c.ScreenDPI())
	assert.Equal(t, []string{"screen-dpi"}, c.Keys())
}

func TestExpandDirs(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got := ExpandDirs([]string{"~/cfg", "/etc/tilestorm/", "/etc/tilestorm"})
	assert.Equal(t, []string{filepath.Join(home, "cfg"), "/etc/tilestorm"}, got)
}
