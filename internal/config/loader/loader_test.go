package loader

import (
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memFS(files map[string]string) FileSystem {
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return SubFS{FS: m}
}

func load(t *testing.T, fsys FileSystem, path string) (map[string]any, error) {
	t.Helper()
	f, err := New(fsys, path)
	require.NoError(t, err)
	return f.Load()
}

func TestLoad_YAMLStringKeys(t *testing.T) {
	fsys := memFS(map[string]string{"cfg/config.yaml": `
groups:
  1: Tile
  web: examples.Stack
screen-dpi: 120
`})

	config, err := load(t, fsys, "cfg/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"1": "Tile", "web": "examples.Stack"}, config["groups"])
	assert.Equal(t, 120, config["screen-dpi"])
}

func TestLoad_JSONComments(t *testing.T) {
	fsys := memFS(map[string]string{"cfg/config.json": `{
  // bundled theme
  "theme": "dark",
  /* trailing comma follows */
  "auto-restart": true,
}`})

	config, err := load(t, fsys, "cfg/config.json")
	require.NoError(t, err)

	assert.Equal(t, "dark", config["theme"])
	assert.Equal(t, true, config["auto-restart"])
}

func TestLoad_JSONErrorPosition(t *testing.T) {
	fsys := memFS(map[string]string{"cfg/bad.json": "{\n  \"a\": 1,\n  \"b\" 2\n}"})

	_, err := load(t, fsys, "cfg/bad.json")
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "cfg/bad.json", perr.Path)
	assert.Equal(t, 3, perr.Line)
}

func TestLoad_TOML(t *testing.T) {
	fsys := memFS(map[string]string{"cfg/gestures.toml": `
[settings]
commit-distance = 400

["3f-up"]
"=" = "spawn terminal"
`})

	config, err := load(t, fsys, "cfg/gestures.toml")
	require.NoError(t, err)

	settings := config["settings"].(map[string]any)
	assert.Equal(t, int64(400), settings["commit-distance"])
	assert.Equal(t, "spawn terminal", config["3f-up"].(map[string]any)["="])
}

func TestLoad_TOMLErrorPosition(t *testing.T) {
	fsys := memFS(map[string]string{"cfg/config.toml": "theme = \n"})

	_, err := load(t, fsys, "cfg/config.toml")

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Line)
}

func TestDecode(t *testing.T) {
	config, err := Decode("inline.yaml", strings.NewReader("a: b\n"))
	require.NoError(t, err)
	assert.Equal(t, "b", config["a"])
}

func TestMissingFileIsNotAnError(t *testing.T) {
	config, err := load(t, memFS(nil), "nope.yaml")
	require.NoError(t, err)
	assert.Nil(t, config)
}

func TestFind(t *testing.T) {
	fsys := memFS(map[string]string{
		"home/tilestorm/config.toml": "",
		"home/tilestorm/config.json": "{}",
		"etc/tilestorm/config.yaml":  "",
		"etc/tilestorm/rules.yml":    "",
	})
	dirs := []string{"home/tilestorm", "etc/tilestorm"}

	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{name: "config", want: filepath.Join("home/tilestorm", "config.json"), ok: true},
		{name: "rules", want: filepath.Join("etc/tilestorm", "rules.yml"), ok: true},
		{name: "gestures", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Find(fsys, dirs, tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindAndLoad(t *testing.T) {
	fsys := memFS(map[string]string{"d/themes/dark.yaml": "background: '#000'\n"})

	data, path, err := FindAndLoad(fsys, []string{"d"}, "themes/dark")
	require.NoError(t, err)
	assert.Equal(t, "d/themes/dark.yaml", path)
	assert.Equal(t, "#000", data["background"])

	data, path, err = FindAndLoad(fsys, []string{"d"}, "themes/light")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Nil(t, data)
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := New(memFS(nil), "config.ini")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Decode("config.ini", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEnvLoader(t *testing.T) {
	l := NewEnv("TILESTORM_", []string{
		"TILESTORM_SCREEN_DPI=120",
		"TILESTORM_AUTO_RESTART=yes",
		"TILESTORM_THEME=dark",
		"TILESTORM_EMPTY=",
		"HOME=/root",
	})

	config, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"screen-dpi":   120,
		"auto-restart": true,
		"theme":        "dark",
	}, config)
}
