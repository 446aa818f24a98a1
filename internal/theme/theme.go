// Package theme holds the merged visual settings.
package theme

import (
	"github.com/dshills/tilestorm/internal/config/layer"
)

// Defaults returns the built-in theme.
func Defaults() map[string]any {
	return map[string]any{
		"border": map[string]any{
			"width":    2,
			"active":   "#4c7899",
			"inactive": "#333333",
		},
		"bar": map[string]any{
			"height":     20,
			"background": "#000000",
			"foreground": "#ffffff",
			"font":       "monospace 10",
		},
	}
}

// Theme is a read-only tree of theme settings.
type Theme struct {
	data map[string]any
}

// New merges sources over the built-in defaults, each source overriding
// the previous one key by key at every nesting level.
func New(sources ...map[string]any) *Theme {
	data := Defaults()
	for _, src := range sources {
		data = layer.DeepMerge(data, src)
	}
	return &Theme{data: data}
}

// Get returns the value at a dot-separated path.
func (t *Theme) Get(path string) (any, bool) {
	return layer.Lookup(t.data, path)
}

// Int returns an integer setting or def.
func (t *Theme) Int(path string, def int) int {
	v, ok := t.Get(path)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return def
}

// String returns a string setting or def.
func (t *Theme) String(path, def string) string {
	v, _ := t.Get(path)
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

// BorderWidth is the window border width.
func (t *Theme) BorderWidth() int { return t.Int("border.width", 2) }

// BarHeight is the height of status bars.
func (t *Theme) BarHeight() int { return t.Int("bar.height", 20) }
