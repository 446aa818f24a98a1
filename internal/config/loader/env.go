package loader

import (
	"strconv"
	"strings"
)

// Env reads top-level settings of the main document from environment
// variables: with prefix TILESTORM_, TILESTORM_SCREEN_DPI=120 becomes
// `screen-dpi: 120`. Empty values count as unset.
type Env struct {
	Prefix  string
	Environ []string
}

// NewEnv returns an Env over environ, typically os.Environ().
func NewEnv(prefix string, environ []string) *Env {
	return &Env{Prefix: prefix, Environ: environ}
}

// Load implements Loader. It never fails.
func (e *Env) Load() (map[string]any, error) {
	tree := map[string]any{}
	for _, kv := range e.Environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" {
			continue
		}
		key, ok := strings.CutPrefix(name, e.Prefix)
		if !ok || key == "" {
			continue
		}
		key = strings.ReplaceAll(strings.ToLower(key), "_", "-")
		tree[key] = scalar(value)
	}
	return tree, nil
}

// scalar types an environment value: booleans, then integers, then
// decimals; anything else stays a string.
func scalar(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
