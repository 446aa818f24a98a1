package config

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/tilestorm/internal/config/layer"
	"github.com/dshills/tilestorm/internal/config/loader"
	"github.com/dshills/tilestorm/internal/config/watcher"
)

//go:embed defaults
var embedded embed.FS

// Document names looked up on the search path.
const (
	DocConfig         = "config"
	DocHotkeys        = "hotkeys"
	DocRules          = "rules"
	DocGestures       = "gestures"
	DocBars           = "bars"
	DocGadgets        = "gadgets"
	DocThemeCustomize = "theme-customize"
	docThemePrefix    = "themes/"
)

// EnvPrefix is the prefix of environment variables overriding top-level
// settings of the main document.
const EnvPrefix = "TILESTORM_"

// Document is a loaded section document.
type Document struct {
	// Name is the document name, e.g. "rules" or "themes/dark".
	Name string
	// Source tells whether the data came from a file or the defaults.
	Source layer.Source
	// Path is the file the data was read from.
	Path string
	// Data is the decoded document. It is empty, never nil, when the
	// document exists nowhere.
	Data map[string]any
}

// Config is the loaded configuration tree.
type Config struct {
	mu sync.RWMutex

	fs       loader.FileSystem
	dirs     []string
	defaults loader.FileSystem
	environ  []string
	log      *zap.Logger

	layers *layer.Stack
	data   map[string]any
	docs   map[string]*Document
	loaded bool
}

// Option configures a Config instance.
type Option func(*Config)

// WithConfigDirs replaces the XDG search path. Each directory is the
// tilestorm directory itself (holding config.yaml), searched in order.
func WithConfigDirs(dirs ...string) Option {
	return func(c *Config) {
		c.dirs = ExpandDirs(dirs)
	}
}

// WithFS sets the file system used for the search path.
func WithFS(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// WithDefaults replaces the embedded default documents.
func WithDefaults(fsys fs.FS) Option {
	return func(c *Config) {
		c.defaults = loader.SubFS{FS: fsys}
	}
}

// WithEnviron sets the environment scanned for TILESTORM_* overrides.
func WithEnviron(environ []string) Option {
	return func(c *Config) {
		c.environ = environ
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Config) {
		c.log = log
	}
}

// New creates a new Config instance with the given options.
func New(opts ...Option) *Config {
	c := &Config{
		fs:  loader.DefaultFS(),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.dirs == nil {
		c.dirs = DefaultDirs()
	}
	if c.defaults == nil {
		sub, err := fs.Sub(embedded, "defaults")
		if err != nil {
			panic(fmt.Sprintf("config: embedded defaults: %v", err))
		}
		c.defaults = loader.SubFS{FS: sub}
	}
	if c.environ == nil {
		c.environ = os.Environ()
	}
	return c
}

// Load reads the main document and every section document. Parse errors
// are returned as *loader.ParseError.
func (c *Config) Load(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.layers = layer.NewStack(layer.Shadow)
	c.docs = make(map[string]*Document)

	defaults, _, err := loader.FindAndLoad(c.defaults, []string{"."}, DocConfig)
	if err != nil {
		return fmt.Errorf("loading default config: %w", err)
	}
	c.layers.Push(layer.NewLayer("defaults", layer.SourceBuiltin, defaults))

	primary, path, err := loader.FindAndLoad(c.fs, c.dirs, DocConfig)
	if err != nil {
		return err
	}
	if path != "" {
		l := layer.NewLayer("file", layer.SourceFile, primary)
		l.Path = path
		c.layers.Push(l)
		c.log.Info("loaded config", zap.String("path", path))
	} else {
		c.log.Info("no config file found, using defaults", zap.Strings("dirs", c.dirs))
	}

	env, err := loader.NewEnv(EnvPrefix, c.environ).Load()
	if err != nil {
		return err
	}
	if len(env) > 0 {
		c.layers.Push(layer.NewLayer("environment", layer.SourceEnv, env))
	}

	c.data = c.layers.Merge()

	names := []string{DocHotkeys, DocRules, DocGestures, DocBars, DocGadgets, DocThemeCustomize}
	if theme, ok := c.data["theme"].(string); ok && theme != "" {
		names = append(names, docThemePrefix+theme)
	}
	for _, name := range names {
		doc, err := c.loadDocument(name)
		if err != nil {
			return err
		}
		c.docs[name] = doc
	}

	c.loaded = true
	return nil
}

// loadDocument finds name on the search path, then in the defaults.
func (c *Config) loadDocument(name string) (*Document, error) {
	data, path, err := loader.FindAndLoad(c.fs, c.dirs, name)
	if err != nil {
		return nil, err
	}
	if path != "" {
		c.log.Debug("loaded document", zap.String("name", name), zap.String("path", path))
		return &Document{Name: name, Source: layer.SourceFile, Path: path, Data: data}, nil
	}

	data, path, err = loader.FindAndLoad(c.defaults, []string{"."}, name)
	if err != nil {
		return nil, fmt.Errorf("loading default %s: %w", name, err)
	}
	if data == nil {
		data = make(map[string]any)
	}
	return &Document{Name: name, Source: layer.SourceBuiltin, Path: path, Data: data}, nil
}

// Dirs returns the configuration search path.
func (c *Config) Dirs() []string {
	return append([]string(nil), c.dirs...)
}

// Data returns a copy of the merged main document.
func (c *Config) Data() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.layers == nil {
		return map[string]any{}
	}
	return c.layers.Merge()
}

// Document returns a section document loaded by Load.
func (c *Config) Document(name string) (*Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.loaded {
		return nil, ErrNotLoaded
	}
	doc, ok := c.docs[name]
	if !ok {
		return &Document{Name: name, Source: layer.SourceBuiltin, Data: map[string]any{}}, nil
	}
	return doc, nil
}

// Source returns the name of the layer providing a top-level setting.
func (c *Config) Source(path string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.layers == nil {
		return ""
	}
	l, ok := c.layers.Origin(path)
	if !ok {
		return ""
	}
	return l.Name
}

// Get returns the value at the given path from the main document.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return layer.Lookup(c.data, path)
}

// Has reports whether the main document defines path.
func (c *Config) Has(path string) bool {
	_, ok := c.Get(path)
	return ok
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	n, ok := toInt(v)
	if !ok {
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
	return n, nil
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetStringSlice returns a string slice at the given path.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	out, ok := toStrings(v)
	if !ok {
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
	return out, nil
}

// Watch starts a watcher over the search path reporting changes to
// configuration documents and script extensions. The caller stops it.
func (c *Config) Watch(ctx context.Context, onChange watcher.Handler) (*watcher.Watcher, error) {
	exts := append([]string{".lua"}, loader.Extensions...)
	w, err := watcher.New(
		watcher.WithExtensions(exts...),
		watcher.WithErrorHandler(func(err error) {
			c.log.Warn("config watcher error", zap.Error(err))
		}),
	)
	if err != nil {
		return nil, err
	}

	for _, dir := range c.dirs {
		for _, d := range []string{dir, filepath.Join(dir, "ext"), filepath.Join(dir, "themes")} {
			if _, err := w.Add(d); err != nil {
				c.log.Warn("cannot watch directory", zap.String("dir", d), zap.Error(err))
			}
		}
	}
	w.OnChange(onChange)
	w.Start(ctx)
	return w, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func toStrings(v any) ([]string, bool) {
	switch val := v.(type) {
	case []string:
		return val, true
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}
