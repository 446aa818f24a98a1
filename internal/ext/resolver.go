package ext

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ModuleLoader loads script modules from files.
type ModuleLoader interface {
	// Extension is the file extension handled, including the dot.
	Extension() string
	// LoadModule loads the module called name from path.
	LoadModule(name, path string) (*Module, error)
}

// Resolver resolves class names against the search path and the
// registry of bundled modules.
type Resolver struct {
	log      *zap.Logger
	registry *Registry
	loaders  []ModuleLoader
	path     *SearchPath

	mu     sync.Mutex
	loaded map[string]*Module // nil entries record modules not found
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger for resolution warnings.
func WithLogger(log *zap.Logger) Option {
	return func(r *Resolver) {
		r.log = log
	}
}

// WithLoader adds a script module loader.
func WithLoader(l ModuleLoader) Option {
	return func(r *Resolver) {
		r.loaders = append(r.loaders, l)
	}
}

// WithSearchPath sets the script module search path.
func WithSearchPath(p *SearchPath) Option {
	return func(r *Resolver) {
		r.path = p
	}
}

// NewResolver creates a resolver over the bundled modules in registry.
func NewResolver(registry *Registry, opts ...Option) *Resolver {
	r := &Resolver{
		log:      zap.NewNop(),
		registry: registry,
		path:     NewSearchPath(nil, ""),
		loaded:   make(map[string]*Module),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SearchPath returns the script module search path.
func (r *Resolver) SearchPath() *SearchPath {
	return r.path
}

// Resolve returns the class called name, or fallback.
//
// A dotted name "module.Class" is looked up in that module only. A plain
// name is looked up in moduleName, then in defaultModule. The class must
// provide want. Every failure is logged and yields fallback, which may be
// nil.
func (r *Resolver) Resolve(name, moduleName, defaultModule string, want Capability, fallback *Class) (res *Class) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Warn("class resolution failed",
				zap.String("class", name),
				zap.String("panic", fmt.Sprint(p)))
			res = fallback
		}
	}()

	cls, ok := r.lookup(name, moduleName, defaultModule)
	if !ok {
		return fallback
	}
	if !cls.Has(want) {
		r.log.Warn("class has the wrong capability",
			zap.String("class", cls.String()),
			zap.Stringer("want", want),
			zap.Stringer("provides", cls.Provides))
		return fallback
	}
	return cls
}

func (r *Resolver) lookup(name, moduleName, defaultModule string) (*Class, bool) {
	if module, cname, dotted := strings.Cut(name, "."); dotted {
		if module == "" || cname == "" {
			r.log.Warn("malformed class name", zap.String("class", name))
			return nil, false
		}
		m, ok := r.Module(module)
		if !ok {
			r.log.Warn("class is not available",
				zap.String("class", name),
				zap.String("reason", "module not found"))
			return nil, false
		}
		cls, ok := m.Lookup(cname)
		if !ok {
			r.log.Warn("class is not available",
				zap.String("class", name),
				zap.String("reason", "no such class in module"))
			return nil, false
		}
		return cls, true
	}

	if name == "" {
		r.log.Warn("malformed class name", zap.String("class", name))
		return nil, false
	}

	if moduleName != "" {
		if m, ok := r.Module(moduleName); ok {
			if cls, ok := m.Lookup(name); ok {
				return cls, true
			}
		}
	}
	// The default module is always the bundled one, even when a script
	// module of the same name is on the search path.
	if defaultModule != "" {
		if m, ok := r.registry.Module(defaultModule); ok {
			if cls, ok := m.Lookup(name); ok {
				return cls, true
			}
		}
	}

	r.log.Warn("class is not available",
		zap.String("class", name),
		zap.String("module", moduleName),
		zap.String("default_module", defaultModule))
	return nil, false
}

// Module returns the module called name. The search path is consulted
// first; the first directory holding a loadable file wins. Otherwise the
// bundled registry is used. Results are cached.
func (r *Resolver) Module(name string) (*Module, bool) {
	r.mu.Lock()
	m, cached := r.loaded[name]
	r.mu.Unlock()

	if !cached {
		m = r.loadFromPath(name)
		r.mu.Lock()
		r.loaded[name] = m
		r.mu.Unlock()
	}
	if m != nil {
		return m, true
	}
	return r.registry.Module(name)
}

func (r *Resolver) loadFromPath(name string) *Module {
	if len(r.loaders) == 0 {
		return nil
	}
	if !validModuleName(name) {
		r.log.Warn("invalid module name", zap.String("module", name))
		return nil
	}

	for _, dir := range r.path.Dirs() {
		for _, l := range r.loaders {
			path := filepath.Join(dir, name+l.Extension())
			if info, err := os.Stat(path); err != nil || info.IsDir() {
				continue
			}

			m, err := r.safeLoad(l, name, path)
			if err != nil {
				r.log.Warn("cannot load extension module",
					zap.String("module", name),
					zap.String("path", path),
					zap.Error(err))
				continue
			}
			r.log.Debug("loaded extension module",
				zap.String("module", name),
				zap.String("path", path),
				zap.Strings("classes", m.Names()))
			return m
		}
	}
	return nil
}

func (r *Resolver) safeLoad(l ModuleLoader, name, path string) (m *Module, err error) {
	defer func() {
		if p := recover(); p != nil {
			m, err = nil, fmt.Errorf("loader panic: %v", p)
		}
	}()
	m, err = l.LoadModule(name, path)
	if err == nil && m == nil {
		err = fmt.Errorf("loader returned no module")
	}
	return m, err
}

func validModuleName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
