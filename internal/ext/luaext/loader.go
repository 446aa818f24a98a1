package luaext

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/dshills/tilestorm/internal/ext"
)

// Extension is the file extension of Lua modules.
const Extension = ".lua"

// ErrNotModule is returned when a Lua file does not return a table.
var ErrNotModule = errors.New("lua file did not return a module table")

// Loader loads Lua modules. It implements ext.ModuleLoader.
type Loader struct {
	log *zap.Logger

	mu     sync.Mutex
	states []*State
}

// NewLoader creates a loader. Script errors at call time are logged to
// log.
func NewLoader(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log}
}

// Extension implements ext.ModuleLoader.
func (l *Loader) Extension() string { return Extension }

// LoadModule runs the file at path in a fresh state and turns every table
// in its return value into a class.
func (l *Loader) LoadModule(name, path string) (*ext.Module, error) {
	s := NewState()

	ret, err := s.DoFile(path)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("running %s: %w", path, err)
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		s.Close()
		return nil, fmt.Errorf("%w: %s returned %s", ErrNotModule, path, ret.Type())
	}

	m := ext.NewModule(name)
	tbl.ForEach(func(k, v lua.LValue) {
		cname, ok := k.(lua.LString)
		if !ok {
			return
		}
		cls, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		m.Add(&ext.Class{
			Name:     string(cname),
			Provides: capabilities(cls),
			New:      l.factory(s, string(cname), cls),
		})
	})

	l.mu.Lock()
	l.states = append(l.states, s)
	l.mu.Unlock()
	return m, nil
}

// Close releases the states of all loaded modules.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var err error
	for _, s := range l.states {
		err = multierr.Append(err, s.Close())
	}
	l.states = nil
	return err
}

func capabilities(cls *lua.LTable) ext.Capability {
	var c ext.Capability
	if _, ok := cls.RawGetString("arrange").(*lua.LFunction); ok {
		c |= ext.CapLayout
	}
	if _, ok := cls.RawGetString("text").(*lua.LFunction); ok {
		c |= ext.CapWidget
	}
	if _, ok := cls.RawGetString("commands").(*lua.LTable); ok {
		c |= ext.CapGadget
	}
	return c
}

func (l *Loader) factory(s *State, name string, cls *lua.LTable) ext.Factory {
	return func(args ext.Args) (any, error) {
		self, err := instantiate(s, cls, args)
		if err != nil {
			return nil, fmt.Errorf("instantiating %s: %w", name, err)
		}
		return &Object{
			log:   l.log.With(zap.String("class", name)),
			state: s,
			class: name,
			cls:   cls,
			self:  self,
		}, nil
	}
}

func instantiate(s *State, cls *lua.LTable, args ext.Args) (*lua.LTable, error) {
	self, err := s.newInstance(cls, args)
	if err != nil {
		return nil, err
	}
	if _, ok := cls.RawGetString("init").(*lua.LFunction); ok {
		if _, err := s.Method(self, "init"); err != nil {
			return nil, err
		}
	}
	return self, nil
}

// newInstance builds a table holding args whose metatable indexes cls.
func (s *State) newInstance(cls *lua.LTable, args ext.Args) (*lua.LTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStateClosed
	}

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var self *lua.LTable
	err := doWithRecovery(func() error {
		self = s.L.NewTable()
		for _, k := range keys {
			self.RawSetString(k, toLua(s.L, args[k]))
		}
		mt := s.L.NewTable()
		mt.RawSetString("__index", cls)
		s.L.SetMetatable(self, mt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return self, nil
}
