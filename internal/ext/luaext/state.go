package luaext

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// ErrStateClosed is returned when operating on a closed state.
var ErrStateClosed = errors.New("lua state is closed")

// State wraps one gopher-lua interpreter. All classes of a module share
// the state the module was loaded into.
type State struct {
	L *lua.LState

	mu     sync.Mutex
	closed bool
}

// NewState creates a state with the base, table, string and math
// libraries.
func NewState() *State {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	return &State{L: L}
}

// DoFile runs a Lua file and returns its first return value.
func (s *State) DoFile(path string) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil, ErrStateClosed
	}

	var ret lua.LValue = lua.LNil
	err := doWithRecovery(func() error {
		fn, err := s.L.LoadFile(path)
		if err != nil {
			return err
		}
		s.L.Push(fn)
		if err := s.L.PCall(0, 1, nil); err != nil {
			return err
		}
		ret = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	return ret, err
}

// Method calls the function stored under name in self, passing self as
// the first argument, and returns its first result.
func (s *State) Method(self *lua.LTable, name string, args ...lua.LValue) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil, ErrStateClosed
	}

	var ret lua.LValue = lua.LNil
	err := doWithRecovery(func() error {
		fn, ok := s.L.GetField(self, name).(*lua.LFunction)
		if !ok {
			return fmt.Errorf("%q is not a function", name)
		}
		return s.call(fn, &ret, append([]lua.LValue{self}, args...)...)
	})
	return ret, err
}

// Call calls fn and returns its first result.
func (s *State) Call(fn *lua.LFunction, args ...lua.LValue) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil, ErrStateClosed
	}

	var ret lua.LValue = lua.LNil
	err := doWithRecovery(func() error {
		return s.call(fn, &ret, args...)
	})
	return ret, err
}

func (s *State) call(fn *lua.LFunction, ret *lua.LValue, args ...lua.LValue) error {
	if err := s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return err
	}
	*ret = s.L.Get(-1)
	s.L.Pop(1)
	return nil
}

// Field reads a field of t, honoring metatables.
func (s *State) Field(t *lua.LTable, name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return lua.LNil
	}
	return s.L.GetField(t, name)
}

// Close releases the interpreter.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}

func doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}
