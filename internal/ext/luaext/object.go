package luaext

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/tilestorm/internal/command"
	"github.com/dshills/tilestorm/internal/gadget"
	"github.com/dshills/tilestorm/internal/geom"
	"github.com/dshills/tilestorm/internal/layout"
	"github.com/dshills/tilestorm/internal/widget"
	"github.com/dshills/tilestorm/internal/window"
)

// Object is an instance of a Lua class. It satisfies every extension
// interface; the class capabilities decide which of them it is used as.
type Object struct {
	log   *zap.Logger
	state *State
	class string
	cls   *lua.LTable
	self  *lua.LTable
}

var (
	_ layout.Layout = (*Object)(nil)
	_ widget.Widget = (*Object)(nil)
	_ gadget.Gadget = (*Object)(nil)
)

// Name returns the instance's name field, or the class name.
func (o *Object) Name() string {
	if s, ok := o.state.Field(o.self, "name").(lua.LString); ok {
		return string(s)
	}
	return o.class
}

// Right reports the instance's right field.
func (o *Object) Right() bool {
	return lua.LVAsBool(o.state.Field(o.self, "right"))
}

// Arrange calls arrange(self, area, windows). A script failure or a
// result of the wrong size is logged and every window gets the whole
// area.
func (o *Object) Arrange(area geom.Rect, windows []*window.Window) []geom.Rect {
	if len(windows) == 0 {
		return nil
	}

	L := o.state.L
	o.state.mu.Lock()
	areaT := rectToLua(L, area)
	winsT := L.NewTable()
	for i, w := range windows {
		winsT.RawSetInt(i+1, windowToLua(L, w))
	}
	o.state.mu.Unlock()

	ret, err := o.state.Method(o.self, "arrange", areaT, winsT)
	if err == nil {
		var out []geom.Rect
		out, err = rectsFromLua(ret, len(windows))
		if err == nil {
			return out
		}
	}

	o.log.Warn("layout script failed", zap.Error(err))
	out := make([]geom.Rect, len(windows))
	for i := range out {
		out[i] = area
	}
	return out
}

// Text calls text(self, state). A script failure is logged and renders
// as an empty string.
func (o *Object) Text(st widget.State) string {
	L := o.state.L
	o.state.mu.Lock()
	stT := L.NewTable()
	stT.RawSetString("group", lua.LString(st.Group))
	stT.RawSetString("groups", toLua(L, st.Groups))
	stT.RawSetString("layout", lua.LString(st.Layout))
	stT.RawSetString("title", lua.LString(st.Title))
	stT.RawSetString("time", lua.LNumber(st.Now.Unix()))
	o.state.mu.Unlock()

	ret, err := o.state.Method(o.self, "text", stT)
	if err != nil {
		o.log.Warn("widget script failed", zap.Error(err))
		return ""
	}
	return lua.LVAsString(ret)
}

// Commands wraps the functions of the class's commands table. Each is
// called as fn(self, args...).
func (o *Object) Commands() command.Namespace {
	ns := make(command.Namespace)
	cmds, ok := o.state.Field(o.self, "commands").(*lua.LTable)
	if !ok {
		return ns
	}

	var names []string
	fns := make(map[string]*lua.LFunction)
	o.state.mu.Lock()
	cmds.ForEach(func(k, v lua.LValue) {
		name, ok := k.(lua.LString)
		fn, isFn := v.(*lua.LFunction)
		if ok && isFn {
			names = append(names, string(name))
			fns[string(name)] = fn
		}
	})
	o.state.mu.Unlock()
	sort.Strings(names)

	for _, name := range names {
		fn := fns[name]
		ns[name] = func(args []string) error {
			params := make([]lua.LValue, 0, len(args)+1)
			params = append(params, o.self)
			for _, a := range args {
				params = append(params, lua.LString(a))
			}
			_, err := o.state.Call(fn, params...)
			return err
		}
	}
	return ns
}

func rectToLua(L *lua.LState, r geom.Rect) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("x", lua.LNumber(r.X))
	t.RawSetString("y", lua.LNumber(r.Y))
	t.RawSetString("width", lua.LNumber(r.Width))
	t.RawSetString("height", lua.LNumber(r.Height))
	return t
}

func windowToLua(L *lua.LState, w *window.Window) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LNumber(w.ID))
	t.RawSetString("class", lua.LString(w.Class))
	t.RawSetString("instance", lua.LString(w.Instance))
	t.RawSetString("title", lua.LString(w.Title))
	t.RawSetString("role", lua.LString(w.Role))
	t.RawSetString("props", toLua(L, w.LayoutProps))
	return t
}

func rectsFromLua(v lua.LValue, n int) ([]geom.Rect, error) {
	t, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("arrange returned %s, want table", v.Type())
	}
	if t.Len() != n {
		return nil, fmt.Errorf("arrange returned %d rectangles for %d windows", t.Len(), n)
	}

	out := make([]geom.Rect, n)
	for i := range out {
		r, ok := t.RawGetInt(i + 1).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("rectangle %d is not a table", i+1)
		}
		out[i] = geom.Rect{
			X:      int(lua.LVAsNumber(r.RawGetString("x"))),
			Y:      int(lua.LVAsNumber(r.RawGetString("y"))),
			Width:  int(lua.LVAsNumber(r.RawGetString("width"))),
			Height: int(lua.LVAsNumber(r.RawGetString("height"))),
		}
	}
	return out, nil
}
