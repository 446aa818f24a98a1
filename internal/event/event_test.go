package event

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dshills/tilestorm/internal/config"
	"github.com/dshills/tilestorm/internal/ewmh"
	"github.com/dshills/tilestorm/internal/ext"
	"github.com/dshills/tilestorm/internal/geom"
	"github.com/dshills/tilestorm/internal/group"
	"github.com/dshills/tilestorm/internal/layout"
	"github.com/dshills/tilestorm/internal/rules"
	"github.com/dshills/tilestorm/internal/screen"
	"github.com/dshills/tilestorm/internal/widget"
	"github.com/dshills/tilestorm/internal/xconn"
	"github.com/dshills/tilestorm/internal/xconn/xconntest"
)

type fakeOwner struct {
	keys  map[xconn.Keycode][]string
	calls [][]string
	err   error
}

func (o *fakeOwner) KeyCommand(ev xconn.KeyPress) ([]string, bool) {
	cmd, ok := o.keys[ev.Detail]
	return cmd, ok
}

func (o *fakeOwner) ButtonCommand(ev xconn.ButtonPress) ([]string, bool) {
	if ev.Detail == 4 {
		return []string{"groups", "prev"}, true
	}
	return nil, false
}

func (o *fakeOwner) Call(tokens []string) error {
	o.calls = append(o.calls, tokens)
	return o.err
}

// titleWidget renders the focused window title.
type titleWidget struct{}

func (titleWidget) Name() string                { return "title" }
func (titleWidget) Right() bool                 { return false }
func (titleWidget) Text(st widget.State) string { return st.Group + ":" + st.Title }

type fixture struct {
	conn   *xconntest.Fake
	groups *group.Manager
	d      *Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := xconntest.New(1000, 600)
	root := conn.Setup().Root

	reg := ext.NewRegistry()
	require.NoError(t, layout.Register(reg))
	mod, _ := reg.Module(layout.Module)
	tile, _ := mod.Lookup("Tile")
	maxCls, _ := mod.Lookup("Max")

	screens := screen.NewManager([]geom.Rect{geom.NewRect(0, 0, 1000, 600)})
	groups, err := group.NewManager(nil, conn, screens, group.Options{Groups: []group.Spec{
		{Name: "main", Layout: group.LayoutSpec{Name: "Tile", Class: tile}},
		{Name: "web", Layout: group.LayoutSpec{Name: "Max", Class: maxCls}},
	}})
	require.NoError(t, err)

	compiled, err := rules.Compile(rules.DefaultRegistry(), []config.Pair{{Key: rules.GlobalSubject, Value: []any{
		map[string]any{"title": "Float me", "float": true},
		map[string]any{"class": "Firefox", "move-to-group": "web"},
	}}})
	require.NoError(t, err)

	d := NewDispatcher(zap.NewNop(), conn, Options{
		Root:       root,
		Groups:     groups,
		Classifier: rules.NewClassifier(nil, compiled),
		Hints:      ewmh.New(conn, root),
		Now:        func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) },
	})
	groups.OnChange(func() { _ = d.Refresh() })
	return &fixture{conn: conn, groups: groups, d: d}
}

func (f *fixture) manage(t *testing.T, id xconn.Window, w xconntest.Window) {
	t.Helper()
	f.conn.AddWindow(id, w)
	require.NoError(t, f.d.Dispatch(xconn.CreateNotify{
		Parent: f.conn.Setup().Root, Window: id, X: 10, Y: 10, Width: 100, Height: 100,
	}))
	require.NoError(t, f.d.Dispatch(xconn.MapRequest{Parent: f.conn.Setup().Root, Window: id}))
}

func (f *fixture) groupOf(t *testing.T, id xconn.Window) string {
	t.Helper()
	w, ok := f.d.Window(id)
	require.True(t, ok)
	g, ok := f.groups.Find(w)
	if !ok {
		return ""
	}
	return g.Name
}

func TestMapRequest_TilesWindow(t *testing.T) {
	f := newFixture(t)
	f.manage(t, 0x10, xconntest.Window{
		Instance: "xterm",
		Class:    "XTerm",
		Strings:  map[string]string{ewmh.WMName: "shell", ewmh.ICCCMRole: "term"},
	})

	assert.Equal(t, clientMask, f.conn.Masks[0x10])
	assert.Equal(t, "main", f.groupOf(t, 0x10))
	assert.Contains(t, f.conn.Mapped, xconn.Window(0x10))
	assert.Equal(t, geom.NewRect(0, 0, 1000, 600), f.conn.Configured[0x10])

	w, _ := f.d.Window(0x10)
	assert.Equal(t, "shell", w.Title)
	assert.Equal(t, "term", w.Role)
	assert.Equal(t, "XTerm", w.Class)
	assert.True(t, w.Mapped)
}

func TestMapRequest_TitleFallsBackToICCCM(t *testing.T) {
	f := newFixture(t)
	f.manage(t, 0x10, xconntest.Window{Strings: map[string]string{ewmh.ICCCMName: "legacy"}})

	w, _ := f.d.Window(0x10)
	assert.Equal(t, "legacy", w.Title)
}

func TestMapRequest_FloatRule(t *testing.T) {
	f := newFixture(t)
	f.manage(t, 0x10, xconntest.Window{Strings: map[string]string{ewmh.WMName: "Float me"}})

	w, _ := f.d.Window(0x10)
	assert.True(t, w.Floating)
	assert.Equal(t, geom.NewRect(10, 10, 100, 100), f.conn.Configured[0x10])
	assert.Contains(t, f.conn.Raised, xconn.Window(0x10))
}

func TestMapRequest_MoveToHiddenGroup(t *testing.T) {
	f := newFixture(t)
	f.manage(t, 0x10, xconntest.Window{Class: "Firefox"})

	assert.Equal(t, "web", f.groupOf(t, 0x10))
	assert.NotContains(t, f.conn.Mapped, xconn.Window(0x10))

	require.NoError(t, f.groups.Switch("web"))
	assert.Contains(t, f.conn.Mapped, xconn.Window(0x10))
}

func TestMapRequest_WithoutCreate(t *testing.T) {
	f := newFixture(t)
	f.conn.AddWindow(0x10, xconntest.Window{Geometry: xconn.Geometry{X: 5, Y: 5, Width: 50, Height: 50}})

	require.NoError(t, f.d.Dispatch(xconn.MapRequest{Window: 0x10}))
	assert.True(t, f.d.Known(0x10))
	assert.Equal(t, "main", f.groupOf(t, 0x10))
}

func TestCreate_IgnoresOverrideRedirect(t *testing.T) {
	f := newFixture(t)
	f.conn.AddWindow(0x10, xconntest.Window{})

	require.NoError(t, f.d.Dispatch(xconn.CreateNotify{Window: 0x10, OverrideRedirect: true}))
	assert.True(t, f.d.Known(0x10))
	assert.NotContains(t, f.conn.Masks, xconn.Window(0x10))

	require.NoError(t, f.d.Dispatch(xconn.MapNotify{Window: 0x10, OverrideRedirect: true}))
	w, _ := f.d.Window(0x10)
	assert.True(t, w.Mapped)
}

func TestUnmap_HiddenGroupKeepsWindow(t *testing.T) {
	f := newFixture(t)
	f.manage(t, 0x10, xconntest.Window{})

	require.NoError(t, f.groups.Switch("web"))
	require.Contains(t, f.conn.Unmapped, xconn.Window(0x10))

	// The unmap caused by hiding the group.
	require.NoError(t, f.d.Dispatch(xconn.UnmapNotify{Window: 0x10}))
	assert.Equal(t, "main", f.groupOf(t, 0x10))

	// A later unmap is the client withdrawing.
	require.NoError(t, f.d.Dispatch(xconn.UnmapNotify{Window: 0x10}))
	assert.Equal(t, "", f.groupOf(t, 0x10))
	assert.True(t, f.d.Known(0x10))
}

func TestDestroy(t *testing.T) {
	f := newFixture(t)
	f.manage(t, 0x10, xconntest.Window{})
	f.manage(t, 0x11, xconntest.Window{})
	assert.Equal(t, geom.NewRect(500, 0, 500, 600), f.conn.Configured[0x11])

	require.NoError(t, f.d.Dispatch(xconn.DestroyNotify{Window: 0x10}))
	assert.False(t, f.d.Known(0x10))
	assert.Equal(t, 1, f.d.Len())
	assert.Equal(t, geom.NewRect(0, 0, 1000, 600), f.conn.Configured[0x11])

	assert.NoError(t, f.d.Dispatch(xconn.DestroyNotify{Window: 0x99}))
}

func TestConfigureRequest(t *testing.T) {
	f := newFixture(t)

	// Unknown windows get what they ask for.
	f.conn.AddWindow(0x20, xconntest.Window{})
	require.NoError(t, f.d.Dispatch(xconn.ConfigureRequest{
		Window: 0x20, X: 1, Y: 2, Width: 30, Height: 40,
		ValueMask: xconn.ConfigX | xconn.ConfigY | xconn.ConfigWidth | xconn.ConfigHeight,
	}))
	assert.Equal(t, geom.NewRect(1, 2, 30, 40), f.conn.Configured[0x20])

	// Tiled windows stay where the layout put them.
	f.manage(t, 0x10, xconntest.Window{})
	require.NoError(t, f.d.Dispatch(xconn.ConfigureRequest{Window: 0x10, Width: 30, ValueMask: xconn.ConfigWidth}))
	assert.Equal(t, geom.NewRect(0, 0, 1000, 600), f.conn.Configured[0x10])

	// Floating windows may move.
	f.manage(t, 0x11, xconntest.Window{Strings: map[string]string{ewmh.WMName: "Float me"}})
	require.NoError(t, f.d.Dispatch(xconn.ConfigureRequest{Window: 0x11, X: 200, ValueMask: xconn.ConfigX}))
	assert.Equal(t, geom.NewRect(200, 10, 100, 100), f.conn.Configured[0x11])
}

func TestKeyPress(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.d.Dispatch(xconn.KeyPress{Detail: 36}), ErrNoOwner)

	owner := &fakeOwner{keys: map[xconn.Keycode][]string{36: {"env", "shell", "xterm"}}}
	f.d.SetOwner(owner)

	require.NoError(t, f.d.Dispatch(xconn.KeyPress{Detail: 36, State: xconn.Mod4}))
	require.NoError(t, f.d.Dispatch(xconn.KeyPress{Detail: 37}))
	assert.Equal(t, [][]string{{"env", "shell", "xterm"}}, owner.calls)

	boom := errors.New("boom")
	owner.err = boom
	assert.ErrorIs(t, f.d.Dispatch(xconn.KeyPress{Detail: 36}), boom)
}

func TestButtonPress(t *testing.T) {
	f := newFixture(t)
	owner := &fakeOwner{}
	f.d.SetOwner(owner)

	require.NoError(t, f.d.Dispatch(xconn.ButtonPress{Detail: 4}))
	require.NoError(t, f.d.Dispatch(xconn.ButtonPress{Detail: 1}))
	assert.Equal(t, [][]string{{"groups", "prev"}}, owner.calls)
}

func TestEnterFocusesAndRedrawsBars(t *testing.T) {
	f := newFixture(t)
	bar := widget.NewBar(0, screen.Top, 20, []widget.Widget{titleWidget{}})
	require.NoError(t, bar.Create(f.conn, geom.NewRect(0, 0, 1000, 20)))
	f.d.AddBar(bar)

	f.manage(t, 0x10, xconntest.Window{Strings: map[string]string{ewmh.WMName: "shell"}})
	require.NoError(t, f.d.Dispatch(xconn.EnterNotify{Window: 0x10}))

	assert.Equal(t, xconn.Window(0x10), f.conn.Focused)
	assert.Equal(t, []xconn.Window{0x10}, f.conn.Property(ewmh.ActiveWindow))
	assert.Equal(t, []string{"main:shell"}, f.conn.Property(widget.NameProperty))

	// Title changes of the focused window reach the bar.
	f.conn.AddWindow(0x10, xconntest.Window{Strings: map[string]string{ewmh.WMName: "vim"}})
	require.NoError(t, f.d.Dispatch(xconn.PropertyNotify{Window: 0x10, Atom: ewmh.WMName}))
	assert.Equal(t, []string{"main:vim"}, f.conn.Property(widget.NameProperty))

	// Bar windows are never managed.
	require.NoError(t, f.d.Dispatch(xconn.CreateNotify{Window: bar.Window}))
	assert.False(t, f.d.Known(bar.Window))

	// Destroying the focused window clears the active window.
	require.NoError(t, f.d.Dispatch(xconn.DestroyNotify{Window: 0x10}))
	assert.Equal(t, []xconn.Window{0}, f.conn.Property(ewmh.ActiveWindow))
	assert.Equal(t, []string{"main:"}, f.conn.Property(widget.NameProperty))
}

func TestRefreshPublishesDesktops(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.groups.Switch("web"))

	assert.Equal(t, []uint32{2}, f.conn.Property(ewmh.NumberOfDesktops))
	assert.Equal(t, []string{"main", "web"}, f.conn.Property(ewmh.DesktopNames))
	assert.Equal(t, []uint32{1}, f.conn.Property(ewmh.CurrentDesktop))
}

func TestUnknownEventIgnored(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.d.Dispatch(xconn.Unknown{Kind: "Expose"}))
}
