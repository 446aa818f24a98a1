package group

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/dshills/tilestorm/internal/command"
	"github.com/dshills/tilestorm/internal/geom"
	"github.com/dshills/tilestorm/internal/screen"
	"github.com/dshills/tilestorm/internal/window"
	"github.com/dshills/tilestorm/internal/xconn"
)

// Namespace is the command namespace of the group manager.
const Namespace = "groups"

// DefaultCount is the number of groups created when none are configured.
const DefaultCount = 10

var (
	// ErrNoGroups is returned when creating a manager without groups.
	ErrNoGroups = errors.New("no groups configured")

	// ErrUnknownGroup is returned for group names that do not exist.
	ErrUnknownGroup = errors.New("unknown group")

	// ErrUnknownLayout is returned for layout names that are not
	// switchable.
	ErrUnknownLayout = errors.New("unknown layout")
)

// Defaults returns the groups created when none are configured: "0" to
// "9", all with ls.
func Defaults(ls LayoutSpec) []Spec {
	specs := make([]Spec, DefaultCount)
	for i := range specs {
		specs[i] = Spec{Name: strconv.Itoa(i), Layout: ls}
	}
	return specs
}

// Manager owns the groups and places their windows.
type Manager struct {
	log         *zap.Logger
	conn        xconn.Conn
	screens     *screen.Manager
	borderWidth int

	groups  []*Group
	byName  map[string]*Group
	layouts []LayoutSpec
	focus   int // index of the focused screen

	ignoreUnmap map[xconn.Window]int
	onChange    []func()
}

// Options configures a Manager.
type Options struct {
	Groups []Spec
	// Layouts are the layouts every group can switch to, in cycling
	// order. Group layouts missing from the list are appended.
	Layouts     []LayoutSpec
	BorderWidth int
}

// NewManager creates the groups and shows the first ones on the screens,
// one group per screen.
func NewManager(log *zap.Logger, conn xconn.Conn, screens *screen.Manager, opts Options) (*Manager, error) {
	if len(opts.Groups) == 0 {
		return nil, ErrNoGroups
	}
	if log == nil {
		log = zap.NewNop()
	}

	m := &Manager{
		log:         log,
		conn:        conn,
		screens:     screens,
		borderWidth: opts.BorderWidth,
		byName:      make(map[string]*Group, len(opts.Groups)),
		layouts:     append([]LayoutSpec(nil), opts.Layouts...),
		ignoreUnmap: make(map[xconn.Window]int),
	}

	for _, spec := range opts.Groups {
		if _, dup := m.byName[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate group %q", spec.Name)
		}
		g := &Group{Name: spec.Name}
		if err := g.setLayout(spec.Layout); err != nil {
			return nil, fmt.Errorf("group %s: %w", spec.Name, err)
		}
		m.groups = append(m.groups, g)
		m.byName[spec.Name] = g
		m.addLayout(spec.Layout)
	}

	for i, s := range screens.Screens() {
		if i < len(m.groups) {
			m.groups[i].screen = s
		}
		s.Subscribe(m.screenUpdated)
	}
	return m, nil
}

func (m *Manager) addLayout(ls LayoutSpec) {
	for _, have := range m.layouts {
		if have.Name == ls.Name {
			return
		}
	}
	m.layouts = append(m.layouts, ls)
}

// OnChange registers fn to run after the visible groups or their layouts
// change.
func (m *Manager) OnChange(fn func()) {
	m.onChange = append(m.onChange, fn)
}

func (m *Manager) changed() {
	for _, fn := range m.onChange {
		fn()
	}
}

// Groups returns the groups in declaration order.
func (m *Manager) Groups() []*Group {
	return append([]*Group(nil), m.groups...)
}

// Names returns the group names in declaration order.
func (m *Manager) Names() []string {
	names := make([]string, len(m.groups))
	for i, g := range m.groups {
		names[i] = g.Name
	}
	return names
}

// Group returns the group called name.
func (m *Manager) Group(name string) (*Group, bool) {
	g, ok := m.byName[name]
	return g, ok
}

// Layouts returns the switchable layouts.
func (m *Manager) Layouts() []LayoutSpec {
	return append([]LayoutSpec(nil), m.layouts...)
}

// Current returns the group on the focused screen.
func (m *Manager) Current() *Group {
	s, ok := m.screens.Screen(m.focus)
	if ok {
		for _, g := range m.groups {
			if g.screen == s {
				return g
			}
		}
	}
	return m.groups[0]
}

// Find returns the group holding w.
func (m *Manager) Find(w *window.Window) (*Group, bool) {
	for _, g := range m.groups {
		for _, have := range g.Windows() {
			if have == w {
				return g, true
			}
		}
	}
	return nil, false
}

// Add manages w in its target group, or the current group.
func (m *Manager) Add(w *window.Window) error {
	g := m.Current()
	if w.TargetGroup != "" {
		if target, ok := m.byName[w.TargetGroup]; ok {
			g = target
		} else {
			m.log.Warn("window targets an unknown group",
				zap.Stringer("window", w),
				zap.String("group", w.TargetGroup))
		}
	}
	g.add(w)
	return m.arrange(g)
}

// Remove forgets w. It reports whether the window was managed.
func (m *Manager) Remove(w *window.Window) (bool, error) {
	g, ok := m.Find(w)
	if !ok {
		return false, nil
	}
	g.remove(w)
	delete(m.ignoreUnmap, w.ID)
	return true, m.arrange(g)
}

// ExpectedUnmap reports whether an unmap of w was caused by hiding its
// group, consuming the expectation.
func (m *Manager) ExpectedUnmap(w xconn.Window) bool {
	n := m.ignoreUnmap[w]
	if n == 0 {
		return false
	}
	if n == 1 {
		delete(m.ignoreUnmap, w)
	} else {
		m.ignoreUnmap[w] = n - 1
	}
	return true
}

// Placement returns where w is shown, if its group is visible.
func (m *Manager) Placement(w *window.Window) (geom.Rect, bool) {
	g, ok := m.Find(w)
	if !ok {
		return geom.Rect{}, false
	}
	r, ok := g.placement()[w]
	return r, ok
}

// Switch shows the group called name on the focused screen. A group
// already visible on another screen swaps places with the current one.
func (m *Manager) Switch(name string) error {
	target, ok := m.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGroup, name)
	}
	cur := m.Current()
	if target == cur {
		return nil
	}

	focused, _ := m.screens.Screen(m.focus)
	other := target.screen
	target.screen = focused
	cur.screen = other

	err := multierr.Combine(m.arrange(cur), m.arrange(target))
	m.changed()
	return err
}

// Cycle switches to the group delta positions away from the current one.
func (m *Manager) Cycle(delta int) error {
	idx := 0
	cur := m.Current()
	for i, g := range m.groups {
		if g == cur {
			idx = i
		}
	}
	n := len(m.groups)
	return m.Switch(m.groups[((idx+delta)%n+n)%n].Name)
}

// SetLayout switches the current group to the layout called name.
func (m *Manager) SetLayout(name string) error {
	for _, ls := range m.layouts {
		if ls.Name == name {
			return m.useLayout(m.Current(), ls)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownLayout, name)
}

// NextLayout switches the current group to the next switchable layout.
func (m *Manager) NextLayout() error {
	g := m.Current()
	idx := -1
	for i, ls := range m.layouts {
		if ls.Name == g.layoutSpec.Name {
			idx = i
		}
	}
	return m.useLayout(g, m.layouts[(idx+1)%len(m.layouts)])
}

func (m *Manager) useLayout(g *Group, ls LayoutSpec) error {
	if err := g.setLayout(ls); err != nil {
		return err
	}
	err := m.arrange(g)
	m.changed()
	return err
}

func (m *Manager) screenUpdated(s *screen.Screen) {
	for _, g := range m.groups {
		if g.screen == s {
			if err := m.arrange(g); err != nil {
				m.log.Warn("cannot arrange group", zap.String("group", g.Name), zap.Error(err))
			}
		}
	}
}

// Rearrange places the windows of every visible group.
func (m *Manager) Rearrange() error {
	var err error
	for _, g := range m.groups {
		if g.Visible() {
			err = multierr.Append(err, m.arrange(g))
		}
	}
	return err
}

// arrange shows a visible group's windows at their places and hides the
// windows of a hidden group.
func (m *Manager) arrange(g *Group) error {
	if m.conn == nil {
		return nil
	}

	var err error
	if !g.Visible() {
		for _, w := range g.Windows() {
			if !w.Mapped {
				continue
			}
			w.Mapped = false
			m.ignoreUnmap[w.ID]++
			err = multierr.Append(err, m.conn.UnmapWindow(w.ID))
		}
		return err
	}

	places := g.placement()
	for _, w := range g.Windows() {
		r, ok := places[w]
		if !ok {
			continue
		}
		bw := w.EffectiveBorder(m.borderWidth)
		if !w.Floating {
			r = clientRect(r, bw)
			w.Rect = r
		}
		err = multierr.Append(err, m.conn.Configure(w.ID, r, bw))
		if !w.Mapped {
			w.Mapped = true
			err = multierr.Append(err, m.conn.MapWindow(w.ID))
		}
	}
	return err
}

// clientRect converts an outer rectangle into window geometry, which
// excludes the border.
func clientRect(r geom.Rect, bw int) geom.Rect {
	w, h := r.Width-2*bw, r.Height-2*bw
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return geom.Rect{X: r.X, Y: r.Y, Width: w, Height: h}
}

// State returns the names bars render.
func (m *Manager) State() (current string, names []string, layoutName string) {
	g := m.Current()
	return g.Name, m.Names(), g.LayoutName()
}

// Commands returns the groups namespace.
func (m *Manager) Commands() command.Namespace {
	return command.Namespace{
		"switch": func(args []string) error {
			if err := command.ExpectArgs(args, 1); err != nil {
				return err
			}
			return m.Switch(args[0])
		},
		"next": func([]string) error { return m.Cycle(1) },
		"prev": func([]string) error { return m.Cycle(-1) },
		"layout": func(args []string) error {
			if err := command.ExpectArgs(args, 1); err != nil {
				return err
			}
			return m.SetLayout(args[0])
		},
		"next-layout": func([]string) error { return m.NextLayout() },
	}
}
