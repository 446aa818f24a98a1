package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/tilestorm/internal/command"
	"github.com/dshills/tilestorm/internal/config"
	"github.com/dshills/tilestorm/internal/config/watcher"
	"github.com/dshills/tilestorm/internal/event"
	"github.com/dshills/tilestorm/internal/ewmh"
	"github.com/dshills/tilestorm/internal/ext"
	"github.com/dshills/tilestorm/internal/ext/luaext"
	"github.com/dshills/tilestorm/internal/gadget"
	"github.com/dshills/tilestorm/internal/gesture"
	"github.com/dshills/tilestorm/internal/group"
	"github.com/dshills/tilestorm/internal/input/key"
	"github.com/dshills/tilestorm/internal/input/keymap"
	"github.com/dshills/tilestorm/internal/input/mouse"
	"github.com/dshills/tilestorm/internal/layout"
	"github.com/dshills/tilestorm/internal/rules"
	"github.com/dshills/tilestorm/internal/screen"
	"github.com/dshills/tilestorm/internal/theme"
	"github.com/dshills/tilestorm/internal/widget"
	"github.com/dshills/tilestorm/internal/xconn"
)

// Script module names consulted before the bundled modules.
const (
	layoutsModule = "layouts"
	widgetsModule = "widgets"
	gadgetsModule = "gadgets"
)

// rootMask is the event mask selected on the root window.
const rootMask = xconn.EventMaskStructureNotify |
	xconn.EventMaskSubstructureNotify |
	xconn.EventMaskSubstructureRedirect

// bootstrapper handles component initialization with cleanup on failure.
type bootstrapper struct {
	app       *Application
	log       *zap.Logger
	initOrder []string
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{
		app:       app,
		log:       app.log.Named("bootstrap"),
		initOrder: make([]string, 0, 20),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap(ctx context.Context) error {
	steps := []func(context.Context) error{
		b.initConnection,
		b.initRoot,
		b.initCore,
		b.initConfig,
		b.initTheme,
		b.initResolver,
		b.initCommander,
		b.initScreens,
		b.initInput,
		b.initGroups,
		b.initClassifier,
		b.initGestures,
		b.initGadgets,
		b.initDispatcher,
		b.initKeys,
		b.initBars,
		b.initDiscovery,
		b.initSignals,
		b.initWatcher,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

func (b *bootstrapper) done(component string) {
	b.initOrder = append(b.initOrder, component)
	b.log.Debug("initialized", zap.String("component", component))
}

func (b *bootstrapper) initConnection(context.Context) error {
	conn, err := b.app.opts.Dial(b.app.opts.Display, xconn.ExtXinerama)
	if err != nil {
		return &InitError{Component: "connection", Err: err}
	}
	b.app.conn = conn
	b.done("connect")
	return nil
}

func (b *bootstrapper) initRoot(context.Context) error {
	root := b.app.conn.Setup().Root
	if root == 0 {
		return &InitError{Component: "root", Err: errors.New("setup has no root window")}
	}
	b.app.root = root
	b.done("root")
	return nil
}

func (b *bootstrapper) initCore(context.Context) error {
	b.app.keysyms = key.LoadDefaultTable()
	b.done("core")
	return nil
}

func (b *bootstrapper) initConfig(ctx context.Context) error {
	opts := []config.Option{config.WithLogger(b.app.log.Named("config"))}
	if len(b.app.opts.ConfigDirs) > 0 {
		opts = append(opts, config.WithConfigDirs(b.app.opts.ConfigDirs...))
	}
	opts = append(opts, b.app.opts.ConfigOptions...)

	cfg := config.New(opts...)
	if err := cfg.Load(ctx); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	b.app.config = cfg
	b.log.Info("configuration loaded", zap.Strings("dirs", cfg.Dirs()))
	b.done("config")
	return nil
}

func (b *bootstrapper) initTheme(context.Context) error {
	sources, err := b.app.config.ThemeSources()
	if err != nil {
		return &InitError{Component: "theme", Err: err}
	}
	b.app.theme = theme.New(sources...)
	b.done("theme")
	return nil
}

func (b *bootstrapper) initResolver(context.Context) error {
	reg := ext.NewRegistry()
	for _, register := range []func(*ext.Registry) error{layout.Register, widget.Register, gadget.Register} {
		if err := register(reg); err != nil {
			return &InitError{Component: "resolver", Err: err}
		}
	}

	log := b.app.log.Named("ext")
	b.app.lua = luaext.NewLoader(log)
	b.app.registry = reg
	b.app.resolver = ext.NewResolver(reg,
		ext.WithLogger(log),
		ext.WithLoader(b.app.lua),
		ext.WithSearchPath(ext.NewSearchPath(b.app.config.ExtensionDirs, config.SiteExtensionDir)),
	)
	b.done("resolver")
	return nil
}

func (b *bootstrapper) initCommander(context.Context) error {
	b.app.commands = command.NewDispatcher()
	b.app.env = command.NewEnv()
	if b.app.opts.Starter != nil {
		b.app.env.Start = b.app.opts.Starter
	}
	b.app.commands.RegisterNamespace("env", b.app.env.Namespace())
	b.app.commands.RegisterNamespace("wm", b.app.wmNamespace())
	b.done("commander")
	return nil
}

func (b *bootstrapper) initScreens(context.Context) error {
	rects, err := screen.Query(b.app.conn, b.app.config.AutoScreenConfiguration())
	if err != nil {
		return &InitError{Component: "screens", Err: err}
	}
	b.app.screens = screen.NewManager(rects)
	b.log.Info("screens", zap.Int("count", len(rects)), zap.Int("dpi", b.app.config.ScreenDPI()))
	b.done("screens")
	return nil
}

func (b *bootstrapper) initInput(context.Context) error {
	log := b.app.log.Named("input")
	b.app.keys = keymap.NewRegistry(log, b.app.conn, b.app.root, b.app.keysyms)
	b.app.buttons = mouse.NewRegistry(log, b.app.conn, b.app.root)
	b.done("input")
	return nil
}

func (b *bootstrapper) resolveLayout(name string) group.LayoutSpec {
	cls := b.app.resolver.Resolve(name, layoutsModule, layout.Module, ext.CapLayout, layout.Default())
	if _, err := layout.New(cls, nil); err != nil {
		b.log.Warn("layout cannot be created, using default",
			zap.String("layout", name), zap.Error(err))
		cls = layout.Default()
	}
	return group.LayoutSpec{Name: name, Class: cls}
}

func (b *bootstrapper) initGroups(context.Context) error {
	cfg := b.app.config

	declared, ok, err := cfg.Groups()
	if err != nil {
		return &InitError{Component: "groups", Err: err}
	}

	var specs []group.Spec
	if ok && len(declared) > 0 {
		for _, g := range declared {
			specs = append(specs, group.Spec{Name: g.Name, Layout: b.resolveLayout(g.Layout)})
		}
	} else {
		specs = group.Defaults(group.LayoutSpec{Name: layout.Default().Name, Class: layout.Default()})
	}

	extra, err := cfg.ExtraLayouts()
	if err != nil {
		b.log.Warn("ignoring extra_layouts", zap.Error(err))
	}
	var layouts []group.LayoutSpec
	for _, name := range extra {
		layouts = append(layouts, b.resolveLayout(name))
	}

	m, err := group.NewManager(b.app.log.Named("groups"), b.app.conn, b.app.screens, group.Options{
		Groups:      specs,
		Layouts:     layouts,
		BorderWidth: b.app.theme.BorderWidth(),
	})
	if err != nil {
		return &InitError{Component: "groups", Err: err}
	}
	b.app.groups = m
	b.app.commands.RegisterNamespace(group.Namespace, m.Commands())
	b.done("groups")
	return nil
}

func (b *bootstrapper) initClassifier(context.Context) error {
	sources, err := b.app.config.RuleSources()
	if err != nil {
		return &InitError{Component: "classifier", Err: err}
	}
	compiled, err := rules.Compile(rules.DefaultRegistry(), sources...)
	if err != nil {
		return &InitError{Component: "classifier", Err: err}
	}
	b.app.classifier = rules.NewClassifier(b.app.log.Named("rules"), compiled)
	b.done("classifier")
	return nil
}

func (b *bootstrapper) initGestures(context.Context) error {
	sources, err := b.app.config.GestureSources()
	if err != nil {
		b.log.Warn("ignoring gestures", zap.Error(err))
	}
	b.app.gestures = gesture.Compile(b.app.log.Named("gestures"), sources...)
	b.done("gestures")
	return nil
}

func (b *bootstrapper) initGadgets(context.Context) error {
	specs, err := b.app.config.Gadgets()
	if err != nil {
		b.log.Warn("ignoring gadgets", zap.Error(err))
	}
	for _, spec := range specs {
		cls := b.app.resolver.Resolve(spec.Class, gadgetsModule, gadget.Module, ext.CapGadget, nil)
		if cls == nil {
			b.log.Warn("skipping gadget", zap.String("gadget", spec.Name), zap.String("class", spec.Class))
			continue
		}
		g, err := gadget.New(cls, ext.Args(spec.Args))
		if err != nil {
			b.log.Warn("skipping gadget", zap.String("gadget", spec.Name), zap.Error(err))
			continue
		}
		if l, ok := g.(*gadget.Launcher); ok {
			l.Env = b.app.env
		}
		b.app.gadgets[spec.Name] = g
		b.app.commands.RegisterNamespace(spec.Name, g.Commands())
	}
	b.done("gadgets")
	return nil
}

func (b *bootstrapper) initDispatcher(context.Context) error {
	a := b.app
	a.hints = ewmh.New(a.conn, a.root)
	if err := a.hints.Init(); err != nil {
		b.log.Warn("publishing EWMH support", zap.Error(err))
	}

	a.dispatcher = event.NewDispatcher(a.log.Named("event"), a.conn, event.Options{
		Root:        a.root,
		Groups:      a.groups,
		Classifier:  a.classifier,
		Hints:       a.hints,
		BorderWidth: a.theme.BorderWidth(),
		Now:         a.opts.Now,
	})
	a.groups.OnChange(func() {
		if err := a.dispatcher.Refresh(); err != nil {
			a.log.Warn("refreshing desktop state", zap.Error(err))
		}
	})
	a.dispatcher.SetOwner(a)
	a.handler = a.dispatcher
	b.done("dispatcher")
	return nil
}

// initKeys claims the root window and installs the bindings. When another
// client holds substructure redirection the step is abandoned and the
// bootstrap continues.
func (b *bootstrapper) initKeys(context.Context) error {
	a := b.app
	if err := a.conn.SelectInput(a.root, rootMask); err != nil {
		b.log.Error("selecting root window events", zap.Error(err))
		return nil
	}
	attrs, err := a.conn.WindowAttributes(a.root)
	if err != nil {
		b.log.Error("querying root window", zap.Error(err))
		return nil
	}
	if attrs.YourEventMask&xconn.EventMaskSubstructureRedirect == 0 {
		b.log.Error("another window manager is running", zap.Error(ErrAnotherWM))
		return nil
	}

	if err := a.keys.Init(); err != nil {
		b.log.Error("reading keyboard mapping", zap.Error(err))
		return nil
	}
	hotkeys, err := a.config.Hotkeys()
	if err != nil {
		b.log.Warn("ignoring hotkeys", zap.Error(err))
	}
	buttons, err := a.config.Buttons()
	if err != nil {
		b.log.Warn("ignoring button bindings", zap.Error(err))
	}
	nk := a.keys.AddAll(hotkeys)
	nb := a.buttons.AddAll(buttons)
	b.log.Info("bindings installed", zap.Int("keys", nk), zap.Int("buttons", nb))
	b.done("keys")
	return nil
}

func (b *bootstrapper) initBars(context.Context) error {
	a := b.app
	specs, err := a.config.Bars()
	if err != nil {
		b.log.Warn("ignoring bars", zap.Error(err))
	}
	for i, spec := range specs {
		bar, err := b.createBar(spec)
		if err != nil {
			b.log.Warn("skipping bar", zap.Int("bar", i), zap.Int("screen", spec.Screen), zap.Error(err))
			continue
		}
		a.bars = append(a.bars, bar)
		a.dispatcher.AddBar(bar)
	}
	if err := a.dispatcher.Refresh(); err != nil {
		b.log.Warn("drawing bars", zap.Error(err))
	}
	b.done("bars")
	return nil
}

func (b *bootstrapper) createBar(spec config.BarSpec) (*widget.Bar, error) {
	a := b.app
	scr, ok := a.screens.Screen(spec.Screen)
	if !ok {
		return nil, fmt.Errorf("no screen %d", spec.Screen)
	}

	var widgets []widget.Widget
	for _, ws := range spec.Widgets {
		cls := a.resolver.Resolve(ws.Class, widgetsModule, widget.Module, ext.CapWidget, nil)
		if cls == nil {
			continue
		}
		w, err := widget.New(cls, ext.Args(ws.Args))
		if err != nil {
			b.log.Warn("skipping widget", zap.String("class", ws.Class), zap.Error(err))
			continue
		}
		widgets = append(widgets, w)
	}

	height := a.theme.BarHeight()
	if v, ok := spec.Options["height"]; ok {
		if n, ok := intValue(v); ok && n > 0 {
			height = n
		}
	}

	res, err := scr.Reserve(spec.Position, height)
	if err != nil {
		return nil, err
	}
	bar := widget.NewBar(spec.Screen, spec.Position, height, widgets)
	if err := bar.Create(a.conn, res.Rect()); err != nil {
		return nil, err
	}
	scr.Subscribe(func(*screen.Screen) {
		if err := bar.Place(a.conn, res.Rect()); err != nil {
			a.log.Warn("placing bar", zap.Int("screen", spec.Screen), zap.Error(err))
		}
	})
	return bar, nil
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	default:
		return 0, false
	}
}

func (b *bootstrapper) initDiscovery(ctx context.Context) error {
	n := b.app.discover(ctx)
	b.log.Info("adopted existing windows", zap.Int("count", n))
	b.done("discovery")
	return nil
}

func (b *bootstrapper) initSignals(context.Context) error {
	b.app.signals = newSignalHandler(b.app.log.Named("signals"), b.app.Request)
	b.done("signals")
	return nil
}

// initWatcher watches the configuration directories. Changes request a
// restart when auto-restart is enabled and are logged otherwise.
func (b *bootstrapper) initWatcher(ctx context.Context) error {
	a := b.app
	restart := a.config.AutoRestart()
	w, err := a.config.Watch(ctx, func(ev watcher.Event) {
		if !restart {
			a.log.Info("configuration changed; run \"wm restart\" to apply", zap.String("path", ev.Path))
			return
		}
		a.log.Info("configuration changed, restarting", zap.String("path", ev.Path))
		a.Request(ControlRestart)
	})
	if err != nil {
		b.log.Warn("watching configuration", zap.Error(err))
		return nil
	}
	a.watcher = w
	b.done("watcher")
	return nil
}

// cleanup releases initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
}

func (b *bootstrapper) cleanupComponent(component string) {
	a := b.app
	switch component {
	case "connect":
		if a.conn != nil {
			_ = a.conn.Close()
			a.conn = nil
		}
	case "resolver":
		if a.lua != nil {
			_ = a.lua.Close()
			a.lua = nil
		}
		a.resolver = nil
		a.registry = nil
	case "config":
		a.config = nil
	case "theme":
		a.theme = nil
	case "commander":
		a.commands = nil
		a.env = nil
	case "screens":
		a.screens = nil
	case "input":
		a.keys = nil
		a.buttons = nil
	case "groups":
		a.groups = nil
	case "classifier":
		a.classifier = nil
	case "gestures":
		a.gestures = nil
	case "gadgets":
		a.gadgets = make(map[string]gadget.Gadget)
	case "dispatcher":
		a.dispatcher = nil
		a.handler = nil
		a.hints = nil
	case "bars":
		a.bars = nil
	case "signals":
		if a.signals != nil {
			a.signals.stop()
			a.signals = nil
		}
	case "watcher":
		if a.watcher != nil {
			_ = a.watcher.Stop()
			a.watcher = nil
		}
	}
}
