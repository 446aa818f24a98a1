// Package app wires the window manager together: it runs the bootstrap
// sequence, adopts pre-existing windows and drives the event loop.
package app

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/dshills/tilestorm/internal/command"
	"github.com/dshills/tilestorm/internal/config"
	"github.com/dshills/tilestorm/internal/config/watcher"
	"github.com/dshills/tilestorm/internal/event"
	"github.com/dshills/tilestorm/internal/event/dispatch"
	"github.com/dshills/tilestorm/internal/ewmh"
	"github.com/dshills/tilestorm/internal/ext"
	"github.com/dshills/tilestorm/internal/ext/luaext"
	"github.com/dshills/tilestorm/internal/gadget"
	"github.com/dshills/tilestorm/internal/gesture"
	"github.com/dshills/tilestorm/internal/group"
	"github.com/dshills/tilestorm/internal/input/key"
	"github.com/dshills/tilestorm/internal/input/keymap"
	"github.com/dshills/tilestorm/internal/input/mouse"
	"github.com/dshills/tilestorm/internal/rules"
	"github.com/dshills/tilestorm/internal/screen"
	"github.com/dshills/tilestorm/internal/theme"
	"github.com/dshills/tilestorm/internal/widget"
	"github.com/dshills/tilestorm/internal/xconn"
)

// DialFunc opens the X connection.
type DialFunc func(display string, extensions ...string) (xconn.Conn, error)

// ExecFunc replaces the running process image.
type ExecFunc func(argv0 string, argv []string, envv []string) error

// DefaultTickInterval is how often the bars are redrawn without events.
const DefaultTickInterval = 30 * time.Second

// Options configures the application.
type Options struct {
	// Display is the X display name; empty means $DISPLAY.
	Display string

	// ConfigDirs replaces the XDG configuration search path.
	ConfigDirs []string

	// ConfigOptions are appended to the options derived from the fields
	// above.
	ConfigOptions []config.Option

	Logger *zap.Logger

	// Dial defaults to xconn.Dial.
	Dial DialFunc

	// Exec defaults to unix.Exec; Executable to os.Executable.
	Exec       ExecFunc
	Executable func() (string, error)

	// Args and Environ are passed to Exec on restart. They default to
	// os.Args and os.Environ().
	Args    []string
	Environ func() []string

	// Now is the clock widgets render. Defaults to time.Now.
	Now func() time.Time

	// TickInterval defaults to DefaultTickInterval.
	TickInterval time.Duration

	// Starter starts programs for the env namespace. Defaults to a
	// detached start in a new session.
	Starter command.Starter
}

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Dial == nil {
		o.Dial = xconn.Dial
	}
	if o.Exec == nil {
		o.Exec = unix.Exec
	}
	if o.Executable == nil {
		o.Executable = os.Executable
	}
	if o.Args == nil {
		o.Args = os.Args
	}
	if o.Environ == nil {
		o.Environ = os.Environ
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
}

// Application is the window manager process.
type Application struct {
	opts Options
	log  *zap.Logger

	conn    xconn.Conn
	root    xconn.Window
	keysyms *key.Table

	config *config.Config
	theme  *theme.Theme

	registry *ext.Registry
	resolver *ext.Resolver
	lua      *luaext.Loader

	commands *command.Dispatcher
	env      *command.Env

	screens *screen.Manager
	keys    *keymap.Registry
	buttons *mouse.Registry

	groups     *group.Manager
	classifier *rules.Classifier
	gestures   gesture.Table
	gadgets    map[string]gadget.Gadget

	dispatcher *event.Dispatcher
	handler    dispatch.Handler
	hints      *ewmh.Hints
	bars       []*widget.Bar

	executor *dispatch.Executor
	watcher  *watcher.Watcher
	signals  *signalHandler

	control   chan Control
	pumpDone  chan struct{}
	initOrder []string

	bootstrapped bool
	running      atomic.Bool
	closeOnce    sync.Once
	closeErr     error
}

var _ event.Owner = (*Application)(nil)

// New creates an application. Nothing is connected until Bootstrap or
// Run.
func New(opts Options) *Application {
	opts.setDefaults()
	return &Application{
		opts:     opts,
		log:      opts.Logger,
		executor: dispatch.NewExecutor(),
		control:  make(chan Control, 1),
		gadgets:  make(map[string]gadget.Gadget),
	}
}

// Bootstrap runs the initialization sequence. On failure the components
// initialized so far are released in reverse order.
func (a *Application) Bootstrap(ctx context.Context) error {
	b := newBootstrapper(a)
	err := b.bootstrap(ctx)
	a.initOrder = b.initOrder
	if err != nil {
		return err
	}
	a.bootstrapped = true
	return nil
}

// Run bootstraps the application if needed and runs the event loop until
// the context ends, the connection closes, or a quit or restart is
// requested.
func (a *Application) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	if !a.bootstrapped {
		if err := a.Bootstrap(ctx); err != nil {
			return err
		}
	}
	return a.loop(ctx)
}

// Shutdown releases the signal handlers, the config watcher, the script
// states and the X connection. It is safe to call more than once.
func (a *Application) Shutdown() error {
	a.closeOnce.Do(func() {
		var err error
		if a.signals != nil {
			a.signals.stop()
		}
		if a.watcher != nil {
			err = multierr.Append(err, a.watcher.Stop())
		}
		if a.lua != nil {
			err = multierr.Append(err, a.lua.Close())
		}
		if a.conn != nil {
			err = multierr.Append(err, a.conn.Close())
		}
		if a.pumpDone != nil {
			<-a.pumpDone
		}
		a.closeErr = err
	})
	return a.closeErr
}

// KeyCommand implements event.Owner.
func (a *Application) KeyCommand(ev xconn.KeyPress) ([]string, bool) {
	if a.keys == nil {
		return nil, false
	}
	return a.keys.Lookup(ev)
}

// ButtonCommand implements event.Owner.
func (a *Application) ButtonCommand(ev xconn.ButtonPress) ([]string, bool) {
	if a.buttons == nil {
		return nil, false
	}
	return a.buttons.Lookup(ev)
}

// Call implements event.Owner.
func (a *Application) Call(tokens []string) error {
	return a.commands.Call(tokens)
}

// InitOrder returns the bootstrap steps completed by the last Bootstrap.
func (a *Application) InitOrder() []string {
	return append([]string(nil), a.initOrder...)
}

// Config returns the loaded configuration.
func (a *Application) Config() *config.Config { return a.config }

// Groups returns the group manager.
func (a *Application) Groups() *group.Manager { return a.groups }

// Dispatcher returns the event dispatcher.
func (a *Application) Dispatcher() *event.Dispatcher { return a.dispatcher }

// Commands returns the command dispatcher.
func (a *Application) Commands() *command.Dispatcher { return a.commands }

// Gestures returns the compiled gesture table.
func (a *Application) Gestures() gesture.Table { return a.gestures }

// Bars returns the created status bars.
func (a *Application) Bars() []*widget.Bar {
	return append([]*widget.Bar(nil), a.bars...)
}
