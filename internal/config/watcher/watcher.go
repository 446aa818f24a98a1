// Package watcher reports changes to configuration documents.
//
// Configuration is never reloaded in place. A change is handed to the
// registered handlers, which either log a hint or ask for a restart.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned when adding directories after Stop.
var ErrWatcherClosed = errors.New("watcher closed")

// DefaultQuiet is how long a file must stay untouched before its change
// is reported.
const DefaultQuiet = 100 * time.Millisecond

// Op is what happened to a file.
type Op uint8

const (
	Modified Op = iota
	Created
	Removed
)

func (op Op) String() string {
	switch op {
	case Modified:
		return "modified"
	case Created:
		return "created"
	case Removed:
		return "removed"
	}
	return "unknown"
}

// classify maps a notifier event to an Op. A file renamed away counts as
// removed; chmod alone is ignored.
func classify(op fsnotify.Op) (Op, bool) {
	switch {
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return Removed, true
	case op.Has(fsnotify.Create):
		return Created, true
	case op.Has(fsnotify.Write):
		return Modified, true
	}
	return 0, false
}

// Event is one settled change.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// coalesce folds next into a change already pending for the same file.
// The latest creation or removal wins; writes that follow one keep it, so
// a new file stays Created while the editor writes to it and a file saved
// by rename-and-create ends up Created.
func coalesce(prev Event, pending bool, next Event) Event {
	if pending && next.Op == Modified {
		next.Op = prev.Op
	}
	return next
}

// Handler receives settled changes on the watcher goroutine.
type Handler func(Event)

// Option configures a Watcher.
type Option func(*Watcher)

// WithQuiet sets the settle period. Non-positive values are ignored.
func WithQuiet(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.quiet = d
		}
	}
}

// WithExtensions limits reports to files with one of exts.
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		w.exts = make(map[string]struct{}, len(exts))
		for _, e := range exts {
			w.exts[strings.ToLower(e)] = struct{}{}
		}
	}
}

// WithErrorHandler receives errors from the notifier.
func WithErrorHandler(h func(error)) Option {
	return func(w *Watcher) { w.onError = h }
}

// Watcher watches a set of directories, not recursively.
type Watcher struct {
	fsw     *fsnotify.Watcher
	quiet   time.Duration
	exts    map[string]struct{}
	onError func(error)

	mu       sync.Mutex
	dirs     []string
	handlers []Handler
	cancel   context.CancelFunc
	closed   bool
	done     chan struct{}
}

// New creates a stopped watcher.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fsw: fsw, quiet: DefaultQuiet}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add starts watching dir. It reports false without error when dir does
// not exist or is not a directory.
func (w *Watcher) Add(dir string) (bool, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false, ErrWatcherClosed
	}
	for _, d := range w.dirs {
		if d == abs {
			return true, nil
		}
	}

	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	case !info.IsDir():
		return false, nil
	}
	if err := w.fsw.Add(abs); err != nil {
		return false, err
	}
	w.dirs = append(w.dirs, abs)
	return true, nil
}

// Dirs returns the watched directories in the order they were added.
func (w *Watcher) Dirs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.dirs...)
}

// OnChange registers h.
func (w *Watcher) OnChange(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Start delivers changes until ctx ends or Stop is called. Calls after the
// first are ignored.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done != nil || w.closed {
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.run(ctx)
}

// Stop ends delivery and closes the notifier. It is safe to call twice.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	return w.fsw.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	pending := make(map[string]Event)
	timer := time.NewTimer(w.quiet)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case fe, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			op, ok := classify(fe.Op)
			if !ok || !w.wanted(fe.Name) {
				continue
			}
			prev, seen := pending[fe.Name]
			pending[fe.Name] = coalesce(prev, seen, Event{Path: fe.Name, Op: op, Time: time.Now()})
			timer.Reset(w.quiet)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}

		case <-timer.C:
			for path, ev := range pending {
				delete(pending, path)
				w.deliver(ev)
			}
		}
	}
}

func (w *Watcher) wanted(path string) bool {
	if len(w.exts) == 0 {
		return true
	}
	_, ok := w.exts[strings.ToLower(filepath.Ext(path))]
	return ok
}

func (w *Watcher) deliver(ev Event) {
	w.mu.Lock()
	handlers := append([]Handler(nil), w.handlers...)
	w.mu.Unlock()

	for _, h := range handlers {
		call(h, ev)
	}
}

// call runs h and recovers a panic.
func call(h Handler, ev Event) {
	defer func() { _ = recover() }()
	h(ev)
}
