package app

import (
	"errors"
	"os"
	"os/signal"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// signalHandler runs on its own goroutine. It reaps children and posts
// control requests; it never touches window manager state.
type signalHandler struct {
	log     *zap.Logger
	request func(Control) bool
	ch      chan os.Signal
	quit    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

func newSignalHandler(log *zap.Logger, request func(Control) bool) *signalHandler {
	h := &signalHandler{
		log:     log,
		request: request,
		ch:      make(chan os.Signal, 8),
		quit:    make(chan struct{}),
	}
	signal.Notify(h.ch, unix.SIGCHLD, unix.SIGQUIT, unix.SIGINT, unix.SIGTERM)
	h.wg.Add(1)
	go h.run()
	return h
}

func (h *signalHandler) run() {
	defer h.wg.Done()
	for {
		select {
		case sig := <-h.ch:
			h.handle(sig)
		case <-h.quit:
			return
		}
	}
}

func (h *signalHandler) handle(sig os.Signal) {
	switch sig {
	case unix.SIGCHLD:
		if n := reapChildren(); n > 0 {
			h.log.Debug("reaped children", zap.Int("count", n))
		}
	case unix.SIGQUIT:
		if !h.request(ControlRestart) {
			h.log.Debug("restart already pending")
		}
	case unix.SIGINT, unix.SIGTERM:
		h.log.Info("terminating", zap.Stringer("signal", sig))
		h.request(ControlQuit)
	}
}

func (h *signalHandler) stop() {
	h.once.Do(func() {
		signal.Stop(h.ch)
		close(h.quit)
		h.wg.Wait()
	})
}

// reapChildren collects every exited child without blocking and returns
// how many were reaped.
func reapChildren() int {
	n := 0
	for {
		var status unix.WaitStatus
		pid, err := unix.Wait4(-1, &status, unix.WNOHANG, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil || pid <= 0 {
			return n
		}
		n++
	}
}
