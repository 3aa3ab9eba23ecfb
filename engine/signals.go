package engine

import (
	"sync"

	"go.uber.org/zap"

	"github.com/lixenwraith/termloop/terminal"
)

// signalRelay translates OS signals into program messages
// SIGINT becomes InterruptMsg; SIGTERM and SIGHUP become QuitMsg
type signalRelay struct {
	source terminal.Signals // nil when the platform has none
	send   func(Msg) bool
	log    *zap.Logger

	mu     sync.Mutex
	cancel func()
}

func (r *signalRelay) start() {
	if r.source == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}
	r.cancel = r.source.Notify(r.handle)
}

func (r *signalRelay) stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (r *signalRelay) handle(sig terminal.Signal) {
	r.log.Debug("signal received", zap.Stringer("signal", sig))
	switch sig {
	case terminal.SignalInterrupt:
		r.send(InterruptMsg{})
	case terminal.SignalTerminate, terminal.SignalHangup:
		r.send(QuitMsg{})
	}
}
