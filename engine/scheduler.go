package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/termloop/core"
	"github.com/lixenwraith/termloop/status"
)

// scheduler runs commands off the event loop and funnels their results back through send
// Every command gets its own goroutine; nothing here waits on the loop except send itself
type scheduler struct {
	ctx  context.Context
	send func(Msg) bool // Delivers to the loop, false once draining
	clip *clipboardService
	log  *zap.Logger

	statCmds   *atomic.Int64
	statPanics *atomic.Int64
}

func newScheduler(ctx context.Context, send func(Msg) bool, clip *clipboardService, log *zap.Logger, reg *status.Registry) *scheduler {
	return &scheduler{
		ctx:        ctx,
		send:       send,
		clip:       clip,
		log:        log,
		statCmds:   reg.Counter(status.LoopCommands),
		statPanics: reg.Counter(status.CmdPanics),
	}
}

// Schedule starts cmd on a new goroutine; nil is ignored
func (s *scheduler) Schedule(cmd Cmd) {
	if cmd == nil {
		return
	}
	s.statCmds.Add(1)
	go s.run(cmd, false)
}

// Handle interprets a descriptor that reached the loop through Send
// Returns false for ordinary messages
func (s *scheduler) Handle(msg Msg) bool {
	switch msg.(type) {
	case BatchMsg, sequenceMsg, timerMsg, setClipboardMsg, readClipboardMsg:
		go s.dispatch(msg, false)
		return true
	}
	return false
}

// run executes cmd and dispatches its result; wait makes nested batches blocking
func (s *scheduler) run(cmd Cmd, wait bool) bool {
	msg, ok := s.call(cmd)
	if !ok {
		return false
	}
	s.dispatch(msg, wait)
	return true
}

// call invokes cmd, recovering a panic into ok=false
func (s *scheduler) call(cmd Cmd) (msg Msg, ok bool) {
	if r, stack := core.Safe(func() { msg = cmd() }); r != nil {
		s.statPanics.Add(1)
		s.log.Warn("command panicked",
			zap.String("panic", fmt.Sprint(r)),
			zap.ByteString("stack", stack),
		)
		return nil, false
	}
	return msg, true
}

func (s *scheduler) dispatch(msg Msg, wait bool) {
	switch m := msg.(type) {
	case nil:
		return

	case BatchMsg:
		if !wait {
			for _, c := range m {
				s.Schedule(c)
			}
			return
		}
		// Inside a sequence the batch completes before the next step
		var g errgroup.Group
		for _, c := range m {
			if c == nil {
				continue
			}
			s.statCmds.Add(1)
			g.Go(func() error {
				s.run(c, true)
				return nil
			})
		}
		_ = g.Wait()

	case sequenceMsg:
		s.runSequence(m)

	case timerMsg:
		s.runTimer(m, wait)

	case setClipboardMsg:
		s.deliver(s.clip.write(m.text))

	case readClipboardMsg:
		s.deliver(s.clip.read())

	default:
		s.deliver(msg)
	}
}

func (s *scheduler) deliver(msg Msg) {
	if msg == nil {
		return
	}
	s.send(msg)
}

// runSequence runs cmds in order on the calling goroutine
// A panicking command aborts the remaining ones
func (s *scheduler) runSequence(cmds []Cmd) {
	for i, c := range cmds {
		if s.ctx.Err() != nil {
			return
		}
		if c == nil {
			continue
		}
		s.statCmds.Add(1)
		if !s.run(c, true) {
			s.log.Warn("sequence aborted", zap.Int("remaining", len(cmds)-i-1))
			return
		}
	}
}

// runTimer waits for the timer or for the program to drain, whichever comes first
func (s *scheduler) runTimer(t timerMsg, wait bool) {
	d := t.d
	if t.align {
		d = nextBoundary(time.Now(), t.d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-s.ctx.Done():
		return
	case now := <-timer.C:
		if t.fn == nil {
			return
		}
		msg, ok := s.call(func() Msg { return t.fn(now) })
		if ok {
			s.dispatch(msg, wait)
		}
	}
}
