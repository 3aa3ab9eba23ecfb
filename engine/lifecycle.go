package engine

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/lixenwraith/termloop/core"
	"github.com/lixenwraith/termloop/render"
	"github.com/lixenwraith/termloop/terminal"
)

// lifecycle owns the terminal modes of one run
// acquire enters them in order; release undoes them exactly once on every exit path
type lifecycle struct {
	opts     *Options
	backend  terminal.Backend
	renderer *render.Renderer
	reader   *terminal.InputReader
	signals  *signalRelay
	onResize func(width, height int)
	cancel   func() // Stops the program context before joins
	log      *zap.Logger

	initialized     bool
	unregisterCrash func()
	releaseOnce     sync.Once
}

func (l *lifecycle) acquire() error {
	if err := l.backend.Init(); err != nil {
		return fmt.Errorf("%w: init: %w", ErrTerminal, err)
	}
	l.initialized = true
	l.unregisterCrash = core.RegisterCrashTerminal(l)

	steps := []func() error{l.renderer.HideCursor}
	if l.opts.AltScreen {
		steps = append(steps, l.renderer.EnterAltScreen)
	}
	if l.opts.MouseMode != terminal.MouseModeOff {
		steps = append(steps, func() error { return l.renderer.EnableMouse(l.opts.MouseMode) })
	}
	if l.opts.BracketedPaste {
		steps = append(steps, l.renderer.EnableBracketedPaste)
	}
	if l.opts.ReportFocus {
		steps = append(steps, l.renderer.EnableFocusReport)
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("%w: setup: %w", ErrTerminal, err)
		}
	}

	l.backend.SetResizeHandler(l.onResize)
	if l.opts.HandleSignals {
		l.signals.start()
	}
	l.reader.Start()
	l.renderer.Start()

	l.log.Debug("terminal acquired",
		zap.Bool("alt_screen", l.opts.AltScreen),
		zap.Stringer("mouse", l.opts.MouseMode),
		zap.Bool("bracketed_paste", l.opts.BracketedPaste),
		zap.Bool("report_focus", l.opts.ReportFocus),
	)
	return nil
}

// Fini lets the crash handler restore the terminal
func (l *lifecycle) Fini() {
	l.release()
}

func (l *lifecycle) release() {
	l.releaseOnce.Do(func() {
		l.cancel()
		if l.unregisterCrash != nil {
			l.unregisterCrash()
		}

		l.reader.Stop()
		l.signals.stop()
		l.renderer.Stop() // Final frame

		if l.initialized {
			var teardown []func() error
			if l.opts.ReportFocus {
				teardown = append(teardown, l.renderer.DisableFocusReport)
			}
			if l.opts.BracketedPaste {
				teardown = append(teardown, l.renderer.DisableBracketedPaste)
			}
			if l.opts.MouseMode != terminal.MouseModeOff {
				teardown = append(teardown, l.renderer.DisableMouse)
			}
			if l.renderer.AltScreen() {
				teardown = append(teardown, l.renderer.ExitAltScreen)
			} else {
				// Leave the shell prompt below the last inline frame
				teardown = append(teardown, func() error { return l.renderer.WriteRaw("\r\n") })
			}
			teardown = append(teardown, l.renderer.ShowCursor)

			for _, step := range teardown {
				if err := step(); err != nil {
					l.log.Debug("terminal teardown write failed", zap.Error(err))
				}
			}
			l.backend.Fini()
		}

		if c, ok := l.backend.(terminal.Closer); ok {
			if err := c.Close(); err != nil {
				l.log.Debug("terminal close failed", zap.Error(err))
			}
		}
		l.log.Debug("terminal released")
	})
}
