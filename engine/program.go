// @lixen: #focus{sys[loop,lifecycle]}
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lixenwraith/termloop/render"
	"github.com/lixenwraith/termloop/status"
	"github.com/lixenwraith/termloop/terminal"
)

// Program runs a Model against a terminal
// All Update and View calls happen on the goroutine that called Run, one message at a time
type Program struct {
	id      uuid.UUID
	initial Model
	opts    Options
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelCauseFunc

	msgs     chan Msg
	errs     chan error
	finished chan struct{}
	state    atomic.Int32

	stats       *status.Registry
	statMsgs    *atomic.Int64
	statEvents  *atomic.Int64
	statState   *status.AtomicString
	statProfile *status.AtomicString

	// Set during Run
	backend  terminal.Backend
	renderer *render.Renderer
	sched    *scheduler
}

// NewProgram creates a program for model; options are applied in order and then frozen
func NewProgram(model Model, opts ...Option) *Program {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.FPS = render.ClampFPS(o.FPS)

	id := uuid.New()
	ctx, cancel := context.WithCancelCause(o.Context)
	reg := status.NewRegistry()

	p := &Program{
		id:          id,
		initial:     model,
		opts:        o,
		log:         o.Logger.With(zap.String("program", id.String())),
		ctx:         ctx,
		cancel:      cancel,
		msgs:        make(chan Msg),
		errs:        make(chan error, 1),
		finished:    make(chan struct{}),
		stats:       reg,
		statMsgs:    reg.Counter(status.LoopMessages),
		statEvents:  reg.Counter(status.InputEvents),
		statState:   reg.Strings.Get(status.ProgramState),
		statProfile: reg.Strings.Get(status.ColorProfile),
	}
	p.setState(StateIdle)
	return p
}

// ID returns the program's unique id, also attached to its log entries
func (p *Program) ID() uuid.UUID { return p.id }

// State returns the current lifecycle phase
func (p *Program) State() State { return State(p.state.Load()) }

// Options returns a copy of the frozen options
func (p *Program) Options() Options { return p.opts }

// Stats returns a snapshot of the runtime counters
func (p *Program) Stats() status.Snapshot { return p.stats.Snapshot() }

// StatsReport renders the counters one "key=value" per line
func (p *Program) StatsReport() string { return p.stats.Format() }

func (p *Program) setState(s State) {
	p.state.Store(int32(s))
	p.statState.Store(s.String())
}

// Send queues msg for Update
// Blocks until the loop accepts it; a no-op once the program is draining or stopped
func (p *Program) Send(msg Msg) {
	p.send(msg)
}

func (p *Program) send(msg Msg) bool {
	select {
	case <-p.ctx.Done():
		return false
	case <-p.finished:
		return false
	default:
	}
	select {
	case p.msgs <- msg:
		return true
	case <-p.ctx.Done():
		return false
	case <-p.finished:
		return false
	}
}

// Quit asks the program to stop as if the Quit command had run
func (p *Program) Quit() {
	p.Send(QuitMsg{})
}

// Kill stops the program without waiting for the loop; Run returns ErrProgramKilled
func (p *Program) Kill() {
	p.cancel(ErrProgramKilled)
}

// Wait blocks until Run has returned
func (p *Program) Wait() {
	<-p.finished
}

// fatal reports an unrecoverable adapter error; only the first one is kept
func (p *Program) fatal(err error) {
	select {
	case p.errs <- err:
	default:
	}
}

// Run acquires the terminal, runs the event loop and restores the terminal
// Returns the final model; the error is nil after Quit or an unhandled interrupt
// Panics from Update or View propagate after the terminal has been restored
func (p *Program) Run() (model Model, err error) {
	model = p.initial
	if !p.state.CompareAndSwap(int32(StateIdle), int32(StateStarting)) {
		return model, ErrAlreadyStarted
	}
	p.statState.Store(StateStarting.String())

	defer close(p.finished)
	defer p.setState(StateStopped)
	defer p.cancel(nil)

	platform := p.opts.Platform
	if platform == nil {
		return model, ErrNoPlatform
	}

	backend, err := platform.OpenTerminal(p.opts.Input, p.opts.Output)
	if err != nil {
		return model, fmt.Errorf("%w: open: %w", ErrTerminal, err)
	}
	p.backend = backend

	width, height := backend.Size()
	p.renderer = render.New(backend, render.Config{
		FPS:      p.opts.FPS,
		Width:    width,
		Height:   height,
		Registry: p.stats,
		OnError: func(err error) {
			p.fatal(fmt.Errorf("%w: write: %w", ErrTerminal, err))
		},
	})

	env := platform.Environment()
	clip := &clipboardService{
		clip: platform.Clipboard(),
		env:  env,
		raw:  p.renderer.WriteRaw,
		log:  p.log.Named("clipboard"),
	}
	p.sched = newScheduler(p.ctx, p.send, clip, p.log.Named("scheduler"), p.stats)

	reader := terminal.NewInputReader(backend, p.opts.EscTimeout, p.onInput, func(err error) {
		p.fatal(fmt.Errorf("%w: %w", ErrTerminal, err))
	})

	lc := &lifecycle{
		opts:     &p.opts,
		backend:  backend,
		renderer: p.renderer,
		reader:   reader,
		signals: &signalRelay{
			source: platform.Signals(),
			send:   p.send,
			log:    p.log.Named("signals"),
		},
		onResize: func(w, h int) { p.send(WindowSizeMsg{Width: w, Height: h}) },
		cancel:   func() { p.cancel(nil) },
		log:      p.log.Named("lifecycle"),
	}
	// Deferred so a panic in Update or View still restores the terminal
	defer func() {
		p.setState(StateDraining)
		lc.release()
	}()

	if err := lc.acquire(); err != nil {
		return model, err
	}

	p.setState(StateRunning)
	p.log.Debug("program started", zap.Int("width", width), zap.Int("height", height))

	p.sched.Schedule(model.Init())
	p.renderer.Render(model.View())

	var profile Msg
	if env != nil {
		prof := env.ColorProfile()
		p.statProfile.Store(terminal.ProfileName(prof))
		profile = ColorProfileMsg{Profile: prof}
	}
	initial := []Msg{WindowSizeMsg{Width: width, Height: height}, profile}

	model, err = p.eventLoop(model, initial)
	p.log.Debug("program stopped", zap.Error(err))
	return model, err
}

// eventLoop processes messages until quit, interrupt, kill or a fatal error
func (p *Program) eventLoop(model Model, initial []Msg) (Model, error) {
	for _, msg := range initial {
		var done bool
		if model, done = p.handle(model, msg); done {
			return model, nil
		}
	}

	for {
		select {
		case <-p.ctx.Done():
			cause := context.Cause(p.ctx)
			if errors.Is(cause, ErrProgramKilled) {
				return model, ErrProgramKilled
			}
			return model, fmt.Errorf("%w: %w", ErrProgramKilled, cause)

		case err := <-p.errs:
			return model, err

		case msg := <-p.msgs:
			var done bool
			if model, done = p.handle(model, msg); done {
				return model, nil
			}
		}
	}
}

// handle runs one message through the filter and Update; done reports a stop request
func (p *Program) handle(model Model, msg Msg) (Model, bool) {
	if msg == nil {
		return model, false
	}
	if p.opts.Filter != nil {
		if msg = p.opts.Filter(model, msg); msg == nil {
			return model, false
		}
	}

	switch m := msg.(type) {
	case QuitMsg:
		return model, true

	case InterruptMsg:
		p.log.Debug("interrupted")
		return model, true

	case windowSizeRequestMsg:
		w, h := p.backend.Size()
		p.renderer.Resize(w, h)
		msg = WindowSizeMsg{Width: w, Height: h}

	case WindowSizeMsg:
		p.renderer.Resize(m.Width, m.Height)

	default:
		if p.sched.Handle(msg) {
			return model, false
		}
	}

	p.statMsgs.Add(1)
	var cmd Cmd
	model, cmd = model.Update(msg)
	p.sched.Schedule(cmd)
	p.renderer.Render(model.View())
	return model, false
}

// onInput converts decoded terminal events into messages
func (p *Program) onInput(ev terminal.Event) {
	p.statEvents.Add(1)

	var msg Msg
	switch e := ev.(type) {
	case terminal.KeyEvent:
		if e.Key == terminal.KeyCtrlC && e.Mod == 0 && !p.opts.CtrlCAsKey {
			msg = InterruptMsg{}
		} else {
			msg = KeyMsg(e)
		}
	case terminal.MouseEvent:
		msg = MouseMsg(e)
	case terminal.PasteStartEvent:
		msg = PasteStartMsg{}
	case terminal.PasteEndEvent:
		msg = PasteEndMsg{}
	case terminal.FocusEvent:
		msg = FocusMsg{}
	case terminal.BlurEvent:
		msg = BlurMsg{}
	default:
		return
	}
	p.send(msg)
}
