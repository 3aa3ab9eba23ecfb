// Package terminaltest provides in-memory terminal platform fakes for driving programs in tests
package terminaltest

import (
	"bytes"
	"io"
	"sync"

	"github.com/muesli/termenv"

	"github.com/lixenwraith/termloop/terminal"
)

// Backend is a scriptable terminal backend
// Input is queued with Type, output is captured, and lifecycle calls are counted
type Backend struct {
	mu       sync.Mutex
	width    int
	height   int
	out      bytes.Buffer
	writes   int
	inits    int
	finis    int
	initErr  error
	readErr  error
	writeErr error
	resize   func(width, height int)

	inputCh   chan []byte
	failCh    chan struct{}
	closeOnce sync.Once
	failOnce  sync.Once
}

// NewBackend creates a backend reporting the given size
func NewBackend(width, height int) *Backend {
	return &Backend{
		width:   width,
		height:  height,
		inputCh: make(chan []byte, 64),
		failCh:  make(chan struct{}),
	}
}

// Type queues raw input bytes
func (b *Backend) Type(s string) {
	b.inputCh <- []byte(s)
}

// CloseInput makes subsequent reads report end of input once queued data is drained
func (b *Backend) CloseInput() {
	b.closeOnce.Do(func() { close(b.inputCh) })
}

// Resize changes the reported size and fires the resize handler
func (b *Backend) Resize(width, height int) {
	b.mu.Lock()
	b.width, b.height = width, height
	handler := b.resize
	b.mu.Unlock()
	if handler != nil {
		handler(width, height)
	}
}

// FailInit makes the next Init return err
func (b *Backend) FailInit(err error) {
	b.mu.Lock()
	b.initErr = err
	b.mu.Unlock()
}

// FailRead makes the pending and every later Read return err
func (b *Backend) FailRead(err error) {
	b.failOnce.Do(func() {
		b.mu.Lock()
		b.readErr = err
		b.mu.Unlock()
		close(b.failCh)
	})
}

// FailWrite makes every later Write return err without capturing output
func (b *Backend) FailWrite(err error) {
	b.mu.Lock()
	b.writeErr = err
	b.mu.Unlock()
}

// Output returns everything written so far
func (b *Backend) Output() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.out.String()
}

// ResetOutput discards captured output
func (b *Backend) ResetOutput() {
	b.mu.Lock()
	b.out.Reset()
	b.mu.Unlock()
}

// Writes returns the number of Write calls
func (b *Backend) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}

// Inits returns the number of Init calls
func (b *Backend) Inits() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inits
}

// Finis returns the number of Fini calls
func (b *Backend) Finis() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.finis
}

func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inits++
	err := b.initErr
	b.initErr = nil
	return err
}

func (b *Backend) Fini() {
	b.mu.Lock()
	b.finis++
	b.mu.Unlock()
}

func (b *Backend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *Backend) Write(p []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes++
	if b.writeErr != nil {
		return b.writeErr
	}
	b.out.Write(p)
	return nil
}

func (b *Backend) Read(stopCh <-chan struct{}) ([]byte, error) {
	select {
	case <-b.failCh:
		b.mu.Lock()
		defer b.mu.Unlock()
		return nil, b.readErr
	case data, ok := <-b.inputCh:
		if !ok {
			return nil, io.EOF
		}
		return data, nil
	case <-stopCh:
		return nil, nil
	}
}

func (b *Backend) SetResizeHandler(handler func(width, height int)) {
	b.mu.Lock()
	b.resize = handler
	b.mu.Unlock()
}

// Signals is a manually triggered signal source
type Signals struct {
	mu      sync.Mutex
	handler func(terminal.Signal)
	stops   int
}

// Raise delivers sig to the registered handler, if any
func (s *Signals) Raise(sig terminal.Signal) {
	s.mu.Lock()
	handler := s.handler
	s.mu.Unlock()
	if handler != nil {
		handler(sig)
	}
}

// Registered reports whether a handler is currently installed
func (s *Signals) Registered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler != nil
}

// Stops returns how many times the stop function ran
func (s *Signals) Stops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}

func (s *Signals) Notify(handler func(terminal.Signal)) func() {
	s.mu.Lock()
	s.handler = handler
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.handler = nil
			s.stops++
			s.mu.Unlock()
		})
	}
}

// Clipboard is an in-memory clipboard; Err, when set, fails every call
type Clipboard struct {
	mu   sync.Mutex
	text string
	Err  error
}

func (c *Clipboard) ReadAll() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return "", c.Err
	}
	return c.text, nil
}

func (c *Clipboard) WriteAll(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.text = text
	return nil
}

// Environment is a fixed environment view
type Environment struct {
	Vars    map[string]string
	Profile termenv.Profile
	TTY     bool
}

func (e Environment) Getenv(key string) string { return e.Vars[key] }

func (e Environment) IsTerminal(uintptr) bool { return e.TTY }

func (e Environment) ColorProfile() termenv.Profile { return e.Profile }

// Platform wires the fakes together
// A nil Sigs or Clip is reported as unavailable
type Platform struct {
	Term *Backend
	Sigs *Signals
	Clip *Clipboard
	Env  Environment
	Err  error // Returned by OpenTerminal when set
}

// NewPlatform creates an 80x24 platform with signals, clipboard and a truecolor environment
func NewPlatform() *Platform {
	return &Platform{
		Term: NewBackend(80, 24),
		Sigs: &Signals{},
		Clip: &Clipboard{},
		Env:  Environment{Profile: termenv.TrueColor, TTY: true},
	}
}

func (p *Platform) OpenTerminal(io.Reader, io.Writer) (terminal.Backend, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Term, nil
}

func (p *Platform) Signals() terminal.Signals {
	if p.Sigs == nil {
		return nil
	}
	return p.Sigs
}

func (p *Platform) Clipboard() terminal.Clipboard {
	if p.Clip == nil {
		return nil
	}
	return p.Clip
}

func (p *Platform) Environment() terminal.Environment { return p.Env }
