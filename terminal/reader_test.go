package terminal_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lixenwraith/termloop/terminal"
	"github.com/lixenwraith/termloop/terminal/terminaltest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type eventSink struct {
	mu     sync.Mutex
	events []terminal.Event
	errs   []error
}

func (s *eventSink) emit(ev terminal.Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *eventSink) fatal(err error) {
	s.mu.Lock()
	s.errs = append(s.errs, err)
	s.mu.Unlock()
}

func (s *eventSink) snapshot() []terminal.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]terminal.Event(nil), s.events...)
}

func (s *eventSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestInputReaderDecodes(t *testing.T) {
	backend := terminaltest.NewBackend(80, 24)
	sink := &eventSink{}
	r := terminal.NewInputReader(backend, 20*time.Millisecond, sink.emit, sink.fatal)
	r.Start()
	defer r.Stop()

	backend.Type("hi\x1b[A")

	require.Eventually(t, func() bool { return sink.count() == 3 }, time.Second, 5*time.Millisecond)
	events := sink.snapshot()
	assert.Equal(t, terminal.KeyEvent{Key: terminal.KeyRune, Runes: []rune{'h'}}, events[0])
	assert.Equal(t, terminal.KeyEvent{Key: terminal.KeyRune, Runes: []rune{'i'}}, events[1])
	assert.Equal(t, terminal.KeyEvent{Key: terminal.KeyUp}, events[2])
}

func TestInputReaderLoneEscapeTimeout(t *testing.T) {
	backend := terminaltest.NewBackend(80, 24)
	sink := &eventSink{}
	r := terminal.NewInputReader(backend, 30*time.Millisecond, sink.emit, sink.fatal)
	r.Start()
	defer r.Stop()

	start := time.Now()
	backend.Type("\x1b")

	require.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 2*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.Equal(t, terminal.KeyEvent{Key: terminal.KeyEscape}, sink.snapshot()[0])
}

func TestInputReaderSplitSequenceWithinTimeout(t *testing.T) {
	backend := terminaltest.NewBackend(80, 24)
	sink := &eventSink{}
	r := terminal.NewInputReader(backend, 200*time.Millisecond, sink.emit, sink.fatal)
	r.Start()
	defer r.Stop()

	backend.Type("\x1b")
	backend.Type("[B")

	require.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, terminal.KeyEvent{Key: terminal.KeyDown}, sink.snapshot()[0])
}

func TestInputReaderEOF(t *testing.T) {
	backend := terminaltest.NewBackend(80, 24)
	sink := &eventSink{}
	r := terminal.NewInputReader(backend, time.Second, sink.emit, sink.fatal)
	r.Start()

	// Pending ESC is resolved when input ends
	backend.Type("\x1b")
	backend.CloseInput()

	select {
	case <-r.Done():
	case <-time.After(time.Second):
		t.Fatal("reader did not finish after end of input")
	}
	r.Stop()

	assert.Equal(t, []terminal.Event{terminal.KeyEvent{Key: terminal.KeyEscape}}, sink.snapshot())
	assert.Empty(t, sink.errs)
}

type failingBackend struct {
	*terminaltest.Backend
	err error
}

func (f failingBackend) Read(<-chan struct{}) ([]byte, error) { return nil, f.err }

func TestInputReaderFatalError(t *testing.T) {
	boom := errors.New("device gone")
	sink := &eventSink{}
	r := terminal.NewInputReader(failingBackend{terminaltest.NewBackend(80, 24), boom}, 0, sink.emit, sink.fatal)
	r.Start()

	<-r.Done()
	r.Stop()

	require.Len(t, sink.errs, 1)
	assert.ErrorIs(t, sink.errs[0], boom)
}

func TestInputReaderStopIsIdempotent(t *testing.T) {
	backend := terminaltest.NewBackend(80, 24)
	r := terminal.NewInputReader(backend, 0, func(terminal.Event) {}, nil)
	r.Start()
	r.Stop()
	r.Stop()
	r.Start() // No restart after stop
}
