package terminal

import (
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sync"
	"time"
)

// DefaultEscTimeout is how long a lone ESC waits for the rest of a sequence
const DefaultEscTimeout = 50 * time.Millisecond

// stopGrace bounds how long Stop waits for a backend read that ignores the stop channel
const stopGrace = 100 * time.Millisecond

// InputReader pumps backend bytes through a Decoder and delivers events
// A pump goroutine owns Backend.Read; a decode goroutine owns the Decoder and the ESC timer
type InputReader struct {
	backend    Backend
	decoder    *Decoder
	escTimeout time.Duration
	emit       func(Event)
	fatal      func(error)

	dataCh   chan []byte
	errCh    chan error
	stopCh   chan struct{}
	doneCh   chan struct{}
	pumpDone chan struct{}

	mu      sync.Mutex
	running bool
	stopped bool
}

// NewInputReader creates a reader over backend
// emit receives every decoded event in order; fatal receives read errors other than io.EOF and decoder panics
func NewInputReader(backend Backend, escTimeout time.Duration, emit func(Event), fatal func(error)) *InputReader {
	if escTimeout <= 0 {
		escTimeout = DefaultEscTimeout
	}
	if fatal == nil {
		fatal = func(error) {}
	}
	return &InputReader{
		backend:    backend,
		decoder:    NewDecoder(),
		escTimeout: escTimeout,
		emit:       emit,
		fatal:      fatal,
		dataCh:     make(chan []byte),
		errCh:      make(chan error, 1),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
		pumpDone:   make(chan struct{}),
	}
}

// Start launches the reader goroutines; repeated calls are ignored
func (r *InputReader) Start() {
	r.mu.Lock()
	if r.running || r.stopped {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	go r.pump()
	go r.decodeLoop()
}

// Stop halts both goroutines
// The decode loop is always joined; a read stuck in the backend is abandoned after a short grace period
func (r *InputReader) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	wasRunning := r.running
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	if !wasRunning {
		return
	}

	<-r.doneCh
	select {
	case <-r.pumpDone:
	case <-time.After(stopGrace):
		// Reader stuck on blocking read, proceed anyway
	}
}

// Done is closed once the decode loop exits, including after end of input
func (r *InputReader) Done() <-chan struct{} {
	return r.doneCh
}

func (r *InputReader) pump() {
	defer close(r.pumpDone)

	for {
		data, err := r.backend.Read(r.stopCh)
		if err != nil {
			r.errCh <- err
			return
		}

		if len(data) == 0 {
			// Timeout or stop
			select {
			case <-r.stopCh:
				return
			default:
				continue
			}
		}

		select {
		case r.dataCh <- data:
		case <-r.stopCh:
			return
		}
	}
}

func (r *InputReader) decodeLoop() {
	defer close(r.doneCh)

	defer func() {
		if p := recover(); p != nil {
			r.fatal(fmt.Errorf("input decoder panic: %v\n%s", p, debug.Stack()))
		}
	}()

	var timer *time.Timer
	var timerC <-chan time.Time
	disarm := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}
	defer disarm()

	for {
		select {
		case <-r.stopCh:
			return

		case data := <-r.dataCh:
			r.deliver(r.decoder.Feed(data))
			disarm()
			if r.decoder.Pending() {
				timer = time.NewTimer(r.escTimeout)
				timerC = timer.C
			}

		case <-timerC:
			timer = nil
			timerC = nil
			r.deliver(r.decoder.Flush())

		case err := <-r.errCh:
			disarm()
			r.deliver(r.decoder.Flush())
			if !errors.Is(err, io.EOF) {
				r.fatal(fmt.Errorf("read input: %w", err))
			}
			return
		}
	}
}

func (r *InputReader) deliver(events []Event) {
	for _, ev := range events {
		select {
		case <-r.stopCh:
			return
		default:
		}
		r.emit(ev)
	}
}
