package core

import (
	"runtime/debug"
	"sync"
)

// Finalizer restores whatever terminal state a crash would otherwise leave behind
type Finalizer interface {
	Fini()
}

var (
	crashMu       sync.Mutex
	crashTerminal Finalizer
)

// RegisterCrashTerminal makes HandleCrash finalize t instead of writing a blind reset
// The returned function unregisters t if it is still the registered finalizer
func RegisterCrashTerminal(t Finalizer) (unregister func()) {
	crashMu.Lock()
	crashTerminal = t
	crashMu.Unlock()

	return func() {
		crashMu.Lock()
		if crashTerminal == t {
			crashTerminal = nil
		}
		crashMu.Unlock()
	}
}

func registeredTerminal() Finalizer {
	crashMu.Lock()
	defer crashMu.Unlock()
	return crashTerminal
}

// Go runs a function in a new goroutine with panic recovery
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}

// Safe runs fn and returns the recovered panic value and stack, if fn panicked
func Safe(fn func()) (recovered any, stack []byte) {
	defer func() {
		if r := recover(); r != nil {
			recovered = r
			stack = debug.Stack()
		}
	}()
	fn()
	return nil, nil
}
