package terminal

import (
	"io"

	"github.com/muesli/termenv"
)

// Platform bundles the host adapters a program runs on
// It is always injected by the caller; nothing in this module detects one implicitly
type Platform interface {
	// OpenTerminal builds the terminal backend over the given streams
	OpenTerminal(in io.Reader, out io.Writer) (Backend, error)

	// Signals returns the OS signal source, nil when signals are unavailable
	Signals() Signals

	// Clipboard returns the system clipboard, nil when unavailable
	Clipboard() Clipboard

	// Environment returns the process environment view
	Environment() Environment
}

// Signal is an OS-level request the runtime understands
type Signal uint8

const (
	SignalInterrupt Signal = iota + 1 // SIGINT
	SignalTerminate                   // SIGTERM
	SignalHangup                      // SIGHUP
)

func (s Signal) String() string {
	switch s {
	case SignalInterrupt:
		return "interrupt"
	case SignalTerminate:
		return "terminate"
	case SignalHangup:
		return "hangup"
	default:
		return "unknown"
	}
}

// Signals delivers OS signals until the returned stop function is called
type Signals interface {
	Notify(handler func(Signal)) (stop func())
}

// Clipboard reads and writes the system clipboard
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// Environment exposes environment and capability detection
type Environment interface {
	Getenv(key string) string
	IsTerminal(fd uintptr) bool
	ColorProfile() termenv.Profile
}

// ProfileName returns a stable name for a termenv color profile
func ProfileName(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "truecolor"
	case termenv.ANSI256:
		return "256"
	case termenv.ANSI:
		return "16"
	default:
		return "ascii"
	}
}
