package engine

import "errors"

var (
	// ErrNoPlatform is returned by Run when no platform was injected
	ErrNoPlatform = errors.New("no platform configured")

	// ErrProgramKilled is returned by Run after Kill or cancellation of the program context
	ErrProgramKilled = errors.New("program was killed")

	// ErrTerminal wraps terminal adapter failures
	ErrTerminal = errors.New("terminal failure")

	// ErrAlreadyStarted is returned by a second call to Run
	ErrAlreadyStarted = errors.New("program already started")

	// ErrClipboardUnavailable is delivered when the platform has no clipboard to read
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
)
