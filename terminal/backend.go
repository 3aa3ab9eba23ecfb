package terminal

// Backend abstracts platform-specific terminal operations
// Implementations exist for Unix ttys, plain byte streams, tcell ttys and WASM (xterm.js)
type Backend interface {
	// Init enters raw mode (no-op for non-tty streams)
	Init() error

	// Fini restores the mode saved by Init
	Fini()

	// Size returns current terminal dimensions
	Size() (width, height int)

	// Write writes raw bytes to the terminal output
	Write(p []byte) error

	// Read blocks until input is available, the stop channel is closed, or an error occurs
	// Returns (nil, nil) on stop or poll timeout and io.EOF when input is exhausted
	Read(stopCh <-chan struct{}) ([]byte, error)

	// SetResizeHandler registers a callback for terminal resize events
	SetResizeHandler(handler func(width, height int))
}

// Closer is implemented by backends holding resources beyond raw mode (ttys, cancel readers)
type Closer interface {
	Close() error
}
