//go:build unix

package terminal

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// tcellBackend runs over tcell's /dev/tty device
// Useful when stdin/stdout are redirected but a controlling terminal exists
type tcellBackend struct {
	tty tcell.Tty

	mu     sync.Mutex
	resize func(width, height int)
}

func newTcellBackend() (*tcellBackend, error) {
	tty, err := tcell.NewDevTty()
	if err != nil {
		return nil, err
	}
	return &tcellBackend{tty: tty}, nil
}

func (b *tcellBackend) Init() error {
	if err := b.tty.Start(); err != nil {
		return err
	}
	b.tty.NotifyResize(func() {
		b.mu.Lock()
		handler := b.resize
		b.mu.Unlock()
		if handler != nil {
			w, h := b.Size()
			handler(w, h)
		}
	})
	return nil
}

func (b *tcellBackend) Fini() {
	b.tty.NotifyResize(nil)
	_ = b.tty.Drain()
	_ = b.tty.Stop()
}

func (b *tcellBackend) Close() error {
	return b.tty.Close()
}

func (b *tcellBackend) Size() (int, int) {
	ws, err := b.tty.WindowSize()
	if err != nil || ws.Width == 0 || ws.Height == 0 {
		return 80, 24
	}
	return ws.Width, ws.Height
}

func (b *tcellBackend) Write(p []byte) error {
	_, err := b.tty.Write(p)
	return err
}

// Read blocks on the tty; Stop sets a read deadline which unblocks it during Fini
func (b *tcellBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	select {
	case <-stopCh:
		return nil, nil
	default:
	}

	buf := make([]byte, 256)
	n, err := b.tty.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	switch {
	case err == nil, errors.Is(err, os.ErrDeadlineExceeded):
		return nil, nil
	case errors.Is(err, io.EOF):
		return nil, io.EOF
	}
	return nil, err
}

func (b *tcellBackend) SetResizeHandler(handler func(width, height int)) {
	b.mu.Lock()
	b.resize = handler
	b.mu.Unlock()
}

type tcellPlatform struct {
	signals   Signals
	clipboard Clipboard
	env       Environment
}

// NewTcellPlatform returns a platform whose terminal is tcell's /dev/tty device
// The in/out streams passed to OpenTerminal are ignored
func NewTcellPlatform() Platform {
	return &tcellPlatform{
		signals:   NewOSSignals(),
		clipboard: NewSystemClipboard(),
		env:       NewOSEnvironment(),
	}
}

func (p *tcellPlatform) OpenTerminal(io.Reader, io.Writer) (Backend, error) {
	return newTcellBackend()
}

func (p *tcellPlatform) Signals() Signals         { return p.signals }
func (p *tcellPlatform) Clipboard() Clipboard     { return p.clipboard }
func (p *tcellPlatform) Environment() Environment { return p.env }
