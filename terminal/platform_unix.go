//go:build unix

package terminal

import (
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

type nativePlatform struct {
	signals   Signals
	clipboard Clipboard
	env       Environment
}

// NewNativePlatform returns the Unix platform: tty backend when the input is a terminal,
// stream backend otherwise, OS signals, system clipboard and process environment
func NewNativePlatform() Platform {
	return &nativePlatform{
		signals:   NewOSSignals(),
		clipboard: NewSystemClipboard(),
		env:       NewOSEnvironment(),
	}
}

func (p *nativePlatform) OpenTerminal(in io.Reader, out io.Writer) (Backend, error) {
	inF, inOK := in.(*os.File)
	outF, outOK := out.(*os.File)
	if inOK && outOK && p.env.IsTerminal(inF.Fd()) {
		return newUnixBackend(inF, outF), nil
	}

	// Non-tty input: size from the output when it is a terminal
	var size func() (int, int)
	if outOK && p.env.IsTerminal(outF.Fd()) {
		fd := int(outF.Fd())
		size = func() (int, int) {
			if w, h, ok := getTerminalSize(fd); ok {
				return w, h
			}
			return 80, 24
		}
	}
	return NewStreamBackend(in, out, size)
}

func (p *nativePlatform) Signals() Signals         { return p.signals }
func (p *nativePlatform) Clipboard() Clipboard     { return p.clipboard }
func (p *nativePlatform) Environment() Environment { return p.env }

type osSignals struct{}

// NewOSSignals returns a signal source for SIGINT, SIGTERM and SIGHUP
func NewOSSignals() Signals {
	return osSignals{}
}

func (osSignals) Notify(handler func(Signal)) func() {
	sigCh := make(chan os.Signal, 1)
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		defer close(doneCh)
		for {
			select {
			case <-stopCh:
				return
			case s := <-sigCh:
				switch s {
				case syscall.SIGINT:
					handler(SignalInterrupt)
				case syscall.SIGTERM:
					handler(SignalTerminate)
				case syscall.SIGHUP:
					handler(SignalHangup)
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(stopCh)
			<-doneCh
		})
	}
}
