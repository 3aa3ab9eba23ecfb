package terminal

import (
	"errors"
	"io"
	"sync"

	"github.com/muesli/cancelreader"
)

// streamBackend drives a program over arbitrary byte streams (pipes, sockets, files)
// Raw mode does not apply; reads are interrupted through a cancel reader
type streamBackend struct {
	r    cancelreader.CancelReader
	out  io.Writer
	size func() (int, int)

	mu sync.Mutex // Serializes writes to out
}

// NewStreamBackend creates a backend over in/out
// size reports dimensions; nil defaults to 80x24
func NewStreamBackend(in io.Reader, out io.Writer, size func() (int, int)) (Backend, error) {
	r, err := cancelreader.NewReader(in)
	if err != nil {
		return nil, err
	}
	if size == nil {
		size = func() (int, int) { return 80, 24 }
	}
	return &streamBackend{r: r, out: out, size: size}, nil
}

func (s *streamBackend) Init() error { return nil }

func (s *streamBackend) Fini() {
	s.r.Cancel()
}

func (s *streamBackend) Close() error {
	return s.r.Close()
}

func (s *streamBackend) Size() (int, int) {
	return s.size()
}

func (s *streamBackend) Write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.out.Write(p)
	return err
}

// Read blocks on the stream; closing stopCh cancels the pending read
func (s *streamBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-stopCh:
			s.r.Cancel()
		case <-done:
		}
	}()

	buf := make([]byte, 256)
	n, err := s.r.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	switch {
	case err == nil:
		return nil, nil
	case errors.Is(err, cancelreader.ErrCanceled):
		return nil, nil
	case errors.Is(err, io.EOF):
		return nil, io.EOF
	}
	return nil, err
}

// SetResizeHandler is a no-op; streams carry no window geometry
func (s *streamBackend) SetResizeHandler(func(width, height int)) {}
