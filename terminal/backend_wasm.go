//go:build js && wasm

package terminal

import (
	"io"
	"sync"
	"syscall/js"
)

// wasmBackend bridges an xterm.js page through goTerminalInput/goTerminalResize/goTerminalWrite
type wasmBackend struct {
	mu            sync.Mutex
	width, height int
	resize        func(width, height int)

	inputCh     chan []byte
	jsCallbacks []js.Func
}

func newWasmBackend() *wasmBackend {
	return &wasmBackend{
		width:   80,
		height:  24,
		inputCh: make(chan []byte, 256),
	}
}

func (b *wasmBackend) Init() error {
	inputCb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			data := make([]byte, args[0].Length())
			js.CopyBytesToGo(data, args[0])
			select {
			case b.inputCh <- data:
			default:
				// Buffer full, drop input
			}
		}
		return nil
	})
	b.jsCallbacks = append(b.jsCallbacks, inputCb)
	js.Global().Set("goTerminalInput", inputCb)

	resizeCb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) < 2 {
			return nil
		}
		w, h := args[0].Int(), args[1].Int()
		b.mu.Lock()
		b.width, b.height = w, h
		handler := b.resize
		b.mu.Unlock()
		if handler != nil {
			handler(w, h)
		}
		return nil
	})
	b.jsCallbacks = append(b.jsCallbacks, resizeCb)
	js.Global().Set("goTerminalResize", resizeCb)

	if xterm := js.Global().Get("xterm"); !xterm.IsUndefined() {
		b.mu.Lock()
		b.width = xterm.Get("cols").Int()
		b.height = xterm.Get("rows").Int()
		b.mu.Unlock()
	}
	return nil
}

func (b *wasmBackend) Fini() {
	for _, cb := range b.jsCallbacks {
		cb.Release()
	}
	b.jsCallbacks = nil
	js.Global().Delete("goTerminalInput")
	js.Global().Delete("goTerminalResize")
}

func (b *wasmBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *wasmBackend) Write(p []byte) error {
	arr := js.Global().Get("Uint8Array").New(len(p))
	js.CopyBytesToJS(arr, p)
	js.Global().Call("goTerminalWrite", arr)
	return nil
}

// Read waits for the next chunk from the page; lone ESC resolution is left to the input reader
func (b *wasmBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	select {
	case data, ok := <-b.inputCh:
		if !ok {
			return nil, io.EOF
		}
		return data, nil
	case <-stopCh:
		return nil, nil
	}
}

func (b *wasmBackend) SetResizeHandler(handler func(width, height int)) {
	b.mu.Lock()
	b.resize = handler
	b.mu.Unlock()
}

type wasmPlatform struct {
	env Environment
}

// NewNativePlatform returns the browser platform: xterm.js terminal, no OS signals, no system clipboard
// Clipboard writes fall back to OSC 52, which xterm.js handles
func NewNativePlatform() Platform {
	return &wasmPlatform{env: NewOSEnvironment()}
}

func (p *wasmPlatform) OpenTerminal(io.Reader, io.Writer) (Backend, error) {
	return newWasmBackend(), nil
}

func (p *wasmPlatform) Signals() Signals         { return nil }
func (p *wasmPlatform) Clipboard() Clipboard     { return nil }
func (p *wasmPlatform) Environment() Environment { return p.env }
