package engine

import (
	"context"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/termloop/render"
	"github.com/lixenwraith/termloop/terminal"
)

// Options configures a Program; it is frozen once NewProgram returns
type Options struct {
	AltScreen      bool
	MouseMode      terminal.MouseMode
	FPS            int // Clamped to 1..120
	ReportFocus    bool
	BracketedPaste bool
	Input          io.Reader
	Output         io.Writer
	Platform       terminal.Platform // Required

	Logger        *zap.Logger
	Context       context.Context
	Filter        func(Model, Msg) Msg // Runs before Update; returning nil drops the message
	CtrlCAsKey    bool                 // Deliver 0x03 as KeyMsg instead of InterruptMsg
	EscTimeout    time.Duration        // Lone ESC disambiguation window
	HandleSignals bool
}

// Option mutates Options during NewProgram
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		FPS:            render.DefaultFPS,
		BracketedPaste: true,
		Input:          os.Stdin,
		Output:         os.Stdout,
		Logger:         zap.NewNop(),
		Context:        context.Background(),
		EscTimeout:     terminal.DefaultEscTimeout,
		HandleSignals:  true,
	}
}

// WithPlatform sets the terminal, signal, clipboard and environment adapters
func WithPlatform(p terminal.Platform) Option {
	return func(o *Options) { o.Platform = p }
}

// WithAltScreen runs the program in the alternate screen buffer
func WithAltScreen() Option {
	return func(o *Options) { o.AltScreen = true }
}

// WithMouseMode enables mouse reporting
func WithMouseMode(mode terminal.MouseMode) Option {
	return func(o *Options) { o.MouseMode = mode }
}

// WithMouseCellMotion reports clicks, wheel and drags
func WithMouseCellMotion() Option {
	return WithMouseMode(terminal.MouseModeCell)
}

// WithMouseAllMotion reports clicks, wheel and every motion event
func WithMouseAllMotion() Option {
	return WithMouseMode(terminal.MouseModeAll)
}

// WithFPS caps the frame rate
func WithFPS(fps int) Option {
	return func(o *Options) { o.FPS = fps }
}

// WithReportFocus delivers FocusMsg and BlurMsg
func WithReportFocus() Option {
	return func(o *Options) { o.ReportFocus = true }
}

// WithBracketedPaste toggles bracketed paste, on by default
func WithBracketedPaste(enabled bool) Option {
	return func(o *Options) { o.BracketedPaste = enabled }
}

// WithInput sets the input stream, os.Stdin by default
func WithInput(r io.Reader) Option {
	return func(o *Options) { o.Input = r }
}

// WithOutput sets the output stream, os.Stdout by default
func WithOutput(w io.Writer) Option {
	return func(o *Options) { o.Output = w }
}

// WithLogger sets the runtime logger; the terminal is raw while running, so log to a file
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithContext stops the program when ctx is done; Run then returns ErrProgramKilled
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Context = ctx
		}
	}
}

// WithFilter installs a hook that may replace or drop each message before Update
func WithFilter(f func(Model, Msg) Msg) Option {
	return func(o *Options) { o.Filter = f }
}

// WithCtrlCAsKey delivers Ctrl+C as a KeyMsg
func WithCtrlCAsKey() Option {
	return func(o *Options) { o.CtrlCAsKey = true }
}

// WithEscTimeout sets how long a lone ESC waits before resolving to KeyEscape
func WithEscTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.EscTimeout = d
		}
	}
}

// WithoutSignalHandler leaves SIGINT, SIGTERM and SIGHUP to the caller
func WithoutSignalHandler() Option {
	return func(o *Options) { o.HandleSignals = false }
}
