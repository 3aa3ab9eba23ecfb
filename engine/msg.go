package engine

import (
	"github.com/muesli/termenv"

	"github.com/lixenwraith/termloop/terminal"
)

// Msg is any value delivered to Update
// System messages are the concrete types below; applications define their own
type Msg interface{}

// Model is the application state with its three lifecycle functions
// Update returns the next Model; the runtime never mutates a Model
type Model interface {
	Init() Cmd
	Update(Msg) (Model, Cmd)
	View() string
}

// KeyMsg is a decoded keystroke or a coalesced paste (Paste set)
type KeyMsg = terminal.KeyEvent

// MouseMsg is a decoded mouse report with 0-based coordinates
type MouseMsg = terminal.MouseEvent

// PasteStartMsg and PasteEndMsg bracket a paste; the text arrives as a KeyMsg with Paste set
type PasteStartMsg struct{}

type PasteEndMsg struct{}

// WindowSizeMsg reports the terminal size, sent at startup and on every resize
type WindowSizeMsg struct {
	Width  int
	Height int
}

// FocusMsg and BlurMsg report terminal focus changes when focus reporting is enabled
type FocusMsg struct{}

type BlurMsg struct{}

// InterruptMsg is Ctrl+C or SIGINT; unless a filter replaces it, the program stops
type InterruptMsg struct{}

// QuitMsg stops the program; Update never sees it
type QuitMsg struct{}

// ClipboardMsg carries text read by ReadClipboard
type ClipboardMsg struct {
	Text string
}

// ClipboardErrorMsg reports a failed clipboard command
type ClipboardErrorMsg struct {
	Err error
}

func (m ClipboardErrorMsg) Error() string { return m.Err.Error() }

// ColorProfileMsg reports the detected color capability at startup
type ColorProfileMsg struct {
	Profile termenv.Profile
}

// String returns the profile name: truecolor, 256, 16 or ascii
func (m ColorProfileMsg) String() string { return terminal.ProfileName(m.Profile) }
