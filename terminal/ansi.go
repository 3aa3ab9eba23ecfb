// @focus: #terminal { ansi }
package terminal

import (
	"github.com/charmbracelet/x/ansi"
)

// ANSI control sequences emitted by the runtime
const (
	csiSGR0 = "\x1b[0m"
	csiRIS  = "\x1bc" // Reset to Initial State (emergency)

	// Cursor control
	CursorHide = "\x1b[?25l"
	CursorShow = "\x1b[?25h"
	CursorHome = "\x1b[H"

	// Erase
	EraseScreen    = "\x1b[2J"
	EraseLineRight = "\x1b[K"
	EraseBelow     = "\x1b[J"

	// Screen modes
	AltScreenEnter = "\x1b[?1049h"
	AltScreenExit  = "\x1b[?1049l"

	// Mouse reporting
	// 1000 press/release, 1002 adds motion while a button is held (cell motion),
	// 1003 adds all motion, 1006 switches coordinates to SGR encoding
	MouseClickOn  = "\x1b[?1000h"
	MouseClickOff = "\x1b[?1000l"
	MouseCellOn   = ansi.SetButtonEventMouseMode
	MouseCellOff  = ansi.ResetButtonEventMouseMode
	MouseAllOn    = ansi.SetAnyEventMouseMode
	MouseAllOff   = ansi.ResetAnyEventMouseMode
	MouseSGROn    = ansi.SetSgrExtMouseMode
	MouseSGROff   = ansi.ResetSgrExtMouseMode

	// Bracketed paste (2004) and focus reporting (1004)
	BracketedPasteOn  = ansi.SetBracketedPasteMode
	BracketedPasteOff = ansi.ResetBracketedPasteMode
	FocusReportOn     = ansi.SetFocusEventMode
	FocusReportOff    = ansi.ResetFocusEventMode
)

// Input markers recognized by the decoder
const (
	pasteStartSeq = "\x1b[200~"
	pasteEndSeq   = "\x1b[201~"
)

// CursorPosition returns the CUP sequence for a 0-indexed position
func CursorPosition(x, y int) string {
	return ansi.CursorPosition(x+1, y+1)
}

// CursorUp returns the CUU sequence moving n rows up, empty for n <= 0
func CursorUp(n int) string {
	if n <= 0 {
		return ""
	}
	return ansi.CursorUp(n)
}

// CursorDown returns the CUD sequence moving n rows down, empty for n <= 0
func CursorDown(n int) string {
	if n <= 0 {
		return ""
	}
	return ansi.CursorDown(n)
}
