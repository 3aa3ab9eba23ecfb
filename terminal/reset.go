package terminal

import (
	"io"
	"os"
)

// EmergencyReset attempts to restore the terminal to a sane state
// Call this from panic recovery when Fini cannot run normally
func EmergencyReset(w io.Writer) {
	io.WriteString(w, MouseAllOff+MouseCellOff+MouseClickOff+MouseSGROff)
	io.WriteString(w, BracketedPasteOff+FocusReportOff)
	io.WriteString(w, CursorShow+AltScreenExit+csiSGR0+csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
