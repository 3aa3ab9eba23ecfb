package render

import (
	"github.com/lixenwraith/termloop/terminal"
)

// writeLocked writes seq immediately; caller holds r.mu
func (r *Renderer) writeLocked(seq string) error {
	if seq == "" {
		return nil
	}
	if err := r.out.Write([]byte(seq)); err != nil {
		return err
	}
	r.statBytes.Add(int64(len(seq)))
	return nil
}

// WriteRaw writes seq outside the frame diff, e.g. OSC 52 clipboard requests
func (r *Renderer) WriteRaw(seq string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeLocked(seq)
}

// AltScreen reports whether the alternate screen is active
func (r *Renderer) AltScreen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.altScreen
}

// EnterAltScreen switches to the alternate screen and schedules a full repaint
func (r *Renderer) EnterAltScreen() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.altScreen {
		return nil
	}
	if err := r.writeLocked(terminal.AltScreenEnter + terminal.EraseScreen + terminal.CursorHome); err != nil {
		return err
	}
	r.altScreen = true
	r.statAlt.Store(true)
	r.lines = nil
	r.repaint = true
	r.dirty = true
	return nil
}

// ExitAltScreen returns to the main screen; the frame is repainted inline on the next flush
func (r *Renderer) ExitAltScreen() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.altScreen {
		return nil
	}
	if err := r.writeLocked(terminal.AltScreenExit); err != nil {
		return err
	}
	r.altScreen = false
	r.statAlt.Store(false)
	r.lines = nil
	r.repaint = true
	r.dirty = true
	return nil
}

func (r *Renderer) HideCursor() error { return r.WriteRaw(terminal.CursorHide) }

func (r *Renderer) ShowCursor() error { return r.WriteRaw(terminal.CursorShow) }

// EnableMouse turns on reporting for mode with SGR coordinates; MouseModeOff is a no-op
func (r *Renderer) EnableMouse(mode terminal.MouseMode) error {
	switch mode {
	case terminal.MouseModeCell:
		return r.WriteRaw(terminal.MouseCellOn + terminal.MouseSGROn)
	case terminal.MouseModeAll:
		return r.WriteRaw(terminal.MouseAllOn + terminal.MouseSGROn)
	}
	return nil
}

// DisableMouse turns off every mouse reporting mode
func (r *Renderer) DisableMouse() error {
	return r.WriteRaw(terminal.MouseAllOff + terminal.MouseCellOff + terminal.MouseClickOff + terminal.MouseSGROff)
}

func (r *Renderer) EnableBracketedPaste() error { return r.WriteRaw(terminal.BracketedPasteOn) }

func (r *Renderer) DisableBracketedPaste() error { return r.WriteRaw(terminal.BracketedPasteOff) }

func (r *Renderer) EnableFocusReport() error { return r.WriteRaw(terminal.FocusReportOn) }

func (r *Renderer) DisableFocusReport() error { return r.WriteRaw(terminal.FocusReportOff) }
