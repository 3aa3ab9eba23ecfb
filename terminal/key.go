package terminal

import "strings"

// Key represents a parsed input key
type Key uint16

// Key constants
const (
	KeyNone Key = iota
	KeyRune     // Printable character(s), check KeyEvent.Runes

	// Control keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab // Shift+Tab
	KeyBackspace
	KeyDelete
	KeySpace

	// Navigation
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Ctrl+letter (Ctrl+A = 0x01, Ctrl+Z = 0x1A)
	// Tab (0x09), Enter (0x0A, 0x0D) and Backspace (0x08) are reported as their named keys
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlH
	KeyCtrlI
	KeyCtrlJ
	KeyCtrlK
	KeyCtrlL
	KeyCtrlM
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ

	// Ctrl+special
	KeyCtrlSpace
	KeyCtrlBackslash
	KeyCtrlBracketLeft
	KeyCtrlBracketRight
	KeyCtrlCaret
	KeyCtrlUnderscore
)

// Modifier flags
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
)

// KeyEvent is a decoded keystroke or a coalesced paste
// Key == KeyRune always carries at least one rune; Mod is independent of Key
type KeyEvent struct {
	Key   Key
	Runes []rune
	Mod   Modifier
	Paste bool
}

func (KeyEvent) isEvent() {}

// Alt reports whether the key was pressed with Alt (ESC prefix)
func (k KeyEvent) Alt() bool { return k.Mod&ModAlt != 0 }

// Ctrl reports an explicit Ctrl modifier from an xterm parameter
func (k KeyEvent) Ctrl() bool { return k.Mod&ModCtrl != 0 }

// Shift reports an explicit Shift modifier from an xterm parameter
func (k KeyEvent) Shift() bool { return k.Mod&ModShift != 0 }

// String returns a human-readable key description, e.g. "ctrl+c", "alt+x", "shift+up"
func (k KeyEvent) String() string {
	var sb strings.Builder
	if k.Mod&ModCtrl != 0 {
		sb.WriteString("ctrl+")
	}
	if k.Mod&ModAlt != 0 {
		sb.WriteString("alt+")
	}
	if k.Mod&ModShift != 0 && k.Key != KeyBacktab {
		sb.WriteString("shift+")
	}

	switch k.Key {
	case KeyRune:
		if k.Paste {
			sb.WriteByte('[')
		}
		sb.WriteString(string(k.Runes))
		if k.Paste {
			sb.WriteByte(']')
		}
	case KeyNone:
		sb.WriteString("none")
	default:
		sb.WriteString(KeyName(k.Key))
	}
	return sb.String()
}

// runeKey builds a printable key event
func runeKey(r rune) KeyEvent {
	if r == ' ' {
		return KeyEvent{Key: KeySpace, Runes: []rune{' '}}
	}
	return KeyEvent{Key: KeyRune, Runes: []rune{r}}
}
