package terminal

import (
	"strconv"
	"strings"
)

// keyFinals is the reverse of csiFinalKeys for keys with a letter final
var keyFinals = map[Key]byte{
	KeyUp:    'A',
	KeyDown:  'B',
	KeyRight: 'C',
	KeyLeft:  'D',
	KeyHome:  'H',
	KeyEnd:   'F',
	KeyF1:    'P',
	KeyF2:    'Q',
	KeyF3:    'R',
	KeyF4:    'S',
}

// keyTildeCodes is the reverse of csiTildeKeys for the xterm encoding
var keyTildeCodes = map[Key]int{
	KeyInsert:   2,
	KeyDelete:   3,
	KeyPageUp:   5,
	KeyPageDown: 6,
	KeyF5:       15,
	KeyF6:       17,
	KeyF7:       18,
	KeyF8:       19,
	KeyF9:       20,
	KeyF10:      21,
	KeyF11:      23,
	KeyF12:      24,
}

// EncodeKey returns the bytes an xterm-compatible terminal sends for k
// Paste events are wrapped in bracketed paste markers
// Returns empty string for keys that have no encoding
func EncodeKey(k KeyEvent) string {
	if k.Paste {
		return pasteStartSeq + string(k.Runes) + pasteEndSeq
	}

	var prefix string
	if k.Mod&ModAlt != 0 {
		prefix = "\x1b"
	}

	switch k.Key {
	case KeyRune:
		return prefix + string(k.Runes)
	case KeySpace:
		return prefix + " "
	case KeyEscape:
		return prefix + "\x1b"
	case KeyEnter:
		return prefix + "\r"
	case KeyTab:
		return prefix + "\t"
	case KeyBacktab:
		return prefix + "\x1b[Z"
	case KeyBackspace:
		return prefix + "\x7f"
	}

	for b, key := range ctrlKeys {
		if key == k.Key && key >= KeyCtrlA {
			return prefix + string(rune(b))
		}
	}

	// Sequences carry Alt in the xterm parameter instead of an ESC prefix
	param := xtermParam(k.Mod)
	if final, ok := keyFinals[k.Key]; ok {
		if param == 1 {
			return "\x1b[" + string(final)
		}
		return "\x1b[1;" + strconv.Itoa(param) + string(final)
	}
	if code, ok := keyTildeCodes[k.Key]; ok {
		if param == 1 {
			return "\x1b[" + strconv.Itoa(code) + "~"
		}
		return "\x1b[" + strconv.Itoa(code) + ";" + strconv.Itoa(param) + "~"
	}
	return ""
}

// EncodeMouse returns the SGR (1006) report for m with 1-based coordinates
func EncodeMouse(m MouseEvent) string {
	var sb strings.Builder
	sb.WriteString("\x1b[<")
	sb.WriteString(strconv.Itoa(encodeMouseButton(m)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(m.X + 1))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(m.Y + 1))
	if m.Action == MouseActionRelease {
		sb.WriteByte('m')
	} else {
		sb.WriteByte('M')
	}
	return sb.String()
}
