// @focus: #sys { io } #input { keys }
package terminal

// CSI sequences without a numeric code: ESC [ <final> or ESC [ 1 ; <mod> <final>
var csiFinalKeys = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
	'Z': KeyBacktab,
}

// CSI sequences with a numeric code: ESC [ <code> ~ or ESC [ <code> ; <mod> ~
var csiTildeKeys = map[int]Key{
	1:  KeyHome,
	2:  KeyInsert,
	3:  KeyDelete,
	4:  KeyEnd,
	5:  KeyPageUp,
	6:  KeyPageDown,
	7:  KeyHome, // rxvt
	8:  KeyEnd,  // rxvt
	11: KeyF1,
	12: KeyF2,
	13: KeyF3,
	14: KeyF4,
	15: KeyF5,
	17: KeyF6,
	18: KeyF7,
	19: KeyF8,
	20: KeyF9,
	21: KeyF10,
	23: KeyF11,
	24: KeyF12,
}

// Linux console function keys: ESC [ [ <final>
var csiLinuxKeys = map[byte]Key{
	'A': KeyF1,
	'B': KeyF2,
	'C': KeyF3,
	'D': KeyF4,
	'E': KeyF5,
}

// SS3 sequences: ESC O <final>
var ss3Keys = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
	'M': KeyEnter, // Keypad Enter
}

// Numeric keypad in application mode reports SS3 sequences for printable keys
var ss3KeypadRunes = map[byte]rune{
	'X': '=',
	'j': '*',
	'k': '+',
	'l': ',',
	'm': '-',
	'n': '.',
	'o': '/',
	'p': '0',
	'q': '1',
	'r': '2',
	's': '3',
	't': '4',
	'u': '5',
	'v': '6',
	'w': '7',
	'x': '8',
	'y': '9',
}

// ctrlKeys maps C0 control bytes to keys
var ctrlKeys = [0x20]Key{
	0x00: KeyCtrlSpace,
	0x01: KeyCtrlA,
	0x02: KeyCtrlB,
	0x03: KeyCtrlC,
	0x04: KeyCtrlD,
	0x05: KeyCtrlE,
	0x06: KeyCtrlF,
	0x07: KeyCtrlG,
	0x08: KeyBackspace, // Ctrl+H
	0x09: KeyTab,       // Ctrl+I
	0x0a: KeyEnter,     // LF
	0x0b: KeyCtrlK,
	0x0c: KeyCtrlL,
	0x0d: KeyEnter, // CR
	0x0e: KeyCtrlN,
	0x0f: KeyCtrlO,
	0x10: KeyCtrlP,
	0x11: KeyCtrlQ,
	0x12: KeyCtrlR,
	0x13: KeyCtrlS,
	0x14: KeyCtrlT,
	0x15: KeyCtrlU,
	0x16: KeyCtrlV,
	0x17: KeyCtrlW,
	0x18: KeyCtrlX,
	0x19: KeyCtrlY,
	0x1a: KeyCtrlZ,
	0x1b: KeyEscape,
	0x1c: KeyCtrlBackslash,
	0x1d: KeyCtrlBracketRight,
	0x1e: KeyCtrlCaret,
	0x1f: KeyCtrlUnderscore,
}

// xtermModifier decodes the xterm modifier parameter (1 + bitmask)
// Meta (8) is folded into Alt
func xtermModifier(param int) Modifier {
	if param <= 1 {
		return ModNone
	}
	bits := param - 1
	var m Modifier
	if bits&1 != 0 {
		m |= ModShift
	}
	if bits&2 != 0 || bits&8 != 0 {
		m |= ModAlt
	}
	if bits&4 != 0 {
		m |= ModCtrl
	}
	return m
}

// xtermParam encodes a modifier set as the xterm parameter value
func xtermParam(m Modifier) int {
	p := 1
	if m&ModShift != 0 {
		p += 1
	}
	if m&ModAlt != 0 {
		p += 2
	}
	if m&ModCtrl != 0 {
		p += 4
	}
	return p
}
