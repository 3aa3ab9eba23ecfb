package terminal

// keyToName maps Key constants to canonical display names
var keyToName = map[Key]string{
	KeyEscape:    "esc",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBacktab:   "shift+tab",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeySpace:     "space",

	KeyUp:       "up",
	KeyDown:     "down",
	KeyLeft:     "left",
	KeyRight:    "right",
	KeyHome:     "home",
	KeyEnd:      "end",
	KeyPageUp:   "pgup",
	KeyPageDown: "pgdown",
	KeyInsert:   "insert",

	KeyF1:  "f1",
	KeyF2:  "f2",
	KeyF3:  "f3",
	KeyF4:  "f4",
	KeyF5:  "f5",
	KeyF6:  "f6",
	KeyF7:  "f7",
	KeyF8:  "f8",
	KeyF9:  "f9",
	KeyF10: "f10",
	KeyF11: "f11",
	KeyF12: "f12",

	KeyCtrlA:            "ctrl+a",
	KeyCtrlB:            "ctrl+b",
	KeyCtrlC:            "ctrl+c",
	KeyCtrlD:            "ctrl+d",
	KeyCtrlE:            "ctrl+e",
	KeyCtrlF:            "ctrl+f",
	KeyCtrlG:            "ctrl+g",
	KeyCtrlH:            "ctrl+h",
	KeyCtrlI:            "ctrl+i",
	KeyCtrlJ:            "ctrl+j",
	KeyCtrlK:            "ctrl+k",
	KeyCtrlL:            "ctrl+l",
	KeyCtrlM:            "ctrl+m",
	KeyCtrlN:            "ctrl+n",
	KeyCtrlO:            "ctrl+o",
	KeyCtrlP:            "ctrl+p",
	KeyCtrlQ:            "ctrl+q",
	KeyCtrlR:            "ctrl+r",
	KeyCtrlS:            "ctrl+s",
	KeyCtrlT:            "ctrl+t",
	KeyCtrlU:            "ctrl+u",
	KeyCtrlV:            "ctrl+v",
	KeyCtrlW:            "ctrl+w",
	KeyCtrlX:            "ctrl+x",
	KeyCtrlY:            "ctrl+y",
	KeyCtrlZ:            "ctrl+z",
	KeyCtrlSpace:        "ctrl+@",
	KeyCtrlBackslash:    "ctrl+\\",
	KeyCtrlBracketLeft:  "ctrl+[",
	KeyCtrlBracketRight: "ctrl+]",
	KeyCtrlCaret:        "ctrl+^",
	KeyCtrlUnderscore:   "ctrl+_",
}

// nameToKey is the reverse lookup, built from keyToName
var nameToKey map[string]Key

func init() {
	nameToKey = make(map[string]Key, len(keyToName)+8)
	for k, v := range keyToName {
		nameToKey[v] = k
	}
	// Aliases
	nameToKey["escape"] = KeyEscape
	nameToKey["return"] = KeyEnter
	nameToKey["backtab"] = KeyBacktab
	nameToKey["page_up"] = KeyPageUp
	nameToKey["page_down"] = KeyPageDown
	nameToKey["ctrl+space"] = KeyCtrlSpace
	nameToKey[" "] = KeySpace
}

// KeyName returns the canonical string name for a Key constant
// Returns empty string for KeyNone and KeyRune
func KeyName(k Key) string {
	return keyToName[k]
}

// KeyByName resolves a canonical name or alias to a Key constant
// Returns KeyNone and false if name is unknown
func KeyByName(name string) (Key, bool) {
	k, ok := nameToKey[name]
	return k, ok
}
