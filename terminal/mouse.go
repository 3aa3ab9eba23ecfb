package terminal

import "strconv"

// MouseButton represents mouse button identity
type MouseButton uint8

const (
	MouseBtnNone MouseButton = iota
	MouseBtnLeft
	MouseBtnMiddle
	MouseBtnRight
	MouseBtnBack    // Button 8 (if supported)
	MouseBtnForward // Button 9 (if supported)
)

// MouseAction represents the type of mouse event
type MouseAction uint8

const (
	MouseActionNone MouseAction = iota
	MouseActionPress
	MouseActionRelease
	MouseActionMotion
	MouseActionWheelUp
	MouseActionWheelDown
	MouseActionWheelLeft
	MouseActionWheelRight
)

// MouseMode selects which mouse events the terminal reports
type MouseMode uint8

const (
	MouseModeOff  MouseMode = iota
	MouseModeCell           // Press, release, wheel and motion while a button is held
	MouseModeAll            // Every motion event, button held or not
)

// MouseEvent is a decoded mouse report with 0-based cell coordinates
// Motion with Button != MouseBtnNone is a drag
type MouseEvent struct {
	X, Y   int
	Action MouseAction
	Button MouseButton
	Mod    Modifier
}

func (MouseEvent) isEvent() {}

func (m MouseEvent) Ctrl() bool  { return m.Mod&ModCtrl != 0 }
func (m MouseEvent) Alt() bool   { return m.Mod&ModAlt != 0 }
func (m MouseEvent) Shift() bool { return m.Mod&ModShift != 0 }

// IsWheel reports whether the event is a scroll wheel event
func (m MouseEvent) IsWheel() bool {
	return m.Action >= MouseActionWheelUp && m.Action <= MouseActionWheelRight
}

// String returns e.g. "ctrl+left press (3,4)"
func (m MouseEvent) String() string {
	s := ""
	if m.Ctrl() {
		s += "ctrl+"
	}
	if m.Alt() {
		s += "alt+"
	}
	if m.Shift() {
		s += "shift+"
	}
	if m.Button != MouseBtnNone {
		s += m.Button.String() + " "
	}
	return s + m.Action.String() + " (" + strconv.Itoa(m.X) + "," + strconv.Itoa(m.Y) + ")"
}

// String returns human-readable button name
func (b MouseButton) String() string {
	switch b {
	case MouseBtnLeft:
		return "left"
	case MouseBtnMiddle:
		return "middle"
	case MouseBtnRight:
		return "right"
	case MouseBtnBack:
		return "back"
	case MouseBtnForward:
		return "forward"
	default:
		return "none"
	}
}

// String returns human-readable action name
func (a MouseAction) String() string {
	switch a {
	case MouseActionPress:
		return "press"
	case MouseActionRelease:
		return "release"
	case MouseActionMotion:
		return "motion"
	case MouseActionWheelUp:
		return "wheelup"
	case MouseActionWheelDown:
		return "wheeldown"
	case MouseActionWheelLeft:
		return "wheelleft"
	case MouseActionWheelRight:
		return "wheelright"
	default:
		return "none"
	}
}

// String returns the config name of the mode
func (m MouseMode) String() string {
	switch m {
	case MouseModeCell:
		return "cell"
	case MouseModeAll:
		return "all"
	default:
		return "off"
	}
}

// ParseMouseMode resolves "cell", "all", "off" (or "", "false", "none") to a mode
func ParseMouseMode(s string) (MouseMode, bool) {
	switch s {
	case "cell":
		return MouseModeCell, true
	case "all":
		return MouseModeAll, true
	case "", "off", "false", "none":
		return MouseModeOff, true
	}
	return MouseModeOff, false
}

// decodeMouseButton maps the protocol button code to action, button and modifiers
// Bits 0-1: button (0 left, 1 middle, 2 right, 3 release), 4 shift, 8 alt, 16 ctrl,
// 32 motion, 64 wheel, 128 extended buttons (8, 9)
func decodeMouseButton(code int, release bool) MouseEvent {
	var ev MouseEvent
	if code&4 != 0 {
		ev.Mod |= ModShift
	}
	if code&8 != 0 {
		ev.Mod |= ModAlt
	}
	if code&16 != 0 {
		ev.Mod |= ModCtrl
	}

	id := code & 0x03
	motion := code&32 != 0

	switch {
	case code&64 != 0 && code&128 == 0:
		switch id {
		case 0:
			ev.Action = MouseActionWheelUp
		case 1:
			ev.Action = MouseActionWheelDown
		case 2:
			ev.Action = MouseActionWheelLeft
		default:
			ev.Action = MouseActionWheelRight
		}
		return ev
	case code&128 != 0:
		switch id {
		case 0:
			ev.Button = MouseBtnBack
		case 1:
			ev.Button = MouseBtnForward
		}
	default:
		switch id {
		case 0:
			ev.Button = MouseBtnLeft
		case 1:
			ev.Button = MouseBtnMiddle
		case 2:
			ev.Button = MouseBtnRight
		case 3:
			ev.Button = MouseBtnNone // X10 release carries no button
			if !motion {
				release = true
			}
		}
	}

	switch {
	case motion:
		ev.Action = MouseActionMotion
	case release:
		ev.Action = MouseActionRelease
	default:
		ev.Action = MouseActionPress
	}
	return ev
}

// encodeMouseButton is the inverse of decodeMouseButton for SGR reports
func encodeMouseButton(m MouseEvent) int {
	code := 0
	switch m.Action {
	case MouseActionWheelUp:
		code = 64
	case MouseActionWheelDown:
		code = 65
	case MouseActionWheelLeft:
		code = 66
	case MouseActionWheelRight:
		code = 67
	default:
		switch m.Button {
		case MouseBtnLeft:
			code = 0
		case MouseBtnMiddle:
			code = 1
		case MouseBtnRight:
			code = 2
		case MouseBtnBack:
			code = 128
		case MouseBtnForward:
			code = 129
		default:
			code = 3
		}
		if m.Action == MouseActionMotion {
			code |= 32
		}
	}
	if m.Mod&ModShift != 0 {
		code |= 4
	}
	if m.Mod&ModAlt != 0 {
		code |= 8
	}
	if m.Mod&ModCtrl != 0 {
		code |= 16
	}
	return code
}
