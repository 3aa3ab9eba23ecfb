package terminal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func key(k Key, mod Modifier) KeyEvent { return KeyEvent{Key: k, Mod: mod} }

func runes(s string) KeyEvent { return KeyEvent{Key: KeyRune, Runes: []rune(s)} }

// TestDecoderSequences checks complete inputs decoded in a single Feed
func TestDecoderSequences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Event
	}{
		{"printable", "a", []Event{runes("a")}},
		{"space", " ", []Event{KeyEvent{Key: KeySpace, Runes: []rune{' '}}}},
		{"utf8", "é世", []Event{runes("é"), runes("世")}},
		{"enter cr", "\r", []Event{key(KeyEnter, 0)}},
		{"enter lf", "\n", []Event{key(KeyEnter, 0)}},
		{"tab", "\t", []Event{key(KeyTab, 0)}},
		{"ctrl+c", "\x03", []Event{key(KeyCtrlC, 0)}},
		{"ctrl+space", "\x00", []Event{key(KeyCtrlSpace, 0)}},
		{"backspace del", "\x7f", []Event{key(KeyBackspace, 0)}},
		{"backspace bs", "\x08", []Event{key(KeyBackspace, 0)}},
		{"arrow up", "\x1b[A", []Event{key(KeyUp, 0)}},
		{"arrow ss3", "\x1bOB", []Event{key(KeyDown, 0)}},
		{"shift+up", "\x1b[1;2A", []Event{key(KeyUp, ModShift)}},
		{"ctrl+right", "\x1b[1;5C", []Event{key(KeyRight, ModCtrl)}},
		{"alt+left", "\x1b[1;3D", []Event{key(KeyLeft, ModAlt)}},
		{"backtab", "\x1b[Z", []Event{key(KeyBacktab, 0)}},
		{"home tilde", "\x1b[1~", []Event{key(KeyHome, 0)}},
		{"home letter", "\x1b[H", []Event{key(KeyHome, 0)}},
		{"delete", "\x1b[3~", []Event{key(KeyDelete, 0)}},
		{"ctrl+pgup", "\x1b[5;5~", []Event{key(KeyPageUp, ModCtrl)}},
		{"f1 ss3", "\x1bOP", []Event{key(KeyF1, 0)}},
		{"f5", "\x1b[15~", []Event{key(KeyF5, 0)}},
		{"f12", "\x1b[24~", []Event{key(KeyF12, 0)}},
		{"linux f1", "\x1b[[A", []Event{key(KeyF1, 0)}},
		{"keypad enter", "\x1bOM", []Event{key(KeyEnter, 0)}},
		{"alt+x", "\x1bx", []Event{KeyEvent{Key: KeyRune, Runes: []rune{'x'}, Mod: ModAlt}}},
		{"alt+ctrl+a", "\x1b\x01", []Event{key(KeyCtrlA, ModAlt)}},
		{"alt+backspace", "\x1b\x7f", []Event{key(KeyBackspace, ModAlt)}},
		{"alt+up esc prefix", "\x1b\x1b[A", []Event{key(KeyUp, ModAlt)}},
		{"focus", "\x1b[I", []Event{FocusEvent{}}},
		{"blur", "\x1b[O", []Event{BlurEvent{}}},
		{"cursor report swallowed", "\x1b[12;40R", nil},
		{"private report swallowed", "\x1b[?1;2c", nil},
		{"stray paste end", "\x1b[201~", nil},
		{"mixed", "a\x1b[Bb", []Event{runes("a"), key(KeyDown, 0), runes("b")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder()
			got := d.Feed([]byte(tt.input))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Feed(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
			if d.Pending() {
				t.Errorf("Feed(%q) left bytes pending", tt.input)
			}
		})
	}
}

func TestDecoderMouse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  MouseEvent
	}{
		{"sgr left press", "\x1b[<0;10;5M", MouseEvent{X: 9, Y: 4, Action: MouseActionPress, Button: MouseBtnLeft}},
		{"sgr left release", "\x1b[<0;10;5m", MouseEvent{X: 9, Y: 4, Action: MouseActionRelease, Button: MouseBtnLeft}},
		{"sgr right press", "\x1b[<2;1;1M", MouseEvent{X: 0, Y: 0, Action: MouseActionPress, Button: MouseBtnRight}},
		{"sgr drag", "\x1b[<32;3;4M", MouseEvent{X: 2, Y: 3, Action: MouseActionMotion, Button: MouseBtnLeft}},
		{"sgr wheel up", "\x1b[<64;5;5M", MouseEvent{X: 4, Y: 4, Action: MouseActionWheelUp}},
		{"sgr wheel down", "\x1b[<65;5;5M", MouseEvent{X: 4, Y: 4, Action: MouseActionWheelDown}},
		{"sgr ctrl click", "\x1b[<16;2;2M", MouseEvent{X: 1, Y: 1, Action: MouseActionPress, Button: MouseBtnLeft, Mod: ModCtrl}},
		{"x10 press", "\x1b[M" + string([]byte{32, 33 + 4, 33 + 2}), MouseEvent{X: 4, Y: 2, Action: MouseActionPress, Button: MouseBtnLeft}},
		{"x10 release", "\x1b[M" + string([]byte{35, 33, 33}), MouseEvent{X: 0, Y: 0, Action: MouseActionRelease}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewDecoder().Feed([]byte(tt.input))
			if diff := cmp.Diff([]Event{tt.want}, got); diff != "" {
				t.Errorf("Feed(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

// TestDecoderSplitReads feeds every sequence one byte at a time
func TestDecoderSplitReads(t *testing.T) {
	inputs := []string{
		"\x1b[1;5C",
		"\x1b[<0;10;5M",
		"\x1b[15~",
		"世",
		"\x1bOP",
		"\x1b\x1b[A",
		"\x1b\x1bOB",
	}

	for _, input := range inputs {
		whole := NewDecoder().Feed([]byte(input))

		d := NewDecoder()
		var split []Event
		for i := 0; i < len(input); i++ {
			split = append(split, d.Feed([]byte{input[i]})...)
		}
		if diff := cmp.Diff(whole, split); diff != "" {
			t.Errorf("split %q mismatch (-whole +split):\n%s", input, diff)
		}
		if d.Pending() {
			t.Errorf("split %q left bytes pending", input)
		}
	}
}

func TestDecoderLoneEscape(t *testing.T) {
	d := NewDecoder()
	if got := d.Feed([]byte{0x1b}); len(got) != 0 {
		t.Fatalf("lone ESC decoded early: %v", got)
	}
	if !d.Pending() {
		t.Fatal("lone ESC not pending")
	}

	got := d.Flush()
	if diff := cmp.Diff([]Event{key(KeyEscape, 0)}, got); diff != "" {
		t.Errorf("Flush mismatch (-want +got):\n%s", diff)
	}
	if d.Pending() {
		t.Error("bytes pending after Flush")
	}

	// A later sequence decodes normally
	got = d.Feed([]byte("\x1b[A"))
	if diff := cmp.Diff([]Event{key(KeyUp, 0)}, got); diff != "" {
		t.Errorf("follow-up mismatch (-want +got):\n%s", diff)
	}
}

// Alt-prefixed sequences split right after the doubled ESC
func TestDecoderAltPrefixSplit(t *testing.T) {
	d := NewDecoder()
	if got := d.Feed([]byte("\x1b\x1b")); len(got) != 0 {
		t.Fatalf("ESC ESC decoded early: %v", got)
	}
	got := d.Feed([]byte("[A"))
	if diff := cmp.Diff([]Event{key(KeyUp, ModAlt)}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	// Anything else after ESC ESC resolves it to Alt+Esc
	got = d.Feed([]byte("\x1b\x1bx"))
	if diff := cmp.Diff([]Event{key(KeyEscape, ModAlt), runes("x")}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecoderFlushPartialSequences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Event
	}{
		{"esc bracket", "\x1b[", []Event{KeyEvent{Key: KeyRune, Runes: []rune{'['}, Mod: ModAlt}}},
		{"esc O", "\x1bO", []Event{KeyEvent{Key: KeyRune, Runes: []rune{'O'}, Mod: ModAlt}}},
		{"truncated csi", "\x1b[1;", []Event{key(KeyEscape, 0), runes("["), runes("1"), runes(";")}},
		{"esc esc", "\x1b\x1b", []Event{key(KeyEscape, ModAlt)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder()
			if got := d.Feed([]byte(tt.input)); len(got) != 0 {
				t.Fatalf("Feed(%q) = %v, want nothing", tt.input, got)
			}
			if diff := cmp.Diff(tt.want, d.Flush()); diff != "" {
				t.Errorf("Flush mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecoderPaste(t *testing.T) {
	d := NewDecoder()
	got := d.Feed([]byte("\x1b[200~hello\r\nworld\x1b[201~x"))
	want := []Event{
		PasteStartEvent{},
		KeyEvent{Key: KeyRune, Runes: []rune("hello\nworld"), Paste: true},
		PasteEndEvent{},
		runes("x"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("paste mismatch (-want +got):\n%s", diff)
	}
}

func TestDecoderPasteSplitAcrossReads(t *testing.T) {
	d := NewDecoder()
	var got []Event
	for _, chunk := range []string{"\x1b[200~", "ab\x1b[A", "c\x1b[20", "1~"} {
		got = append(got, d.Feed([]byte(chunk))...)
		if d.Pending() {
			t.Errorf("Pending() true after %q; paste content must not time out", chunk)
		}
	}

	want := []Event{
		PasteStartEvent{},
		KeyEvent{Key: KeyRune, Runes: []rune("ab\x1b[Ac"), Paste: true},
		PasteEndEvent{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("paste mismatch (-want +got):\n%s", diff)
	}
	if d.InPaste() {
		t.Error("still in paste after end marker")
	}
}

func TestDecoderEmptyPaste(t *testing.T) {
	got := NewDecoder().Feed([]byte("\x1b[200~\x1b[201~"))
	want := []Event{PasteStartEvent{}, PasteEndEvent{}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("empty paste mismatch (-want +got):\n%s", diff)
	}
}

func TestDecoderGarbage(t *testing.T) {
	d := NewDecoder()
	// Invalid UTF-8 start byte is skipped, decoding resumes
	got := d.Feed([]byte{0xff, 'a'})
	if diff := cmp.Diff([]Event{runes("a")}, got); diff != "" {
		t.Errorf("garbage mismatch (-want +got):\n%s", diff)
	}

	// Unknown CSI final is swallowed
	got = d.Feed([]byte("\x1b[99xq"))
	if diff := cmp.Diff([]Event{runes("q")}, got); diff != "" {
		t.Errorf("unknown csi mismatch (-want +got):\n%s", diff)
	}
}

// TestEncodeRoundTrip checks that encoded keys decode back to themselves
func TestEncodeRoundTrip(t *testing.T) {
	keys := []KeyEvent{
		runes("z"),
		key(KeyEnter, 0),
		key(KeyEscape, 0),
		key(KeyCtrlC, 0),
		key(KeyUp, 0),
		key(KeyUp, ModShift),
		key(KeyRight, ModCtrl|ModShift),
		key(KeyPageDown, ModAlt),
		key(KeyF7, 0),
		key(KeyDelete, ModCtrl),
		{Key: KeyRune, Runes: []rune{'x'}, Mod: ModAlt},
		{Key: KeyRune, Runes: []rune("pasted text"), Paste: true},
	}

	for _, k := range keys {
		d := NewDecoder()
		got := d.Feed([]byte(EncodeKey(k)))
		got = append(got, d.Flush()...)

		var keysOnly []Event
		for _, ev := range got {
			if _, ok := ev.(KeyEvent); ok {
				keysOnly = append(keysOnly, ev)
			}
		}
		if diff := cmp.Diff([]Event{k}, keysOnly); diff != "" {
			t.Errorf("round trip %s mismatch (-want +got):\n%s", k, diff)
		}
	}
}

func TestEncodeMouseRoundTrip(t *testing.T) {
	events := []MouseEvent{
		{X: 0, Y: 0, Action: MouseActionPress, Button: MouseBtnLeft},
		{X: 119, Y: 40, Action: MouseActionRelease, Button: MouseBtnRight},
		{X: 5, Y: 6, Action: MouseActionMotion, Button: MouseBtnMiddle},
		{X: 3, Y: 3, Action: MouseActionWheelDown},
		{X: 2, Y: 9, Action: MouseActionPress, Button: MouseBtnLeft, Mod: ModAlt | ModShift},
	}
	for _, m := range events {
		got := NewDecoder().Feed([]byte(EncodeMouse(m)))
		if diff := cmp.Diff([]Event{m}, got); diff != "" {
			t.Errorf("mouse round trip %s mismatch (-want +got):\n%s", m, diff)
		}
	}
}

func TestKeyEventString(t *testing.T) {
	tests := []struct {
		ev   KeyEvent
		want string
	}{
		{runes("a"), "a"},
		{key(KeyCtrlC, 0), "ctrl+c"},
		{key(KeyUp, ModShift), "shift+up"},
		{KeyEvent{Key: KeyRune, Runes: []rune{'x'}, Mod: ModAlt}, "alt+x"},
		{key(KeyEscape, 0), "esc"},
		{KeyEvent{Key: KeyRune, Runes: []rune("hi"), Paste: true}, "[hi]"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestKeyByName(t *testing.T) {
	for _, name := range []string{"esc", "escape", "enter", "ctrl+c", "f12", "pgup", "page_up"} {
		k, ok := KeyByName(name)
		if !ok {
			t.Errorf("KeyByName(%q) not found", name)
			continue
		}
		if back, _ := KeyByName(KeyName(k)); back != k {
			t.Errorf("KeyName(%v) = %q does not map back", k, KeyName(k))
		}
	}
}
