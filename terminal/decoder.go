// @lixen: #focus{sys[term,io,input]}
package terminal

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// Sequence scan limits; anything longer without a terminator is treated as garbage
const (
	maxCSILength   = 32
	maxMouseLength = 32
)

// Decoder turns raw terminal bytes into events
// Incomplete escape sequences and UTF-8 runes are held between Feed calls;
// Flush resolves held bytes once the escape timeout elapses
// Decoder is not safe for concurrent use
type Decoder struct {
	buf    []byte // Unconsumed input
	paste  bool   // Inside bracketed paste
	pasted []byte // Paste payload collected so far
}

// NewDecoder creates a decoder with an empty pending buffer
func NewDecoder() *Decoder {
	return &Decoder{buf: make([]byte, 0, 256)}
}

// Feed appends data and returns every event that can be fully decoded
func (d *Decoder) Feed(data []byte) []Event {
	d.buf = append(d.buf, data...)
	events, consumed := d.decode(d.buf, false)
	d.compact(consumed)
	return events
}

// Pending reports whether bytes are waiting for disambiguation
// Paste payloads never time out and are not reported
func (d *Decoder) Pending() bool {
	return len(d.buf) > 0 && !d.paste
}

// InPaste reports whether a bracketed paste is in progress
func (d *Decoder) InPaste() bool {
	return d.paste
}

// Flush resolves pending bytes as if no more input will follow them
// A lone ESC becomes KeyEscape; ESC plus one byte becomes Alt+byte;
// longer incomplete sequences yield KeyEscape followed by the remaining bytes
func (d *Decoder) Flush() []Event {
	if d.paste || len(d.buf) == 0 {
		return nil
	}
	events, consumed := d.decode(d.buf, true)
	d.compact(consumed)
	return events
}

// Reset drops all pending state
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
	d.paste = false
	d.pasted = nil
}

// compact removes consumed bytes from the front of the buffer
func (d *Decoder) compact(consumed int) {
	if consumed <= 0 {
		return
	}
	if consumed >= len(d.buf) {
		d.buf = d.buf[:0]
		return
	}
	n := copy(d.buf, d.buf[consumed:])
	d.buf = d.buf[:n]
}

// decode parses as much as possible and returns bytes consumed
// With final set, nothing is left pending outside of paste mode
func (d *Decoder) decode(data []byte, final bool) ([]Event, int) {
	var out []Event
	i := 0
	n := len(data)

	for i < n {
		if d.paste {
			consumed, evs := d.decodePaste(data[i:])
			out = append(out, evs...)
			i += consumed
			if d.paste {
				// Remaining bytes may be a split end marker
				return out, i
			}
			continue
		}

		b := data[i]

		switch {
		case b == 0x1b:
			consumed, ev := d.parseEscape(data[i:], final)
			if consumed == 0 {
				if !final {
					return out, i
				}
				rest := data[i:]
				if len(rest) == 2 && rest[1] >= 0x20 && rest[1] < 0x7f {
					// ESC [ or ESC O with nothing after is Alt+key
					k := runeKey(rune(rest[1]))
					k.Mod |= ModAlt
					out = append(out, k)
					i += 2
					continue
				}
				out = append(out, KeyEvent{Key: KeyEscape})
				i++
				continue
			}
			if ev != nil {
				out = append(out, ev)
			}
			i += consumed

		case b < 0x20:
			out = append(out, KeyEvent{Key: ctrlKeys[b]})
			i++

		case b == 0x7f:
			out = append(out, KeyEvent{Key: KeyBackspace})
			i++

		case b < 0x80:
			out = append(out, runeKey(rune(b)))
			i++

		default:
			if !utf8.FullRune(data[i:]) {
				if !final {
					return out, i
				}
				i++ // Truncated rune, drop lead byte
				continue
			}
			r, size := utf8.DecodeRune(data[i:])
			if r == utf8.RuneError && size == 1 {
				i++ // Invalid start byte, skip
				continue
			}
			out = append(out, runeKey(r))
			i += size
		}
	}
	return out, i
}

// parseEscape parses a sequence starting with ESC, returns 0 on incomplete
// A nil event with non-zero length means the bytes were swallowed
func (d *Decoder) parseEscape(data []byte, final bool) (int, Event) {
	if len(data) < 2 {
		return 0, nil
	}

	switch c := data[1]; {
	case c == 0x1b:
		// ESC ESC [ ... is an Alt-prefixed sequence on some terminals
		if len(data) == 2 && !final {
			return 0, nil
		}
		if len(data) >= 3 && (data[2] == '[' || data[2] == 'O') {
			n, ev := d.parseEscape(data[1:], final)
			if n == 0 {
				return 0, nil
			}
			if k, ok := ev.(KeyEvent); ok {
				k.Mod |= ModAlt
				return n + 1, k
			}
			return n + 1, ev
		}
		return 2, KeyEvent{Key: KeyEscape, Mod: ModAlt}

	case c == '[':
		return d.parseCSI(data)

	case c == 'O':
		return d.parseSS3(data)

	case c < 0x20:
		return 2, KeyEvent{Key: ctrlKeys[c], Mod: ModAlt}

	case c == 0x7f:
		return 2, KeyEvent{Key: KeyBackspace, Mod: ModAlt}

	case c < 0x80:
		k := runeKey(rune(c))
		k.Mod |= ModAlt
		return 2, k

	default:
		if !utf8.FullRune(data[1:]) {
			return 0, nil
		}
		r, size := utf8.DecodeRune(data[1:])
		if r == utf8.RuneError && size == 1 {
			return 2, nil
		}
		return 1 + size, KeyEvent{Key: KeyRune, Runes: []rune{r}, Mod: ModAlt}
	}
}

// parseSS3 parses ESC O <final>
func (d *Decoder) parseSS3(data []byte) (int, Event) {
	if len(data) < 3 {
		return 0, nil
	}
	c := data[2]
	if key, ok := ss3Keys[c]; ok {
		return 3, KeyEvent{Key: key}
	}
	if r, ok := ss3KeypadRunes[c]; ok {
		return 3, KeyEvent{Key: KeyRune, Runes: []rune{r}}
	}
	if c < 0x20 || c > 0x7e {
		// Not an SS3 sequence, drop ESC O and resync on c
		return 2, nil
	}
	// Unknown SS3, consume to prevent garbage
	return 3, nil
}

// parseCSI parses ESC [ ... sequences: keys, mouse, focus, paste markers
func (d *Decoder) parseCSI(data []byte) (int, Event) {
	if len(data) < 3 {
		return 0, nil
	}

	switch data[2] {
	case '<':
		return d.parseSGRMouse(data)
	case 'M':
		return d.parseX10Mouse(data)
	case '[':
		// Linux console function keys
		if len(data) < 4 {
			return 0, nil
		}
		if key, ok := csiLinuxKeys[data[3]]; ok {
			return 4, KeyEvent{Key: key}
		}
		return 4, nil
	}

	// Parameter bytes 0x30-0x3F, intermediates 0x20-0x2F, final 0x40-0x7E
	end := 2
	for ; end < len(data); end++ {
		b := data[end]
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if b < 0x20 || b > 0x3f {
			// Malformed, drop what was scanned and resync on b
			return end, nil
		}
		if end >= maxCSILength {
			return end, nil
		}
	}
	if end >= len(data) {
		return 0, nil // Incomplete
	}

	final := data[end]
	params := data[2:end]
	length := end + 1

	if final == '~' {
		switch string(params) {
		case "200":
			d.paste = true
			d.pasted = d.pasted[:0]
			return length, PasteStartEvent{}
		case "201":
			// Stray end marker outside a paste
			return length, nil
		}
	}

	if len(params) == 0 {
		switch final {
		case 'I':
			return length, FocusEvent{}
		case 'O':
			return length, BlurEvent{}
		}
	}

	if len(params) > 0 && (params[0] < '0' || params[0] > '9') && params[0] != ';' {
		// Private marker (?, >, =): terminal reports, not keys
		return length, nil
	}

	vals, ok := parseParams(params)
	if !ok {
		return length, nil
	}

	if final == '~' {
		if len(vals) == 0 {
			return length, nil
		}
		key, ok := csiTildeKeys[vals[0]]
		if !ok {
			return length, nil
		}
		var mod Modifier
		if len(vals) > 1 {
			mod = xtermModifier(vals[1])
		}
		return length, KeyEvent{Key: key, Mod: mod}
	}

	key, ok := csiFinalKeys[final]
	if !ok {
		return length, nil
	}
	switch len(vals) {
	case 0:
		return length, KeyEvent{Key: key}
	case 1:
		if vals[0] <= 1 {
			return length, KeyEvent{Key: key}
		}
	case 2:
		if vals[0] <= 1 {
			return length, KeyEvent{Key: key, Mod: xtermModifier(vals[1])}
		}
	}
	// Parameters that do not follow the "1;mod" shape are reports (e.g. cursor position)
	return length, nil
}

// parseSGRMouse parses ESC [ < Btn ; X ; Y (M|m)
func (d *Decoder) parseSGRMouse(data []byte) (int, Event) {
	end := 3
	for ; end < len(data); end++ {
		b := data[end]
		if b == 'M' || b == 'm' {
			break
		}
		if (b < '0' || b > '9') && b != ';' {
			return end, nil
		}
		if end >= maxMouseLength {
			return end, nil
		}
	}
	if end >= len(data) {
		return 0, nil
	}

	vals, ok := parseParams(data[3:end])
	if !ok || len(vals) != 3 {
		return end + 1, nil
	}

	ev := decodeMouseButton(vals[0], data[end] == 'm')
	ev.X = clampCoord(vals[1] - 1)
	ev.Y = clampCoord(vals[2] - 1)
	return end + 1, ev
}

// parseX10Mouse parses ESC [ M Cb Cx Cy, each byte offset by 32
func (d *Decoder) parseX10Mouse(data []byte) (int, Event) {
	if len(data) < 6 {
		return 0, nil
	}
	cb := int(data[3]) - 32
	cx := int(data[4]) - 32
	cy := int(data[5]) - 32
	if cb < 0 || cx < 1 || cy < 1 {
		return 6, nil
	}
	ev := decodeMouseButton(cb, false)
	ev.X = cx - 1
	ev.Y = cy - 1
	return 6, ev
}

// decodePaste collects paste payload until the end marker
// Returns bytes consumed; a possible split end marker is left unconsumed
func (d *Decoder) decodePaste(data []byte) (int, []Event) {
	if idx := bytes.Index(data, []byte(pasteEndSeq)); idx >= 0 {
		d.pasted = append(d.pasted, data[:idx]...)
		return idx + len(pasteEndSeq), d.finishPaste()
	}

	keep := markerPrefixLen(data, pasteEndSeq)
	d.pasted = append(d.pasted, data[:len(data)-keep]...)
	return len(data) - keep, nil
}

// finishPaste leaves paste mode and emits the coalesced payload
func (d *Decoder) finishPaste() []Event {
	text := string(d.pasted)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	d.pasted = d.pasted[:0]
	d.paste = false

	if text == "" {
		return []Event{PasteEndEvent{}}
	}
	return []Event{
		KeyEvent{Key: KeyRune, Runes: []rune(text), Paste: true},
		PasteEndEvent{},
	}
}

// markerPrefixLen returns the length of the longest suffix of data that is a proper prefix of marker
func markerPrefixLen(data []byte, marker string) int {
	max := len(marker) - 1
	if max > len(data) {
		max = len(data)
	}
	for k := max; k > 0; k-- {
		if string(data[len(data)-k:]) == marker[:k] {
			return k
		}
	}
	return 0
}

// parseParams parses "a;b;c" decimal parameters; empty fields are 0
func parseParams(data []byte) ([]int, bool) {
	if len(data) == 0 {
		return nil, true
	}
	vals := make([]int, 0, 3)
	val := 0
	for _, b := range data {
		switch {
		case b == ';':
			vals = append(vals, val)
			val = 0
		case b >= '0' && b <= '9':
			val = val*10 + int(b-'0')
			if val > 9999 { // Sanity limit
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return append(vals, val), true
}

func clampCoord(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
