package engine

import "time"

// Cmd is a deferred effect; the scheduler runs it on its own goroutine and delivers the result
// A nil Cmd does nothing
type Cmd func() Msg

// BatchMsg is produced by Batch; the scheduler runs each command concurrently
// Sending a BatchMsg to a program has the same effect
type BatchMsg []Cmd

type sequenceMsg []Cmd

// timerMsg defers fn until d elapses, or until the next multiple of d when aligned
type timerMsg struct {
	d     time.Duration
	fn    func(time.Time) Msg
	align bool
}

type setClipboardMsg struct {
	text string
}

type readClipboardMsg struct{}

type windowSizeRequestMsg struct{}

// None is the no-op command
func None() Cmd { return nil }

// Lift returns a command that yields msg
func Lift(msg Msg) Cmd {
	return func() Msg { return msg }
}

// Batch runs cmds concurrently; each result is delivered as soon as it is ready
// nil commands are dropped; a panicking command is logged and dropped
func Batch(cmds ...Cmd) Cmd {
	valid := compact(cmds)
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	}
	return func() Msg { return BatchMsg(valid) }
}

// Sequence runs cmds one after another, delivering each result before starting the next
// Nested batches are awaited; a panicking command aborts the rest of the sequence
func Sequence(cmds ...Cmd) Cmd {
	valid := compact(cmds)
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	}
	return func() Msg { return sequenceMsg(valid) }
}

func compact(cmds []Cmd) []Cmd {
	var valid []Cmd
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	return valid
}

// Tick fires once after d, delivering fn(t)
// Continuous ticking is done by returning another Tick from Update
func Tick(d time.Duration, fn func(time.Time) Msg) Cmd {
	return func() Msg { return timerMsg{d: d, fn: fn} }
}

// Every fires once at the next wall-clock multiple of d, delivering fn(t)
// Programs issuing Every from Update stay in step with the clock and with each other
func Every(d time.Duration, fn func(time.Time) Msg) Cmd {
	return func() Msg { return timerMsg{d: d, fn: fn, align: true} }
}

// nextBoundary returns the wait until the next multiple of d since the zero time
func nextBoundary(now time.Time, d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return now.Truncate(d).Add(d).Sub(now)
}

// Quit is the command that stops the program
func Quit() Msg { return QuitMsg{} }

// SetClipboard writes text to the system clipboard, falling back to an OSC 52 request
// Failures are delivered as ClipboardErrorMsg
func SetClipboard(text string) Cmd {
	return func() Msg { return setClipboardMsg{text: text} }
}

// ReadClipboard delivers ClipboardMsg with the system clipboard contents or ClipboardErrorMsg
func ReadClipboard() Msg { return readClipboardMsg{} }

// WindowSize re-queries the terminal and delivers a WindowSizeMsg
func WindowSize() Msg { return windowSizeRequestMsg{} }
