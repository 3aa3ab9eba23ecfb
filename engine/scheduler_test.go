package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lixenwraith/termloop/status"
	"github.com/lixenwraith/termloop/terminal/terminaltest"
)

type note string

type schedHarness struct {
	s      *scheduler
	out    chan Msg
	cancel context.CancelFunc
	reg    *status.Registry
	logs   *observer.ObservedLogs
	clip   *terminaltest.Clipboard
	raw    chan string
}

func newSchedHarness(t *testing.T) *schedHarness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	obsCore, logs := observer.New(zapcore.DebugLevel)
	h := &schedHarness{
		out:    make(chan Msg, 32),
		cancel: cancel,
		reg:    status.NewRegistry(),
		logs:   logs,
		clip:   &terminaltest.Clipboard{},
		raw:    make(chan string, 4),
	}
	send := func(m Msg) bool {
		select {
		case h.out <- m:
			return true
		case <-ctx.Done():
			return false
		}
	}
	clip := &clipboardService{
		clip: h.clip,
		raw:  func(seq string) error { h.raw <- seq; return nil },
		log:  zap.NewNop(),
	}
	h.s = newScheduler(ctx, send, clip, zap.New(obsCore), h.reg)
	return h
}

func (h *schedHarness) next(t *testing.T) Msg {
	t.Helper()
	select {
	case m := <-h.out:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func (h *schedHarness) quiet(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case m := <-h.out:
		t.Fatalf("unexpected message %#v", m)
	case <-time.After(d):
	}
}

func sleepy(d time.Duration, msg Msg) Cmd {
	return func() Msg {
		time.Sleep(d)
		return msg
	}
}

func TestConstructorsFilterNil(t *testing.T) {
	assert.Nil(t, None())
	assert.Nil(t, Batch())
	assert.Nil(t, Batch(nil, nil))
	assert.Nil(t, Sequence(nil))

	single := Lift(note("x"))
	assert.Equal(t, note("x"), Batch(nil, single)())
	assert.Equal(t, note("x"), Sequence(single, nil)())

	msg := Batch(single, single)()
	require.IsType(t, BatchMsg{}, msg)
	assert.Len(t, msg.(BatchMsg), 2)
}

func TestLiftDeliversOnce(t *testing.T) {
	h := newSchedHarness(t)
	h.s.Schedule(Lift(note("hello")))
	assert.Equal(t, note("hello"), h.next(t))
	h.quiet(t, 30*time.Millisecond)
}

func TestBatchDeliversFastBeforeSlow(t *testing.T) {
	h := newSchedHarness(t)
	h.s.Schedule(Batch(sleepy(100*time.Millisecond, note("slow")), Lift(note("fast"))))

	assert.Equal(t, note("fast"), h.next(t))
	assert.Equal(t, note("slow"), h.next(t))
}

func TestBatchPanicDropsOnlyThatChild(t *testing.T) {
	h := newSchedHarness(t)
	h.s.Schedule(Batch(func() Msg { panic("child failed") }, Lift(note("sibling"))))

	assert.Equal(t, note("sibling"), h.next(t))
	h.quiet(t, 30*time.Millisecond)

	require.Eventually(t, func() bool {
		return h.logs.FilterMessage("command panicked").Len() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), h.reg.Snapshot().Ints[status.CmdPanics])
}

func TestSequenceKeepsOrder(t *testing.T) {
	h := newSchedHarness(t)
	h.s.Schedule(Sequence(sleepy(60*time.Millisecond, note("a")), Lift(note("b"))))

	assert.Equal(t, note("a"), h.next(t))
	assert.Equal(t, note("b"), h.next(t))
}

func TestSequenceAwaitsNestedBatch(t *testing.T) {
	h := newSchedHarness(t)
	h.s.Schedule(Sequence(
		Batch(sleepy(60*time.Millisecond, note("slow")), Lift(note("fast"))),
		Lift(note("after")),
	))

	assert.Equal(t, note("fast"), h.next(t))
	assert.Equal(t, note("slow"), h.next(t))
	assert.Equal(t, note("after"), h.next(t))
}

func TestSequenceRunsNestedSequenceInline(t *testing.T) {
	h := newSchedHarness(t)
	h.s.Schedule(Sequence(
		Sequence(sleepy(30*time.Millisecond, note("1")), Lift(note("2"))),
		Lift(note("3")),
	))

	assert.Equal(t, note("1"), h.next(t))
	assert.Equal(t, note("2"), h.next(t))
	assert.Equal(t, note("3"), h.next(t))
}

func TestSequencePanicAbortsRemainder(t *testing.T) {
	h := newSchedHarness(t)
	h.s.Schedule(Sequence(
		Lift(note("a")),
		func() Msg { panic("step failed") },
		Lift(note("b")),
	))

	assert.Equal(t, note("a"), h.next(t))
	h.quiet(t, 50*time.Millisecond)
	require.Eventually(t, func() bool {
		return h.logs.FilterMessage("sequence aborted").Len() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestTickFiresOnceAfterDelay(t *testing.T) {
	h := newSchedHarness(t)
	start := time.Now()
	h.s.Schedule(Tick(100*time.Millisecond, func(t time.Time) Msg { return t }))

	msg := h.next(t)
	fired, ok := msg.(time.Time)
	require.True(t, ok, "got %#v", msg)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	assert.False(t, fired.Before(start.Add(100*time.Millisecond)))
	h.quiet(t, 150*time.Millisecond)
}

func TestTickAbandonedOnDrain(t *testing.T) {
	h := newSchedHarness(t)
	h.s.Schedule(Tick(time.Hour, func(time.Time) Msg { return note("never") }))
	h.cancel()
	h.quiet(t, 30*time.Millisecond)
}

func TestEveryAlignsToBoundary(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 250*int(time.Millisecond), time.UTC)
	assert.Equal(t, 750*time.Millisecond, nextBoundary(now, time.Second))
	assert.Equal(t, time.Minute, nextBoundary(now.Truncate(time.Minute), time.Minute))
	assert.Equal(t, time.Duration(0), nextBoundary(now, 0))

	h := newSchedHarness(t)
	h.s.Schedule(Every(100*time.Millisecond, func(t time.Time) Msg { return t }))
	fired := h.next(t).(time.Time)
	assert.Less(t, fired.Sub(fired.Truncate(100*time.Millisecond)), 60*time.Millisecond)
}

func TestClipboardCommands(t *testing.T) {
	h := newSchedHarness(t)

	h.s.Schedule(SetClipboard("copied"))
	require.Eventually(t, func() bool {
		text, _ := h.clip.ReadAll()
		return text == "copied"
	}, time.Second, 5*time.Millisecond)

	h.s.Schedule(ReadClipboard)
	assert.Equal(t, ClipboardMsg{Text: "copied"}, h.next(t))

	boom := errors.New("no display")
	h.clip.Err = boom
	h.s.Schedule(ReadClipboard)
	msg := h.next(t)
	require.IsType(t, ClipboardErrorMsg{}, msg)
	assert.ErrorIs(t, msg.(ClipboardErrorMsg).Err, boom)

	// System clipboard failure falls back to OSC 52
	h.s.Schedule(SetClipboard("fallback"))
	select {
	case seq := <-h.raw:
		assert.Contains(t, seq, "\x1b]52;c;")
	case <-time.After(time.Second):
		t.Fatal("no osc52 fallback written")
	}
}

func TestHandleInterpretsSentDescriptors(t *testing.T) {
	h := newSchedHarness(t)
	assert.True(t, h.s.Handle(BatchMsg{Lift(note("via send"))}))
	assert.Equal(t, note("via send"), h.next(t))
	assert.False(t, h.s.Handle(note("plain")))
}
