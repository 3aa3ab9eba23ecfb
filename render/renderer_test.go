package render

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lixenwraith/termloop/status"
	"github.com/lixenwraith/termloop/terminal"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type captureOutput struct {
	mu     sync.Mutex
	writes []string
	err    error
}

func (c *captureOutput) Write(p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.writes = append(c.writes, string(p))
	return nil
}

func (c *captureOutput) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...)
}

func (c *captureOutput) last() string {
	w := c.all()
	if len(w) == 0 {
		return ""
	}
	return w[len(w)-1]
}

func TestRendererInlineDiff(t *testing.T) {
	out := &captureOutput{}
	r := New(out, Config{Width: 80, Height: 24})

	steps := []struct {
		frame string
		want  string
	}{
		{"a\nb", "\r\x1b[Ja\x1b[K\r\nb\x1b[K"},
		{"a\nc", "\rc\x1b[K"},
		{"x\nc\nd", "\r\x1b[Ax\x1b[K\r\nc\x1b[K\r\nd\x1b[K"},
		{"x", "\r\x1b[2Ax\x1b[K\x1b[J"},
		{"x\ny", "\r\ny\x1b[K"},
		{"x\ny\nz\nw", "\r\nz\x1b[K\r\nw\x1b[K"},
		{"x\nY\nz\nw\nv", "\r\x1b[2AY\x1b[K\r\nz\x1b[K\r\nw\x1b[K\r\nv\x1b[K"},
	}
	for i, step := range steps {
		r.Render(step.frame)
		r.Flush()
		assert.Equal(t, step.want, out.last(), "step %d frame %q", i, step.frame)
	}

	// Unchanged frame writes nothing
	n := len(out.all())
	r.Render("x\nY\nz\nw\nv")
	r.Flush()
	assert.Len(t, out.all(), n)
}

func TestRendererAltScreenDiff(t *testing.T) {
	out := &captureOutput{}
	r := New(out, Config{Width: 80, Height: 24})

	require.NoError(t, r.EnterAltScreen())
	assert.Equal(t, terminal.AltScreenEnter+terminal.EraseScreen+terminal.CursorHome, out.last())
	assert.True(t, r.AltScreen())

	r.Render("a\nb")
	r.Flush()
	assert.Equal(t, "\x1b[H\x1b[2Ja\x1b[K\r\nb\x1b[K", out.last())

	r.Render("a\nB")
	r.Flush()
	assert.Equal(t, "\x1b[2;1HB\x1b[K", out.last())

	// Growing frame writes only the new rows
	r.Render("a\nB\nc")
	r.Flush()
	assert.Equal(t, "\x1b[3;1Hc\x1b[K", out.last())

	require.NoError(t, r.ExitAltScreen())
	assert.Equal(t, terminal.AltScreenExit, out.last())
	assert.False(t, r.AltScreen())
}

func TestRendererClipsToTerminal(t *testing.T) {
	out := &captureOutput{}
	r := New(out, Config{Width: 3, Height: 2})

	r.Render("1\nhello\nhi")
	r.Flush()
	assert.Equal(t, "\r\x1b[Jhel\x1b[K\r\nhi\x1b[K", out.last())
}

func TestRendererResizeCoalesces(t *testing.T) {
	out := &captureOutput{}
	r := New(out, Config{Width: 80, Height: 24})

	r.Render("abcdefghijklmnopqrstuvwxyz")
	r.Flush()
	require.Len(t, out.all(), 1)

	r.Resize(10, 5)
	r.Resize(20, 6)
	r.Flush()
	r.Flush()

	writes := out.all()
	require.Len(t, writes, 2, "two resizes before a flush produce one repaint")
	assert.Equal(t, "\r\x1b[Jabcdefghijklmnopqrst\x1b[K", writes[1])
}

func TestRendererFPSCapKeepsLastFrame(t *testing.T) {
	out := &captureOutput{}
	reg := status.NewRegistry()
	r := New(out, Config{FPS: 10, Width: 80, Height: 24, Registry: reg})
	r.Start()

	for i := 0; i < 100; i++ {
		r.Render(fmt.Sprintf("frame %d", i))
	}
	time.Sleep(50 * time.Millisecond)
	r.Render("final")
	r.Stop()

	writes := out.all()
	require.NotEmpty(t, writes)
	assert.Less(t, len(writes), 10, "frames were not coalesced")
	assert.True(t, strings.Contains(writes[len(writes)-1], "final"), "last frame dropped: %q", writes[len(writes)-1])
	assert.Equal(t, int64(len(writes)), reg.Snapshot().Ints[status.RenderFrames])
}

func TestRendererStopWithoutStart(t *testing.T) {
	out := &captureOutput{}
	r := New(out, Config{})
	r.Render("only")
	r.Stop()
	r.Stop()
	assert.Equal(t, []string{"\r\x1b[Jonly\x1b[K"}, out.all())
}

func TestRendererWriteError(t *testing.T) {
	boom := errors.New("write failed")
	out := &captureOutput{err: boom}

	var got error
	r := New(out, Config{OnError: func(err error) { got = err }})
	r.Render("x")
	r.Flush()
	assert.ErrorIs(t, got, boom)
}

func TestRendererMouseModes(t *testing.T) {
	out := &captureOutput{}
	r := New(out, Config{})

	require.NoError(t, r.EnableMouse(terminal.MouseModeOff))
	assert.Empty(t, out.all())

	require.NoError(t, r.EnableMouse(terminal.MouseModeCell))
	assert.Equal(t, terminal.MouseCellOn+terminal.MouseSGROn, out.last())

	require.NoError(t, r.EnableMouse(terminal.MouseModeAll))
	assert.Equal(t, terminal.MouseAllOn+terminal.MouseSGROn, out.last())
}

func TestClampFPS(t *testing.T) {
	assert.Equal(t, DefaultFPS, ClampFPS(0))
	assert.Equal(t, DefaultFPS, ClampFPS(-5))
	assert.Equal(t, 1, ClampFPS(1))
	assert.Equal(t, MaxFPS, ClampFPS(1000))
}
