// @lixen: #focus{sys[term,io,output]}
// @lixen: #interact{trigger[output,ansi]}
package render

import (
	"bytes"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/lixenwraith/termloop/core"
	"github.com/lixenwraith/termloop/status"
	"github.com/lixenwraith/termloop/terminal"
)

const (
	DefaultFPS = 60
	MaxFPS     = 120
)

// Output is the terminal write channel; terminal.Backend satisfies it
type Output interface {
	Write(p []byte) error
}

// Config configures a Renderer
type Config struct {
	FPS      int              // Frame cap, clamped to 1..MaxFPS; 0 selects DefaultFPS
	Width    int              // Initial terminal width, 0 disables truncation
	Height   int              // Initial terminal height, 0 disables row clipping
	Registry *status.Registry // Metrics sink, nil for none
	OnError  func(error)      // Write failures, called without the renderer lock held
}

// Renderer writes view frames to the terminal, rewriting only from the first changed line
// Render stores the latest frame; a ticker flushes at most once per frame interval
type Renderer struct {
	out      Output
	interval time.Duration
	onError  func(error)

	mu        sync.Mutex
	width     int
	height    int
	altScreen bool
	frame     string   // Latest requested frame
	dirty     bool     // frame not yet written
	repaint   bool     // Previous geometry invalid, full clear on next flush
	lines     []string // Lines on screen after the last flush
	buf       bytes.Buffer

	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
	stopCh    chan struct{}
	doneCh    chan struct{}

	statFrames  *atomic.Int64
	statBytes   *atomic.Int64
	statFrameMs *status.AtomicFloat
	statAlt     *atomic.Bool
}

// New creates a renderer writing to out
func New(out Output, cfg Config) *Renderer {
	fps := ClampFPS(cfg.FPS)
	reg := cfg.Registry
	if reg == nil {
		reg = status.NewRegistry()
	}
	onError := cfg.OnError
	if onError == nil {
		onError = func(error) {}
	}

	return &Renderer{
		out:         out,
		interval:    time.Second / time.Duration(fps),
		onError:     onError,
		width:       cfg.Width,
		height:      cfg.Height,
		repaint:     true,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		statFrames:  reg.Counter(status.RenderFrames),
		statBytes:   reg.Counter(status.RenderBytes),
		statFrameMs: reg.Floats.Get(status.RenderFrameMs),
		statAlt:     reg.Bools.Get(status.AltScreen),
	}
}

// ClampFPS maps a requested frame rate into the supported range
func ClampFPS(fps int) int {
	switch {
	case fps <= 0:
		return DefaultFPS
	case fps > MaxFPS:
		return MaxFPS
	}
	return fps
}

// Interval returns the minimum time between two flushes
func (r *Renderer) Interval() time.Duration {
	return r.interval
}

// Start launches the flush ticker; repeated calls are ignored
func (r *Renderer) Start() {
	r.startOnce.Do(func() {
		r.started.Store(true)
		core.Go(r.loop)
	})
}

// Stop halts the ticker and writes the last requested frame
func (r *Renderer) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		if r.started.Load() {
			<-r.doneCh
		}
		r.Flush()
	})
}

func (r *Renderer) loop() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.Flush()
		}
	}
}

// Render records frame as the next frame to draw
// Frames requested between two ticks coalesce; only the latest is written
func (r *Renderer) Render(frame string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if frame == r.frame && !r.repaint {
		return
	}
	r.frame = frame
	r.dirty = true
}

// Resize invalidates the previous geometry; the next flush clears and repaints
func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	r.repaint = true
	r.dirty = true
}

// Repaint forces a full repaint on the next flush
func (r *Renderer) Repaint() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.repaint = true
	r.dirty = true
}

// Flush writes the pending frame now
func (r *Renderer) Flush() {
	r.mu.Lock()
	if !r.dirty {
		r.mu.Unlock()
		return
	}
	start := time.Now()
	r.buf.Reset()
	r.diff()
	r.dirty = false
	r.repaint = false

	n := r.buf.Len()
	var err error
	if n > 0 {
		err = r.out.Write(r.buf.Bytes())
	}
	r.mu.Unlock()

	if n == 0 {
		return
	}
	if err != nil {
		r.onError(err)
		return
	}
	r.statFrames.Add(1)
	r.statBytes.Add(int64(n))
	r.statFrameMs.Smooth(float64(time.Since(start).Microseconds())/1000, 0.1)
}

// diff builds the update for r.frame into r.buf; caller holds r.mu
func (r *Renderer) diff() {
	next := r.frameLines()
	prev := r.lines
	w := &r.buf

	first := 0
	if r.repaint {
		if r.altScreen {
			w.WriteString(terminal.CursorHome)
			w.WriteString(terminal.EraseScreen)
		} else {
			r.moveToRow(0)
			w.WriteString(terminal.EraseBelow)
		}
		prev = nil
	} else {
		for first < len(next) && first < len(prev) && next[first] == prev[first] {
			first++
		}
		if first == len(next) && len(next) == len(prev) {
			return // Unchanged
		}
		if first == len(next) {
			// Shorter frame with identical prefix: rewrite the new last line, erase the rest
			first = len(next) - 1
		}
		if !r.altScreen && len(prev) > 0 && first == len(prev) {
			// Frame grew below an unchanged prefix; the cursor rests on the old last row
			w.WriteString("\r\n")
		} else {
			r.moveToRow(first)
		}
	}

	for i := first; i < len(next); i++ {
		if i > first {
			w.WriteString("\r\n")
		}
		w.WriteString(next[i])
		w.WriteString(terminal.EraseLineRight)
	}
	if len(next) < len(prev) {
		w.WriteString(terminal.EraseBelow)
	}

	r.lines = next
}

// moveToRow positions the cursor at the start of frame row y; caller holds r.mu
// Inline frames are addressed relative to the cursor, which rests on the last written row
func (r *Renderer) moveToRow(y int) {
	if r.altScreen {
		r.buf.WriteString(terminal.CursorPosition(0, y))
		return
	}
	r.buf.WriteByte('\r')
	if last := len(r.lines) - 1; last > y {
		r.buf.WriteString(terminal.CursorUp(last - y))
	}
}

// frameLines splits the frame, truncates to width and keeps the bottom rows that fit
func (r *Renderer) frameLines() []string {
	lines := strings.Split(r.frame, "\n")
	if r.height > 0 && len(lines) > r.height {
		lines = lines[len(lines)-r.height:]
	}
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if r.width > 0 && ansi.StringWidth(line) > r.width {
			line = ansi.Truncate(line, r.width, "")
		}
		lines[i] = line
	}
	return lines
}
