package status

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Runtime metric keys
const (
	LoopMessages  = "loop.msgs"       // Messages dispatched to Update
	LoopCommands  = "loop.cmds"       // Commands handed to the scheduler
	CmdPanics     = "cmd.panics"      // Commands that panicked and were dropped
	RenderFrames  = "render.frames"   // Frames written to the terminal
	RenderBytes   = "render.bytes"    // Bytes written by the renderer
	InputEvents   = "input.events"    // Decoded input events
	RenderFrameMs = "render.frame_ms" // Smoothed flush duration
	ProgramState  = "program.state"   // Lifecycle state name
	ColorProfile  = "term.profile"    // Detected color profile
	AltScreen     = "term.altscreen"  // Alternate screen active
)

// Registry groups a program's metrics by value type
// Components cache pointers at construction; hot paths write atomics directly
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// Counter returns the integer metric for key
func (r *Registry) Counter(key string) *atomic.Int64 {
	return r.Ints.Get(key)
}

// Snapshot is a point-in-time copy of every metric
type Snapshot struct {
	Bools   map[string]bool
	Ints    map[string]int64
	Floats  map[string]float64
	Strings map[string]string
}

// Snapshot copies current values
func (r *Registry) Snapshot() Snapshot {
	s := Snapshot{
		Bools:   make(map[string]bool),
		Ints:    make(map[string]int64),
		Floats:  make(map[string]float64),
		Strings: make(map[string]string),
	}
	r.Bools.Range(func(k string, v *atomic.Bool) { s.Bools[k] = v.Load() })
	r.Ints.Range(func(k string, v *atomic.Int64) { s.Ints[k] = v.Load() })
	r.Floats.Range(func(k string, v *AtomicFloat) { s.Floats[k] = v.Get() })
	r.Strings.Range(func(k string, v *AtomicString) { s.Strings[k] = v.Load() })
	return s
}

// TotalCount returns the number of registered metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Format renders "key=value" pairs in sorted order per type, one per line
func (r *Registry) Format() string {
	var sb strings.Builder
	r.Strings.Range(func(k string, v *AtomicString) { fmt.Fprintf(&sb, "%s=%s\n", k, v.Load()) })
	r.Bools.Range(func(k string, v *atomic.Bool) { fmt.Fprintf(&sb, "%s=%t\n", k, v.Load()) })
	r.Ints.Range(func(k string, v *atomic.Int64) { fmt.Fprintf(&sb, "%s=%d\n", k, v.Load()) })
	r.Floats.Range(func(k string, v *AtomicFloat) { fmt.Fprintf(&sb, "%s=%.2f\n", k, v.Get()) })
	return sb.String()
}
