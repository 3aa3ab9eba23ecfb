//go:build unix || (js && wasm)

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/lixenwraith/termloop/engine"
	"github.com/lixenwraith/termloop/terminal"
)

const maxLog = 10

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Background(lipgloss.Color("60"))
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	logStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	objStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("120")).Background(lipgloss.Color("60"))
	dragStyle   = objStyle.Foreground(lipgloss.Color("227"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// inputModel logs every event and lets the mouse drag a marker around
type inputModel struct {
	w, h       int
	objX, objY int
	dragging   bool
	log        []string
}

func (m *inputModel) addLog(s string) {
	if len(m.log) >= maxLog {
		m.log = append(m.log[:0], m.log[1:]...)
	}
	m.log = append(m.log, s)
}

func (m *inputModel) Init() engine.Cmd { return nil }

func (m *inputModel) Update(msg engine.Msg) (engine.Model, engine.Cmd) {
	switch msg := msg.(type) {
	case engine.KeyMsg:
		if msg.Key == terminal.KeyCtrlQ || msg.Key == terminal.KeyCtrlC {
			return m, engine.Quit
		}
		m.addLog("KEY: " + msg.String())

	case engine.MouseMsg:
		m.addLog("MOUSE: " + msg.String())
		switch msg.Action {
		case terminal.MouseActionPress:
			if msg.Button == terminal.MouseBtnLeft && msg.X >= m.objX && msg.X < m.objX+3 && msg.Y == m.objY {
				m.dragging = true
			}
		case terminal.MouseActionRelease:
			m.dragging = false
		case terminal.MouseActionMotion:
			if m.dragging {
				m.objX = clamp(msg.X, 0, m.w-3)
				m.objY = clamp(msg.Y, 0, m.h-1)
			}
		}

	case engine.WindowSizeMsg:
		if m.w == 0 {
			m.objX, m.objY = msg.Width/2, msg.Height/2
		}
		m.w, m.h = msg.Width, msg.Height
		m.objX = clamp(m.objX, 0, m.w-3)
		m.objY = clamp(m.objY, 0, m.h-1)
		m.addLog(fmt.Sprintf("RESIZE: %dx%d", m.w, m.h))

	case engine.PasteStartMsg:
		m.addLog("PASTE: start")
	case engine.PasteEndMsg:
		m.addLog("PASTE: end")
	case engine.FocusMsg:
		m.addLog("FOCUS: in")
	case engine.BlurMsg:
		m.addLog("FOCUS: out")
	case engine.ColorProfileMsg:
		m.addLog("PROFILE: " + msg.String())
	}
	return m, nil
}

func (m *inputModel) View() string {
	if m.w == 0 || m.h < 4 {
		return ""
	}
	rows := make([]string, m.h)
	rows[0] = titleStyle.Width(m.w).Align(lipgloss.Center).
		Render("Input Test - press keys, move the mouse, drag the [X] - Ctrl+Q to quit")
	rows[1] = ruleStyle.Render(strings.Repeat("─", m.w))
	for i, entry := range m.log {
		if y := 2 + i; y < m.h-2 {
			rows[y] = " " + entry
		}
	}

	obj := objStyle
	if m.dragging {
		obj = dragStyle
	}
	if m.objY > 1 && m.objY < m.h-2 {
		// Pad or cut the log line so the marker lands on its column
		line := ansi.Truncate(rows[m.objY], m.objX, "")
		line += strings.Repeat(" ", m.objX-ansi.StringWidth(line))
		rows[m.objY] = logStyle.Render(line) + obj.Render("[X]")
	}

	rows[m.h-2] = ruleStyle.Render(strings.Repeat("─", m.w))
	rows[m.h-1] = statusStyle.Render(fmt.Sprintf(" Size: %dx%d | Object: (%d,%d) | Dragging: %v",
		m.w, m.h, m.objX, m.objY, m.dragging))
	return strings.Join(rows, "\n")
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

func main() {
	p := engine.NewProgram(&inputModel{},
		engine.WithPlatform(terminal.NewNativePlatform()),
		engine.WithAltScreen(),
		engine.WithMouseAllMotion(),
		engine.WithReportFocus(),
		engine.WithCtrlCAsKey(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "input-test: %v\n", err)
		os.Exit(1)
	}
}
