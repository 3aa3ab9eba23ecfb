//go:build unix

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/termloop/engine"
	"github.com/lixenwraith/termloop/status"
	"github.com/lixenwraith/termloop/terminal"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Full-screen event inspector",
	Long: `Shows every decoded message: keys, mouse, paste, focus and resize.

  ctrl+y  copy the last event to the clipboard (OSC 52 when no system clipboard)
  ctrl+p  read the clipboard back
  ctrl+c  quit`,
	Args: cobra.NoArgs,
	RunE: runKeys,
}

const keysHistory = 200

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	kindStyle   = lipgloss.NewStyle().Width(8).Foreground(lipgloss.Color("212"))
	eventStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type entry struct {
	kind, text string
}

type keysModel struct {
	stats  func() status.Snapshot
	w, h   int
	events []entry
}

func (m *keysModel) push(kind, text string) {
	if len(m.events) == keysHistory {
		m.events = append(m.events[:0], m.events[1:]...)
	}
	m.events = append(m.events, entry{kind, text})
}

func (m *keysModel) Init() engine.Cmd { return nil }

func (m *keysModel) Update(msg engine.Msg) (engine.Model, engine.Cmd) {
	switch msg := msg.(type) {
	case engine.KeyMsg:
		switch msg.Key {
		case terminal.KeyCtrlY:
			if n := len(m.events); n > 0 {
				last := m.events[n-1]
				return m, engine.SetClipboard(last.kind + " " + last.text)
			}
			return m, nil
		case terminal.KeyCtrlP:
			return m, engine.ReadClipboard
		}
		m.push("key", msg.String())
	case engine.MouseMsg:
		m.push("mouse", msg.String())
	case engine.PasteStartMsg:
		m.push("paste", "start")
	case engine.PasteEndMsg:
		m.push("paste", "end")
	case engine.FocusMsg:
		m.push("focus", "in")
	case engine.BlurMsg:
		m.push("focus", "out")
	case engine.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
		m.push("resize", fmt.Sprintf("%dx%d", msg.Width, msg.Height))
	case engine.ColorProfileMsg:
		m.push("profile", msg.String())
	case engine.ClipboardMsg:
		m.push("clip", fmt.Sprintf("%q", msg.Text))
	case engine.ClipboardErrorMsg:
		m.push("clip", msg.Error())
	}
	return m, nil
}

func (m *keysModel) View() string {
	if m.h < 3 {
		return ""
	}
	visible := m.events
	if room := m.h - 2; len(visible) > room {
		visible = visible[len(visible)-room:]
	}

	var b strings.Builder
	b.WriteString(headerStyle.Width(m.w).Render("termloop keys   ctrl+y copy   ctrl+p paste   ctrl+c quit"))
	for _, e := range visible {
		b.WriteByte('\n')
		b.WriteString(kindStyle.Render(e.kind) + eventStyle.Render(e.text))
	}
	for i := len(visible); i < m.h-2; i++ {
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	snap := m.stats()
	b.WriteString(footerStyle.Render(fmt.Sprintf("msgs %d  events %d  frames %d  cmds %d",
		snap.Ints[status.LoopMessages], snap.Ints[status.InputEvents],
		snap.Ints[status.RenderFrames], snap.Ints[status.LoopCommands])))
	return b.String()
}

func runKeys(cmd *cobra.Command, args []string) error {
	m := &keysModel{}
	p, err := newProgram(cmd, m,
		engine.WithAltScreen(),
		engine.WithMouseAllMotion(),
		engine.WithReportFocus(),
		engine.WithBracketedPaste(true),
	)
	if err != nil {
		return err
	}
	m.stats = p.Stats
	_, err = p.Run()
	return err
}
