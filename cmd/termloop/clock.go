//go:build unix

package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/termloop/engine"
)

var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Inline clock aligned to the wall-clock second",
	Long: `Prints a clock that updates on each whole second using the Every command.
Press q or Ctrl+C to exit; the last frame stays in the scrollback.`,
	Args: cobra.NoArgs,
	RunE: runClock,
}

var clockPeriod time.Duration

func init() {
	clockCmd.Flags().DurationVar(&clockPeriod, "period", time.Second, "Tick period, aligned to the wall clock")
}

type tickMsg time.Time

var (
	clockStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).
			Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type clockModel struct {
	period time.Duration
	now    time.Time
	ticks  int
}

func (m clockModel) tick() engine.Cmd {
	return engine.Every(m.period, func(t time.Time) engine.Msg { return tickMsg(t) })
}

func (m clockModel) Init() engine.Cmd { return m.tick() }

func (m clockModel) Update(msg engine.Msg) (engine.Model, engine.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = time.Time(msg)
		m.ticks++
		return m, m.tick()
	case engine.KeyMsg:
		if msg.String() == "q" {
			return m, engine.Quit
		}
	}
	return m, nil
}

func (m clockModel) View() string {
	face := "--:--:--"
	if !m.now.IsZero() {
		face = m.now.Format("15:04:05.000")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		clockStyle.Render(face),
		hintStyle.Render(fmt.Sprintf("ticks %d every %s  q to quit", m.ticks, m.period)),
	)
}

func runClock(cmd *cobra.Command, args []string) error {
	if clockPeriod <= 0 {
		return fmt.Errorf("period must be positive, got %s", clockPeriod)
	}
	p, err := newProgram(cmd, clockModel{period: clockPeriod})
	if err != nil {
		return err
	}
	_, err = p.Run()
	return err
}
