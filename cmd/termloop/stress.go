//go:build unix

package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/termloop/engine"
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Flood the loop from many goroutines and report throughput",
	Long: `Starts --senders goroutines that each Send --msgs messages while a batch of
tick commands runs alongside. The program quits once every message has been
processed and prints the runtime counters.`,
	Args: cobra.NoArgs,
	RunE: runStress,
}

var (
	stressSenders int
	stressMsgs    int
)

func init() {
	stressCmd.Flags().IntVar(&stressSenders, "senders", 8, "Concurrent sender goroutines")
	stressCmd.Flags().IntVar(&stressMsgs, "msgs", 10000, "Messages per sender")
}

type floodMsg struct{ sender int }

type pulseMsg struct{}

var (
	barStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	doneStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
)

type stressModel struct {
	want    int
	got     int
	pulses  int
	perSend []int
}

func (m *stressModel) Init() engine.Cmd {
	cmds := make([]engine.Cmd, 0, 16)
	for i := 0; i < 16; i++ {
		cmds = append(cmds, engine.Tick(time.Duration(i+1)*10*time.Millisecond, func(time.Time) engine.Msg { return pulseMsg{} }))
	}
	return engine.Batch(cmds...)
}

func (m *stressModel) Update(msg engine.Msg) (engine.Model, engine.Cmd) {
	switch msg := msg.(type) {
	case floodMsg:
		m.got++
		m.perSend[msg.sender]++
		if m.got == m.want {
			return m, engine.Quit
		}
	case pulseMsg:
		m.pulses++
	}
	return m, nil
}

func (m *stressModel) View() string {
	const width = 40
	filled := 0
	if m.want > 0 {
		filled = m.got * width / m.want
	}
	bar := barStyle.Render(repeat('█', filled)) + dimStyle.Render(repeat('░', width-filled))
	if m.got == m.want {
		return doneStyle.Render(fmt.Sprintf("%s %d/%d done", bar, m.got, m.want))
	}
	return fmt.Sprintf("%s %d/%d  pulses %d", bar, m.got, m.want, m.pulses)
}

func repeat(r rune, n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = r
	}
	return string(out)
}

func runStress(cmd *cobra.Command, args []string) error {
	if stressSenders < 1 || stressMsgs < 1 {
		return fmt.Errorf("senders and msgs must be positive")
	}
	m := &stressModel{want: stressSenders * stressMsgs, perSend: make([]int, stressSenders)}
	p, err := newProgram(cmd, m)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for s := 0; s < stressSenders; s++ {
		wg.Add(1)
		go func(sender int) {
			defer wg.Done()
			for i := 0; i < stressMsgs; i++ {
				p.Send(floodMsg{sender: sender})
			}
		}(s)
	}

	start := time.Now()
	_, err = p.Run()
	elapsed := time.Since(start)
	wg.Wait()
	if err != nil {
		return err
	}

	rate := float64(m.got) / elapsed.Seconds()
	logger.Info("stress finished",
		zap.Int("messages", m.got),
		zap.Duration("elapsed", elapsed),
		zap.Float64("msgs_per_sec", rate),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "%d messages in %s (%.0f msg/s)\n%s\n", m.got, elapsed.Round(time.Millisecond), rate, p.StatsReport())
	return nil
}
