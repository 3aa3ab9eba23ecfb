package engine

import (
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/termloop/terminal"
)

// clipboardService backs SetClipboard and ReadClipboard
// Writes go to the system clipboard when there is one, otherwise to the terminal as OSC 52
type clipboardService struct {
	clip terminal.Clipboard
	env  terminal.Environment
	raw  func(seq string) error // Renderer passthrough
	log  *zap.Logger
}

func (c *clipboardService) write(text string) Msg {
	if c.clip != nil {
		err := c.clip.WriteAll(text)
		if err == nil {
			return nil
		}
		c.log.Debug("system clipboard write failed, using osc52", zap.Error(err))
	}

	if err := c.raw(c.osc52(text)); err != nil {
		return ClipboardErrorMsg{Err: err}
	}
	return nil
}

func (c *clipboardService) read() Msg {
	if c.clip == nil {
		return ClipboardErrorMsg{Err: ErrClipboardUnavailable}
	}
	text, err := c.clip.ReadAll()
	if err != nil {
		return ClipboardErrorMsg{Err: err}
	}
	return ClipboardMsg{Text: text}
}

// osc52 wraps text for the terminal, passing through tmux or screen when detected
func (c *clipboardService) osc52(text string) string {
	seq := osc52.New(text)
	if c.env != nil {
		switch {
		case c.env.Getenv("TMUX") != "":
			seq = seq.Tmux()
		case strings.HasPrefix(c.env.Getenv("TERM"), "screen"):
			seq = seq.Screen()
		}
	}
	return seq.String()
}
