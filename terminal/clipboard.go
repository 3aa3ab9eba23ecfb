//go:build !js

package terminal

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnsupported is returned when no clipboard utility is installed
var ErrClipboardUnsupported = errors.New("system clipboard unsupported")

type systemClipboard struct{}

// NewSystemClipboard returns the host clipboard (pbcopy, xclip, xsel, wl-copy, ...)
func NewSystemClipboard() Clipboard {
	return systemClipboard{}
}

func (systemClipboard) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", ErrClipboardUnsupported
	}
	return clipboard.ReadAll()
}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}
