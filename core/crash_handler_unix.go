//go:build !js

package core

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/lixenwraith/termloop/terminal"
)

// exit is replaced in tests
var (
	osExit = os.Exit
	exit   = os.Exit
)

// HandleCrash is the unified panic handler that restores the terminal, prints the stack trace and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	if t := registeredTerminal(); t != nil {
		t.Fini()
	} else {
		// Fallback for edge cases
		terminal.EmergencyReset(os.Stdout)
	}

	os.Stdout.Sync()

	// \r\n in case the tty is still raw
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()

	exit(1)
}
