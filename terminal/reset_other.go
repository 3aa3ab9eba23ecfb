//go:build !linux

package terminal

// resetTerminalMode is a no-op where the termios ioctl numbers differ or termios does not exist
func resetTerminalMode() {}
