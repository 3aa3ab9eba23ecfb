package terminal

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

type osEnvironment struct{}

// NewOSEnvironment returns the process environment view
func NewOSEnvironment() Environment {
	return osEnvironment{}
}

func (osEnvironment) Getenv(key string) string {
	return os.Getenv(key)
}

func (osEnvironment) IsTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ColorProfile honors NO_COLOR, CLICOLOR_FORCE, COLORTERM and TERM
func (osEnvironment) ColorProfile() termenv.Profile {
	return termenv.EnvColorProfile()
}
