// @lixen: #focus{conf[file,options]}
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/termloop/engine"
	"github.com/lixenwraith/termloop/render"
	"github.com/lixenwraith/termloop/terminal"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Config is the on-disk form of the program options
type Config struct {
	AltScreen      bool          `yaml:"alt_screen"`
	Mouse          string        `yaml:"mouse"` // off, cell, all
	FPS            int           `yaml:"fps"`
	ReportFocus    bool          `yaml:"report_focus"`
	BracketedPaste bool          `yaml:"bracketed_paste"`
	EscTimeout     time.Duration `yaml:"esc_timeout"`
	CtrlCAsKey     bool          `yaml:"ctrl_c_as_key"`

	LogFile string `yaml:"log_file"` // Empty disables logging
	Verbose bool   `yaml:"verbose"`
}

// Default matches the engine defaults
func Default() *Config {
	return &Config{
		Mouse:          terminal.MouseModeOff.String(),
		FPS:            render.DefaultFPS,
		BracketedPaste: true,
		EscTimeout:     terminal.DefaultEscTimeout,
	}
}

// Load reads a YAML file over the defaults
// A missing file yields the defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML, creating the parent directory
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate rejects values the engine would otherwise silently clamp
func (c *Config) Validate() error {
	if _, ok := terminal.ParseMouseMode(c.Mouse); !ok {
		return fmt.Errorf("%w: mouse %q (valid: off, cell, all)", ErrInvalid, c.Mouse)
	}
	if c.FPS < 1 || c.FPS > render.MaxFPS {
		return fmt.Errorf("%w: fps %d outside 1..%d", ErrInvalid, c.FPS, render.MaxFPS)
	}
	if c.EscTimeout <= 0 || c.EscTimeout > time.Second {
		return fmt.Errorf("%w: esc_timeout %s outside (0, 1s]", ErrInvalid, c.EscTimeout)
	}
	return nil
}

// Options converts the config to engine options
// Platform, streams, logger and context stay with the caller
func (c *Config) Options() []engine.Option {
	mouse, _ := terminal.ParseMouseMode(c.Mouse)
	opts := []engine.Option{
		engine.WithFPS(c.FPS),
		engine.WithMouseMode(mouse),
		engine.WithBracketedPaste(c.BracketedPaste),
		engine.WithEscTimeout(c.EscTimeout),
	}
	if c.AltScreen {
		opts = append(opts, engine.WithAltScreen())
	}
	if c.ReportFocus {
		opts = append(opts, engine.WithReportFocus())
	}
	if c.CtrlCAsKey {
		opts = append(opts, engine.WithCtrlCAsKey())
	}
	return opts
}

// Logger builds a file logger; the terminal owns stdout and stderr while a program runs
// Returns a no-op logger when LogFile is empty
func (c *Config) Logger() (*zap.Logger, error) {
	if c.LogFile == "" {
		return zap.NewNop(), nil
	}

	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{c.LogFile}
	zc.ErrorOutputPaths = []string{c.LogFile}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.Sampling = nil
	if c.Verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
