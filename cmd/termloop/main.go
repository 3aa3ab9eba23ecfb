//go:build unix

// Command termloop hosts demo programs for the runtime
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/termloop/config"
	"github.com/lixenwraith/termloop/engine"
	"github.com/lixenwraith/termloop/terminal"
)

var (
	// Global flags
	configPath string
	platform   string
	logFile    string
	verbose    bool

	logger = zap.NewNop()
	cfg    = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "termloop",
	Short: "Demo programs for the termloop terminal runtime",
	Long: `termloop runs small programs on top of the termloop event loop.

The terminal is in raw mode while a program runs, so logs go to the file
named by --log (or log_file in the config), never to stderr.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		if cmd.Flags().Changed("log") {
			cfg.LogFile = logFile
		}
		if verbose {
			cfg.Verbose = true
		}

		logger, err = cfg.Logger()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "termloop.yaml", "YAML options file (missing file uses defaults)")
	rootCmd.PersistentFlags().StringVar(&platform, "platform", "native", "Terminal adapter: native or tcell")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "Log file (overrides log_file)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(clockCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(stressCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newProgram applies the config, the selected platform and the logger, then extra
// Later options win, so subcommands can force what their demo needs
func newProgram(cmd *cobra.Command, model engine.Model, extra ...engine.Option) (*engine.Program, error) {
	var plat terminal.Platform
	switch platform {
	case "native":
		plat = terminal.NewNativePlatform()
	case "tcell":
		plat = terminal.NewTcellPlatform()
	default:
		return nil, fmt.Errorf("unknown platform %q (valid: native, tcell)", platform)
	}

	opts := cfg.Options()
	opts = append(opts,
		engine.WithPlatform(plat),
		engine.WithLogger(logger.Named(cmd.Name())),
		engine.WithContext(cmd.Context()),
	)
	opts = append(opts, extra...)
	return engine.NewProgram(model, opts...), nil
}
