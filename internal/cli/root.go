package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kdfbench/kdfbench/internal/config"
)

var (
	cfgFile      string
	verbose      bool
	outputFormat string
	cfg          *config.Config
	logger       = slog.Default()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kdfbench",
	Short: "Compare and time PBKDF2 backends",
	Long: `kdfbench derives PBKDF2 keys through two independent backends and reports
the derived key together with the wall-clock time the derivation took.

Backends:
- software: an embedded PBKDF2 built only on HMAC
- platform: the provider's native PBKDF2, driven through an
  import / derive / export pipeline

Nothing is stored: salts, keys and timings are printed and discarded.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if outputFormat == "" {
			outputFormat = cfg.OutputFormat
		}
		if outputFormat != "text" && outputFormat != "json" {
			return fmt.Errorf("invalid output format: %s (valid: text, json)", outputFormat)
		}

		logger = newLogger(cfg.LogLevel, verbose || isDebugEnabled())
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and runs it until it
// finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/kdfbench/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format (text|json, default from config)")

	rootCmd.AddCommand(deriveCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(tuneCmd)
	rootCmd.AddCommand(algorithmsCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		return
	}

	path, err := config.DefaultPath()
	if err != nil {
		// run on built-in defaults
		logger.Warn("no config file", "error", err)
		return
	}
	cfgFile = path
}

// currentConfig prefers the config handed to a command constructor, then the
// one loaded by the root command, then the defaults.
func currentConfig(conf *config.Config) *config.Config {
	if conf != nil {
		return conf
	}
	if cfg != nil {
		return cfg
	}
	return config.DefaultConfig()
}

// currentOutput resolves the output format for commands that may run without
// the root command's pre-run.
func currentOutput(conf *config.Config) string {
	if outputFormat != "" {
		return outputFormat
	}
	return currentConfig(conf).OutputFormat
}

func newLogger(level string, debug bool) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	if debug {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
