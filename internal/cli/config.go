package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kdfbench/kdfbench/internal/config"
)

const configLong = `Manage kdfbench configuration.

The configuration holds the defaults applied to derive, compare and tune
when a flag is omitted. It is stored in ~/.config/kdfbench/config.yaml by
default.

Example:
  kdfbench config show            # Show the effective configuration
  kdfbench config path            # Show config file path
  kdfbench config init --force    # Reset the file to the defaults`

var configCmd = newConfigCommand(nil)

// NewConfigCommand creates a new config command for testing. path replaces
// the --config flag.
func NewConfigCommand(conf *config.Config, path string) *cobra.Command {
	cmd := newConfigCommand(conf)
	for _, sub := range cmd.Commands() {
		sub.Annotations = map[string]string{"path": path}
	}
	return cmd
}

func newConfigCommand(conf *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage kdfbench configuration",
		Long:  configLong,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, conf)
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOutput(cmd.OutOrStdout(), "%s\n", configPath(cmd))
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		// the file may be missing or invalid, so skip the root loader
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")

	cmd.AddCommand(showCmd)
	cmd.AddCommand(pathCmd)
	cmd.AddCommand(initCmd)

	return cmd
}

func configPath(cmd *cobra.Command) string {
	if p, ok := cmd.Annotations["path"]; ok {
		return p
	}
	return cfgFile
}

func runConfigShow(cmd *cobra.Command, conf *config.Config) error {
	data, err := yaml.Marshal(currentConfig(conf))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return writeString(cmd.OutOrStdout(), string(data))
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	path := configPath(cmd)
	if path == "" {
		return fmt.Errorf("no configuration path, pass --config")
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file %s already exists, use --force to overwrite", path)
	}

	if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	return writeOutput(cmd.OutOrStdout(), "✓ Configuration written to %s\n", path)
}
