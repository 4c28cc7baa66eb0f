package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kdfbench/kdfbench/internal/config"
	"github.com/kdfbench/kdfbench/internal/kdf"
)

// algorithmSupport is one row of the algorithms listing.
type algorithmSupport struct {
	Algorithm string `json:"algorithm"`
	Software  bool   `json:"software"`
	Platform  bool   `json:"platform"`
}

var algorithmsCmd = newAlgorithmsCommand(nil)

func newAlgorithmsCommand(conf *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List hash algorithms and the backends that support them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlgorithms(cmd, conf)
		},
	}
}

// NewAlgorithmsCommand creates an algorithms command for testing.
func NewAlgorithmsCommand(conf *config.Config) *cobra.Command {
	return newAlgorithmsCommand(conf)
}

func listAlgorithms(conf *config.Config) []algorithmSupport {
	h := newHarness(conf)
	software, _ := h.Backend(kdf.KindSoftware)
	platform, _ := h.Backend(kdf.KindPlatform)

	rows := make([]algorithmSupport, 0, len(kdf.Algorithms()))
	for _, name := range kdf.Algorithms() {
		rows = append(rows, algorithmSupport{
			Algorithm: name,
			Software:  software.Supports(name),
			Platform:  platform.Supports(name),
		})
	}
	return rows
}

func runAlgorithms(cmd *cobra.Command, conf *config.Config) error {
	conf = currentConfig(conf)
	rows := listAlgorithms(conf)

	out := cmd.OutOrStdout()
	if currentOutput(conf) == "json" {
		return writeJSON(out, rows)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tSOFTWARE\tPLATFORM")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", row.Algorithm, yesNo(row.Software), yesNo(row.Platform))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
