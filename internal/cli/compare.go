package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kdfbench/kdfbench/internal/config"
	"github.com/kdfbench/kdfbench/internal/harness"
	"github.com/kdfbench/kdfbench/internal/kdf"
	"github.com/kdfbench/kdfbench/internal/util"
)

var (
	matchColor    = color.New(color.FgGreen, color.Bold)
	mismatchColor = color.New(color.FgRed, color.Bold)
)

var compareCmd = newCompareCommand(nil)

func newCompareCommand(conf *config.Config) *cobra.Command {
	opts := &paramOptions{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Derive the same key on both backends and compare them",
		Long: `Build one request, derive it on the software backend and then on the
platform backend, and report both timings and whether the derived keys match.
The runs never overlap, so each timing is taken on an otherwise idle harness.

The command exits with status 4 when the keys differ.

Example:
  kdfbench compare --secret password --salt 0102030405060708090a0b0c0d0e0f10 --iter 1 --bits 256`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, opts, conf)
		},
	}

	addParamFlags(cmd, opts)

	return cmd
}

// NewCompareCommand creates a compare command for testing.
func NewCompareCommand(conf *config.Config) *cobra.Command {
	return newCompareCommand(conf)
}

func runCompare(cmd *cobra.Command, opts *paramOptions, conf *config.Config) error {
	conf = currentConfig(conf)

	raw, err := rawParams(cmd, opts, conf)
	if err != nil {
		return err
	}

	cmp, err := newHarness(conf).CompareRaw(cmd.Context(), raw)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if currentOutput(conf) == "json" {
		err = writeJSON(out, cmp)
	} else {
		err = writeComparison(out, cmp)
	}
	if err != nil {
		return err
	}

	if !cmp.Match {
		return util.ErrMismatch
	}
	return nil
}

func writeComparison(w io.Writer, cmp *harness.Comparison) error {
	req := cmp.Software
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "kdf:\t%s\n", req.KDF)
	fmt.Fprintf(tw, "algo:\t%s\n", req.Algorithm)
	fmt.Fprintf(tw, "salt:\t%s\n", req.SaltHex)
	fmt.Fprintf(tw, "iter:\t%d\n", req.Iterations)
	fmt.Fprintf(tw, "bits:\t%d\n", req.Bits)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "BACKEND\tELAPSED\tPROOF")
	for _, res := range []*kdf.Result{cmp.Software, cmp.Platform} {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", res.Backend, formatSeconds(res.ElapsedSeconds), res.KeyHex)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	verdict := matchColor.Sprint("MATCH")
	if !cmp.Match {
		verdict = mismatchColor.Sprint("MISMATCH")
	}
	return writeOutput(w, "\n%s (software/platform time ratio %.2f)\n", verdict, cmp.Speedup())
}
