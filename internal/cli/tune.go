package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/kdfbench/kdfbench/internal/config"
)

type tuneOptions struct {
	params        paramOptions
	backend       string
	target        time.Duration
	maxIterations int
}

var tuneCmd = newTuneCommand(nil)

func newTuneCommand(conf *config.Config) *cobra.Command {
	opts := &tuneOptions{}

	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Find the iteration count that takes a target duration",
		Long: `Repeatedly derive on one backend, growing the iteration count, until a
single derivation takes at least the target duration.

Example:
  kdfbench tune --secret password --bits 256 --target 500ms --backend platform`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTune(cmd, opts, conf)
		},
	}

	addParamFlags(cmd, &opts.params)
	cmd.Flags().StringVar(&opts.backend, "backend", "", "Backend to tune (software|platform, config default)")
	cmd.Flags().DurationVar(&opts.target, "target", 0, "Target duration of one derivation (config default)")
	cmd.Flags().IntVar(&opts.maxIterations, "max-iterations", 0, "Upper bound on the iteration count (config default)")

	return cmd
}

// NewTuneCommand creates a tune command for testing.
func NewTuneCommand(conf *config.Config) *cobra.Command {
	return newTuneCommand(conf)
}

func runTune(cmd *cobra.Command, opts *tuneOptions, conf *config.Config) error {
	conf = currentConfig(conf)

	kind, err := resolveKind(opts.backend, conf)
	if err != nil {
		return err
	}

	target := conf.Tune.Target
	if cmd.Flags().Changed("target") {
		target = opts.target
	}
	maxIterations := conf.Tune.MaxIterations
	if cmd.Flags().Changed("max-iterations") {
		maxIterations = opts.maxIterations
	}

	raw, err := rawParams(cmd, &opts.params, conf)
	if err != nil {
		return err
	}

	h := newHarness(conf)
	req, err := h.Build(raw)
	if err != nil {
		return err
	}

	tuned, err := h.Tune(cmd.Context(), req, kind, target, maxIterations)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if currentOutput(conf) == "json" {
		return writeJSON(out, tuned)
	}

	if err := writeOutput(out, "%d\n", tuned.Iterations); err != nil {
		return err
	}
	if tuned.Capped {
		return writeOutput(cmd.ErrOrStderr(), "capped at %d iterations after %d rounds (%s < %s)\n",
			tuned.Iterations, tuned.Rounds, formatSeconds(tuned.Elapsed.Seconds()), formatSeconds(target.Seconds()))
	}
	return writeOutput(cmd.ErrOrStderr(), "%s on %s after %d rounds\n",
		formatSeconds(tuned.Elapsed.Seconds()), tuned.Backend, tuned.Rounds)
}
