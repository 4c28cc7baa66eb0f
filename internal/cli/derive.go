package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kdfbench/kdfbench/internal/clipboard"
	"github.com/kdfbench/kdfbench/internal/config"
)

var (
	copyToClipboard      = clipboard.Copy
	clearClipboard       = clipboard.ClearIfUnchanged
	clipboardIsAvailable = clipboard.IsAvailable
	clipboardTimer       = time.After
)

type deriveOptions struct {
	params  paramOptions
	backend string
	copy    bool
	ttl     int
}

var deriveCmd = newDeriveCommand(nil)

func newDeriveCommand(conf *config.Config) *cobra.Command {
	opts := &deriveOptions{ttl: -1}

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive a key on one backend and time it",
		Long: `Derive a PBKDF2 key on the selected backend and print the derived key
(the "proof") together with the wall-clock time the derivation took.

Example:
  kdfbench derive --secret password --salt 73616c74 --iter 1 --bits 256
  kdfbench derive --prompt --algo SHA-512 --bits 512 --backend platform`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDerive(cmd, opts, conf)
		},
	}

	addParamFlags(cmd, &opts.params)
	cmd.Flags().StringVar(&opts.backend, "backend", "", "Backend to run (software|platform, config default)")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Copy the derived key to the clipboard")
	cmd.Flags().IntVar(&opts.ttl, "ttl", opts.ttl, "Seconds to hold the key on the clipboard before clearing it (-1 config default, 0 never clear)")

	return cmd
}

// NewDeriveCommand creates a derive command for testing.
func NewDeriveCommand(conf *config.Config) *cobra.Command {
	return newDeriveCommand(conf)
}

func runDerive(cmd *cobra.Command, opts *deriveOptions, conf *config.Config) error {
	conf = currentConfig(conf)

	kind, err := resolveKind(opts.backend, conf)
	if err != nil {
		return err
	}

	raw, err := rawParams(cmd, &opts.params, conf)
	if err != nil {
		return err
	}

	res, err := newHarness(conf).RunRaw(cmd.Context(), raw, kind)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := writeResult(out, currentOutput(conf), res); err != nil {
		return err
	}

	if !opts.copy {
		return nil
	}

	if !clipboardIsAvailable() {
		return fmt.Errorf("clipboard not available, remove --copy to print only")
	}

	ttl, err := resolveClipboardTTL(opts.ttl, conf)
	if err != nil {
		return err
	}

	return holdOnClipboard(cmd, res.KeyHex, ttl)
}

// holdOnClipboard copies key and blocks until ttl has passed or the command
// is interrupted, then clears it. A zero ttl leaves the key in place.
func holdOnClipboard(cmd *cobra.Command, key string, ttl time.Duration) error {
	if err := copyToClipboard(key); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}

	errOut := cmd.ErrOrStderr()
	if ttl <= 0 {
		return writeOutput(errOut, "✓ Derived key copied to clipboard\n")
	}

	if err := writeOutput(errOut, "✓ Derived key copied to clipboard, clearing in %s (Ctrl+C clears now)\n", ttl.Round(time.Second)); err != nil {
		return err
	}

	select {
	case <-clipboardTimer(ttl):
	case <-cmd.Context().Done():
	}

	if err := clearClipboard(key); err != nil {
		return fmt.Errorf("failed to clear clipboard: %w", err)
	}
	return writeOutput(errOut, "✓ Clipboard cleared\n")
}

func resolveClipboardTTL(override int, conf *config.Config) (time.Duration, error) {
	if override < -1 {
		return 0, fmt.Errorf("--ttl must be -1 (config default) or a non-negative number of seconds")
	}

	if override >= 0 {
		return time.Duration(override) * time.Second, nil
	}

	if conf != nil && conf.ClipboardTTL > 0 {
		return conf.ClipboardTTL, nil
	}

	return 30 * time.Second, nil
}
