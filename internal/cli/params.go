package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kdfbench/kdfbench/internal/config"
	"github.com/kdfbench/kdfbench/internal/entropy"
	"github.com/kdfbench/kdfbench/internal/harness"
	"github.com/kdfbench/kdfbench/internal/kdf"
)

// paramOptions holds the flags shared by every command that derives a key.
type paramOptions struct {
	secret       string
	prompt       bool
	randomSecret int
	salt         string
	iterations   int
	algorithm    string
	bits         int
	node         string
	kind         string
}

func addParamFlags(cmd *cobra.Command, opts *paramOptions) {
	cmd.Flags().StringVar(&opts.secret, "secret", "", "Secret to derive from")
	cmd.Flags().BoolVar(&opts.prompt, "prompt", false, "Read the secret from the terminal without echo")
	cmd.Flags().IntVar(&opts.randomSecret, "random-secret", 0, "Generate a random alphanumeric secret of this length")
	cmd.Flags().StringVar(&opts.salt, "salt", "", "Salt as hex (random when omitted)")
	cmd.Flags().IntVar(&opts.iterations, "iter", 0, "Iteration count (config default, random when zero)")
	cmd.Flags().StringVar(&opts.algorithm, "algo", "", "Hash algorithm (config default)")
	cmd.Flags().IntVar(&opts.bits, "bits", 0, "Derived key length in bits (config default)")
	cmd.Flags().StringVar(&opts.node, "node", "", "Node identifier echoed in the result (random UUID when omitted)")
	cmd.Flags().StringVar(&opts.kind, "type", "", "Free-form type tag echoed in the result")

	cmd.MarkFlagsMutuallyExclusive("secret", "prompt", "random-secret")
	cmd.MarkFlagsOneRequired("secret", "prompt", "random-secret")
}

// resolveSecret returns the secret selected by the flags. A generated secret
// is reported on stderr so the run can be reproduced.
func resolveSecret(cmd *cobra.Command, opts *paramOptions) (string, error) {
	switch {
	case opts.prompt:
		return promptSecret(cmd.ErrOrStderr(), "Secret: ")
	case cmd.Flags().Changed("random-secret"):
		if opts.randomSecret <= 0 {
			return "", &kdf.ParamError{Field: "random-secret", Reason: fmt.Sprintf("must be positive (got %d)", opts.randomSecret)}
		}
		secret, err := entropy.GenerateSecret(opts.randomSecret)
		if err != nil {
			return "", fmt.Errorf("failed to generate secret: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Generated secret: %s\n", secret)
		return secret, nil
	default:
		return opts.secret, nil
	}
}

// rawParams merges the flags over the config defaults.
func rawParams(cmd *cobra.Command, opts *paramOptions, conf *config.Config) (kdf.RawParams, error) {
	secret, err := resolveSecret(cmd, opts)
	if err != nil {
		return kdf.RawParams{}, err
	}

	raw := kdf.RawParams{
		Node:       opts.node,
		Type:       opts.kind,
		Secret:     secret,
		Salt:       opts.salt,
		Iterations: conf.Iterations,
		Algorithm:  conf.Algorithm,
		Bits:       conf.Bits,
	}
	if cmd.Flags().Changed("iter") {
		if opts.iterations <= 0 {
			return kdf.RawParams{}, &kdf.ParamError{Field: "iterations", Reason: fmt.Sprintf("must be positive (got %d)", opts.iterations)}
		}
		raw.Iterations = opts.iterations
	}
	if cmd.Flags().Changed("algo") {
		raw.Algorithm = opts.algorithm
	}
	if cmd.Flags().Changed("bits") {
		raw.Bits = opts.bits
	}
	if raw.Node == "" {
		raw.Node = uuid.NewString()
	}
	return raw, nil
}

// resolveKind picks the backend flag, falling back to the config default.
func resolveKind(flag string, conf *config.Config) (kdf.Kind, error) {
	if flag == "" {
		flag = conf.Backend
	}
	return kdf.ParseKind(flag)
}

// newHarness is swapped out in tests.
var newHarness = func(conf *config.Config) *harness.Harness {
	return harness.New(
		harness.WithBuilder(&kdf.Builder{SaltSize: conf.SaltSize}),
		harness.WithLogger(logger),
	)
}
