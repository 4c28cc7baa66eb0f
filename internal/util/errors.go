// Package util provides the exit codes and top-level error handling shared by
// the kdfbench commands.
package util

import (
	"errors"
	"fmt"
	"os"

	"github.com/kdfbench/kdfbench/internal/encoding"
	"github.com/kdfbench/kdfbench/internal/kdf"
)

// Exit codes
const (
	ExitOK           = 0
	ExitError        = 1
	ExitInvalidInput = 2
	ExitDerivation   = 3
	ExitMismatch     = 4
)

// ErrMismatch is returned by compare when the backends disagree.
var ErrMismatch = errors.New("backends derived different keys")

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrMismatch):
		return ExitMismatch
	case errors.Is(err, encoding.ErrMalformedHex), errors.Is(err, kdf.ErrInvalidParameter):
		// a backend can reject a parameter too; that is still bad input
		return ExitInvalidInput
	case errors.Is(err, kdf.ErrDerivation):
		return ExitDerivation
	default:
		return ExitError
	}
}

// ExitWithCode exits the program with the specified code and message
func ExitWithCode(code int, format string, args ...interface{}) {
	if format != "" {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
	os.Exit(code)
}

// HandleError prints err and exits with the code ExitCode assigns to it.
func HandleError(err error, context string) {
	if err == nil {
		return
	}

	code := ExitCode(err)
	if context != "" {
		ExitWithCode(code, "Error: %s - %v", context, err)
	}
	ExitWithCode(code, "Error: %v", err)
}

// WrapError wraps an error with additional context
func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}
