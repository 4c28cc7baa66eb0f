package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kdfbench/kdfbench/internal/encoding"
	"github.com/kdfbench/kdfbench/internal/kdf"
)

func TestExitCode(t *testing.T) {
	_, hexErr := encoding.HexToBytes("zz")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"malformed hex", fmt.Errorf("salt: %w", hexErr), ExitInvalidInput},
		{"invalid parameter", &kdf.ParamError{Field: "bits", Reason: "must be positive"}, ExitInvalidInput},
		{"derivation", &kdf.DerivationError{Backend: kdf.KindPlatform, Err: errors.New("boom")}, ExitDerivation},
		{"derivation rejecting a parameter", &kdf.DerivationError{Backend: kdf.KindSoftware, Err: &kdf.ParamError{Field: "bits"}}, ExitInvalidInput},
		{"mismatch", WrapError(ErrMismatch, "compare"), ExitMismatch},
		{"other", errors.New("disk full"), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "ctx") != nil {
		t.Fatal("WrapError(nil) should be nil")
	}

	base := errors.New("base")
	wrapped := WrapError(base, "ctx")
	if !errors.Is(wrapped, base) {
		t.Fatal("WrapError should keep the cause")
	}
	if wrapped.Error() != "ctx: base" {
		t.Errorf("WrapError() = %q", wrapped.Error())
	}
}
