package kdf

import (
	"context"
	"errors"

	"github.com/kdfbench/kdfbench/internal/encoding"
)

// DerivedKeyAlgorithm is the cipher the platform derives keys for. The
// provider only hands out key material bound to a cipher, so the key length
// is subject to that cipher's constraints.
const DerivedKeyAlgorithm = "AES-CBC"

// Pipeline stage names, reported in DerivationError.Stage.
const (
	StageImport = "import"
	StageDerive = "derive"
	StageExport = "export"
)

// step is one fallible asynchronous stage of a pipeline.
type step[In, Out any] func(ctx context.Context, in In) (Out, error)

// named tags a step's failure with its stage name.
func named[In, Out any](name string, s step[In, Out]) step[In, Out] {
	return func(ctx context.Context, in In) (Out, error) {
		out, err := s(ctx, in)
		if err != nil {
			var zero Out
			return zero, &stageError{stage: name, err: err}
		}
		return out, nil
	}
}

// then runs next only when first succeeds; a failure short-circuits.
func then[A, B, C any](first step[A, B], next step[B, C]) step[A, C] {
	return func(ctx context.Context, in A) (C, error) {
		mid, err := first(ctx, in)
		if err != nil {
			var zero C
			return zero, err
		}
		if err := ctx.Err(); err != nil {
			var zero C
			return zero, err
		}
		return next(ctx, mid)
	}
}

type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.stage + ": " + e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

// PlatformBackend derives keys through a Provider in three sequential
// stages: import the secret, derive an exportable cipher key, export it.
type PlatformBackend struct {
	provider Provider
}

// NewPlatformBackend creates a platform backend. A nil provider selects NewProvider().
func NewPlatformBackend(provider Provider) *PlatformBackend {
	if provider == nil {
		provider = NewProvider()
	}
	return &PlatformBackend{provider: provider}
}

func (p *PlatformBackend) Kind() Kind { return KindPlatform }

// Supports reports whether the provider offers algorithm for PBKDF2.
func (p *PlatformBackend) Supports(algorithm string) bool {
	return p.provider.SupportsHash(algorithm)
}

// Derive runs the import, derive and export pipeline.
func (p *PlatformBackend) Derive(ctx context.Context, req *Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, &DerivationError{Backend: KindPlatform, Err: err}
	}

	importKey := named(StageImport, func(ctx context.Context, secret []byte) (*CryptoKey, error) {
		return p.provider.ImportKey(ctx, FormatRaw, secret, Name, false, []string{UsageDeriveKey})
	})

	deriveKey := named(StageDerive, func(ctx context.Context, base *CryptoKey) (*CryptoKey, error) {
		params := PBKDF2Params{
			Salt:       req.Salt,
			Iterations: req.Iterations,
			Hash:       req.Algorithm,
		}
		target := KeyAlgorithm{Name: DerivedKeyAlgorithm, Length: req.Bits}
		return p.provider.DeriveKey(ctx, params, base, target, true, []string{UsageEncrypt, UsageDecrypt})
	})

	exportKey := named(StageExport, func(ctx context.Context, key *CryptoKey) ([]byte, error) {
		return p.provider.ExportKey(ctx, FormatRaw, key)
	})

	pipeline := then(then(importKey, deriveKey), exportKey)

	key, err := pipeline(ctx, encoding.UTF8ToBytes(req.Secret))
	if err != nil {
		derr := &DerivationError{Backend: KindPlatform, Err: err}
		var se *stageError
		if errors.As(err, &se) {
			derr.Stage = se.stage
			derr.Err = se.err
		}
		return nil, derr
	}

	return newResult(KindPlatform, req, key), nil
}
