package kdf

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Key formats and usages understood by the provider.
const (
	FormatRaw = "raw"

	UsageDeriveKey = "deriveKey"
	UsageEncrypt   = "encrypt"
	UsageDecrypt   = "decrypt"
)

var (
	errUnsupportedFormat = errors.New("unsupported key format")
	errWrongAlgorithm    = errors.New("key algorithm mismatch")
	errMissingUsage      = errors.New("key usage not permitted")
	errNotExtractable    = errors.New("key is not extractable")
)

// KeyAlgorithm describes the algorithm a CryptoKey is bound to. Length is in
// bits and only meaningful for cipher keys.
type KeyAlgorithm struct {
	Name   string
	Length int
}

// PBKDF2Params are the derivation parameters handed to Provider.DeriveKey.
type PBKDF2Params struct {
	Salt       []byte
	Iterations int
	Hash       string
}

// CryptoKey is an opaque key handle owned by a Provider.
type CryptoKey struct {
	algorithm   KeyAlgorithm
	extractable bool
	usages      []string
	material    []byte
}

// Algorithm returns the algorithm the key is bound to.
func (k *CryptoKey) Algorithm() KeyAlgorithm { return k.algorithm }

// Extractable reports whether ExportKey may reveal the key material.
func (k *CryptoKey) Extractable() bool { return k.extractable }

func (k *CryptoKey) allows(usage string) bool {
	for _, u := range k.usages {
		if u == usage {
			return true
		}
	}
	return false
}

// Provider is a platform cryptographic provider exposing a native PBKDF2
// primitive through import, derive and export steps.
type Provider interface {
	ImportKey(ctx context.Context, format string, keyData []byte, algorithm string, extractable bool, usages []string) (*CryptoKey, error)
	DeriveKey(ctx context.Context, params PBKDF2Params, base *CryptoKey, derived KeyAlgorithm, extractable bool, usages []string) (*CryptoKey, error)
	ExportKey(ctx context.Context, format string, key *CryptoKey) ([]byte, error)
	SupportsHash(name string) bool
}

// nativeHashes is the hash set the provider exposes for PBKDF2.
var nativeHashes = map[string]struct{}{
	"sha1":   {},
	"sha256": {},
	"sha384": {},
	"sha512": {},
}

// cipherKeyLengths are the lengths in bits accepted for derived AES keys.
var cipherKeyLengths = map[int]struct{}{
	128: {},
	192: {},
	256: {},
}

type nativeProvider struct{}

// NewProvider returns the default provider, backed by golang.org/x/crypto/pbkdf2.
func NewProvider() Provider {
	return nativeProvider{}
}

func (nativeProvider) SupportsHash(name string) bool {
	_, ok := nativeHashes[NormalizeAlgorithm(name)]
	return ok
}

func (nativeProvider) ImportKey(ctx context.Context, format string, keyData []byte, algorithm string, extractable bool, usages []string) (*CryptoKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if format != FormatRaw {
		return nil, fmt.Errorf("%w: %q", errUnsupportedFormat, format)
	}
	if algorithm != Name {
		return nil, fmt.Errorf("%w: cannot import %q", errWrongAlgorithm, algorithm)
	}

	material := make([]byte, len(keyData))
	copy(material, keyData)

	return &CryptoKey{
		algorithm:   KeyAlgorithm{Name: Name},
		extractable: extractable,
		usages:      append([]string(nil), usages...),
		material:    material,
	}, nil
}

func (p nativeProvider) DeriveKey(ctx context.Context, params PBKDF2Params, base *CryptoKey, derived KeyAlgorithm, extractable bool, usages []string) (*CryptoKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if base == nil || base.algorithm.Name != Name {
		return nil, fmt.Errorf("%w: base key is not a %s key", errWrongAlgorithm, Name)
	}
	if !base.allows(UsageDeriveKey) {
		return nil, fmt.Errorf("%w: %s", errMissingUsage, UsageDeriveKey)
	}
	if !p.SupportsHash(params.Hash) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedHash, params.Hash)
	}
	if params.Iterations <= 0 {
		return nil, fmt.Errorf("iteration count must be positive (got %d)", params.Iterations)
	}
	if _, ok := cipherKeyLengths[derived.Length]; !ok {
		return nil, fmt.Errorf("%w: %s keys must be 128, 192 or 256 bits (got %d)", ErrUnsupportedKeyLength, derived.Name, derived.Length)
	}

	h, err := LookupHash(params.Hash)
	if err != nil {
		return nil, err
	}

	return &CryptoKey{
		algorithm:   derived,
		extractable: extractable,
		usages:      append([]string(nil), usages...),
		material:    pbkdf2.Key(base.material, params.Salt, params.Iterations, derived.Length/8, h),
	}, nil
}

func (nativeProvider) ExportKey(ctx context.Context, format string, key *CryptoKey) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if format != FormatRaw {
		return nil, fmt.Errorf("%w: %q", errUnsupportedFormat, format)
	}
	if key == nil || !key.extractable {
		return nil, errNotExtractable
	}

	out := make([]byte, len(key.material))
	copy(out, key.material)
	return out, nil
}
