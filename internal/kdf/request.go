// Package kdf derives PBKDF2 keys through interchangeable backends.
//
// A Request is assembled from caller input by a Builder, which applies the
// salt and iteration defaults and rejects malformed parameters before any
// backend runs. Backends turn a Request into a Result carrying the hex
// encoded salt and derived key.
package kdf

import (
	"fmt"
	"time"

	"github.com/kdfbench/kdfbench/internal/encoding"
	"github.com/kdfbench/kdfbench/internal/entropy"
)

// Name is the value of Result.KDF.
const Name = "PBKDF2"

// RawParams is the caller-facing input record. Zero values mean "absent".
type RawParams struct {
	Node       string `json:"node,omitempty" yaml:"node,omitempty"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
	Secret     string `json:"secret" yaml:"secret"`
	Salt       string `json:"salt,omitempty" yaml:"salt,omitempty"` // hex
	Iterations int    `json:"iter,omitempty" yaml:"iter,omitempty"`
	Algorithm  string `json:"algo" yaml:"algo"`
	Bits       int    `json:"bits" yaml:"bits"`
}

// Request is a validated derivation request. It is owned by exactly one run.
type Request struct {
	Node       string
	Type       string
	Secret     string
	Salt       []byte
	Iterations int
	Algorithm  string // normalized, see NormalizeAlgorithm
	Bits       int
}

// KeyLen returns the derived key length in bytes.
func (r *Request) KeyLen() int {
	return r.Bits / 8
}

// Clone returns a deep copy so that concurrent runs never share a salt buffer.
func (r *Request) Clone() *Request {
	c := *r
	c.Salt = append([]byte(nil), r.Salt...)
	return &c
}

// Validate checks the invariants every backend relies on.
func (r *Request) Validate() error {
	if r == nil {
		return &ParamError{Field: "request", Reason: "missing"}
	}
	if err := ValidateBits(r.Bits); err != nil {
		return err
	}
	if r.Iterations <= 0 {
		return &ParamError{Field: "iterations", Reason: fmt.Sprintf("must be positive (got %d)", r.Iterations)}
	}
	if r.Algorithm == "" {
		return &ParamError{Field: "algorithm", Reason: "missing"}
	}
	return nil
}

// MaxBits bounds the derived key length (8 KiB).
const MaxBits = 8 * 8192

// ValidateBits rejects key lengths that are missing, non-positive, not a
// whole number of bytes or larger than MaxBits.
func ValidateBits(bits int) error {
	if bits <= 0 {
		return &ParamError{Field: "bits", Reason: fmt.Sprintf("must be positive (got %d)", bits)}
	}
	if bits > MaxBits {
		return &ParamError{Field: "bits", Reason: fmt.Sprintf("must be at most %d (got %d)", MaxBits, bits)}
	}
	if bits%8 != 0 {
		return &ParamError{Field: "bits", Reason: fmt.Sprintf("must be a multiple of 8 (got %d)", bits)}
	}
	return nil
}

// Result is the uniform outcome of one derivation, whichever backend ran.
type Result struct {
	Node           string        `json:"node,omitempty"`
	Type           string        `json:"type,omitempty"`
	KDF            string        `json:"kdf"`
	Algorithm      string        `json:"algo"`
	SaltHex        string        `json:"salt"`
	Iterations     int           `json:"iter"`
	Bits           int           `json:"bits"`
	KeyHex         string        `json:"proof"`
	Backend        Kind          `json:"backend"`
	Elapsed        time.Duration `json:"-"`
	ElapsedSeconds float64       `json:"elapsed"`
}

func newResult(kind Kind, req *Request, key []byte) *Result {
	return &Result{
		Node:       req.Node,
		Type:       req.Type,
		KDF:        Name,
		Algorithm:  req.Algorithm,
		SaltHex:    encoding.BytesToHex(req.Salt),
		Iterations: req.Iterations,
		Bits:       req.Bits,
		KeyHex:     encoding.BytesToHex(key),
		Backend:    kind,
	}
}

// Builder assembles Requests from RawParams.
type Builder struct {
	// SaltSize is the length of generated salts. Zero means entropy.DefaultSaltSize.
	SaltSize int
}

// NewBuilder returns a Builder with the default salt size.
func NewBuilder() *Builder {
	return &Builder{SaltSize: entropy.DefaultSaltSize}
}

// Build validates raw and fills in the salt and iteration defaults. Malformed
// salt hex fails with an encoding.EncodingError; everything else that is
// wrong fails with a ParamError. Nothing random is drawn until all supplied
// fields have been checked.
func (b *Builder) Build(raw RawParams) (*Request, error) {
	var salt []byte
	if raw.Salt != "" {
		decoded, err := encoding.HexToBytes(raw.Salt)
		if err != nil {
			return nil, fmt.Errorf("salt: %w", err)
		}
		salt = decoded
	}

	algorithm := NormalizeAlgorithm(raw.Algorithm)
	if algorithm == "" {
		return nil, &ParamError{Field: "algorithm", Reason: "missing"}
	}
	if _, err := LookupHash(algorithm); err != nil {
		return nil, &ParamError{Field: "algorithm", Reason: fmt.Sprintf("%q is not supported", raw.Algorithm), Err: ErrUnsupportedHash}
	}

	if err := ValidateBits(raw.Bits); err != nil {
		return nil, err
	}

	if raw.Iterations < 0 {
		return nil, &ParamError{Field: "iterations", Reason: fmt.Sprintf("must be positive (got %d)", raw.Iterations)}
	}

	if salt == nil {
		size := b.SaltSize
		if size <= 0 {
			size = entropy.DefaultSaltSize
		}
		generated, err := entropy.GenerateSalt(size)
		if err != nil {
			return nil, err
		}
		salt = generated
	}

	iterations := raw.Iterations
	if iterations == 0 {
		iterations = entropy.DefaultIterations()
	}

	return &Request{
		Node:       raw.Node,
		Type:       raw.Type,
		Secret:     raw.Secret,
		Salt:       salt,
		Iterations: iterations,
		Algorithm:  algorithm,
		Bits:       raw.Bits,
	}, nil
}

// Build uses a default Builder.
func Build(raw RawParams) (*Request, error) {
	return NewBuilder().Build(raw)
}
