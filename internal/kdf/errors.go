package kdf

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is matched by every ParamError.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrDerivation is matched by every DerivationError.
	ErrDerivation = errors.New("key derivation failed")
	// ErrUnsupportedHash is returned when a hash name is not in the registry
	// or not offered by a backend.
	ErrUnsupportedHash = errors.New("unsupported hash algorithm")
	// ErrUnsupportedKeyLength is returned by the platform provider for key
	// lengths its cipher construction does not accept.
	ErrUnsupportedKeyLength = errors.New("unsupported key length")
)

// ParamError reports a rejected request field.
type ParamError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ParamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", ErrInvalidParameter, e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidParameter, e.Field, e.Reason)
}

func (e *ParamError) Is(target error) bool {
	return target == ErrInvalidParameter
}

func (e *ParamError) Unwrap() error {
	return e.Err
}

// DerivationError reports a backend failure. Stage is empty for the software
// backend and names the pipeline step for the platform backend.
type DerivationError struct {
	Backend Kind
	Stage   string
	Err     error
}

func (e *DerivationError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s backend: %s: %s: %v", e.Backend, ErrDerivation, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s backend: %s: %v", e.Backend, ErrDerivation, e.Err)
}

func (e *DerivationError) Is(target error) bool {
	return target == ErrDerivation
}

func (e *DerivationError) Unwrap() error {
	return e.Err
}
