package kdf

import (
	"context"
	"fmt"
	"strings"
)

// Kind names a backend implementation.
type Kind string

const (
	// KindSoftware is the embedded PBKDF2 implementation.
	KindSoftware Kind = "software"
	// KindPlatform is the provider-backed implementation.
	KindPlatform Kind = "platform"
)

// Kinds lists the built-in backends.
func Kinds() []Kind {
	return []Kind{KindSoftware, KindPlatform}
}

// ParseKind accepts a backend name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindSoftware:
		return KindSoftware, nil
	case KindPlatform:
		return KindPlatform, nil
	default:
		return "", &ParamError{Field: "backend", Reason: fmt.Sprintf("unknown backend %q (valid: software, platform)", s)}
	}
}

// Backend derives a key for a request. Implementations must not mutate the
// request and must either return a complete Result or an error, never both.
type Backend interface {
	Kind() Kind
	Supports(algorithm string) bool
	Derive(ctx context.Context, req *Request) (*Result, error)
}
