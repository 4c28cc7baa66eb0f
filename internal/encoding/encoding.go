// Package encoding converts between hexadecimal text, raw bytes and UTF-8 text.
// Salts and derived keys are normalized through this package before they are
// displayed or compared across backends.
package encoding

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrMalformedHex is the sentinel matched by every EncodingError.
var ErrMalformedHex = errors.New("malformed hex")

// EncodingError describes why a hex string could not be decoded.
type EncodingError struct {
	Input  string
	Offset int // -1 when the error is not tied to a position
	Reason string
}

func (e *EncodingError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s: %s at offset %d", ErrMalformedHex, e.Reason, e.Offset)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedHex, e.Reason)
}

// Is reports whether target is ErrMalformedHex.
func (e *EncodingError) Is(target error) bool {
	return target == ErrMalformedHex
}

// HexToBytes decodes hex text. Upper and lower case digits are accepted.
func HexToBytes(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, &EncodingError{Input: s, Offset: -1, Reason: fmt.Sprintf("odd length %d", len(s))}
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		var invalid hex.InvalidByteError
		if errors.As(err, &invalid) {
			return nil, &EncodingError{
				Input:  s,
				Offset: indexOfByte(s, byte(invalid)),
				Reason: fmt.Sprintf("invalid digit %q", byte(invalid)),
			}
		}
		return nil, &EncodingError{Input: s, Offset: -1, Reason: err.Error()}
	}

	return b, nil
}

// BytesToHex encodes b as lowercase hex, two digits per byte, no separators.
// An empty or nil slice encodes to "".
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// UTF8ToBytes returns the UTF-8 bytes of s.
func UTF8ToBytes(s string) []byte {
	return []byte(s)
}

func indexOfByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}
