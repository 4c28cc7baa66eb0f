// Package entropy supplies the randomness used when a derivation request
// leaves fields unset: salts and generated secrets come from a swappable
// cryptographically secure source, default iteration counts do not.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	mathrand "math/rand"
	"strings"
	"sync"
)

const (
	// DefaultSaltSize is the salt length used when the caller supplies none.
	DefaultSaltSize = 16

	// MinDefaultIterations and MaxDefaultIterations bound the benchmark
	// iteration count picked when the caller supplies none.
	MinDefaultIterations = 100
	MaxDefaultIterations = 199
)

var (
	errInvalidLength = errors.New("length must be positive")
	errInvalidRange  = errors.New("invalid range")
)

const secretAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	randSource io.Reader = rand.Reader
	randMux    sync.RWMutex

	iterSource = mathrand.Intn
	iterMux    sync.Mutex
)

// SetRandomSource sets the random number generator source.
// If r is nil, it resets to the default crypto/rand.Reader.
func SetRandomSource(r io.Reader) {
	randMux.Lock()
	if r == nil {
		randSource = rand.Reader
	} else {
		randSource = r
	}
	randMux.Unlock()
}

// SetIterationSource replaces the function used to pick default iteration
// counts. fn must behave like math/rand.Intn. Passing nil restores the default.
func SetIterationSource(fn func(n int) int) {
	iterMux.Lock()
	if fn == nil {
		iterSource = mathrand.Intn
	} else {
		iterSource = fn
	}
	iterMux.Unlock()
}

func source() io.Reader {
	randMux.RLock()
	defer randMux.RUnlock()
	return randSource
}

// GenerateSalt reads n bytes from the random source.
func GenerateSalt(n int) ([]byte, error) {
	if n <= 0 {
		return nil, errInvalidLength
	}

	salt := make([]byte, n)
	if _, err := io.ReadFull(source(), salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// GenerateSecret returns a random alphanumeric secret of the given length.
// It is used to benchmark without typing a password.
func GenerateSecret(length int) (string, error) {
	if length <= 0 {
		return "", errInvalidLength
	}

	src := source()

	var b strings.Builder
	b.Grow(length)

	for i := 0; i < length; i++ {
		idx, err := randomIndex(src, len(secretAlphabet))
		if err != nil {
			return "", fmt.Errorf("failed to generate secret: %w", err)
		}
		b.WriteByte(secretAlphabet[idx])
	}

	return b.String(), nil
}

// RandomIterations picks a count uniformly from [min, max]. The choice is not
// cryptographically secure; it only varies benchmark load.
func RandomIterations(min, max int) (int, error) {
	if min <= 0 || max < min {
		return 0, fmt.Errorf("%w: [%d, %d]", errInvalidRange, min, max)
	}

	iterMux.Lock()
	n := iterSource(max - min + 1)
	iterMux.Unlock()

	return min + n, nil
}

// DefaultIterations picks a count from [MinDefaultIterations, MaxDefaultIterations].
func DefaultIterations() int {
	n, _ := RandomIterations(MinDefaultIterations, MaxDefaultIterations)
	return n
}

func randomIndex(r io.Reader, max int) (int, error) {
	if max <= 0 {
		return 0, errInvalidLength
	}

	if max <= 256 {
		var buf [1]byte
		usable := 256 - (256 % max)
		for {
			if _, err := io.ReadFull(r, buf[:]); err != nil {
				return 0, err
			}
			if int(buf[0]) < usable {
				return int(buf[0]) % max, nil
			}
		}
	}

	var buf [4]byte
	const maxUint32 = ^uint32(0)
	limit := maxUint32 - (maxUint32 % uint32(max))
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		val := binary.BigEndian.Uint32(buf[:])
		if val < limit {
			return int(val % uint32(max)), nil
		}
	}
}
