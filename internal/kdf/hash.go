package kdf

import (
	"crypto/sha1" //nolint:gosec // PBKDF2-HMAC-SHA1 is still a valid comparison target
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"sort"
	"strings"

	"golang.org/x/crypto/sha3"
)

var hashes = map[string]func() hash.Hash{
	"sha1":      sha1.New,
	"sha224":    sha256.New224,
	"sha256":    sha256.New,
	"sha384":    sha512.New384,
	"sha512":    sha512.New,
	"sha512224": sha512.New512_224,
	"sha512256": sha512.New512_256,
	"sha3224":   sha3.New224,
	"sha3256":   sha3.New256,
	"sha3384":   sha3.New384,
	"sha3512":   sha3.New512,
}

var separators = strings.NewReplacer("-", "", "_", "", " ", "")

// NormalizeAlgorithm lowercases a hash name and strips separators, so that
// "SHA-256", "sha_256" and "sha256" all name the same function.
func NormalizeAlgorithm(name string) string {
	return separators.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// LookupHash returns the constructor registered for name. The name is
// normalized first.
func LookupHash(name string) (func() hash.Hash, error) {
	h, ok := hashes[NormalizeAlgorithm(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedHash, name)
	}
	return h, nil
}

// Algorithms lists every registered hash name in sorted order.
func Algorithms() []string {
	names := make([]string, 0, len(hashes))
	for name := range hashes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
