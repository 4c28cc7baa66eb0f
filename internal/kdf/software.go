package kdf

import (
	"context"
	"crypto/hmac"
	"encoding/binary"
	"fmt"
	"hash"
	"runtime"

	"github.com/kdfbench/kdfbench/internal/encoding"
)

// DefaultYieldInterval is how many PRF rounds the software backend runs
// between scheduler yields and context checks.
const DefaultYieldInterval = 1024

// maxBlocks is the RFC 8018 limit on derived key blocks, (2^32 - 1).
const maxBlocks = 1<<32 - 1

// SoftwareBackend computes PBKDF2 with an embedded implementation built only
// on HMAC.
type SoftwareBackend struct {
	YieldInterval int
}

// NewSoftwareBackend creates a software backend with the default yield interval.
func NewSoftwareBackend() *SoftwareBackend {
	return &SoftwareBackend{YieldInterval: DefaultYieldInterval}
}

func (s *SoftwareBackend) Kind() Kind { return KindSoftware }

// Supports reports whether algorithm is in the hash registry.
func (s *SoftwareBackend) Supports(algorithm string) bool {
	_, err := LookupHash(algorithm)
	return err == nil
}

// Derive runs PBKDF2 on the calling goroutine.
func (s *SoftwareBackend) Derive(ctx context.Context, req *Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, &DerivationError{Backend: KindSoftware, Err: err}
	}

	h, err := LookupHash(req.Algorithm)
	if err != nil {
		return nil, &DerivationError{Backend: KindSoftware, Err: err}
	}

	key, err := deriveKey(ctx, encoding.UTF8ToBytes(req.Secret), req.Salt, req.Iterations, req.KeyLen(), h, s.YieldInterval)
	if err != nil {
		return nil, &DerivationError{Backend: KindSoftware, Err: err}
	}

	return newResult(KindSoftware, req, key), nil
}

// deriveKey implements PBKDF2 (RFC 8018 section 5.2) with HMAC as the PRF.
// Every yield rounds it checks ctx and gives up the processor.
func deriveKey(ctx context.Context, password, salt []byte, iter, keyLen int, h func() hash.Hash, yield int) ([]byte, error) {
	if keyLen <= 0 {
		return nil, fmt.Errorf("key length must be positive (got %d)", keyLen)
	}
	if iter <= 0 {
		return nil, fmt.Errorf("iteration count must be positive (got %d)", iter)
	}

	prf := hmac.New(h, password)
	hashLen := prf.Size()
	numBlocks := (keyLen + hashLen - 1) / hashLen
	if uint64(numBlocks) > maxBlocks {
		return nil, fmt.Errorf("derived key too long (%d bytes)", keyLen)
	}

	var counter [4]byte
	dk := make([]byte, 0, numBlocks*hashLen)
	u := make([]byte, hashLen)
	rounds := 0

	for block := 1; block <= numBlocks; block++ {
		prf.Reset()
		prf.Write(salt)
		binary.BigEndian.PutUint32(counter[:], uint32(block))
		prf.Write(counter[:])
		dk = prf.Sum(dk)
		t := dk[len(dk)-hashLen:]
		copy(u, t)

		for n := 2; n <= iter; n++ {
			prf.Reset()
			prf.Write(u)
			u = prf.Sum(u[:0])
			for i := range u {
				t[i] ^= u[i]
			}

			rounds++
			if yield > 0 && rounds%yield == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				runtime.Gosched()
			}
		}
	}

	return dk[:keyLen], nil
}
