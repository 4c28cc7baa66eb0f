package kdf

import (
	"context"
	"fmt"
	"testing"
)

func benchmarkBackend(b *testing.B, backend Backend, iterations int) {
	req := &Request{Secret: "benchmark-passphrase", Salt: scenarioSalt, Iterations: iterations, Algorithm: "sha256", Bits: 256}
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := backend.Derive(ctx, req); err != nil {
			b.Fatalf("Derive() error = %v", err)
		}
	}
}

func BenchmarkSoftware(b *testing.B) {
	for _, iterations := range []int{100, 10000} {
		b.Run(fmt.Sprintf("iter=%d", iterations), func(b *testing.B) {
			benchmarkBackend(b, NewSoftwareBackend(), iterations)
		})
	}
}

func BenchmarkPlatform(b *testing.B) {
	for _, iterations := range []int{100, 10000} {
		b.Run(fmt.Sprintf("iter=%d", iterations), func(b *testing.B) {
			benchmarkBackend(b, NewPlatformBackend(nil), iterations)
		})
	}
}
