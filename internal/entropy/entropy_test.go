package entropy

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

type deterministicReader struct {
	next byte
}

func (r *deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.next
		r.next++
	}
	return len(p), nil
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestGenerateSaltUsesSource(t *testing.T) {
	SetRandomSource(&deterministicReader{})
	t.Cleanup(func() {
		SetRandomSource(nil)
	})

	salt, err := GenerateSalt(DefaultSaltSize)
	if err != nil {
		t.Fatalf("GenerateSalt() error = %v", err)
	}

	want := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	if !bytes.Equal(salt, want) {
		t.Fatalf("GenerateSalt() = %x, want %x", salt, want)
	}
}

func TestGenerateSaltDiffers(t *testing.T) {
	a, err := GenerateSalt(DefaultSaltSize)
	if err != nil {
		t.Fatalf("GenerateSalt() error = %v", err)
	}
	b, err := GenerateSalt(DefaultSaltSize)
	if err != nil {
		t.Fatalf("GenerateSalt() error = %v", err)
	}

	if len(a) != DefaultSaltSize || len(b) != DefaultSaltSize {
		t.Fatalf("GenerateSalt() lengths = %d, %d", len(a), len(b))
	}
	if bytes.Equal(a, b) {
		t.Fatal("two generated salts should differ")
	}
}

func TestGenerateSaltErrors(t *testing.T) {
	if _, err := GenerateSalt(0); err == nil {
		t.Fatal("GenerateSalt(0) expected error")
	}

	SetRandomSource(failingReader{})
	t.Cleanup(func() {
		SetRandomSource(nil)
	})

	if _, err := GenerateSalt(4); err == nil {
		t.Fatal("GenerateSalt() expected error from failing source")
	}
}

func TestGenerateSecret(t *testing.T) {
	SetRandomSource(&deterministicReader{})
	t.Cleanup(func() {
		SetRandomSource(nil)
	})

	secret, err := GenerateSecret(24)
	if err != nil {
		t.Fatalf("GenerateSecret() error = %v", err)
	}
	if len(secret) != 24 {
		t.Fatalf("GenerateSecret() length = %d, want 24", len(secret))
	}
	for _, r := range secret {
		if !strings.ContainsRune(secretAlphabet, r) {
			t.Fatalf("GenerateSecret() produced rune %q outside alphabet", r)
		}
	}

	if _, err := GenerateSecret(0); err == nil {
		t.Fatal("GenerateSecret(0) expected error")
	}
}

func TestRandomIterationsBounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		n := DefaultIterations()
		if n < MinDefaultIterations || n > MaxDefaultIterations {
			t.Fatalf("DefaultIterations() = %d, outside [%d, %d]", n, MinDefaultIterations, MaxDefaultIterations)
		}
	}
}

func TestRandomIterationsExtremes(t *testing.T) {
	SetIterationSource(func(n int) int { return n - 1 })
	t.Cleanup(func() {
		SetIterationSource(nil)
	})

	if got := DefaultIterations(); got != MaxDefaultIterations {
		t.Fatalf("DefaultIterations() = %d, want %d", got, MaxDefaultIterations)
	}

	SetIterationSource(func(n int) int { return 0 })
	if got := DefaultIterations(); got != MinDefaultIterations {
		t.Fatalf("DefaultIterations() = %d, want %d", got, MinDefaultIterations)
	}
}

func TestRandomIterationsInvalidRange(t *testing.T) {
	if _, err := RandomIterations(0, 10); err == nil {
		t.Fatal("RandomIterations(0, 10) expected error")
	}
	if _, err := RandomIterations(10, 5); err == nil {
		t.Fatal("RandomIterations(10, 5) expected error")
	}
}

func BenchmarkGenerateSalt(b *testing.B) {
	SetRandomSource(nil)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := GenerateSalt(DefaultSaltSize); err != nil {
			b.Fatalf("GenerateSalt() error = %v", err)
		}
	}
}
