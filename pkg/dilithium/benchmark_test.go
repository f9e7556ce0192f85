package dilithium

import (
	"crypto/rand"
	"testing"
)

func benchParams(b *testing.B) []Params {
	b.Helper()
	return []Params{Dilithium2, Dilithium3, Dilithium5}
}

// BenchmarkKeyGen benchmarks key generation per level.
func BenchmarkKeyGen(b *testing.B) {
	for _, p := range benchParams(b) {
		b.Run(p.Name, func(b *testing.B) {
			seed := make([]byte, SeedSize)
			rand.Read(seed)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, _, err := p.KeyGen(seed); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkSign benchmarks signing a 64-byte message per level. Rejection
// retries are included, so the distribution has a long tail.
func BenchmarkSign(b *testing.B) {
	for _, p := range benchParams(b) {
		b.Run(p.Name, func(b *testing.B) {
			seed := make([]byte, SeedSize)
			rand.Read(seed)
			_, sk, err := p.KeyGen(seed)
			if err != nil {
				b.Fatal(err)
			}
			msg := make([]byte, 64)
			rand.Read(msg)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := p.Sign(sk, msg); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkVerify benchmarks verification of a 64-byte message per level.
func BenchmarkVerify(b *testing.B) {
	for _, p := range benchParams(b) {
		b.Run(p.Name, func(b *testing.B) {
			seed := make([]byte, SeedSize)
			rand.Read(seed)
			pk, sk, err := p.KeyGen(seed)
			if err != nil {
				b.Fatal(err)
			}
			msg := make([]byte, 64)
			rand.Read(msg)
			sig, err := p.Sign(sk, msg)
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if !p.Verify(pk, msg, sig) {
					b.Fatal("valid signature rejected")
				}
			}
		})
	}
}
