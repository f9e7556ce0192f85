package dilithium

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pqcrystals/pkg/drbg"
)

// TestStressRoundtrip runs many independent keypairs and messages through
// the full sign/verify cycle, with message lengths spread across the byte
// range the scheme sees in practice.
func TestStressRoundtrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress sweep in short mode")
	}

	entropy := make([]byte, drbg.SeedLen)
	for i := range entropy {
		entropy[i] = byte(i * 7)
	}
	rng, err := drbg.New(entropy)
	require.NoError(t, err)

	for _, p := range testSets {
		t.Run(p.Name, func(t *testing.T) {
			for trial := 0; trial < 25; trial++ {
				seed := make([]byte, SeedSize)
				rng.Read(seed)
				pk, sk, err := p.KeyGen(seed)
				require.NoError(t, err)

				msg := make([]byte, 1+trial*13)
				rng.Read(msg)

				sig, err := p.Sign(sk, msg)
				require.NoError(t, err)
				require.True(t, p.Verify(pk, msg, sig), "trial %d", trial)

				// the same signature must not transfer to a tweaked message
				msg[len(msg)/2] ^= 0x80
				require.False(t, p.Verify(pk, msg, sig), "trial %d", trial)
			}
		})
	}
}
