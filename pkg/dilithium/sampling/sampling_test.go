package sampling

import (
	"testing"

	"pqcrystals/pkg/dilithium/field"
	"pqcrystals/pkg/hash"
)

func seed32(fill byte) []byte {
	s := make([]byte, 32)
	for i := range s {
		s[i] = fill ^ byte(i)
	}
	return s
}

func seed64(fill byte) []byte {
	s := make([]byte, 64)
	for i := range s {
		s[i] = fill ^ byte(i)
	}
	return s
}

func TestUniformRange(t *testing.T) {
	p := Uniform(hash.NewStreamingXOF128(seed32(0), 0))
	for i, c := range p {
		if c < 0 || c >= field.Q {
			t.Fatalf("coeff %d = %d outside [0, q)", i, c)
		}
	}
}

func TestExpandADeterministicAndSeparated(t *testing.T) {
	rho := seed32(1)
	a := ExpandA(rho, 4, 4)
	b := ExpandA(rho, 4, 4)
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Fatalf("cell (%d,%d) not deterministic", i, j)
			}
		}
	}
	if a[0][1] == a[1][0] {
		t.Fatal("cells (0,1) and (1,0) must differ")
	}
	// a smaller matrix over the same seed shares its cells
	small := ExpandA(rho, 2, 2)
	if small[1][1] != a[1][1] {
		t.Fatal("cell derivation must not depend on matrix dimensions")
	}
}

func TestEtaRange(t *testing.T) {
	rhoPrime := seed64(2)
	for _, eta := range []int32{2, 4} {
		p := Eta(rhoPrime, 3, eta)
		seen := map[int32]bool{}
		for i, c := range p {
			if c < -eta || c > eta {
				t.Fatalf("eta=%d coeff %d = %d out of range", eta, i, c)
			}
			seen[c] = true
		}
		for v := -eta; v <= eta; v++ {
			if !seen[v] {
				t.Errorf("eta=%d: value %d never sampled in 256 draws", eta, v)
			}
		}
	}
}

func TestEtaDomainSeparation(t *testing.T) {
	rhoPrime := seed64(3)
	if Eta(rhoPrime, 0, 2) == Eta(rhoPrime, 1, 2) {
		t.Fatal("distinct nonces produced identical polynomials")
	}
}

func TestMaskRange(t *testing.T) {
	rhoPrime := seed64(4)
	for _, gamma1 := range []int32{1 << 17, 1 << 19} {
		p := Mask(rhoPrime, 7, gamma1)
		for i, c := range p {
			if c < -(gamma1-1) || c > gamma1-1 {
				t.Fatalf("gamma1=%d coeff %d = %d out of range", gamma1, i, c)
			}
		}
		q := Mask(rhoPrime, 7, gamma1)
		if p != q {
			t.Fatal("mask sampling not deterministic")
		}
	}
}

func TestChallengeWeight(t *testing.T) {
	for _, tau := range []int{39, 49, 60} {
		c := Challenge(seed32(5), tau)
		nonzero := 0
		for i, v := range c {
			switch v {
			case 0:
			case 1, -1:
				nonzero++
			default:
				t.Fatalf("tau=%d coeff %d = %d, want 0 or ±1", tau, i, v)
			}
		}
		if nonzero != tau {
			t.Fatalf("tau=%d: %d nonzero coefficients", tau, nonzero)
		}
	}
}

// Each sign must land directly at the next unused squeezed byte position:
// the nonzero positions are the first tau distinct bytes after the 8-byte
// sign block, and the signs follow the block LSB-first in placement order.
func TestChallengePlacement(t *testing.T) {
	for _, tau := range []int{39, 49, 60} {
		seed := seed32(byte(tau))
		c := Challenge(seed, tau)

		xof := hash.NewStreamingXOF256Reusable()
		xof.ResetPlain(seed)
		var signs uint64
		for i := uint(0); i < 8; i++ {
			signs |= uint64(xof.ReadByte()) << (8 * i)
		}
		seen := map[byte]bool{}
		for placed := 0; placed < tau; {
			b := xof.ReadByte()
			if seen[b] {
				continue
			}
			seen[b] = true
			want := 1 - 2*int32(signs&1)
			signs >>= 1
			if c[b] != want {
				t.Fatalf("tau=%d: coeff at %d = %d, want %d", tau, b, c[b], want)
			}
			placed++
		}
		for i, v := range c {
			if v != 0 && !seen[byte(i)] {
				t.Fatalf("tau=%d: unexpected nonzero coefficient at %d", tau, i)
			}
		}
	}
}

// For eta = 2 the sampler must consume the two 3-bit windows of each
// squeezed byte, rejecting 5 and above and mapping survivors to 2 - t in
// stream order.
func TestEtaWindowConsumption(t *testing.T) {
	rhoPrime := seed64(9)
	const nonce = 4
	p := Eta(rhoPrime, nonce, 2)

	xof := hash.NewStreamingXOF256(rhoPrime, nonce)
	n := 0
	for n < field.N {
		b := xof.ReadByte()
		for _, c := range [2]int32{int32(b) & 0x07, int32(b>>3) & 0x07} {
			if c < 5 && n < field.N {
				if p[n] != 2-c {
					t.Fatalf("coeff %d = %d, want %d", n, p[n], 2-c)
				}
				n++
			}
		}
	}
}

func TestChallengeDeterministic(t *testing.T) {
	a := Challenge(seed32(6), 39)
	b := Challenge(seed32(6), 39)
	if a != b {
		t.Fatal("challenge not deterministic")
	}
	c := Challenge(seed32(7), 39)
	if a == c {
		t.Fatal("distinct seeds produced identical challenges")
	}
}
