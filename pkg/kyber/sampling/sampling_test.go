package sampling

import (
	"testing"

	"pqcrystals/pkg/hash"
	"pqcrystals/pkg/kyber/field"
)

func TestUniformRange(t *testing.T) {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i)
	}
	p := Uniform(hash.NewStreamingXOF128(seed, 0))
	for i, c := range p {
		if c < 0 || c >= field.Q {
			t.Fatalf("coeff %d = %d outside [0, q)", i, c)
		}
	}
}

func TestUniformDeterministic(t *testing.T) {
	seed := make([]byte, 32)
	a := Uniform(hash.NewStreamingXOF128(seed, 5))
	b := Uniform(hash.NewStreamingXOF128(seed, 5))
	if a != b {
		t.Fatal("same seed and nonce produced different polynomials")
	}
	c := Uniform(hash.NewStreamingXOF128(seed, 6))
	if a == c {
		t.Fatal("distinct nonces produced identical polynomials")
	}
}

// Both matrix orientations must come from the same per-cell streams:
// A[i][j] equals Atrans[j][i].
func TestExpandMatrixTranspose(t *testing.T) {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(0x40 + i)
	}
	const k = 3
	a := ExpandMatrix(seed, k, false)
	at := ExpandMatrix(seed, k, true)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			if a[i][j] != at[j][i] {
				t.Fatalf("A[%d][%d] != At[%d][%d]", i, j, j, i)
			}
		}
	}
}

func TestExpandMatrixDeterministic(t *testing.T) {
	seed := make([]byte, 32)
	a := ExpandMatrix(seed, 2, false)
	b := ExpandMatrix(seed, 2, false)
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Fatalf("cell (%d,%d) not deterministic", i, j)
			}
		}
	}
}

func TestCBDRange(t *testing.T) {
	seed := make([]byte, 32)
	for _, eta := range []int{2, 3} {
		p := CBD(seed, 0, eta)
		for i, c := range p {
			if c < int16(-eta) || c > int16(eta) {
				t.Fatalf("eta=%d coeff %d = %d outside [-eta, eta]", eta, i, c)
			}
		}
	}
}

// Noise must be centered: over many samples the mean stays near zero and
// every value in [-eta, eta] occurs.
func TestCBDCentered(t *testing.T) {
	seed := make([]byte, 32)
	counts := map[int16]int{}
	sum := 0
	for nonce := 0; nonce < 64; nonce++ {
		p := CBD(seed, byte(nonce), 2)
		for _, c := range p {
			counts[c]++
			sum += int(c)
		}
	}
	total := 64 * field.N
	if mean := float64(sum) / float64(total); mean < -0.1 || mean > 0.1 {
		t.Errorf("sample mean %f too far from zero", mean)
	}
	for v := int16(-2); v <= 2; v++ {
		if counts[v] == 0 {
			t.Errorf("value %d never sampled", v)
		}
	}
}

func TestCBDDomainSeparation(t *testing.T) {
	seed := make([]byte, 32)
	if CBD(seed, 0, 2) == CBD(seed, 1, 2) {
		t.Fatal("distinct nonces produced identical noise")
	}
}
