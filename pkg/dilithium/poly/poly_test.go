package poly

import (
	"math/rand"
	"testing"

	"github.com/tuneinsight/lattigo/v4/ring"

	"pqcrystals/pkg/dilithium/field"
)

func randomPoly(rng *rand.Rand) Poly {
	var p Poly
	for i := range p {
		p[i] = rng.Int31n(field.Q)
	}
	return p
}

func TestAddSub(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := randomPoly(rng)
	b := randomPoly(rng)

	var sum, back Poly
	Add(&a, &b, &sum)
	Sub(&sum, &b, &back)
	back.Freeze()
	if back != a {
		t.Fatal("(a+b)-b != a")
	}
}

func TestMulMatchesSchoolbook(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for trial := 0; trial < 3; trial++ {
		a := randomPoly(rng)
		b := randomPoly(rng)
		want := SchoolbookMul(&a, &b)

		got := Mul(&a, &b)
		got.Freeze()
		if got != want {
			t.Fatalf("trial %d: transform product differs from schoolbook", trial)
		}
	}
}

// Cross-check the transform pipeline against an independent ring
// implementation. 8380417 ≡ 1 (mod 512), so lattigo can host the same
// negacyclic ring.
func TestMulMatchesLattigo(t *testing.T) {
	ringQ, err := ring.NewRing(field.N, []uint64{field.Q})
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 5; trial++ {
		a := randomPoly(rng)
		b := randomPoly(rng)

		pa := ringQ.NewPoly()
		pb := ringQ.NewPoly()
		pc := ringQ.NewPoly()
		for i := 0; i < field.N; i++ {
			pa.Coeffs[0][i] = uint64(a[i])
			pb.Coeffs[0][i] = uint64(b[i])
		}
		ringQ.NTT(pa, pa)
		ringQ.NTT(pb, pb)
		ringQ.MForm(pa, pa)
		ringQ.MulCoeffsMontgomery(pa, pb, pc)
		ringQ.InvNTT(pc, pc)

		got := Mul(&a, &b)
		got.Freeze()
		for i := 0; i < field.N; i++ {
			if uint64(got[i]) != pc.Coeffs[0][i] {
				t.Fatalf("trial %d coeff %d: got %d, lattigo %d",
					trial, i, got[i], pc.Coeffs[0][i])
			}
		}
	}
}

// Accumulated pointwise products must distribute: a*c + b*c == (a+b)*c.
func TestMulAccNTT(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	a := randomPoly(rng)
	b := randomPoly(rng)
	c := randomPoly(rng)

	ah, bh, ch := a.NTT(), b.NTT(), c.NTT()
	var acc NTTPoly
	MulAccNTT(&ah, &ch, &acc)
	MulAccNTT(&bh, &ch, &acc)
	acc.Reduce()
	got := acc.InvNTT()
	got.Freeze()

	var sum Poly
	Add(&a, &b, &sum)
	want := SchoolbookMul(&sum, &c)
	if got != want {
		t.Fatal("accumulated products differ from convolution of the sum")
	}
}

func TestNorm(t *testing.T) {
	var p Poly
	p[0] = 5
	p[1] = -17
	p[200] = 16
	if got := p.Norm(); got != 17 {
		t.Errorf("Norm = %d, want 17", got)
	}
	if !p.Exceeds(17) {
		t.Error("Exceeds(17) = false, want true")
	}
	if p.Exceeds(18) {
		t.Error("Exceeds(18) = true, want false")
	}
}

func TestShiftLeft(t *testing.T) {
	var p Poly
	p[0] = 1
	p[1] = 3
	p.ShiftLeft()
	if p[0] != 1<<field.D || p[1] != 3<<field.D {
		t.Errorf("ShiftLeft: got %d, %d", p[0], p[1])
	}
}
