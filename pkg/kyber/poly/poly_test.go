package poly

import (
	"math/rand"
	"testing"

	"pqcrystals/pkg/kyber/field"
)

func randomPoly(rng *rand.Rand) Poly {
	var p Poly
	for i := range p {
		p[i] = int16(rng.Intn(field.Q))
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
	for i := range a {
		if back[i] != a[i] {
			t.Fatalf("coeff %d: (a+b)-b = %d, want %d", i, back[i], a[i])
		}
	}
}

// The transform pipeline must agree with direct multiplication.
func TestMulMatchesSchoolbook(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for trial := 0; trial < 3; trial++ {
		a := randomPoly(rng)
		b := randomPoly(rng)
		want := SchoolbookMul(&a, &b)

		ah := a.NTT()
		bh := b.NTT()
		var prod NTTPoly
		MulNTT(&ah, &bh, &prod)
		prod.Reduce()
		got := prod.InvNTT()
		got.Freeze()

		if got != want {
			t.Fatalf("trial %d: transform product differs from schoolbook", trial)
		}
	}
}

// Accumulating two products must equal the product of the sums' convolution
// sum: a*c + b*c == (a+b)*c.
func TestMulAccNTT(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
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

// ToMont must cancel the 2^-16 factor a pairwise product introduces, so a
// transformed-then-inverted product of x with the constant 1 returns x.
func TestToMont(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	a := randomPoly(rng)

	var one Poly
	one[0] = 1
	ah := a.NTT()
	oneh := one.NTT()

	var prod NTTPoly
	MulNTT(&ah, &oneh, &prod)
	prod.ToMont()
	prod.Reduce()

	// prod now equals ah in NTT domain
	ah.Freeze()
	prod.Freeze()
	if prod != ah {
		t.Fatal("ToMont(a*1) != a in the NTT domain")
	}
}

func TestMsgRoundtrip(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	msg := make([]byte, 32)
	rng.Read(msg)

	p := FromMsg(msg)
	got := p.ToMsg()
	for i := range msg {
		if got[i] != msg[i] {
			t.Fatalf("byte %d: got %02x, want %02x", i, got[i], msg[i])
		}
	}
}

func TestFromMsgRange(t *testing.T) {
	msg := make([]byte, 32)
	for i := range msg {
		msg[i] = 0xFF
	}
	p := FromMsg(msg)
	for i, c := range p {
		if c != (field.Q+1)/2 {
			t.Fatalf("coeff %d = %d, want %d", i, c, (field.Q+1)/2)
		}
	}
}
