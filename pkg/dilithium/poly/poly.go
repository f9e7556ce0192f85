// Package poly provides polynomial operations for the signature ring
// Z_q[x]/<x^256+1>. Standard-domain and NTT-domain polynomials are distinct
// types; the transforms are the only way to move between them.
package poly

import (
	"pqcrystals/pkg/dilithium/field"
	"pqcrystals/pkg/dilithium/ntt"
)

// Poly is a polynomial with coefficients in standard order.
type Poly [field.N]int32

// NTTPoly is a polynomial in the NTT domain, fully split into 256 residues.
type NTTPoly [field.N]int32

// Add computes a + b componentwise without reduction.
func Add(a, b, result *Poly) {
	for i := 0; i < field.N; i++ {
		result[i] = a[i] + b[i]
	}
}

// Sub computes a - b componentwise without reduction.
func Sub(a, b, result *Poly) {
	for i := 0; i < field.N; i++ {
		result[i] = a[i] - b[i]
	}
}

// AddNTT computes a + b componentwise in the NTT domain.
func AddNTT(a, b, result *NTTPoly) {
	for i := 0; i < field.N; i++ {
		result[i] = a[i] + b[i]
	}
}

// Reduce maps every coefficient to its representative in
// (-6283009, 6283008].
func (p *Poly) Reduce() {
	for i := range p {
		p[i] = field.Reduce32(p[i])
	}
}

// Reduce maps every coefficient to its representative in
// (-6283009, 6283008].
func (p *NTTPoly) Reduce() {
	for i := range p {
		p[i] = field.Reduce32(p[i])
	}
}

// CAddQ adds q to every negative coefficient.
func (p *Poly) CAddQ() {
	for i := range p {
		p[i] = field.CAddQ(p[i])
	}
}

// Freeze maps every coefficient to its canonical representative in [0, q).
func (p *Poly) Freeze() {
	for i := range p {
		p[i] = field.Freeze(p[i])
	}
}

// Freeze maps every coefficient to its canonical representative in [0, q).
func (p *NTTPoly) Freeze() {
	for i := range p {
		p[i] = field.Freeze(p[i])
	}
}

// NTT transforms p into the NTT domain. The result is reduced.
func (p *Poly) NTT() NTTPoly {
	c := [field.N]int32(*p)
	ntt.NTT(&c)
	h := NTTPoly(c)
	h.Reduce()
	return h
}

// InvNTT transforms p back to standard order. The result carries a factor
// of 2^32; pairing it with the 2^-32 from PointwiseMont yields exact
// products. Input coefficients must be bounded by q in absolute value.
func (p *NTTPoly) InvNTT() Poly {
	c := [field.N]int32(*p)
	ntt.InvNTT(&c)
	return Poly(c)
}

// PointwiseMont multiplies two NTT-domain polynomials coefficientwise. The
// result carries a factor of 2^-32.
func PointwiseMont(a, b, result *NTTPoly) {
	ntt.PointwiseMont((*[field.N]int32)(a), (*[field.N]int32)(b), (*[field.N]int32)(result))
}

// MulAccNTT accumulates a*b into result.
func MulAccNTT(a, b, result *NTTPoly) {
	for i := 0; i < field.N; i++ {
		result[i] += field.Mul(a[i], b[i])
	}
}

// Mul multiplies two standard-domain polynomials exactly, through the
// transform pipeline.
func Mul(a, b *Poly) Poly {
	ah := a.NTT()
	bh := b.NTT()
	var prod NTTPoly
	PointwiseMont(&ah, &bh, &prod)
	return prod.InvNTT()
}

// Norm returns the infinity norm of p under the centered interpretation.
// Coefficients must be bounded by q in absolute value.
func (p *Poly) Norm() int32 {
	var n int32
	for _, a := range p {
		// branchless |a|
		t := a >> 31
		t = a - t&(2*a)
		if t > n {
			n = t
		}
	}
	return n
}

// Exceeds reports whether the infinity norm of p reaches bound. Following
// the reference rejection check, it only inspects magnitudes, so its timing
// is independent of coefficient signs.
func (p *Poly) Exceeds(bound int32) bool {
	return p.Norm() >= bound
}

// ShiftLeft multiplies every coefficient by 2^d, lifting rounded high parts
// back to full scale.
func (p *Poly) ShiftLeft() {
	for i := range p {
		p[i] <<= field.D
	}
}

// SchoolbookMul multiplies a and b directly in Z_q[x]/<x^256+1>. Quadratic;
// serves as the oracle the transform pipeline is checked against.
func SchoolbookMul(a, b *Poly) Poly {
	var s [2 * field.N]int64
	for i := 0; i < field.N; i++ {
		for j := 0; j < field.N; j++ {
			s[i+j] += int64(a[i]) * int64(b[j]) % field.Q
		}
	}
	var r Poly
	for i := 0; i < field.N; i++ {
		// x^256 = -1
		c := (s[i] - s[field.N+i]) % field.Q
		if c < 0 {
			c += field.Q
		}
		r[i] = int32(c)
	}
	return r
}
