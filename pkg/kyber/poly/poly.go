// Package poly provides polynomial operations for the KEM ring
// Z_q[x]/<x^256+1>. Standard-domain and NTT-domain polynomials are distinct
// types; the transforms are the only way to move between them.
package poly

import (
	"pqcrystals/pkg/kyber/field"
	"pqcrystals/pkg/kyber/ntt"
)

// Poly is a polynomial with coefficients in standard order.
type Poly [field.N]int16

// NTTPoly is a polynomial in the NTT domain: 128 degree-one residues in
// bit-reversed pair order.
type NTTPoly [field.N]int16

// Add computes a + b componentwise without reduction.
func Add(a, b, result *Poly) {
	for i := 0; i < field.N; i++ {
		result[i] = field.Add(a[i], b[i])
	}
}

// Sub computes a - b componentwise without reduction.
func Sub(a, b, result *Poly) {
	for i := 0; i < field.N; i++ {
		result[i] = field.Sub(a[i], b[i])
	}
}

// AddNTT computes a + b componentwise in the NTT domain.
func AddNTT(a, b, result *NTTPoly) {
	for i := 0; i < field.N; i++ {
		result[i] = field.Add(a[i], b[i])
	}
}

// Reduce maps every coefficient to its centered representative.
func (p *Poly) Reduce() {
	for i := range p {
		p[i] = field.BarrettReduce(p[i])
	}
}

// Reduce maps every coefficient to its centered representative.
func (p *NTTPoly) Reduce() {
	for i := range p {
		p[i] = field.BarrettReduce(p[i])
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
	c := [field.N]int16(*p)
	ntt.NTT(&c)
	h := NTTPoly(c)
	h.Reduce()
	return h
}

// InvNTT transforms p back to standard order. The result carries a factor
// of 2^16; pairing it with the 2^-16 from MulNTT yields exact products.
// Input coefficients must be bounded by q in absolute value.
func (p *NTTPoly) InvNTT() Poly {
	c := [field.N]int16(*p)
	ntt.InvNTT(&c)
	return Poly(c)
}

// MulNTT multiplies two NTT-domain polynomials pairwise. The result carries
// a factor of 2^-16 and is left unreduced; callers accumulate and Reduce.
func MulNTT(a, b, result *NTTPoly) {
	ntt.PolyBaseMul((*[field.N]int16)(result), (*[field.N]int16)(a), (*[field.N]int16)(b))
}

// MulAccNTT accumulates a*b into result.
func MulAccNTT(a, b, result *NTTPoly) {
	var t NTTPoly
	MulNTT(a, b, &t)
	for i := 0; i < field.N; i++ {
		result[i] = field.Add(result[i], t[i])
	}
}

// ToMont multiplies every coefficient by 2^16, cancelling the 2^-16 a
// pairwise product introduces.
func (p *NTTPoly) ToMont() {
	for i := range p {
		p[i] = field.ToMont(p[i])
	}
}

// FromMsg expands a 32-byte message into a polynomial, mapping each bit b
// to b*(q+1)/2.
func FromMsg(msg []byte) Poly {
	var p Poly
	for i := 0; i < field.N/8; i++ {
		for j := 0; j < 8; j++ {
			mask := -int16((msg[i] >> j) & 1)
			p[8*i+j] = mask & ((field.Q + 1) / 2)
		}
	}
	return p
}

// ToMsg compresses p to one bit per coefficient, the inverse of FromMsg up
// to the rounding noise the scheme tolerates.
func (p *Poly) ToMsg() [32]byte {
	var msg [32]byte
	for i := 0; i < field.N/8; i++ {
		for j := 0; j < 8; j++ {
			u := uint32(field.Freeze(p[8*i+j]))
			bit := ((u << 1) + field.Q/2) / field.Q & 1
			msg[i] |= byte(bit << j)
		}
	}
	return msg
}

// SchoolbookMul multiplies a and b directly in Z_q[x]/<x^256+1>. Quadratic;
// serves as the oracle the transform pipeline is checked against.
func SchoolbookMul(a, b *Poly) Poly {
	var s [2 * field.N]int64
	for i := 0; i < field.N; i++ {
		for j := 0; j < field.N; j++ {
			s[i+j] += int64(field.Freeze(a[i])) * int64(field.Freeze(b[j]))
		}
	}

	var r Poly
	for i := 0; i < field.N; i++ {
		// x^256 = -1
		c := (s[i] - s[field.N+i]) % field.Q
		if c < 0 {
			c += field.Q
		}
		r[i] = int16(c)
	}
	return r
}
