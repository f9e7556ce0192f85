// Package ntt provides the seven-stage incomplete Number Theoretic Transform
// used by the KEM. The transform stops at pairs: the NTT domain is 128
// polynomials of degree one, multiplied with BaseMul rather than pointwise.
package ntt

import "pqcrystals/pkg/kyber/field"

// Zeta is a primitive 256th root of unity mod q.
const Zeta = 17

// Zetas contains the butterfly twiddles in Montgomery form:
// Zetas[i] = Zeta^brv7(i) * 2^16 mod q.
var Zetas [128]int16

func init() {
	for i := 0; i < 128; i++ {
		Zetas[i] = field.Freeze(field.ToMont(pow(Zeta, brv7(uint8(i)))))
	}
}

// brv7 reverses the low 7 bits of i.
func brv7(i uint8) uint8 {
	var r uint8
	for b := 0; b < 7; b++ {
		r = (r << 1) | (i & 1)
		i >>= 1
	}
	return r
}

func pow(base int16, exp uint8) int16 {
	r := int32(1)
	b := int32(base)
	for ; exp > 0; exp-- {
		r = r * b % field.Q
	}
	return int16(r)
}

// NTT computes the forward transform in place. Input coefficients must be
// bounded by q in absolute value; output coefficients are bounded by 8q.
func NTT(p *[field.N]int16) {
	k := 1
	for length := 128; length >= 2; length >>= 1 {
		for start := 0; start < field.N; start += 2 * length {
			zeta := Zetas[k]
			k++
			for j := start; j < start+length; j++ {
				t := field.Mul(zeta, p[j+length])
				p[j+length] = p[j] - t
				p[j] = p[j] + t
			}
		}
	}
}

// InvNTT computes the inverse transform in place and multiplies every
// coefficient by 2^16, so InvNTT(NTT(p)) returns p in Montgomery form.
func InvNTT(p *[field.N]int16) {
	// f = 2^32 / 128 mod q
	const f = 1441

	k := 127
	for length := 2; length <= 128; length <<= 1 {
		for start := 0; start < field.N; start += 2 * length {
			zeta := Zetas[k]
			k--
			for j := start; j < start+length; j++ {
				t := p[j]
				p[j] = field.BarrettReduce(t + p[j+length])
				p[j+length] = p[j+length] - t
				p[j+length] = field.Mul(zeta, p[j+length])
			}
		}
	}
	for j := range p {
		p[j] = field.Mul(p[j], f)
	}
}

// BaseMul multiplies the degree-one polynomials (a[0] + a[1]X) and
// (b[0] + b[1]X) modulo X^2 - zeta, writing the result to r.
func BaseMul(r, a, b []int16, zeta int16) {
	r[0] = field.Mul(a[1], b[1])
	r[0] = field.Mul(r[0], zeta)
	r[0] += field.Mul(a[0], b[0])
	r[1] = field.Mul(a[0], b[1])
	r[1] += field.Mul(a[1], b[0])
}

// PolyBaseMul multiplies two polynomials in the NTT domain. Pair i lives
// modulo X^2 - Zeta^(2 brv7(i) + 1); the table supplies the even halves and
// the odd halves use the negated twiddle.
func PolyBaseMul(r, a, b *[field.N]int16) {
	for i := 0; i < field.N/4; i++ {
		BaseMul(r[4*i:], a[4*i:], b[4*i:], Zetas[64+i])
		BaseMul(r[4*i+2:], a[4*i+2:], b[4*i+2:], -Zetas[64+i])
	}
}
