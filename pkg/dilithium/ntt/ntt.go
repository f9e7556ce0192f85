// Package ntt provides the full eight-stage Number Theoretic Transform used
// by the signature scheme. Unlike the KEM transform it runs to completion,
// so NTT-domain multiplication is truly pointwise.
package ntt

import "pqcrystals/pkg/dilithium/field"

// Zeta is a primitive 512th root of unity mod q.
const Zeta = 1753

// Zetas contains the butterfly twiddles in Montgomery form:
// Zetas[i] = Zeta^brv8(i) * 2^32 mod q.
var Zetas [field.N]int32

func init() {
	for i := 0; i < field.N; i++ {
		Zetas[i] = field.Freeze(field.ToMont(pow(Zeta, brv8(uint8(i)))))
	}
}

// brv8 reverses the bits of i.
func brv8(i uint8) uint8 {
	var r uint8
	for b := 0; b < 8; b++ {
		r = (r << 1) | (i & 1)
		i >>= 1
	}
	return r
}

func pow(base int32, exp uint8) int32 {
	r := int64(1)
	b := int64(base)
	for ; exp > 0; exp-- {
		r = r * b % field.Q
	}
	return int32(r)
}

// NTT computes the forward transform in place. Input coefficients must be
// bounded by q in absolute value.
func NTT(p *[field.N]int32) {
	k := 0
	for length := 128; length >= 1; length >>= 1 {
		for start := 0; start < field.N; start += 2 * length {
			k++
			zeta := Zetas[k]
			for j := start; j < start+length; j++ {
				t := field.Mul(zeta, p[j+length])
				p[j+length] = p[j] - t
				p[j] = p[j] + t
			}
		}
	}
}

// InvNTT computes the inverse transform in place and multiplies every
// coefficient by 2^32, so InvNTT(NTT(p)) returns p in Montgomery form.
// Input coefficients must be bounded by q in absolute value.
func InvNTT(p *[field.N]int32) {
	// f = 2^64 / 256 mod q
	const f = 41978

	k := field.N
	for length := 1; length < field.N; length <<= 1 {
		for start := 0; start < field.N; start += 2 * length {
			k--
			zeta := -Zetas[k]
			for j := start; j < start+length; j++ {
				t := p[j]
				p[j] = t + p[j+length]
				p[j+length] = t - p[j+length]
				p[j+length] = field.Mul(zeta, p[j+length])
			}
		}
	}
	for j := range p {
		p[j] = field.Mul(p[j], f)
	}
}

// PointwiseMont multiplies two NTT-domain polynomials coefficientwise; the
// result picks up a factor of 2^-32.
func PointwiseMont(a, b, result *[field.N]int32) {
	for i := 0; i < field.N; i++ {
		result[i] = field.Mul(a[i], b[i])
	}
}
