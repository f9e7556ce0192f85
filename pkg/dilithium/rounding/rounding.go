// Package rounding implements the coefficient decompositions of the
// signature scheme: Power2Round for the public-key split, Decompose for the
// high/low split at either gamma2, and the hint mechanism that lets a
// verifier reconstruct high bits without the low part.
package rounding

import (
	"pqcrystals/pkg/dilithium/field"
	"pqcrystals/pkg/dilithium/poly"
)

// The two supported low-order rounding ranges.
const (
	Gamma2Q88 = (field.Q - 1) / 88
	Gamma2Q32 = (field.Q - 1) / 32
)

// Power2Round splits a into a1*2^d + a0 with a0 in (-2^(d-1), 2^(d-1)].
// Input must be in [0, q).
func Power2Round(a int32) (a1, a0 int32) {
	a1 = (a + (1 << (field.D - 1)) - 1) >> field.D
	a0 = a - a1<<field.D
	return a1, a0
}

// Decompose splits a into a1*(2*gamma2) + a0 with a0 in (-gamma2, gamma2],
// folding the corner case a1 = (q-1)/(2*gamma2) to zero so that a1 always
// fits the packed width. Input must be in [0, q).
func Decompose(a, gamma2 int32) (a1, a0 int32) {
	a1 = (a + 127) >> 7
	if gamma2 == Gamma2Q32 {
		a1 = (a1*1025 + (1 << 21)) >> 22
		a1 &= 15
	} else {
		a1 = (a1*11275 + (1 << 23)) >> 24
		a1 ^= ((43 - a1) >> 31) & a1
	}
	a0 = a - a1*2*gamma2
	a0 -= (((field.Q-1)/2 - a0) >> 31) & field.Q
	return a1, a0
}

// HighBits returns the a1 part of Decompose.
func HighBits(a, gamma2 int32) int32 {
	a1, _ := Decompose(a, gamma2)
	return a1
}

// LowBits returns the a0 part of Decompose.
func LowBits(a, gamma2 int32) int32 {
	_, a0 := Decompose(a, gamma2)
	return a0
}

// MakeHint reports whether adding a0 to a coefficient with high bits a1
// changes those high bits. a0 is a centered low part.
func MakeHint(a0, a1, gamma2 int32) int32 {
	if a0 > gamma2 || a0 < -gamma2 || (a0 == -gamma2 && a1 != 0) {
		return 1
	}
	return 0
}

// UseHint recovers the high bits of a using the hint bit. Input must be in
// [0, q).
func UseHint(a, hint, gamma2 int32) int32 {
	a1, a0 := Decompose(a, gamma2)
	if hint == 0 {
		return a1
	}
	if gamma2 == Gamma2Q32 {
		if a0 > 0 {
			return (a1 + 1) & 15
		}
		return (a1 - 1) & 15
	}
	if a0 > 0 {
		if a1 == 43 {
			return 0
		}
		return a1 + 1
	}
	if a1 == 0 {
		return 43
	}
	return a1 - 1
}

// PolyPower2Round applies Power2Round coefficientwise. Input must be frozen.
func PolyPower2Round(p *poly.Poly) (p1, p0 poly.Poly) {
	for i := range p {
		p1[i], p0[i] = Power2Round(p[i])
	}
	return p1, p0
}

// PolyDecompose applies Decompose coefficientwise. Input must be frozen.
func PolyDecompose(p *poly.Poly, gamma2 int32) (p1, p0 poly.Poly) {
	for i := range p {
		p1[i], p0[i] = Decompose(p[i], gamma2)
	}
	return p1, p0
}

// PolyMakeHint computes the hint polynomial and its weight.
func PolyMakeHint(p0, p1 *poly.Poly, gamma2 int32) (h poly.Poly, weight int) {
	for i := range h {
		h[i] = MakeHint(p0[i], p1[i], gamma2)
		weight += int(h[i])
	}
	return h, weight
}

// PolyUseHint applies UseHint coefficientwise. Input must be frozen.
func PolyUseHint(p, h *poly.Poly, gamma2 int32) poly.Poly {
	var r poly.Poly
	for i := range r {
		r[i] = UseHint(p[i], h[i], gamma2)
	}
	return r
}
