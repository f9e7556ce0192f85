// Package encoding provides serialization for KEM polynomials: the full
// 12-bit coefficient layout and the lossy d-bit compressed layouts used by
// ciphertexts. All layouts are little-endian bitstreams, lowest coefficient
// bits first.
package encoding

import (
	"errors"

	"pqcrystals/pkg/kyber/field"
	"pqcrystals/pkg/kyber/poly"
)

// PolySize is the byte length of a fully encoded polynomial.
const PolySize = field.N * 12 / 8

var (
	// ErrInvalidLength reports a packed input of the wrong byte width.
	ErrInvalidLength = errors.New("encoding: packed input has wrong length")
	// ErrDecodingOutOfRange reports an unpacked coefficient >= q.
	ErrDecodingOutOfRange = errors.New("encoding: coefficient out of range")
)

// PackPoly encodes 256 coefficients at 12 bits each. Coefficients are
// frozen to [0, q) first, so any congruent representation packs to the
// same bytes.
func PackPoly(cs *[field.N]int16) []byte {
	out := make([]byte, PolySize)
	for i := 0; i < field.N/2; i++ {
		t0 := uint16(field.Freeze(cs[2*i]))
		t1 := uint16(field.Freeze(cs[2*i+1]))
		out[3*i] = byte(t0)
		out[3*i+1] = byte(t0>>8) | byte(t1<<4)
		out[3*i+2] = byte(t1 >> 4)
	}
	return out
}

// UnpackPoly decodes a 12-bit layout, rejecting wrong lengths and
// coefficients outside [0, q).
func UnpackPoly(bs []byte) ([field.N]int16, error) {
	var cs [field.N]int16
	if len(bs) != PolySize {
		return cs, ErrInvalidLength
	}
	for i := 0; i < field.N/2; i++ {
		t0 := int16(bs[3*i]) | int16(bs[3*i+1]&0x0F)<<8
		t1 := int16(bs[3*i+1]>>4) | int16(bs[3*i+2])<<4
		if t0 >= field.Q || t1 >= field.Q {
			return cs, ErrDecodingOutOfRange
		}
		cs[2*i] = t0
		cs[2*i+1] = t1
	}
	return cs, nil
}

// CompressedSize is the byte length of a polynomial compressed to d bits
// per coefficient.
func CompressedSize(d int) int {
	return field.N * d / 8
}

// Compress rounds every coefficient to d bits: c = round(coeff * 2^d / q).
func Compress(p *poly.Poly, d int) []byte {
	out := make([]byte, CompressedSize(d))
	mask := uint32(1)<<d - 1
	var acc uint32
	bits, idx := 0, 0
	for i := 0; i < field.N; i++ {
		u := uint32(field.Freeze(p[i]))
		c := (u<<d + field.Q/2) / field.Q & mask
		acc |= c << bits
		bits += d
		for bits >= 8 {
			out[idx] = byte(acc)
			acc >>= 8
			bits -= 8
			idx++
		}
	}
	return out
}

// Decompress is the pseudo-inverse of Compress: coeff = round(c * q / 2^d).
func Decompress(bs []byte, d int) (poly.Poly, error) {
	var p poly.Poly
	if len(bs) != CompressedSize(d) {
		return p, ErrInvalidLength
	}
	mask := uint32(1)<<d - 1
	var acc uint32
	bits, idx := 0, 0
	for i := 0; i < field.N; i++ {
		for bits < d {
			acc |= uint32(bs[idx]) << bits
			idx++
			bits += 8
		}
		c := acc & mask
		acc >>= d
		bits -= d
		p[i] = int16((c*field.Q + uint32(1)<<(d-1)) >> d)
	}
	return p, nil
}
