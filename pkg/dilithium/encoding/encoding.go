// Package encoding provides serialization for signature-scheme polynomials.
// Every layout is a little-endian bitstream, lowest coefficient bits first;
// signed ranges are packed as offsets from their upper bound.
package encoding

import (
	"errors"

	"pqcrystals/pkg/dilithium/field"
	"pqcrystals/pkg/dilithium/poly"
)

var (
	// ErrInvalidLength reports a packed input of the wrong byte width.
	ErrInvalidLength = errors.New("encoding: packed input has wrong length")
	// ErrDecodingOutOfRange reports an unpacked coefficient outside its
	// declared range.
	ErrDecodingOutOfRange = errors.New("encoding: coefficient out of range")
)

// Size returns the byte length of a polynomial packed at bits per
// coefficient.
func Size(bits uint) int {
	return field.N * int(bits) / 8
}

func packBits(vals *[field.N]uint32, bits uint) []byte {
	out := make([]byte, Size(bits))
	var acc uint64
	var have uint
	idx := 0
	for _, v := range vals {
		acc |= uint64(v) << have
		have += bits
		for have >= 8 {
			out[idx] = byte(acc)
			acc >>= 8
			have -= 8
			idx++
		}
	}
	return out
}

func unpackBits(bs []byte, bits uint) ([field.N]uint32, error) {
	var vals [field.N]uint32
	if len(bs) != Size(bits) {
		return vals, ErrInvalidLength
	}
	var acc uint64
	var have uint
	idx := 0
	for i := 0; i < field.N; i++ {
		for have < bits {
			acc |= uint64(bs[idx]) << have
			idx++
			have += 8
		}
		vals[i] = uint32(acc & (1<<bits - 1))
		acc >>= bits
		have -= bits
	}
	return vals, nil
}

// PackT1 encodes the rounded public-key part, 10 bits per coefficient.
// Coefficients must be in [0, 1024).
func PackT1(p *poly.Poly) []byte {
	var vals [field.N]uint32
	for i, c := range p {
		vals[i] = uint32(c)
	}
	return packBits(&vals, 10)
}

// UnpackT1 decodes a 10-bit layout.
func UnpackT1(bs []byte) (poly.Poly, error) {
	var p poly.Poly
	vals, err := unpackBits(bs, 10)
	if err != nil {
		return p, err
	}
	for i, v := range vals {
		p[i] = int32(v)
	}
	return p, nil
}

// PackT0 encodes the dropped public-key part, 13 bits per coefficient as
// 2^(d-1) - c. Coefficients must be in (-2^(d-1), 2^(d-1)].
func PackT0(p *poly.Poly) []byte {
	var vals [field.N]uint32
	for i, c := range p {
		vals[i] = uint32(1<<(field.D-1) - c)
	}
	return packBits(&vals, 13)
}

// UnpackT0 decodes a 13-bit layout.
func UnpackT0(bs []byte) (poly.Poly, error) {
	var p poly.Poly
	vals, err := unpackBits(bs, 13)
	if err != nil {
		return p, err
	}
	for i, v := range vals {
		p[i] = 1<<(field.D-1) - int32(v)
	}
	return p, nil
}

// PackEta encodes a secret polynomial as eta - c at 3 bits (eta = 2) or
// 4 bits (eta = 4) per coefficient.
func PackEta(p *poly.Poly, eta int32) []byte {
	var vals [field.N]uint32
	for i, c := range p {
		vals[i] = uint32(eta - c)
	}
	return packBits(&vals, etaBits(eta))
}

// UnpackEta decodes a secret polynomial, rejecting encodings outside
// [0, 2*eta].
func UnpackEta(bs []byte, eta int32) (poly.Poly, error) {
	var p poly.Poly
	vals, err := unpackBits(bs, etaBits(eta))
	if err != nil {
		return p, err
	}
	for i, v := range vals {
		if v > uint32(2*eta) {
			return p, ErrDecodingOutOfRange
		}
		p[i] = eta - int32(v)
	}
	return p, nil
}

func etaBits(eta int32) uint {
	if eta == 4 {
		return 4
	}
	return 3
}

// ZBits returns the packed width of a response coefficient for gamma1.
func ZBits(gamma1 int32) uint {
	if gamma1 == 1<<19 {
		return 20
	}
	return 18
}

// PackZ encodes the response vector as (gamma1-1) - c. Coefficients must
// be in [-(gamma1-1), gamma1-1].
func PackZ(p *poly.Poly, gamma1 int32) []byte {
	var vals [field.N]uint32
	for i, c := range p {
		vals[i] = uint32((gamma1 - 1) - c)
	}
	return packBits(&vals, ZBits(gamma1))
}

// UnpackZ decodes a response polynomial, rejecting encodings outside
// [0, 2*gamma1-2].
func UnpackZ(bs []byte, gamma1 int32) (poly.Poly, error) {
	var p poly.Poly
	vals, err := unpackBits(bs, ZBits(gamma1))
	if err != nil {
		return p, err
	}
	for i, v := range vals {
		if v > uint32(2*gamma1-2) {
			return p, ErrDecodingOutOfRange
		}
		p[i] = (gamma1 - 1) - int32(v)
	}
	return p, nil
}

// W1Bits returns the packed width of a high-bits coefficient for gamma2.
func W1Bits(gamma2 int32) uint {
	if gamma2 == (field.Q-1)/32 {
		return 4
	}
	return 6
}

// PackW1 encodes the high-bits commitment, 6 bits per coefficient for the
// 44-bucket split and 4 bits for the 16-bucket split.
func PackW1(p *poly.Poly, gamma2 int32) []byte {
	var vals [field.N]uint32
	for i, c := range p {
		vals[i] = uint32(c)
	}
	return packBits(&vals, W1Bits(gamma2))
}

// HintSize returns the byte length of a packed hint vector: omega position
// bytes plus one running count per polynomial.
func HintSize(omega, k int) int {
	return omega + k
}

// PackHint encodes the hint vector as up to omega position bytes followed
// by k running counts. The total weight must not exceed omega.
func PackHint(h []poly.Poly, omega int) []byte {
	out := make([]byte, HintSize(omega, len(h)))
	idx := 0
	for i := range h {
		for j := 0; j < field.N; j++ {
			if h[i][j] != 0 {
				out[idx] = byte(j)
				idx++
			}
		}
		out[omega+i] = byte(idx)
	}
	return out
}

// UnpackHint decodes a hint vector, rejecting counts that exceed omega or
// run backwards, positions that are not strictly increasing within one
// polynomial, and nonzero padding after the last used position.
func UnpackHint(bs []byte, omega, k int) ([]poly.Poly, error) {
	if len(bs) != HintSize(omega, k) {
		return nil, ErrInvalidLength
	}
	h := make([]poly.Poly, k)
	idx := 0
	for i := 0; i < k; i++ {
		count := int(bs[omega+i])
		if count < idx || count > omega {
			return nil, ErrDecodingOutOfRange
		}
		for j := idx; j < count; j++ {
			if j > idx && bs[j] <= bs[j-1] {
				return nil, ErrDecodingOutOfRange
			}
			h[i][bs[j]] = 1
		}
		idx = count
	}
	for ; idx < omega; idx++ {
		if bs[idx] != 0 {
			return nil, ErrDecodingOutOfRange
		}
	}
	return h, nil
}
