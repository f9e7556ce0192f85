// Package sampling derives polynomials from seeds: uniform rejection
// sampling for the public matrix and centered binomial noise for secrets.
package sampling

import (
	"encoding/binary"
	"sync"

	"pqcrystals/pkg/hash"
	"pqcrystals/pkg/kyber/field"
	"pqcrystals/pkg/kyber/poly"
)

// maxCandidates bounds the rejection loop. SHAKE output is uniform, so
// needing anywhere near this many candidates means the XOF is broken.
const maxCandidates = 10 * field.N

// Uniform fills a polynomial with coefficients sampled uniformly below q,
// reading 12-bit candidates from the XOF two at a time.
func Uniform(xof *hash.StreamingXOF128) poly.NTTPoly {
	var p poly.NTTPoly
	n := 0
	for candidates := 0; n < field.N; candidates += 2 {
		if candidates >= maxCandidates {
			panic("sampling: uniform rejection exceeded candidate ceiling")
		}
		b0, b1, b2 := xof.Read3()
		d1 := int16(b0) | int16(b1&0x0F)<<8
		d2 := int16(b1>>4) | int16(b2)<<4
		if d1 < field.Q {
			p[n] = d1
			n++
		}
		if d2 < field.Q && n < field.N {
			p[n] = d2
			n++
		}
	}
	return p
}

// ExpandMatrix derives the k x k public matrix from rho. Cell (i, j) is
// sampled from SHAKE-128(rho ‖ j ‖ i), or rho ‖ i ‖ j when transposed, so
// both orientations come from the same seed. Rows are expanded
// concurrently; each row's goroutine owns one reusable XOF.
func ExpandMatrix(rho []byte, k int, transposed bool) [][]poly.NTTPoly {
	a := make([][]poly.NTTPoly, k)
	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		a[i] = make([]poly.NTTPoly, k)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			xof := hash.NewStreamingXOF128Reusable()
			for j := 0; j < k; j++ {
				nonce := uint16(j) | uint16(i)<<8
				if transposed {
					nonce = uint16(i) | uint16(j)<<8
				}
				xof.Reset(rho, nonce)
				a[i][j] = Uniform(xof)
			}
		}(i)
	}
	wg.Wait()
	return a
}

// CBD samples noise from the centered binomial distribution with parameter
// eta (2 or 3), keyed by SHAKE-256(seed ‖ nonce).
func CBD(seed []byte, nonce byte, eta int) poly.Poly {
	buf := hash.PRF(seed, nonce, eta*field.N/4)
	switch eta {
	case 2:
		return cbd2(buf)
	case 3:
		return cbd3(buf)
	}
	panic("sampling: unsupported eta")
}

func cbd2(buf []byte) poly.Poly {
	var p poly.Poly
	for i := 0; i < field.N/8; i++ {
		t := binary.LittleEndian.Uint32(buf[4*i:])
		d := t&0x55555555 + t>>1&0x55555555
		for j := 0; j < 8; j++ {
			a := int16(d >> (4 * j) & 0x3)
			b := int16(d >> (4*j + 2) & 0x3)
			p[8*i+j] = a - b
		}
	}
	return p
}

func cbd3(buf []byte) poly.Poly {
	var p poly.Poly
	for i := 0; i < field.N/4; i++ {
		t := uint32(buf[3*i]) | uint32(buf[3*i+1])<<8 | uint32(buf[3*i+2])<<16
		d := t&0x00249249 + t>>1&0x00249249 + t>>2&0x00249249
		for j := 0; j < 4; j++ {
			a := int16(d >> (6 * j) & 0x7)
			b := int16(d >> (6*j + 3) & 0x7)
			p[4*i+j] = a - b
		}
	}
	return p
}
