// Package sampling derives polynomials from seeds for the signature scheme:
// the uniform public matrix, the short secret vectors, the masking vector,
// and the sparse ternary challenge.
package sampling

import (
	"sync"

	"pqcrystals/pkg/dilithium/field"
	"pqcrystals/pkg/dilithium/poly"
	"pqcrystals/pkg/hash"
)

// maxCandidates bounds every rejection loop here. The XOFs are uniform, so
// needing anywhere near this many candidates means a broken stream.
const maxCandidates = 10 * field.N

// Uniform fills a polynomial with coefficients sampled uniformly below q,
// reading 23-bit candidates from the XOF.
func Uniform(xof *hash.StreamingXOF128) poly.NTTPoly {
	var p poly.NTTPoly
	n := 0
	for candidates := 0; n < field.N; candidates++ {
		if candidates >= maxCandidates {
			panic("sampling: uniform rejection exceeded candidate ceiling")
		}
		b0, b1, b2 := xof.Read3()
		t := int32(b0) | int32(b1)<<8 | int32(b2&0x7F)<<16
		if t < field.Q {
			p[n] = t
			n++
		}
	}
	return p
}

// ExpandA derives the k x l public matrix from rho. Cell (i, j) is sampled
// from SHAKE-128(rho ‖ nonce) with nonce = i*256 + j. Rows are expanded
// concurrently; each row's goroutine owns one reusable XOF.
func ExpandA(rho []byte, k, l int) [][]poly.NTTPoly {
	a := make([][]poly.NTTPoly, k)
	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		a[i] = make([]poly.NTTPoly, l)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			xof := hash.NewStreamingXOF128Reusable()
			for j := 0; j < l; j++ {
				xof.Reset(rho, uint16(i)<<8|uint16(j))
				a[i][j] = Uniform(xof)
			}
		}(i)
	}
	wg.Wait()
	return a
}

// Eta samples a secret polynomial with coefficients in [-eta, eta] from
// SHAKE-256(rhoPrime ‖ nonce), two candidates per squeezed byte. For eta = 2
// the candidates are the byte's two 3-bit windows, rejected at 5; for eta = 4
// its two half-bytes, rejected at 9. Accepted candidates map to eta - t.
func Eta(rhoPrime []byte, nonce uint16, eta int32) poly.Poly {
	xof := hash.NewStreamingXOF256(rhoPrime, nonce)
	var p poly.Poly
	n := 0
	for candidates := 0; n < field.N; candidates += 2 {
		if candidates >= maxCandidates {
			panic("sampling: eta rejection exceeded candidate ceiling")
		}
		b := xof.ReadByte()
		var t0, t1, limit int32
		switch eta {
		case 2:
			t0, t1, limit = int32(b)&0x07, int32(b>>3)&0x07, 5
		case 4:
			t0, t1, limit = int32(b&0x0F), int32(b>>4), 9
		default:
			panic("sampling: unsupported eta")
		}
		if t0 < limit {
			p[n] = eta - t0
			n++
		}
		if t1 < limit && n < field.N {
			p[n] = eta - t1
			n++
		}
	}
	return p
}

// Mask samples a masking polynomial with coefficients in
// [-(gamma1-1), gamma1-1] from SHAKE-256(rhoPrime ‖ nonce). Candidates are
// fixed-width windows of 2*log2(gamma1) bits; values above 2*gamma1-2 are
// rejected and the rest map to (gamma1-1) - t.
func Mask(rhoPrime []byte, nonce uint16, gamma1 int32) poly.Poly {
	bits := uint(18)
	if gamma1 == 1<<19 {
		bits = 20
	}
	limit := 2*gamma1 - 2

	xof := hash.NewStreamingXOF256(rhoPrime, nonce)
	var p poly.Poly
	var acc uint32
	var have uint
	n := 0
	for candidates := 0; n < field.N; candidates++ {
		if candidates >= maxCandidates {
			panic("sampling: mask rejection exceeded candidate ceiling")
		}
		for have < bits {
			acc |= uint32(xof.ReadByte()) << have
			have += 8
		}
		t := int32(acc & (1<<bits - 1))
		acc >>= bits
		have -= bits
		if t <= limit {
			p[n] = (gamma1 - 1) - t
			n++
		}
	}
	return p
}

// Challenge derives the sparse ternary challenge polynomial with tau
// nonzero coefficients from the 32-byte signature seed. Signs come from the
// first 8 squeezed bytes; each following byte is a candidate position,
// rejected only when already occupied, and consumes a sign bit on placement.
func Challenge(cTilde []byte, tau int) poly.Poly {
	xof := hash.NewStreamingXOF256Reusable()
	xof.ResetPlain(cTilde)

	var signs uint64
	for i := uint(0); i < 8; i++ {
		signs |= uint64(xof.ReadByte()) << (8 * i)
	}

	var c poly.Poly
	var used [field.N]bool
	placed := 0
	for candidates := 0; placed < tau; candidates++ {
		if candidates >= maxCandidates {
			panic("sampling: challenge rejection exceeded candidate ceiling")
		}
		b := int(xof.ReadByte())
		if used[b] {
			continue
		}
		used[b] = true
		c[b] = 1 - 2*int32(signs&1)
		signs >>= 1
		placed++
	}
	return c
}
