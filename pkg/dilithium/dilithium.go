// Package dilithium implements a module-lattice signature scheme built on
// Fiat-Shamir with aborts: commit to a masked product, derive a sparse
// ternary challenge, and retry until the response leaks nothing about the
// secret. Signing is deterministic.
package dilithium

import (
	"crypto/subtle"
	"errors"

	"pqcrystals/pkg/dilithium/encoding"
	"pqcrystals/pkg/dilithium/field"
	"pqcrystals/pkg/dilithium/poly"
	"pqcrystals/pkg/dilithium/rounding"
	"pqcrystals/pkg/dilithium/sampling"
	"pqcrystals/pkg/hash"
)

// SeedSize is the byte length of the key-generation seed.
const SeedSize = 32

// trSize is the byte length of the public-key digest kept in the secret key.
const trSize = 64

// cTildeSize is the byte length of the challenge seed in a signature.
const cTildeSize = 32

// maxAttempts bounds the signing rejection loop. The expected number of
// repetitions is single-digit for every parameter set, so hitting this
// ceiling means a broken input stream rather than bad luck.
const maxAttempts = 1000

// ErrSamplingSafety reports a rejection loop that exceeded its ceiling.
var ErrSamplingSafety = errors.New("dilithium: rejection sampling exceeded safety ceiling")

// Params selects a security level. The three standard sets are Dilithium2,
// Dilithium3 and Dilithium5; sizes derive from them.
type Params struct {
	Name   string
	K      int   // rows of A
	L      int   // columns of A
	Eta    int32 // secret coefficient range
	Tau    int   // challenge weight
	Beta   int32 // Tau * Eta, rejection margin
	Gamma1 int32 // mask coefficient range
	Gamma2 int32 // low-order rounding range
	Omega  int   // maximum hint weight
}

var (
	Dilithium2 = Params{
		Name: "Dilithium2", K: 4, L: 4, Eta: 2, Tau: 39, Beta: 78,
		Gamma1: 1 << 17, Gamma2: rounding.Gamma2Q88, Omega: 80,
	}
	Dilithium3 = Params{
		Name: "Dilithium3", K: 6, L: 5, Eta: 4, Tau: 49, Beta: 196,
		Gamma1: 1 << 19, Gamma2: rounding.Gamma2Q32, Omega: 55,
	}
	Dilithium5 = Params{
		Name: "Dilithium5", K: 8, L: 7, Eta: 2, Tau: 60, Beta: 120,
		Gamma1: 1 << 19, Gamma2: rounding.Gamma2Q32, Omega: 75,
	}
)

func (p Params) etaSize() int {
	if p.Eta == 4 {
		return encoding.Size(4)
	}
	return encoding.Size(3)
}

// PublicKeySize returns the byte length of an encoded public key.
func (p Params) PublicKeySize() int {
	return 32 + p.K*encoding.Size(10)
}

// SecretKeySize returns the byte length of an encoded secret key.
func (p Params) SecretKeySize() int {
	return 2*32 + trSize + (p.L+p.K)*p.etaSize() + p.K*encoding.Size(13)
}

// SignatureSize returns the byte length of a signature.
func (p Params) SignatureSize() int {
	return cTildeSize + p.L*encoding.Size(encoding.ZBits(p.Gamma1)) + encoding.HintSize(p.Omega, p.K)
}

// KeyGen derives a keypair from a 32-byte seed.
// pk = rho ‖ t1, sk = rho ‖ key ‖ tr ‖ s1 ‖ s2 ‖ t0.
func (p Params) KeyGen(seed []byte) (pk, sk []byte, err error) {
	if len(seed) != SeedSize {
		return nil, nil, encoding.ErrInvalidLength
	}

	z := hash.H(seed, 96)
	rho := z[:32]
	rhoPrime := z[32:96]
	key := hash.H(z, 32)

	a := sampling.ExpandA(rho, p.K, p.L)

	s1 := make([]poly.Poly, p.L)
	s1Hat := make([]poly.NTTPoly, p.L)
	for j := 0; j < p.L; j++ {
		s1[j] = sampling.Eta(rhoPrime, uint16(j), p.Eta)
		s1Hat[j] = s1[j].NTT()
	}
	s2 := make([]poly.Poly, p.K)
	for i := 0; i < p.K; i++ {
		s2[i] = sampling.Eta(rhoPrime, uint16(p.L+i), p.Eta)
	}

	// t = A*s1 + s2
	t1 := make([]poly.Poly, p.K)
	t0 := make([]poly.Poly, p.K)
	for i := 0; i < p.K; i++ {
		var acc poly.NTTPoly
		for j := 0; j < p.L; j++ {
			poly.MulAccNTT(&a[i][j], &s1Hat[j], &acc)
		}
		acc.Reduce()
		t := acc.InvNTT()
		poly.Add(&t, &s2[i], &t)
		t.Freeze()
		t1[i], t0[i] = rounding.PolyPower2Round(&t)
	}

	pk = make([]byte, 0, p.PublicKeySize())
	pk = append(pk, rho...)
	for i := 0; i < p.K; i++ {
		pk = append(pk, encoding.PackT1(&t1[i])...)
	}
	tr := hash.H(pk, trSize)

	sk = make([]byte, 0, p.SecretKeySize())
	sk = append(sk, rho...)
	sk = append(sk, key...)
	sk = append(sk, tr...)
	for j := 0; j < p.L; j++ {
		sk = append(sk, encoding.PackEta(&s1[j], p.Eta)...)
	}
	for i := 0; i < p.K; i++ {
		sk = append(sk, encoding.PackEta(&s2[i], p.Eta)...)
	}
	for i := 0; i < p.K; i++ {
		sk = append(sk, encoding.PackT0(&t0[i])...)
	}
	return pk, sk, nil
}

// Sign produces a deterministic signature over msg.
// sig = cTilde ‖ z ‖ hint.
func (p Params) Sign(sk, msg []byte) ([]byte, error) {
	if len(sk) != p.SecretKeySize() {
		return nil, encoding.ErrInvalidLength
	}
	rho := sk[:32]
	key := sk[32:64]
	tr := sk[64 : 64+trSize]
	rest := sk[64+trSize:]

	etaSize := p.etaSize()
	s1Hat := make([]poly.NTTPoly, p.L)
	for j := 0; j < p.L; j++ {
		s, err := encoding.UnpackEta(rest[j*etaSize:(j+1)*etaSize], p.Eta)
		if err != nil {
			return nil, err
		}
		s1Hat[j] = s.NTT()
	}
	rest = rest[p.L*etaSize:]
	s2Hat := make([]poly.NTTPoly, p.K)
	for i := 0; i < p.K; i++ {
		s, err := encoding.UnpackEta(rest[i*etaSize:(i+1)*etaSize], p.Eta)
		if err != nil {
			return nil, err
		}
		s2Hat[i] = s.NTT()
	}
	rest = rest[p.K*etaSize:]
	t0Size := encoding.Size(13)
	t0Hat := make([]poly.NTTPoly, p.K)
	for i := 0; i < p.K; i++ {
		t0, err := encoding.UnpackT0(rest[i*t0Size : (i+1)*t0Size])
		if err != nil {
			return nil, err
		}
		t0Hat[i] = t0.NTT()
	}

	a := sampling.ExpandA(rho, p.K, p.L)

	mu := hash.H(append(append([]byte(nil), tr...), msg...), 64)
	rhoPrime := hash.H(append(append([]byte(nil), key...), mu...), 64)

	kappa := uint16(0)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		// commit: w = A*y
		y := make([]poly.Poly, p.L)
		yHat := make([]poly.NTTPoly, p.L)
		for j := 0; j < p.L; j++ {
			y[j] = sampling.Mask(rhoPrime, kappa+uint16(j), p.Gamma1)
			yHat[j] = y[j].NTT()
		}
		kappa += uint16(p.L)

		w1 := make([]poly.Poly, p.K)
		w0 := make([]poly.Poly, p.K)
		for i := 0; i < p.K; i++ {
			var acc poly.NTTPoly
			for j := 0; j < p.L; j++ {
				poly.MulAccNTT(&a[i][j], &yHat[j], &acc)
			}
			acc.Reduce()
			w := acc.InvNTT()
			w.Freeze()
			w1[i], w0[i] = rounding.PolyDecompose(&w, p.Gamma2)
		}

		cTilde := p.challengeSeed(mu, w1)
		c := sampling.Challenge(cTilde, p.Tau)
		cHat := c.NTT()

		// response: z = y + c*s1, rejected if it leaks
		z := make([]poly.Poly, p.L)
		ok := true
		for j := 0; j < p.L; j++ {
			var cs1 poly.NTTPoly
			poly.PointwiseMont(&cHat, &s1Hat[j], &cs1)
			zj := cs1.InvNTT()
			poly.Add(&zj, &y[j], &zj)
			zj.Reduce()
			if zj.Exceeds(p.Gamma1 - p.Beta) {
				ok = false
				break
			}
			z[j] = zj
		}
		if !ok {
			continue
		}

		// low-order checks and hints
		hint := make([]poly.Poly, p.K)
		weight := 0
		for i := 0; i < p.K; i++ {
			var cs2 poly.NTTPoly
			poly.PointwiseMont(&cHat, &s2Hat[i], &cs2)
			r0 := cs2.InvNTT()
			poly.Sub(&w0[i], &r0, &r0)
			r0.Reduce()
			if r0.Exceeds(p.Gamma2 - p.Beta) {
				ok = false
				break
			}

			var ct0Hat poly.NTTPoly
			poly.PointwiseMont(&cHat, &t0Hat[i], &ct0Hat)
			ct0 := ct0Hat.InvNTT()
			ct0.Reduce()
			if ct0.Exceeds(p.Gamma2) {
				ok = false
				break
			}

			poly.Add(&r0, &ct0, &r0)
			var n int
			hint[i], n = rounding.PolyMakeHint(&r0, &w1[i], p.Gamma2)
			weight += n
			if weight > p.Omega {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		sig := make([]byte, 0, p.SignatureSize())
		sig = append(sig, cTilde...)
		for j := 0; j < p.L; j++ {
			sig = append(sig, encoding.PackZ(&z[j], p.Gamma1)...)
		}
		sig = append(sig, encoding.PackHint(hint, p.Omega)...)
		return sig, nil
	}
	return nil, ErrSamplingSafety
}

// Verify reports whether sig is a valid signature over msg under pk. Any
// malformed input yields false, never an error.
func (p Params) Verify(pk, msg, sig []byte) bool {
	if len(pk) != p.PublicKeySize() || len(sig) != p.SignatureSize() {
		return false
	}
	rho := pk[:32]

	t1Size := encoding.Size(10)
	t1Hat := make([]poly.NTTPoly, p.K)
	for i := 0; i < p.K; i++ {
		t1, err := encoding.UnpackT1(pk[32+i*t1Size : 32+(i+1)*t1Size])
		if err != nil {
			return false
		}
		t1.ShiftLeft()
		t1Hat[i] = t1.NTT()
	}

	cTilde := sig[:cTildeSize]
	zSize := encoding.Size(encoding.ZBits(p.Gamma1))
	zHat := make([]poly.NTTPoly, p.L)
	for j := 0; j < p.L; j++ {
		z, err := encoding.UnpackZ(sig[cTildeSize+j*zSize:cTildeSize+(j+1)*zSize], p.Gamma1)
		if err != nil {
			return false
		}
		if z.Exceeds(p.Gamma1 - p.Beta) {
			return false
		}
		zHat[j] = z.NTT()
	}
	hint, err := encoding.UnpackHint(sig[cTildeSize+p.L*zSize:], p.Omega, p.K)
	if err != nil {
		return false
	}

	a := sampling.ExpandA(rho, p.K, p.L)
	tr := hash.H(pk, trSize)
	mu := hash.H(append(append([]byte(nil), tr...), msg...), 64)

	c := sampling.Challenge(cTilde, p.Tau)
	cHat := c.NTT()

	// w' = A*z - c*t1*2^d, then recover the committed high bits through
	// the hints
	w1 := make([]poly.Poly, p.K)
	for i := 0; i < p.K; i++ {
		var acc poly.NTTPoly
		for j := 0; j < p.L; j++ {
			poly.MulAccNTT(&a[i][j], &zHat[j], &acc)
		}
		var ct1 poly.NTTPoly
		poly.PointwiseMont(&cHat, &t1Hat[i], &ct1)
		for k := 0; k < field.N; k++ {
			acc[k] -= ct1[k]
		}
		acc.Reduce()
		w := acc.InvNTT()
		w.Freeze()
		w1[i] = rounding.PolyUseHint(&w, &hint[i], p.Gamma2)
	}

	want := p.challengeSeed(mu, w1)
	return subtle.ConstantTimeCompare(cTilde, want) == 1
}

// challengeSeed hashes mu and the packed commitment into the 32-byte
// challenge seed.
func (p Params) challengeSeed(mu []byte, w1 []poly.Poly) []byte {
	buf := make([]byte, 0, 64+p.K*encoding.Size(encoding.W1Bits(p.Gamma2)))
	buf = append(buf, mu...)
	for i := range w1 {
		buf = append(buf, encoding.PackW1(&w1[i], p.Gamma2)...)
	}
	return hash.H(buf, cTildeSize)
}
