// Package kyber implements an IND-CCA2 key encapsulation mechanism built
// from a module-lattice public-key encryption core and the Fujisaki-Okamoto
// transform with implicit rejection. Byte layouts are bit-compatible with
// the round-3 reference vectors.
package kyber

import "pqcrystals/pkg/kyber/encoding"

// eta2 is the ciphertext-noise parameter, shared by all parameter sets.
const eta2 = 2

// SeedSize is the byte length of each keygen seed (d and z).
const SeedSize = 32

// SharedSecretSize is the byte length of the encapsulated secret.
const SharedSecretSize = 32

// Params selects a security level. The three standard sets are Kyber512,
// Kyber768 and Kyber1024; sizes derive from them.
type Params struct {
	Name string
	K    int // module rank
	Eta1 int // secret/keygen noise parameter
	DU   int // ciphertext vector compression bits
	DV   int // ciphertext scalar compression bits
}

var (
	Kyber512  = Params{Name: "Kyber512", K: 2, Eta1: 3, DU: 10, DV: 4}
	Kyber768  = Params{Name: "Kyber768", K: 3, Eta1: 2, DU: 10, DV: 4}
	Kyber1024 = Params{Name: "Kyber1024", K: 4, Eta1: 2, DU: 11, DV: 5}
)

// polyVecSize is the byte length of a fully encoded vector of K polynomials.
func (p Params) polyVecSize() int {
	return p.K * encoding.PolySize
}

// PublicKeySize returns the byte length of an encoded public key.
func (p Params) PublicKeySize() int {
	return p.polyVecSize() + 32
}

// SecretKeySize returns the byte length of an encoded secret key.
func (p Params) SecretKeySize() int {
	return p.polyVecSize() + p.PublicKeySize() + 2*32
}

// CiphertextSize returns the byte length of a ciphertext.
func (p Params) CiphertextSize() int {
	return p.K*encoding.CompressedSize(p.DU) + encoding.CompressedSize(p.DV)
}
