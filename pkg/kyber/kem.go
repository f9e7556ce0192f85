package kyber

import (
	"crypto/subtle"
	"io"

	"pqcrystals/pkg/hash"
	"pqcrystals/pkg/kyber/encoding"
)

// NewKeyFromSeed derives a keypair deterministically from the 32-byte
// encryption seed d and the 32-byte implicit-rejection seed z.
// sk = ŝ ‖ pk ‖ H(pk) ‖ z.
func (p Params) NewKeyFromSeed(d, z []byte) (pk, sk []byte, err error) {
	if len(d) != SeedSize || len(z) != SeedSize {
		return nil, nil, encoding.ErrInvalidLength
	}
	pk, indcpaSk := p.indcpaKeyGen(d)
	hpk := hash.SHA3x256(pk)

	sk = make([]byte, 0, p.SecretKeySize())
	sk = append(sk, indcpaSk...)
	sk = append(sk, pk...)
	sk = append(sk, hpk[:]...)
	sk = append(sk, z...)
	return pk, sk, nil
}

// GenerateKey reads 64 bytes of entropy from rand and derives a keypair.
// The caller chooses the entropy source; the package never touches system
// randomness itself.
func (p Params) GenerateKey(rand io.Reader) (pk, sk []byte, err error) {
	seed := make([]byte, 2*SeedSize)
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, nil, err
	}
	return p.NewKeyFromSeed(seed[:SeedSize], seed[SeedSize:])
}

// Encapsulate reads a 32-byte seed from rand and produces a ciphertext and
// the shared secret it encapsulates.
func (p Params) Encapsulate(pk []byte, rand io.Reader) (ct, ss []byte, err error) {
	seed := make([]byte, SeedSize)
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, nil, err
	}
	return p.EncapsulateDeterministic(pk, seed)
}

// EncapsulateDeterministic encapsulates with an explicit seed. The seed is
// hashed before use, so even a maliciously structured value never reaches
// the encryption core directly.
func (p Params) EncapsulateDeterministic(pk, seed []byte) (ct, ss []byte, err error) {
	if len(pk) != p.PublicKeySize() || len(seed) != SeedSize {
		return nil, nil, encoding.ErrInvalidLength
	}
	m := hash.SHA3x256(seed)
	hpk := hash.SHA3x256(pk)

	kr := hash.SHA3x512(append(m[:], hpk[:]...))
	ct, err = p.indcpaEncrypt(pk, m[:], kr[32:])
	if err != nil {
		return nil, nil, err
	}

	hct := hash.SHA3x256(ct)
	ss = hash.H(append(kr[:32:32], hct[:]...), SharedSecretSize)
	return ct, ss, nil
}

// Decapsulate recovers the shared secret. A ciphertext that fails the
// re-encryption check yields the implicit-rejection secret derived from z;
// nothing about the mismatch is observable to the caller. The only error
// condition is a malformed input length.
func (p Params) Decapsulate(sk, ct []byte) ([]byte, error) {
	if len(sk) != p.SecretKeySize() || len(ct) != p.CiphertextSize() {
		return nil, encoding.ErrInvalidLength
	}
	indcpaSk := sk[:p.polyVecSize()]
	pk := sk[p.polyVecSize() : p.polyVecSize()+p.PublicKeySize()]
	hpk := sk[len(sk)-2*32 : len(sk)-32]
	z := sk[len(sk)-32:]

	m, err := p.indcpaDecrypt(indcpaSk, ct)
	if err != nil {
		return nil, err
	}

	kr := hash.SHA3x512(append(m[:], hpk...))
	ct2, err := p.indcpaEncrypt(pk, m[:], kr[32:])
	if err != nil {
		return nil, err
	}

	kbar := make([]byte, 32)
	copy(kbar, kr[:32])
	mismatch := 1 - subtle.ConstantTimeCompare(ct, ct2)
	subtle.ConstantTimeCopy(mismatch, kbar, z)

	hct := hash.SHA3x256(ct)
	return hash.H(append(kbar, hct[:]...), SharedSecretSize), nil
}
