// Package drbg implements the AES-256 CTR-DRBG used by the NIST PQC
// known-answer-test generators (PQCgenKAT style). It exists so deterministic
// test vectors can be produced from a 48-byte entropy input exactly the way
// the published .rsp files are.
package drbg

import (
	"crypto/aes"
	"errors"
)

// SeedLen is the required entropy-input length.
const SeedLen = 48

// ErrInvalidLength reports a seed of the wrong size.
var ErrInvalidLength = errors.New("drbg: seed must be 48 bytes")

// DRBG holds the CTR-DRBG working state: a 256-bit AES key and a 128-bit
// counter block V.
type DRBG struct {
	key [32]byte
	v   [16]byte
}

// New instantiates the DRBG from a 48-byte seed.
func New(seed []byte) (*DRBG, error) {
	if len(seed) != SeedLen {
		return nil, ErrInvalidLength
	}
	d := &DRBG{}
	var s [48]byte
	copy(s[:], seed)
	d.update(&s)
	return d, nil
}

func incV(v *[16]byte) {
	for i := 15; i >= 0; i-- {
		v[i]++
		if v[i] != 0 {
			break
		}
	}
}

func (d *DRBG) update(provided *[48]byte) {
	block, err := aes.NewCipher(d.key[:])
	if err != nil {
		// key is always 32 bytes; unreachable
		panic(err)
	}

	var temp [48]byte
	for i := 0; i < 3; i++ {
		incV(&d.v)
		block.Encrypt(temp[i*16:(i+1)*16], d.v[:])
	}
	if provided != nil {
		for i := range temp {
			temp[i] ^= provided[i]
		}
	}
	copy(d.key[:], temp[:32])
	copy(d.v[:], temp[32:])
}

// Read fills out with pseudo-random bytes and never fails; it implements
// io.Reader so the DRBG can stand in for crypto/rand in deterministic tests.
func (d *DRBG) Read(out []byte) (int, error) {
	block, err := aes.NewCipher(d.key[:])
	if err != nil {
		panic(err)
	}

	var buf [16]byte
	pos := 0
	for pos < len(out) {
		incV(&d.v)
		block.Encrypt(buf[:], d.v[:])
		pos += copy(out[pos:], buf[:])
	}
	d.update(nil)
	return len(out), nil
}
