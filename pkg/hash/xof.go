// Package hash provides the Keccak sponge layer shared by both schemes:
// SHAKE extendable-output streams and the fixed-output SHA3 hashes used by
// the KEM transform.
package hash

import (
	"golang.org/x/crypto/sha3"
)

// H returns SHAKE-256 output of the requested length.
func H(msg []byte, length int) []byte {
	h := sha3.NewShake256()
	h.Write(msg)
	out := make([]byte, length)
	h.Read(out)
	return out
}

// SHA3x256 returns SHA3-256(msg).
func SHA3x256(msg []byte) [32]byte {
	return sha3.Sum256(msg)
}

// SHA3x512 returns SHA3-512(msg).
func SHA3x512(msg []byte) [64]byte {
	return sha3.Sum512(msg)
}

// PRF returns SHAKE-256 output for seed||nonce (single-byte nonce).
func PRF(seed []byte, nonce byte, length int) []byte {
	h := sha3.NewShake256()
	h.Write(seed)
	h.Write([]byte{nonce})
	out := make([]byte, length)
	h.Read(out)
	return out
}

// StreamingXOF128 provides incremental SHAKE-128 output.
// The stream absorbs seed||nonce and squeezes bytes on demand through an
// internal rate-sized buffer, so rejection samplers only consume what they
// actually need.
type StreamingXOF128 struct {
	h   sha3.ShakeHash
	buf [168]byte // SHAKE128 rate
	pos int
	end int
}

// NewStreamingXOF128 creates a streaming XOF for seed||nonce.
func NewStreamingXOF128(seed []byte, nonce uint16) *StreamingXOF128 {
	x := NewStreamingXOF128Reusable()
	x.Reset(seed, nonce)
	return x
}

// NewStreamingXOF128Reusable creates a streaming XOF that must be Reset
// before first use. Intended for matrix expansion, where one instance is
// reseeded per cell.
func NewStreamingXOF128Reusable() *StreamingXOF128 {
	return &StreamingXOF128{h: sha3.NewShake128()}
}

// Reset reinitializes the XOF for a new seed||nonce.
func (x *StreamingXOF128) Reset(seed []byte, nonce uint16) {
	x.h.Reset()
	x.h.Write(seed)
	x.h.Write([]byte{byte(nonce & 0xFF), byte(nonce >> 8)})
	x.pos = 0
	x.end = 0
}

func (x *StreamingXOF128) refill() {
	leftover := x.end - x.pos
	if leftover > 0 {
		copy(x.buf[:leftover], x.buf[x.pos:x.end])
	}
	n, _ := x.h.Read(x.buf[leftover:])
	x.pos = 0
	x.end = leftover + n
}

// Read3 returns the next 3 bytes from the XOF.
func (x *StreamingXOF128) Read3() (b0, b1, b2 byte) {
	if x.pos+3 > x.end {
		x.refill()
	}
	b0, b1, b2 = x.buf[x.pos], x.buf[x.pos+1], x.buf[x.pos+2]
	x.pos += 3
	return
}

// ReadByte returns the next byte from the XOF.
func (x *StreamingXOF128) ReadByte() byte {
	if x.pos >= x.end {
		x.refill()
	}
	b := x.buf[x.pos]
	x.pos++
	return b
}

// StreamingXOF256 provides incremental SHAKE-256 output.
type StreamingXOF256 struct {
	h   sha3.ShakeHash
	buf [136]byte // SHAKE256 rate
	pos int
	end int
}

// NewStreamingXOF256 creates a streaming XOF for seed||nonce.
func NewStreamingXOF256(seed []byte, nonce uint16) *StreamingXOF256 {
	x := NewStreamingXOF256Reusable()
	x.Reset(seed, nonce)
	return x
}

// NewStreamingXOF256Reusable creates a reusable streaming XOF256.
func NewStreamingXOF256Reusable() *StreamingXOF256 {
	return &StreamingXOF256{h: sha3.NewShake256()}
}

// Reset reinitializes the XOF for a new seed||nonce.
func (x *StreamingXOF256) Reset(seed []byte, nonce uint16) {
	x.h.Reset()
	x.h.Write(seed)
	x.h.Write([]byte{byte(nonce & 0xFF), byte(nonce >> 8)})
	x.pos = 0
	x.end = 0
}

// ResetPlain reinitializes the XOF for a bare seed, with no nonce suffix.
func (x *StreamingXOF256) ResetPlain(seed []byte) {
	x.h.Reset()
	x.h.Write(seed)
	x.pos = 0
	x.end = 0
}

func (x *StreamingXOF256) refill() {
	leftover := x.end - x.pos
	if leftover > 0 {
		copy(x.buf[:leftover], x.buf[x.pos:x.end])
	}
	n, _ := x.h.Read(x.buf[leftover:])
	x.pos = 0
	x.end = leftover + n
}

// ReadByte returns the next byte from the XOF.
func (x *StreamingXOF256) ReadByte() byte {
	if x.pos >= x.end {
		x.refill()
	}
	b := x.buf[x.pos]
	x.pos++
	return b
}

// Fill fills out with bytes from the stream.
func (x *StreamingXOF256) Fill(out []byte) {
	for i := range out {
		out[i] = x.ReadByte()
	}
}
