// Package field implements arithmetic in Z_q for q = 8380417, the signature
// modulus. Coefficients live in int32; products pass through 64-bit
// Montgomery reduction with R = 2^32.
package field

// Modulus parameters.
const (
	N    = 256
	Q    = 8380417
	QInv = 58728449 // q^-1 mod 2^32
	D    = 13       // dropped bits in Power2Round
	Mont = 4193792  // 2^32 mod q
	R2   = 2365951  // 2^64 mod q
)

// MontgomeryReduce maps a in (-q*2^31, q*2^31) to a*2^-32 mod q, with the
// result in (-q, q).
func MontgomeryReduce(a int64) int32 {
	t := int32(uint32(a) * QInv)
	return int32((a - int64(t)*Q) >> 32)
}

// Reduce32 maps a in (-2^31 + 2^22, 2^31) to a representative in
// (-6283009, 6283008].
func Reduce32(a int32) int32 {
	t := (a + (1 << 22)) >> 23
	return a - t*Q
}

// CAddQ adds q if a is negative, without branching.
func CAddQ(a int32) int32 {
	return a + (a>>31)&Q
}

// Freeze returns the canonical representative of a in [0, q).
func Freeze(a int32) int32 {
	return CAddQ(Reduce32(a))
}

// Mul returns a*b*2^-32 mod q. With one operand in Montgomery form this is
// a plain product mod q.
func Mul(a, b int32) int32 {
	return MontgomeryReduce(int64(a) * int64(b))
}

// ToMont maps a into Montgomery form, a*2^32 mod q.
func ToMont(a int32) int32 {
	return Mul(a, R2)
}
