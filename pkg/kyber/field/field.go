// Package field implements arithmetic in Z_q for q = 3329, the KEM modulus.
// Coefficients live in int16 and products are reduced with Montgomery or
// Barrett reduction so every operation is branch-free.
package field

// Modulus parameters.
const (
	N    = 256
	Q    = 3329
	QInv = -3327 // q^-1 mod 2^16
	Mont = 2285  // 2^16 mod q
	R2   = 1353  // 2^32 mod q, converts into Montgomery form
)

// MontgomeryReduce maps a in [-q*2^15, q*2^15) to a*2^-16 mod q,
// with the result in (-q, q).
func MontgomeryReduce(a int32) int16 {
	t := int16(a) * QInv
	return int16((a - int32(t)*Q) >> 16)
}

// BarrettReduce maps a to its centered representative in
// {-(q-1)/2, ..., (q-1)/2}.
func BarrettReduce(a int16) int16 {
	// v = round(2^26 / q)
	const v = 20159
	t := int16((int32(v)*int32(a) + (1 << 25)) >> 26)
	return a - t*Q
}

// Mul returns a*b*2^-16 mod q. With one operand in Montgomery form this is
// a plain product mod q.
func Mul(a, b int16) int16 {
	return MontgomeryReduce(int32(a) * int32(b))
}

// ToMont maps a into Montgomery form, a*2^16 mod q.
func ToMont(a int16) int16 {
	return Mul(a, R2)
}

// CSubQ subtracts q if a >= q, without branching. Input must lie in [0, 2q).
func CSubQ(a int16) int16 {
	a -= Q
	a += (a >> 15) & Q
	return a
}

// Freeze returns the canonical representative of a in [0, q).
func Freeze(a int16) int16 {
	t := BarrettReduce(a)
	t += (t >> 15) & Q
	return t
}

// Add returns a+b without reduction; callers track coefficient growth.
func Add(a, b int16) int16 {
	return a + b
}

// Sub returns a-b without reduction.
func Sub(a, b int16) int16 {
	return a - b
}
