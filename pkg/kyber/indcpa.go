package kyber

import (
	"pqcrystals/pkg/hash"
	"pqcrystals/pkg/kyber/encoding"
	"pqcrystals/pkg/kyber/field"
	"pqcrystals/pkg/kyber/poly"
	"pqcrystals/pkg/kyber/sampling"
)

// The IND-CPA public-key encryption core. Secrets and public values are
// serialized in the NTT domain; the transforms happen once at key
// generation and the hot path works on transformed vectors.

func packVec(v []poly.NTTPoly) []byte {
	out := make([]byte, 0, len(v)*encoding.PolySize)
	for i := range v {
		out = append(out, encoding.PackPoly((*[field.N]int16)(&v[i]))...)
	}
	return out
}

func unpackVec(bs []byte, k int) ([]poly.NTTPoly, error) {
	v := make([]poly.NTTPoly, k)
	for i := 0; i < k; i++ {
		cs, err := encoding.UnpackPoly(bs[i*encoding.PolySize : (i+1)*encoding.PolySize])
		if err != nil {
			return nil, err
		}
		v[i] = poly.NTTPoly(cs)
	}
	return v, nil
}

// indcpaKeyGen derives the encryption keypair from a 32-byte seed:
// pk = t̂ ‖ rho, sk = ŝ, where t = A·s + e.
func (p Params) indcpaKeyGen(d []byte) (pkBytes, skBytes []byte) {
	g := hash.SHA3x512(d)
	rho, sigma := g[:32], g[32:]

	a := sampling.ExpandMatrix(rho, p.K, false)

	sHat := make([]poly.NTTPoly, p.K)
	eHat := make([]poly.NTTPoly, p.K)
	nonce := byte(0)
	for i := 0; i < p.K; i++ {
		s := sampling.CBD(sigma, nonce, p.Eta1)
		nonce++
		sHat[i] = s.NTT()
	}
	for i := 0; i < p.K; i++ {
		e := sampling.CBD(sigma, nonce, p.Eta1)
		nonce++
		eHat[i] = e.NTT()
	}

	tHat := make([]poly.NTTPoly, p.K)
	for i := 0; i < p.K; i++ {
		for j := 0; j < p.K; j++ {
			poly.MulAccNTT(&a[i][j], &sHat[j], &tHat[i])
		}
		tHat[i].ToMont()
		poly.AddNTT(&tHat[i], &eHat[i], &tHat[i])
		tHat[i].Reduce()
	}

	pkBytes = append(packVec(tHat), rho...)
	skBytes = packVec(sHat)
	return pkBytes, skBytes
}

// indcpaEncrypt encrypts the 32-byte message under pk with noise derived
// from coins: ct = Compress(Aᵀr + e1, du) ‖ Compress(tᵀr + e2 + msg, dv).
func (p Params) indcpaEncrypt(pkBytes, msg, coins []byte) ([]byte, error) {
	if len(pkBytes) != p.PublicKeySize() {
		return nil, encoding.ErrInvalidLength
	}
	tHat, err := unpackVec(pkBytes[:p.polyVecSize()], p.K)
	if err != nil {
		return nil, err
	}
	rho := pkBytes[p.polyVecSize():]

	at := sampling.ExpandMatrix(rho, p.K, true)

	rHat := make([]poly.NTTPoly, p.K)
	nonce := byte(0)
	for i := 0; i < p.K; i++ {
		r := sampling.CBD(coins, nonce, p.Eta1)
		nonce++
		rHat[i] = r.NTT()
	}
	e1 := make([]poly.Poly, p.K)
	for i := 0; i < p.K; i++ {
		e1[i] = sampling.CBD(coins, nonce, eta2)
		nonce++
	}
	e2 := sampling.CBD(coins, nonce, eta2)

	ct := make([]byte, 0, p.CiphertextSize())
	for i := 0; i < p.K; i++ {
		var acc poly.NTTPoly
		for j := 0; j < p.K; j++ {
			poly.MulAccNTT(&at[i][j], &rHat[j], &acc)
		}
		acc.Reduce()
		u := acc.InvNTT()
		poly.Add(&u, &e1[i], &u)
		u.Reduce()
		ct = append(ct, encoding.Compress(&u, p.DU)...)
	}

	var acc poly.NTTPoly
	for i := 0; i < p.K; i++ {
		poly.MulAccNTT(&tHat[i], &rHat[i], &acc)
	}
	acc.Reduce()
	v := acc.InvNTT()
	m := poly.FromMsg(msg)
	poly.Add(&v, &e2, &v)
	poly.Add(&v, &m, &v)
	v.Reduce()
	ct = append(ct, encoding.Compress(&v, p.DV)...)

	return ct, nil
}

// indcpaDecrypt recovers the message: m = Compress(v - sᵀu, 1).
func (p Params) indcpaDecrypt(skBytes, ct []byte) ([32]byte, error) {
	var msg [32]byte
	if len(ct) != p.CiphertextSize() {
		return msg, encoding.ErrInvalidLength
	}
	sHat, err := unpackVec(skBytes, p.K)
	if err != nil {
		return msg, err
	}

	duSize := encoding.CompressedSize(p.DU)
	var acc poly.NTTPoly
	for i := 0; i < p.K; i++ {
		u, err := encoding.Decompress(ct[i*duSize:(i+1)*duSize], p.DU)
		if err != nil {
			return msg, err
		}
		uHat := u.NTT()
		poly.MulAccNTT(&sHat[i], &uHat, &acc)
	}
	acc.Reduce()
	su := acc.InvNTT()

	v, err := encoding.Decompress(ct[p.K*duSize:], p.DV)
	if err != nil {
		return msg, err
	}
	poly.Sub(&v, &su, &v)
	v.Reduce()
	return v.ToMsg(), nil
}
