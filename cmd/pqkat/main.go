// Command pqkat generates deterministic known-answer-test records for the
// KEM and the signature scheme. Per-record seeds are drawn from an AES-256
// CTR-DRBG the way the NIST request files are built, so the output is stable
// across runs and implementations.
package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"pqcrystals/pkg/dilithium"
	"pqcrystals/pkg/drbg"
	"pqcrystals/pkg/kyber"
)

var kemSets = map[string]kyber.Params{
	"kyber512":  kyber.Kyber512,
	"kyber768":  kyber.Kyber768,
	"kyber1024": kyber.Kyber1024,
}

var sigSets = map[string]dilithium.Params{
	"dilithium2": dilithium.Dilithium2,
	"dilithium3": dilithium.Dilithium3,
	"dilithium5": dilithium.Dilithium5,
}

func main() {
	scheme := flag.String("scheme", "kyber768", "parameter set: kyber512|kyber768|kyber1024|dilithium2|dilithium3|dilithium5")
	count := flag.Int("count", 20, "number of KAT records")
	entropyHex := flag.String("entropy", "", "48-byte hex entropy input for the master DRBG (default 00..2f)")
	out := flag.String("out", "", "output file (default stdout)")
	flag.Parse()

	entropy := make([]byte, drbg.SeedLen)
	if *entropyHex != "" {
		b, err := hex.DecodeString(*entropyHex)
		if err != nil || len(b) != drbg.SeedLen {
			log.Fatalf("entropy must be %d hex bytes", drbg.SeedLen)
		}
		copy(entropy, b)
	} else {
		for i := range entropy {
			entropy[i] = byte(i)
		}
	}

	w := bufio.NewWriter(os.Stdout)
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("create %s: %v", *out, err)
		}
		defer f.Close()
		w = bufio.NewWriter(f)
	}
	defer w.Flush()

	master, err := drbg.New(entropy)
	if err != nil {
		log.Fatal(err)
	}

	// one 48-byte record seed per count, all drawn up front, as the
	// request-file generators do
	seeds := make([][]byte, *count)
	for i := range seeds {
		seeds[i] = make([]byte, drbg.SeedLen)
		master.Read(seeds[i])
	}

	switch {
	case kemSets[*scheme].K != 0:
		genKEM(w, kemSets[*scheme], seeds)
	case sigSets[*scheme].K != 0:
		genSig(w, sigSets[*scheme], seeds)
	default:
		log.Fatalf("unknown scheme %q", *scheme)
	}
}

func genKEM(w *bufio.Writer, p kyber.Params, seeds [][]byte) {
	fmt.Fprintf(w, "# %s\n\n", p.Name)
	for i, seed := range seeds {
		rng, err := drbg.New(seed)
		if err != nil {
			log.Fatal(err)
		}
		// the published response files draw d, z and the encapsulation
		// seed as three separate calls, so pk/sk/ct/ss line up with them
		d := make([]byte, kyber.SeedSize)
		z := make([]byte, kyber.SeedSize)
		m := make([]byte, kyber.SeedSize)
		rng.Read(d)
		rng.Read(z)
		pk, sk, err := p.NewKeyFromSeed(d, z)
		if err != nil {
			log.Fatalf("record %d: keygen: %v", i, err)
		}
		rng.Read(m)
		ct, ss, err := p.EncapsulateDeterministic(pk, m)
		if err != nil {
			log.Fatalf("record %d: encaps: %v", i, err)
		}
		got, err := p.Decapsulate(sk, ct)
		if err != nil {
			log.Fatalf("record %d: decaps: %v", i, err)
		}
		if !equal(ss, got) {
			log.Fatalf("record %d: shared secrets disagree", i)
		}

		fmt.Fprintf(w, "count = %d\n", i)
		fmt.Fprintf(w, "seed = %x\n", seed)
		fmt.Fprintf(w, "pk = %x\n", pk)
		fmt.Fprintf(w, "sk = %x\n", sk)
		fmt.Fprintf(w, "ct = %x\n", ct)
		fmt.Fprintf(w, "ss = %x\n\n", ss)
	}
}

func genSig(w *bufio.Writer, p dilithium.Params, seeds [][]byte) {
	fmt.Fprintf(w, "# %s\n\n", p.Name)
	for i, recSeed := range seeds {
		rng, err := drbg.New(recSeed)
		if err != nil {
			log.Fatal(err)
		}
		seed := make([]byte, dilithium.SeedSize)
		rng.Read(seed)
		msg := make([]byte, 33*(i+1))
		rng.Read(msg)

		pk, sk, err := p.KeyGen(seed)
		if err != nil {
			log.Fatalf("record %d: keygen: %v", i, err)
		}
		sig, err := p.Sign(sk, msg)
		if err != nil {
			log.Fatalf("record %d: sign: %v", i, err)
		}
		if !p.Verify(pk, msg, sig) {
			log.Fatalf("record %d: verification failed", i)
		}

		fmt.Fprintf(w, "count = %d\n", i)
		fmt.Fprintf(w, "seed = %x\n", recSeed)
		fmt.Fprintf(w, "mlen = %d\n", len(msg))
		fmt.Fprintf(w, "msg = %x\n", msg)
		fmt.Fprintf(w, "pk = %x\n", pk)
		fmt.Fprintf(w, "sk = %x\n", sk)
		fmt.Fprintf(w, "sig = %x\n\n", sig)
	}
}

func equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
