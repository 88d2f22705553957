// Package testutil holds random-data generators for the crypto/eots fuzz
// tests.
package testutil

import (
	"math/big"
	"math/rand"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/babylonchain/finality-verifier/crypto/schnorr"
)

// GenRandomByteArray fills a length-byte slice from r.
func GenRandomByteArray(r *rand.Rand, length uint64) []byte {
	buf := make([]byte, length)
	r.Read(buf)
	return buf
}

// GenRandomByteArray32 is GenRandomByteArray specialized to the 32-byte
// arrays used throughout as message/root/pub-rand values.
func GenRandomByteArray32(r *rand.Rand) [32]byte {
	var out [32]byte
	r.Read(out[:])
	return out
}

// AddRandomSeedsToFuzzer seeds f with num time-derived int64s, mirroring
// the pack the rest of this repo's fuzz tests draw from.
func AddRandomSeedsToFuzzer(f *testing.F, num uint) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := uint(0); i < num; i++ {
		f.Add(r.Int63())
	}
}

// GenEvenYKeyPair draws scalars from r until it finds one whose base-point
// multiple has an even y-coordinate and an x-coordinate below HalfQ — the
// precondition every EVM-compatible Schnorr/EOTS key and nonce must
// satisfy (spec.md §3's FPKey invariant, enforced by schnorr.Verify via
// ErrInvalidPublicKey).
func GenEvenYKeyPair(r *rand.Rand) (secp256k1.ModNScalar, secp256k1.JacobianPoint) {
	for {
		buf := GenRandomByteArray(r, 32)

		var d secp256k1.ModNScalar
		if d.SetByteSlice(buf) || d.IsZero() {
			continue
		}

		var P secp256k1.JacobianPoint
		secp256k1.ScalarBaseMultNonConst(&d, &P)
		P.ToAffine()

		if schnorr.ParityOf(&P.Y) != schnorr.ParityEven {
			continue
		}

		px := *P.X.Bytes()
		if new(big.Int).SetBytes(px[:]).Cmp(schnorr.HalfQ) >= 0 {
			continue
		}

		return d, P
	}
}
