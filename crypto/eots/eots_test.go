package eots_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"

	"github.com/babylonchain/finality-verifier/crypto/eots"
	"github.com/babylonchain/finality-verifier/crypto/schnorr"
)

// evenYScalar returns a nonzero scalar whose base-point multiple has an
// even y-coordinate and an x-coordinate below HalfQ — the FPKey invariant of
// spec.md §3 that schnorr.Verify enforces via ErrInvalidPublicKey.
func evenYScalar(t *testing.T) (secp256k1.ModNScalar, secp256k1.JacobianPoint) {
	t.Helper()
	for {
		var buf [32]byte
		_, err := rand.Read(buf[:])
		require.NoError(t, err)

		var d secp256k1.ModNScalar
		if d.SetByteSlice(buf[:]) || d.IsZero() {
			continue
		}

		var P secp256k1.JacobianPoint
		secp256k1.ScalarBaseMultNonConst(&d, &P)
		P.ToAffine()

		if schnorr.ParityOf(&P.Y) != schnorr.ParityEven {
			d.Negate()
			secp256k1.ScalarBaseMultNonConst(&d, &P)
			P.ToAffine()
		}

		px := *P.X.Bytes()
		if new(big.Int).SetBytes(px[:]).Cmp(schnorr.HalfQ) >= 0 {
			continue
		}

		return d, P
	}
}

func randMsg(t *testing.T) [32]byte {
	t.Helper()
	var m [32]byte
	_, err := rand.Read(m[:])
	require.NoError(t, err)
	return m
}

// TestSignVerifyRoundTrip is the universal invariant of spec.md §8: for any
// even-y keypair and nonce, Verify accepts a freshly produced signature.
func TestSignVerifyRoundTrip(t *testing.T) {
	d, P := evenYScalar(t)
	k, R := evenYScalar(t)
	m := randMsg(t)

	_, _, _, s := eots.Sign(&d, &k, m)

	var pubRand eots.PublicRand
	xb := R.X.Bytes()
	copy(pubRand[:], xb[:])

	ok, err := eots.Verify(&P, &R, pubRand, m, s)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestVerifyRejectsOddNonce documents the deliberate non-normalization of
// the EVM-compatible EOTS variant (spec.md §4.3/§9): a nonce whose point
// has odd y is never silently flipped, so verification just fails.
func TestVerifyRejectsOddNonce(t *testing.T) {
	d, P := evenYScalar(t)

	var kBuf [32]byte
	_, err := rand.Read(kBuf[:])
	require.NoError(t, err)
	var k secp256k1.ModNScalar
	k.SetByteSlice(kBuf[:])

	var R secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&k, &R)
	R.ToAffine()
	if schnorr.ParityOf(&R.Y) == schnorr.ParityEven {
		k.Negate()
		secp256k1.ScalarBaseMultNonConst(&k, &R)
		R.ToAffine()
	}
	require.Equal(t, schnorr.ParityOdd, schnorr.ParityOf(&R.Y))

	m := randMsg(t)
	_, _, _, s := eots.Sign(&d, &k, m)

	var pubRand eots.PublicRand
	xb := R.X.Bytes()
	copy(pubRand[:], xb[:])

	ok, err := eots.Verify(&P, &R, pubRand, m, s)
	require.NoError(t, err)
	require.False(t, ok)
}

// TestExtractionLaw is spec.md §8's EOTS extraction law: reusing a nonce
// across two distinct messages leaks the private key.
func TestExtractionLaw(t *testing.T) {
	d, P := evenYScalar(t)
	k, R := evenYScalar(t)

	m1 := randMsg(t)
	m2 := randMsg(t)
	for m2 == m1 {
		m2 = randMsg(t)
	}

	_, _, _, s1 := eots.Sign(&d, &k, m1)
	_, _, _, s2 := eots.Sign(&d, &k, m2)

	extracted, err := eots.Extract(&P, &R, m1, s1, m2, s2)
	require.NoError(t, err)
	require.True(t, extracted.Equals(&d))

	var dG secp256k1.JacobianPoint
	dCopy := *extracted
	secp256k1.ScalarBaseMultNonConst(&dCopy, &dG)
	dG.ToAffine()
	require.True(t, dG.X.Equals(&P.X))
	require.True(t, dG.Y.Equals(&P.Y))
}

func TestExtractRejectsIdenticalMessages(t *testing.T) {
	d, P := evenYScalar(t)
	k, R := evenYScalar(t)
	m := randMsg(t)

	_, _, _, s := eots.Sign(&d, &k, m)

	_, err := eots.Extract(&P, &R, m, s, m, s)
	require.ErrorIs(t, err, eots.ErrIdenticalSignatures)
}

func TestGenerateRandomnessIsDeterministic(t *testing.T) {
	key := []byte("an-fp-signing-key-seed-material.")
	chainID := []byte("op-stack-l2-42069")

	priv1, pub1 := eots.GenerateRandomness(key, chainID, 100)
	priv2, pub2 := eots.GenerateRandomness(key, chainID, 100)
	require.True(t, priv1.Equals(&priv2))
	require.Equal(t, pub1, pub2)

	_, pub3 := eots.GenerateRandomness(key, chainID, 101)
	require.NotEqual(t, pub1, pub3)
}
