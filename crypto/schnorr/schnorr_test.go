package schnorr_test

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"

	"github.com/babylonchain/finality-verifier/crypto/schnorr"
)

// evenYKeyPair returns a private scalar and its public point with an even
// y-coordinate, negating the scalar when necessary the way §4.2's Sign
// note describes (test-only normalization, never done inside the package),
// and with an x-coordinate below HalfQ, the FPKey invariant of spec.md §3
// that schnorr.Verify also enforces via ErrInvalidPublicKey.
func evenYKeyPair(t *testing.T) (secp256k1.ModNScalar, secp256k1.JacobianPoint) {
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

func TestSignThenVerify(t *testing.T) {
	d, P := evenYKeyPair(t)
	k, R := evenYKeyPair(t)
	m := randMsg(t)

	px := *P.X.Bytes()
	parityP := schnorr.ParityOf(&P.Y)

	e, s := schnorr.SignReference(&d, &k, px, parityP, m)
	_ = R

	ok, err := schnorr.Verify(parityP, px, m, e, s)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRejectsBitFlips(t *testing.T) {
	d, P := evenYKeyPair(t)
	k, _ := evenYKeyPair(t)
	m := randMsg(t)

	px := *P.X.Bytes()
	parityP := schnorr.ParityOf(&P.Y)

	e, s := schnorr.SignReference(&d, &k, px, parityP, m)

	ok, err := schnorr.Verify(parityP, px, m, e, s)
	require.NoError(t, err)
	require.True(t, ok)

	flippedM := m
	flippedM[0] ^= 0x01
	ok, err = schnorr.Verify(parityP, px, flippedM, e, s)
	require.NoError(t, err)
	require.False(t, ok)

	flippedE := e
	flippedE[0] ^= 0x01
	ok, err = schnorr.Verify(parityP, px, m, flippedE, s)
	require.NoError(t, err)
	require.False(t, ok)

	flippedS := s
	flippedS[31] ^= 0x01
	ok, err = schnorr.Verify(parityP, px, m, e, flippedS)
	require.NoError(t, err)
	require.False(t, ok)

	otherParity := schnorr.ParityOdd
	if parityP == schnorr.ParityOdd {
		otherParity = schnorr.ParityEven
	}
	ok, err = schnorr.Verify(otherParity, px, m, e, s)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyPublicKeyBoundary(t *testing.T) {
	m := randMsg(t)
	var e, s [32]byte

	justUnder := new(big.Int).Sub(schnorr.HalfQ, big.NewInt(1))
	var px [32]byte
	justUnder.FillBytes(px[:])
	_, err := schnorr.Verify(schnorr.ParityEven, px, m, e, s)
	require.NotErrorIs(t, err, schnorr.ErrInvalidPublicKey)

	schnorr.HalfQ.FillBytes(px[:])
	_, err = schnorr.Verify(schnorr.ParityEven, px, m, e, s)
	require.ErrorIs(t, err, schnorr.ErrInvalidPublicKey)
}

func TestVerifySignatureOverflow(t *testing.T) {
	d, P := evenYKeyPair(t)
	px := *P.X.Bytes()
	parityP := schnorr.ParityOf(&P.Y)
	m := randMsg(t)
	_ = d

	var e [32]byte
	var sOverflow [32]byte
	schnorr.Q.FillBytes(sOverflow[:])

	_, err := schnorr.Verify(parityP, px, m, e, sOverflow)
	require.ErrorIs(t, err, schnorr.ErrSignatureOverflow)

	var sMax [32]byte
	justUnderQ := new(big.Int).Sub(schnorr.Q, big.NewInt(1))
	justUnderQ.FillBytes(sMax[:])
	_, err = schnorr.Verify(parityP, px, m, e, sMax)
	require.NotErrorIs(t, err, schnorr.ErrSignatureOverflow)
}

func FuzzPackUnpackRoundTrip(f *testing.F) {
	f.Add(int64(1))
	f.Add(int64(42))
	f.Fuzz(func(t *testing.T, seed int64) {
		r := mathrand.New(mathrand.NewSource(seed))

		var px, m, e, s [32]byte
		for _, b := range [][]byte{px[:], m[:], e[:], s[:]} {
			r.Read(b)
		}
		parity := schnorr.ParityEven
		if r.Intn(2) == 1 {
			parity = schnorr.ParityOdd
		}

		packed := schnorr.Pack(parity, px, m, e, s)
		require.Len(t, packed, 160)

		gotParity, gotPx, gotM, gotE, gotS, err := schnorr.Unpack(packed)
		require.NoError(t, err)
		require.Equal(t, parity, gotParity)
		require.Equal(t, px, gotPx)
		require.Equal(t, m, gotM)
		require.Equal(t, e, gotE)
		require.Equal(t, s, gotS)

		require.Equal(t, packed, schnorr.Pack(gotParity, gotPx, gotM, gotE, gotS))
	})
}

func TestUnpackRejectsWrongLength(t *testing.T) {
	_, _, _, _, _, err := schnorr.Unpack(make([]byte, 159))
	require.ErrorIs(t, err, schnorr.ErrInvalidSignatureLength)

	var lenErr *schnorr.InvalidLengthError
	require.ErrorAs(t, err, &lenErr)
	require.Equal(t, 159, lenErr.Got)
}
