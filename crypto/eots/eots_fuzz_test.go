package eots_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/babylonchain/finality-verifier/crypto/eots"
	"github.com/babylonchain/finality-verifier/internal/testutil"
)

// FuzzSignVerifyRoundTrip exercises Sign/Verify over many random
// even-y keypair/nonce/message combinations.
func FuzzSignVerifyRoundTrip(f *testing.F) {
	testutil.AddRandomSeedsToFuzzer(f, 10)
	f.Fuzz(func(t *testing.T, seed int64) {
		r := rand.New(rand.NewSource(seed))

		d, P := testutil.GenEvenYKeyPair(r)
		k, R := testutil.GenEvenYKeyPair(r)
		m := testutil.GenRandomByteArray32(r)

		_, _, _, s := eots.Sign(&d, &k, m)

		var pubRand eots.PublicRand
		xb := R.X.Bytes()
		copy(pubRand[:], xb[:])

		ok, err := eots.Verify(&P, &R, pubRand, m, s)
		require.NoError(t, err)
		require.True(t, ok)
	})
}
