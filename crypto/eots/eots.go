// Package eots implements the Extractable One-Time Signature engine: a
// Schnorr signature (crypto/schnorr) whose private key leaks if the signer
// ever reuses the same public-randomness nonce across two distinct
// messages.
package eots

import (
	"crypto/hmac"
	"crypto/sha256"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/babylonchain/finality-verifier/crypto/schnorr"
)

// PrivateRand is the per-block nonce scalar k.
type PrivateRand = secp256k1.ModNScalar

// PublicRand is the x-coordinate of k*G, the value an FP commits ahead of
// time in its Merkle batch.
type PublicRand [32]byte

// GenerateRandomness deterministically derives a (privRand, pubRand) pair
// from an FP's signing key, a chain identifier and a block height, ported
// from the reference HMAC-based generator so test and tooling code can
// produce reference commitments without touching a keyring.
func GenerateRandomness(key, chainID []byte, height uint64) (PrivateRand, PublicRand) {
	mac := hmac.New(sha256.New, key)
	mac.Write(append(sdk.Uint64ToBigEndian(height), chainID...))
	seed := mac.Sum(nil)

	var privRand secp256k1.ModNScalar
	privRand.SetByteSlice(seed)

	var R secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&privRand, &R)
	R.ToAffine()

	var pubRand PublicRand
	xb := R.X.Bytes()
	copy(pubRand[:], xb[:])

	return privRand, pubRand
}

// Sign produces an EOTS signature over m using private key d and nonce k.
// Deliberately does not normalize the parity of P=d*G or R=k*G — the
// EVM-compatible variant this engine implements disables normalization (see
// SPEC_FULL.md's resolution of the corresponding open question). P's parity
// is returned as parityP, so a key of either parity verifies; a nonce whose
// point has odd y yields a signature that Verify rejects.
func Sign(d, k *secp256k1.ModNScalar, m [32]byte) (parityP schnorr.Parity, px [32]byte, e [32]byte, s [32]byte) {
	var P secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(d, &P)
	P.ToAffine()

	px = *P.X.Bytes()
	parityP = schnorr.ParityOf(&P.Y)

	e, s = schnorr.SignReference(d, k, px, parityP, m)
	return parityP, px, e, s
}

// Verify recomputes the challenge for (P, R, m, s) and delegates to
// schnorr.Verify, additionally requiring R's y-coordinate to be even and
// R's x-coordinate to equal the committed pubRand.
func Verify(P, R *secp256k1.JacobianPoint, pubRand PublicRand, m [32]byte, s [32]byte) (bool, error) {
	rAffine := *R
	rAffine.ToAffine()

	if schnorr.ParityOf(&rAffine.Y) != schnorr.ParityEven {
		return false, nil
	}

	rx := *rAffine.X.Bytes()
	if rx != [32]byte(pubRand) {
		return false, nil
	}

	pAffine := *P
	pAffine.ToAffine()
	px := *pAffine.X.Bytes()
	parityP := schnorr.ParityOf(&pAffine.Y)

	addr := schnorr.AddrOf(R)
	e := schnorr.Challenge(addr, parityP, px, m)

	return schnorr.Verify(parityP, px, m, e, s)
}

// Extract recovers the private key d shared by two EOTS signatures over
// distinct messages m1 != m2 made with the same nonce R under public key P.
// It fails ErrIdenticalSignatures if the messages or signature scalars
// coincide, and ErrExtractionMismatch if the recovered scalar does not
// reproduce P (a defensive postcondition flagging malformed inputs).
func Extract(P, R *secp256k1.JacobianPoint, m1 [32]byte, s1 [32]byte, m2 [32]byte, s2 [32]byte) (*secp256k1.ModNScalar, error) {
	if m1 == m2 {
		return nil, ErrIdenticalSignatures
	}

	var s1Scalar, s2Scalar secp256k1.ModNScalar
	s1Scalar.SetByteSlice(s1[:])
	s2Scalar.SetByteSlice(s2[:])
	if s1Scalar.Equals(&s2Scalar) {
		return nil, ErrIdenticalSignatures
	}

	pAffine := *P
	pAffine.ToAffine()
	px := *pAffine.X.Bytes()
	parityP := schnorr.ParityOf(&pAffine.Y)
	addr := schnorr.AddrOf(R)

	e1 := schnorr.Challenge(addr, parityP, px, m1)
	e2 := schnorr.Challenge(addr, parityP, px, m2)

	var e1Scalar, e2Scalar secp256k1.ModNScalar
	e1Scalar.SetByteSlice(e1[:])
	e2Scalar.SetByteSlice(e2[:])

	s2Neg := s2Scalar
	s2Neg.Negate()
	sDiff := s1Scalar
	sDiff.Add(&s2Neg)

	e2Neg := e2Scalar
	e2Neg.Negate()
	eDiff := e1Scalar
	eDiff.Add(&e2Neg)
	if eDiff.IsZero() {
		return nil, ErrExtractionMismatch
	}
	eDiffInv := eDiff
	eDiffInv.InverseNonConst()

	var d secp256k1.ModNScalar
	d.Mul2(&sDiff, &eDiffInv)

	var dG secp256k1.JacobianPoint
	dCopy := d
	secp256k1.ScalarBaseMultNonConst(&dCopy, &dG)
	dG.ToAffine()

	if !dG.X.Equals(&pAffine.X) || !dG.Y.Equals(&pAffine.Y) {
		return nil, ErrExtractionMismatch
	}

	return &d, nil
}
