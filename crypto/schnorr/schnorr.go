// Package schnorr implements a Schnorr-over-secp256k1 verification kernel
// compatible with an EVM-style ecrecover precompile: the commitment is the
// non-standard e = Keccak256(addr(R) || parity || Px || m), and signature
// verification is done by turning the Schnorr equation into an ECDSA
// recovery problem (r=Px, s=ep, hash=sp) the way the EVM "Schnorr via
// ecrecover" trick does.
package schnorr

import (
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/crypto"
)

// Q is the order of the secp256k1 group.
var Q, _ = new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)

// HalfQ is (Q>>1)+1, the boundary Verify requires a signer's public-key
// x-coordinate to stay under, avoiding the recovery ambiguity that a
// full-range x would allow.
var HalfQ = new(big.Int).Add(new(big.Int).Rsh(Q, 1), big.NewInt(1))

// Parity is the EVM-style recovery id attached to a point: 27 for an even
// y-coordinate, 28 for odd. These are the only two legal values.
type Parity byte

const (
	ParityEven Parity = 27
	ParityOdd  Parity = 28
)

// Addr is the low-20-byte EVM-style address derived from a curve point.
type Addr [20]byte

// IsZero reports whether the address is the all-zero address, which
// ecrecover returns on a degenerate recovery.
func (a Addr) IsZero() bool {
	return a == Addr{}
}

// ParityOf returns the EVM-style recovery id for a point's y-coordinate.
func ParityOf(y *secp256k1.FieldVal) Parity {
	yc := *y
	yc.Normalize()
	if yc.IsOdd() {
		return ParityOdd
	}
	return ParityEven
}

// AddrOf returns addr(R) = Keccak256(uncompressed(R)[1:])[12:], the
// EVM-style address of a curve point.
func AddrOf(R *secp256k1.JacobianPoint) Addr {
	affine := *R
	affine.ToAffine()

	var buf [64]byte
	xb := affine.X.Bytes()
	yb := affine.Y.Bytes()
	copy(buf[:32], xb[:])
	copy(buf[32:], yb[:])

	digest := crypto.Keccak256(buf[:])

	var addr Addr
	copy(addr[:], digest[12:])
	return addr
}

func scalarFromBytes(b [32]byte) (secp256k1.ModNScalar, bool) {
	var s secp256k1.ModNScalar
	overflow := s.SetByteSlice(b[:])
	return s, overflow
}

func negated(s *secp256k1.ModNScalar) secp256k1.ModNScalar {
	n := *s
	n.Negate()
	return n
}

// Challenge computes e = Keccak256(addr || parity || Px || m) mod Q, the
// non-standard commitment of §4.1/§6.5. It is exported so crypto/eots can
// recompute the same challenge from a known nonce point R before delegating
// to Verify's independent ecrecover-based recomputation.
func Challenge(addr Addr, parity Parity, px, m [32]byte) [32]byte {
	return challenge(addr, parity, px, m)
}

// challenge computes e = Keccak256(addr || parity || Px || m) mod Q.
func challenge(addr Addr, parity Parity, px, m [32]byte) [32]byte {
	buf := make([]byte, 0, 20+1+32+32)
	buf = append(buf, addr[:]...)
	buf = append(buf, byte(parity))
	buf = append(buf, px[:]...)
	buf = append(buf, m[:]...)

	digest := crypto.Keccak256(buf)

	var e secp256k1.ModNScalar
	e.SetByteSlice(digest)
	return e.Bytes()
}

// recoverAddress reproduces the semantics of the EVM ecrecover precompile
// for the tuple (r=px, s=ep, v=parity, hash=sp): it fails if sp is zero or
// the recovered address is the zero address.
func recoverAddress(sp *secp256k1.ModNScalar, v Parity, px, ep *secp256k1.ModNScalar) (Addr, error) {
	if sp.IsZero() {
		return Addr{}, ErrEcRecoverInputZero
	}

	hash := sp.Bytes()
	r := px.Bytes()
	s := ep.Bytes()

	var sig [65]byte
	copy(sig[0:32], r[:])
	copy(sig[32:64], s[:])
	sig[64] = byte(v) - 27

	pubKey, err := crypto.Ecrecover(hash[:], sig[:])
	if err != nil {
		return Addr{}, ErrEcRecoverOutputZero
	}

	digest := crypto.Keccak256(pubKey[1:])
	var addr Addr
	copy(addr[:], digest[12:])
	if addr.IsZero() {
		return Addr{}, ErrEcRecoverOutputZero
	}

	return addr, nil
}

// Verify checks a packed Schnorr signature (parity, Px, m, e, s) under the
// EVM-compatible equation of §4.2: it recovers Z via recoverAddress(sp,
// parity, Px, ep) and accepts iff e == Keccak256(Z || parity || Px || m).
func Verify(parity Parity, px, m, e, s [32]byte) (bool, error) {
	pxBig := new(big.Int).SetBytes(px[:])
	if pxBig.Cmp(HalfQ) >= 0 {
		return false, ErrInvalidPublicKey
	}

	sScalar, overflow := scalarFromBytes(s)
	if overflow {
		return false, ErrSignatureOverflow
	}

	eScalar, _ := scalarFromBytes(e)
	pxScalar, _ := scalarFromBytes(px)

	var sp secp256k1.ModNScalar
	sp.Mul2(&sScalar, &pxScalar)
	sp = negated(&sp)

	var ep secp256k1.ModNScalar
	ep.Mul2(&eScalar, &pxScalar)
	ep = negated(&ep)

	addr, err := recoverAddress(&sp, parity, &pxScalar, &ep)
	if err != nil {
		return false, err
	}

	recomputed := challenge(addr, parity, px, m)
	return recomputed == e, nil
}

// SignReference implements the reference (test/tooling-only) Schnorr
// signing procedure of §4.2. It does not normalize the parity of P or R —
// see crypto/eots, which disables normalization deliberately for the
// EVM-compatible EOTS variant. Verify accepts the result for either parity:
// parityP travels in the signature, and the challenge commits to addr(R),
// which is computed from R as it is.
func SignReference(d, k *secp256k1.ModNScalar, px [32]byte, parityP Parity, m [32]byte) (e, s [32]byte) {
	kCopy := *k
	var R secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&kCopy, &R)

	addr := AddrOf(&R)
	e = challenge(addr, parityP, px, m)

	var eScalar secp256k1.ModNScalar
	eScalar.SetByteSlice(e[:])

	dCopy := *d
	var sScalar secp256k1.ModNScalar
	sScalar.Mul2(&eScalar, &dCopy)
	sScalar.Add(&kCopy)

	return e, sScalar.Bytes()
}

// Pack encodes (parity, Px, m, e, s) into the 160-byte host tuple layout of
// §6.2: five right-aligned 32-byte words, parity first.
func Pack(parity Parity, px, m, e, s [32]byte) []byte {
	out := make([]byte, 160)
	out[31] = byte(parity)
	copy(out[32:64], px[:])
	copy(out[64:96], m[:])
	copy(out[96:128], e[:])
	copy(out[128:160], s[:])
	return out
}

// Unpack decodes a 160-byte packed signature. It rejects any other length,
// reporting the actual length rather than truncating it into a uint8 (see
// SPEC_FULL.md's resolution of the corresponding open question).
func Unpack(data []byte) (parity Parity, px, m, e, s [32]byte, err error) {
	if len(data) != 160 {
		return 0, px, m, e, s, &InvalidLengthError{Got: len(data)}
	}

	parity = Parity(data[31])
	copy(px[:], data[32:64])
	copy(m[:], data[64:96])
	copy(e[:], data[96:128])
	copy(s[:], data[128:160])
	return parity, px, m, e, s, nil
}

// InvalidLengthError wraps ErrInvalidSignatureLength with the actual length
// observed, so callers don't lose precision the way a uint8 report would.
type InvalidLengthError struct {
	Got int
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("%s: expected 160 bytes, got %d", ErrInvalidSignatureLength.Error(), e.Got)
}

func (e *InvalidLengthError) Unwrap() error {
	return ErrInvalidSignatureLength
}
