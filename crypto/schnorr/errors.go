package schnorr

import "errors"

var (
	// ErrInvalidPublicKey is returned when a signer's public-key x-coordinate
	// is not strictly below HalfQ.
	ErrInvalidPublicKey = errors.New("schnorr: public key x-coordinate is not below HalfQ")

	// ErrSignatureOverflow is returned when the signature scalar s is not
	// strictly below Q.
	ErrSignatureOverflow = errors.New("schnorr: signature scalar s overflows Q")

	// ErrEcRecoverInputZero is returned when the derived ecrecover input
	// scalar sp is zero.
	ErrEcRecoverInputZero = errors.New("schnorr: ecrecover input is zero")

	// ErrEcRecoverOutputZero is returned when ecrecover recovers the zero
	// address, or the underlying recovery fails outright.
	ErrEcRecoverOutputZero = errors.New("schnorr: ecrecover recovered the zero address")

	// ErrInvalidSignatureLength is returned by Unpack when the packed
	// proof-of-possession is not exactly 160 bytes.
	ErrInvalidSignatureLength = errors.New("schnorr: packed signature has the wrong length")
)
