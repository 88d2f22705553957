package pubrand

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBlockRange is returned by Commit when the epoch has already
	// ended at the oracle's current L2 block.
	ErrInvalidBlockRange = errors.New("pubrand: invalid block range")

	// ErrDuplicateBatch is returned by Commit when (epoch, fpKey) already
	// holds a committed root.
	ErrDuplicateBatch = errors.New("pubrand: batch already committed for epoch and key")

	// ErrInvalidProofOfPossession is returned by Commit when fpKey's prefix
	// is not a compressed-point prefix, when the PoP's (parity, Px) does not
	// match fpKey, or when the PoP's Schnorr signature fails to verify.
	ErrInvalidProofOfPossession = errors.New("pubrand: invalid proof of possession")
)

// MessageMismatchError is returned by Commit when the PoP's signed message
// does not equal the canonical commit preimage.
type MessageMismatchError struct {
	Expected [32]byte
	Actual   [32]byte
}

func (e *MessageMismatchError) Error() string {
	return fmt.Sprintf("pubrand: message mismatch: expected %x, got %x", e.Expected, e.Actual)
}

func (e *MessageMismatchError) Unwrap() error {
	return errMessageMismatch
}

var errMessageMismatch = errors.New("pubrand: message mismatch")
