package finality

import "errors"

var (
	// ErrDataEmpty is returned by VerifyEots when submissions is empty.
	ErrDataEmpty = errors.New("finality: submissions are empty")

	// ErrInvalidBlockRange is returned by VerifyEots when atBlock falls
	// outside the epoch's [fromBlock, toBlock] range.
	ErrInvalidBlockRange = errors.New("finality: atBlock outside epoch range")

	// ErrPubRandMismatch is returned by VerifyEots when a submission's
	// Merkle proof fails against the registry's stored root — a hard
	// failure, since the caller submitted an internally inconsistent
	// record rather than merely an unconvincing one.
	ErrPubRandMismatch = errors.New("finality: pub-rand proof mismatch")
)
